// Package session drives the embedded meeting lifecycle: locate the host
// container, sign credentials, initialize and join the SDK client, keep the
// surface fitted, and tear everything down unconditionally on every exit
// path.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/embedkit/zoom-embed/pkg/config"
	"github.com/embedkit/zoom-embed/pkg/dom"
	"github.com/embedkit/zoom-embed/pkg/grid"
	"github.com/embedkit/zoom-embed/pkg/layout"
	"github.com/embedkit/zoom-embed/pkg/log"
	"github.com/embedkit/zoom-embed/pkg/sdk"
	"github.com/embedkit/zoom-embed/pkg/signer"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateJoining
	StateActive
	StateLeaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateActive:
		return "active"
	case StateLeaving:
		return "leaving"
	default:
		return "unknown"
	}
}

// StartParams carries everything needed to join one session.
type StartParams struct {
	SessionID     string // human-entered, separators tolerated
	Secret        string
	UserName      string
	ClientKey     string
	Customization map[string]interface{} // optional display overrides
}

// Controller owns the single live client handle and serializes every
// state-changing sequence behind one mutex: two overlapping join/leave
// sequences would corrupt the shared handle.
type Controller struct {
	mu      sync.Mutex
	cfg     config.SessionConfig
	factory sdk.Factory
	doc     *dom.Document
	window  *dom.Window
	signer  *signer.Signer
	grid    *grid.Compositor
	bus     *sdk.EventBus

	client sdk.Client
	state  State
	scaler *layout.Scaler
	subs   []*sdk.Subscription
}

func NewController(factory sdk.Factory, doc *dom.Document, window *dom.Window, gridComp *grid.Compositor, cfg config.SessionConfig) *Controller {
	return &Controller{
		cfg:     cfg,
		factory: factory,
		doc:     doc,
		window:  window,
		signer:  signer.New(),
		grid:    gridComp,
		bus:     sdk.NewEventBus(),
	}
}

// SetSigner replaces the credential signer, mainly to inject a fixed clock.
func (c *Controller) SetSigner(s *signer.Signer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signer = s
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Events is a stable bus re-emitting the active client's events. It
// survives client replacement across joins, so observers subscribe once.
func (c *Controller) Events() *sdk.EventBus {
	return c.bus
}

// Participants returns the active roster, empty when no session is live.
func (c *Controller) Participants() []sdk.Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil || c.state != StateActive {
		return nil
	}
	return c.client.Participants()
}

// GridEnabled reports whether grid mode is on.
func (c *Controller) GridEnabled() bool {
	return c.grid.Enabled()
}

// SetGridMode toggles the custom participant grid. No-op without an active
// client.
func (c *Controller) SetGridMode(enabled bool) {
	c.grid.Toggle(enabled)
}

// StartSession joins a session. The full leave-sequence always runs first:
// join is never additive, which guarantees at most one live handle and
// clears any stale state from earlier attempts. The error return is for the
// caller's retry decision; the controller itself never retries a join.
func (c *Controller) StartSession(ctx context.Context, p StartParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.leaveSequence(ctx)

	if c.client == nil {
		c.client = c.factory.CreateClient()
	}
	c.state = StateJoining

	container, ok := c.locateContainer(ctx)
	if !ok {
		log.Errorf("Meeting container %q not found; aborting join", dom.ContainerID)
		c.state = StateIdle
		return ErrContainerNotFound
	}

	container.Clear()
	container.Show()

	token, err := c.signer.Sign(p.SessionID, p.Secret, p.ClientKey)
	if err != nil {
		log.Errorf("Failed to sign session token: %v", err)
		c.leaveSequence(ctx)
		return fmt.Errorf("sign session token: %w", err)
	}
	sessionNumber, _ := signer.NormalizeSessionID(p.SessionID)

	customization := MergeCustomization(DefaultCustomization(), p.Customization)
	if err := c.client.Init(ctx, container, sdk.InitOptions{
		Language:      DefaultLanguage,
		Customization: customization,
	}); err != nil {
		log.Errorf("SDK init failed: %v", err)
		c.leaveSequence(ctx)
		return fmt.Errorf("init client: %w", err)
	}

	if err := c.client.Join(ctx, sdk.JoinParams{
		Token:     token,
		ClientKey: strings.TrimSpace(p.ClientKey),
		SessionID: sessionNumber,
		Secret:    p.Secret,
		UserName:  p.UserName,
	}); err != nil {
		log.Errorf("SDK join failed: %v", err)
		c.leaveSequence(ctx)
		return fmt.Errorf("join session: %w", err)
	}

	c.injectStyleOverrides()

	c.scaler = layout.NewScaler(container, c.client.Root())
	c.scaler.Attach(c.window)

	c.watchClient(c.client, c.scaler)
	c.grid.Bind(c.client)

	c.state = StateActive
	log.Infof("Joined session %d as %q", sessionNumber, p.UserName)
	return nil
}

// EndSession leaves the session and tears everything down. It never fails;
// when no session is active it makes no SDK calls at all.
func (c *Controller) EndSession(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaveSequence(ctx)
}

// leaveSequence is the unconditional teardown path. Every step sits in its
// own failure boundary so one failing step never blocks the next; the final
// container wipe guarantees no stale audio or video survives even if the
// SDK's own leave/destroy silently failed. Callers hold c.mu.
func (c *Controller) leaveSequence(ctx context.Context) {
	if c.client != nil {
		c.state = StateLeaving

		client := c.client
		if err := runWithDeadline(c.cfg.LeaveDeadline, func() error {
			return client.Leave(ctx)
		}); err != nil {
			log.Warnf("SDK leave did not complete cleanly: %v", err)
		}

		if err := c.factory.DestroyClient(c.client); err != nil {
			log.Warnf("Failed to destroy client instance: %v", err)
		}
		c.client = nil
	}

	for _, sub := range c.subs {
		sub.Cancel()
	}
	c.subs = nil

	if c.scaler != nil {
		c.scaler.Detach()
		c.scaler = nil
	}

	if container, ok := dom.LocateContainer(c.doc.AllScopes()); ok {
		container.Clear()
		container.Hide()
	}

	c.grid.Release()
	c.state = StateIdle
}

// locateContainer looks for the meeting container across the top-level
// document and every embedded view: once synchronously, then on a fixed
// retry schedule while the host may still be laying out.
func (c *Controller) locateContainer(ctx context.Context) (*dom.Element, bool) {
	scope := c.doc.AllScopes()
	if el, ok := dom.LocateContainer(scope); ok {
		return el, true
	}

	for attempt := 0; attempt < c.cfg.LocateAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(c.cfg.LocateInterval):
		}
		if el, ok := dom.LocateContainer(scope); ok {
			return el, true
		}
	}
	return nil, false
}

// watchClient forwards the client's events onto the controller bus and
// reacts to involuntary closure. The closed-handler deliberately leaves the
// client handle and state alone: the next join's leave-sequence is safe to
// run again over whatever remains.
func (c *Controller) watchClient(client sdk.Client, scaler *layout.Scaler) {
	events := client.Events()

	for _, kind := range []sdk.EventKind{sdk.ConnectionChanged, sdk.ParticipantAdded, sdk.ParticipantRemoved, sdk.ParticipantUpdated} {
		c.subs = append(c.subs, events.On(kind, func(ev sdk.Event) {
			c.bus.Emit(ev)
		}))
	}

	doc := c.doc
	c.subs = append(c.subs, events.On(sdk.ConnectionChanged, func(ev sdk.Event) {
		if ev.State != sdk.StateClosed {
			return
		}
		log.Warnf("Connection closed by server; hiding meeting surface")
		if container, ok := dom.LocateContainer(doc.AllScopes()); ok {
			container.Clear()
			container.Hide()
		}
		scaler.Detach()
	}))
}

// injectStyleOverrides installs the one-time global style block for popup
// centering and control-bar sizing. Idempotent by element id.
func (c *Controller) injectStyleOverrides() {
	if _, ok := c.doc.FindByID(dom.StyleOverrideID); ok {
		return
	}
	style := dom.NewElement("style")
	style.SetID(dom.StyleOverrideID)
	style.SetText(styleOverrideCSS)
	c.doc.Body().AppendChild(style)
}

const styleOverrideCSS = `
.zm-modal, .zm-popup {
  left: 50% !important;
  top: 50% !important;
  transform: translate(-50%, -50%) !important;
}
#wc-footer, .meeting-control-bar {
  height: 50px !important;
  min-height: 50px !important;
}
`
