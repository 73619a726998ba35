// Package simsdk is an in-memory implementation of the sdk interfaces. It
// backs local development of the embed controller and the lifecycle tests,
// with hooks for injecting the failure modes the real SDK exhibits.
package simsdk

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/embedkit/zoom-embed/pkg/dom"
	"github.com/embedkit/zoom-embed/pkg/sdk"
)

var (
	ErrNotInitialized    = errors.New("client is not initialized")
	ErrNotJoined         = errors.New("client has not joined a session")
	ErrDestroyed         = errors.New("client instance was destroyed")
	ErrStreamUnavailable = errors.New("media stream is not available yet")
)

// Client simulates the SDK's connection object.
type Client struct {
	// Failure injection. Set before handing the client to the controller.
	InitErr           error
	JoinErr           error
	LeaveErr          error
	LeaveDelay        time.Duration // simulates a stalling leave call
	StreamUnavailable bool
	SeedParticipants  []sdk.Participant // roster established at join

	mu           sync.Mutex
	bus          *sdk.EventBus
	stream       *Stream
	container    *dom.Element
	root         *dom.Element
	joined       bool
	destroyed    bool
	participants []sdk.Participant
	joinParams   sdk.JoinParams

	initCalls  int
	joinCalls  int
	leaveCalls int
}

func NewClient() *Client {
	return &Client{
		bus:    sdk.NewEventBus(),
		stream: NewStream(),
	}
}

func (c *Client) Init(ctx context.Context, container *dom.Element, opts sdk.InitOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.initCalls++
	if c.destroyed {
		return ErrDestroyed
	}
	if c.InitErr != nil {
		return c.InitErr
	}

	root := dom.NewElement("div")
	root.SetDataset("sdk-root", "true")
	width, height := viewSize(opts.Customization)
	root.SetMeasuredSize(width, height)
	container.AppendChild(root)

	c.container = container
	c.root = root
	return nil
}

// viewSize reads video.viewSizes.default out of the customization block,
// falling back to the SDK's stock surface size.
func viewSize(customization map[string]interface{}) (int, int) {
	width, height := 960, 540
	video, _ := customization["video"].(map[string]interface{})
	sizes, _ := video["viewSizes"].(map[string]interface{})
	def, _ := sizes["default"].(map[string]interface{})
	if w, ok := def["width"].(int); ok {
		width = w
	}
	if h, ok := def["height"].(int); ok {
		height = h
	}
	return width, height
}

func (c *Client) Join(ctx context.Context, params sdk.JoinParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.joinCalls++
	if c.destroyed {
		return ErrDestroyed
	}
	if c.root == nil {
		return ErrNotInitialized
	}
	if c.JoinErr != nil {
		return c.JoinErr
	}

	c.joined = true
	c.joinParams = params
	c.participants = append([]sdk.Participant(nil), c.SeedParticipants...)
	return nil
}

func (c *Client) Leave(ctx context.Context) error {
	c.mu.Lock()
	c.leaveCalls++
	delay := c.LeaveDelay
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LeaveErr != nil {
		return c.LeaveErr
	}
	c.joined = false
	return nil
}

func (c *Client) Root() *dom.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

func (c *Client) Events() *sdk.EventBus {
	return c.bus
}

func (c *Client) MediaStream() (sdk.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined || c.StreamUnavailable {
		return nil, ErrStreamUnavailable
	}
	return c.stream, nil
}

func (c *Client) Participants() []sdk.Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]sdk.Participant, len(c.participants))
	copy(out, c.participants)
	return out
}

// AddParticipant adds a participant to the roster and fires user-added.
func (c *Client) AddParticipant(p sdk.Participant) {
	c.mu.Lock()
	c.participants = append(c.participants, p)
	c.mu.Unlock()
	c.bus.Emit(sdk.Event{Kind: sdk.ParticipantAdded, Participant: p})
}

// RemoveParticipant drops a participant and fires user-removed.
func (c *Client) RemoveParticipant(id uint64) {
	var removed sdk.Participant
	c.mu.Lock()
	kept := c.participants[:0]
	for _, p := range c.participants {
		if p.ID == id {
			removed = p
			continue
		}
		kept = append(kept, p)
	}
	c.participants = kept
	c.mu.Unlock()
	c.bus.Emit(sdk.Event{Kind: sdk.ParticipantRemoved, Participant: removed})
}

// UpdateParticipant replaces a roster entry and fires user-updated.
func (c *Client) UpdateParticipant(p sdk.Participant) {
	c.mu.Lock()
	for i := range c.participants {
		if c.participants[i].ID == p.ID {
			c.participants[i] = p
		}
	}
	c.mu.Unlock()
	c.bus.Emit(sdk.Event{Kind: sdk.ParticipantUpdated, Participant: p})
}

// SetConnectionState fires a connection-change event.
func (c *Client) SetConnectionState(state sdk.ConnectionState) {
	c.bus.Emit(sdk.Event{Kind: sdk.ConnectionChanged, State: state})
}

// Stream returns the simulated media stream for inspection in tests.
func (c *Client) Stream() *Stream {
	return c.stream
}

func (c *Client) Joined() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joined
}

func (c *Client) JoinParams() sdk.JoinParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joinParams
}

func (c *Client) InitCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initCalls
}

func (c *Client) JoinCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joinCalls
}

func (c *Client) LeaveCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leaveCalls
}

func (c *Client) destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	c.joined = false
}
