// Package grid renders a custom per-participant canvas grid in place of the
// SDK's native compositing surface.
package grid

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/embedkit/zoom-embed/pkg/config"
	"github.com/embedkit/zoom-embed/pkg/dom"
	"github.com/embedkit/zoom-embed/pkg/log"
	"github.com/embedkit/zoom-embed/pkg/sdk"
)

// Compositor owns the grid overlay, its canvas-to-participant bindings, and
// the two refresh triggers (poll timer and participant events). All entry
// points are safe for concurrent and redundant invocation.
type Compositor struct {
	mu       sync.Mutex
	cfg      config.GridConfig
	doc      *dom.Document
	client   sdk.Client
	enabled  bool
	overlay  *dom.Element
	subs     []*sdk.Subscription
	stopPoll chan struct{}
}

func NewCompositor(doc *dom.Document, cfg config.GridConfig) *Compositor {
	return &Compositor{doc: doc, cfg: cfg}
}

// Bind attaches the compositor to the active client. Called by the session
// controller after a successful join.
func (g *Compositor) Bind(client sdk.Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.client = client
}

// Release disables the grid if active and drops the client binding. Called
// from the leave-sequence; a left session cannot have a meaningful grid.
func (g *Compositor) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.enabled {
		g.disable()
	}
	g.client = nil
}

// Enabled reports whether grid mode is on.
func (g *Compositor) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Toggle switches grid mode. No-op without an active client.
func (g *Compositor) Toggle(enable bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		log.Debugf("Grid toggle ignored: no active client")
		return
	}
	if enable == g.enabled {
		return
	}
	if enable {
		g.enable()
	} else {
		g.disable()
	}
}

func (g *Compositor) enable() {
	g.enabled = true

	// Hide, never remove: detaching the SDK surface can interrupt audio.
	if root := g.client.Root(); root != nil {
		root.SetStyle("visibility", "hidden")
	}

	g.overlay = g.ensureOverlay()
	g.overlay.Show()
	g.render()

	g.stopPoll = make(chan struct{})
	go g.poll(g.stopPoll)

	events := g.client.Events()
	for _, kind := range []sdk.EventKind{sdk.ParticipantAdded, sdk.ParticipantRemoved, sdk.ParticipantUpdated} {
		g.subs = append(g.subs, events.On(kind, func(sdk.Event) { g.Render() }))
	}

	log.Infof("Grid mode enabled")
}

func (g *Compositor) disable() {
	g.enabled = false

	if root := g.client.Root(); root != nil {
		root.SetStyle("visibility", "visible")
	}

	g.stopAllCanvases()

	if g.overlay != nil {
		g.overlay.Clear()
		g.overlay.Hide()
	}

	if g.stopPoll != nil {
		close(g.stopPoll)
		g.stopPoll = nil
	}
	for _, sub := range g.subs {
		sub.Cancel()
	}
	g.subs = nil

	log.Infof("Grid mode disabled")
}

// stopAllCanvases asks the stream to stop every mounted canvas. Best-effort:
// with the stream already gone there is nothing left to stop.
func (g *Compositor) stopAllCanvases() {
	if g.overlay == nil {
		return
	}
	stream, err := g.client.MediaStream()
	if err != nil {
		return
	}
	g.stopCanvases(stream)
}

func (g *Compositor) stopCanvases(stream sdk.Stream) {
	for _, cell := range g.overlay.Children() {
		for _, child := range cell.Children() {
			if child.Tag() != "canvas" {
				continue
			}
			if err := stream.StopRenderVideo(child); err != nil {
				log.Warnf("Failed to stop canvas render: %v", err)
			}
		}
	}
}

// ensureOverlay finds or creates the singleton grid container.
func (g *Compositor) ensureOverlay() *dom.Element {
	if el, ok := g.doc.FindByID(dom.GridContainerID); ok {
		return el
	}

	overlay := dom.NewElement("div")
	overlay.SetID(dom.GridContainerID)
	overlay.SetStyle("position", "fixed")
	overlay.SetStyle("inset", "0")
	overlay.SetStyle("display", "grid")
	overlay.SetStyle("grid-template-columns",
		fmt.Sprintf("repeat(auto-fit, minmax(%dpx, 1fr))", g.cfg.CellMinWidth))
	overlay.SetStyle("gap", "8px")
	overlay.SetStyle("overflow-y", "auto")
	overlay.SetStyle("background", "#111")
	g.doc.Body().AppendChild(overlay)
	return overlay
}

func (g *Compositor) poll(stop chan struct{}) {
	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.Render()
		case <-stop:
			return
		}
	}
}

// Render rebuilds the grid from the current participant enumeration. Safe to
// call redundantly from any trigger.
func (g *Compositor) Render() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.render()
}

func (g *Compositor) render() {
	if !g.enabled || g.client == nil {
		return
	}

	stream, err := g.client.MediaStream()
	if err != nil {
		// Transient; the next poll or event will retry.
		log.Debugf("Media stream unavailable, skipping grid refresh: %v", err)
		return
	}

	// Full rebuild. A brief flash beats stale-participant bugs from
	// incremental diffing. Outgoing canvases are stopped first so the
	// stream does not accumulate bindings to detached elements.
	g.stopCanvases(stream)
	g.overlay.Clear()

	for _, p := range g.client.Participants() {
		cell := dom.NewElement("div")
		cell.SetStyle("position", "relative")

		canvas := dom.NewElement("canvas")
		canvas.SetDataset("participant-id", strconv.FormatUint(p.ID, 10))
		canvas.SetMeasuredSize(g.cfg.RenderWidth, g.cfg.RenderHeight)

		label := dom.NewElement("span")
		label.SetText(p.DisplayName)

		cell.AppendChild(canvas)
		cell.AppendChild(label)
		g.overlay.AppendChild(cell)

		if err := stream.RenderVideo(canvas, p.ID,
			g.cfg.RenderWidth, g.cfg.RenderHeight, 0, 0, g.cfg.Quality); err != nil {
			log.Warnf("Failed to render video for participant %d (%s): %v", p.ID, p.DisplayName, err)
		}
	}
}
