package grid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/embedkit/zoom-embed/pkg/config"
	"github.com/embedkit/zoom-embed/pkg/dom"
	"github.com/embedkit/zoom-embed/pkg/sdk"
	"github.com/embedkit/zoom-embed/pkg/simsdk"
)

func testConfig() config.GridConfig {
	return config.GridConfig{
		PollInterval: time.Hour, // poll quiet unless a test shortens it
		CellMinWidth: 320,
		RenderWidth:  256,
		RenderHeight: 144,
		Quality:      sdk.Quality360P,
	}
}

func newGridRig(t *testing.T, participants []sdk.Participant) (*Compositor, *simsdk.Client, *dom.Document) {
	t.Helper()

	doc := dom.NewDocument()
	container := dom.NewElement("div")
	container.SetID(dom.ContainerID)
	doc.Body().AppendChild(container)

	client := simsdk.NewClient()
	client.SeedParticipants = participants

	ctx := context.Background()
	if err := client.Init(ctx, container, sdk.InitOptions{}); err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	if err := client.Join(ctx, sdk.JoinParams{}); err != nil {
		t.Fatalf("client join failed: %v", err)
	}

	comp := NewCompositor(doc, testConfig())
	comp.Bind(client)
	return comp, client, doc
}

func overlayFor(t *testing.T, doc *dom.Document) *dom.Element {
	t.Helper()
	overlay, ok := doc.FindByID(dom.GridContainerID)
	if !ok {
		t.Fatal("grid overlay was not created")
	}
	return overlay
}

func roster(n int) []sdk.Participant {
	out := make([]sdk.Participant, 0, n)
	names := []string{"alice", "bob", "carol", "dave"}
	for i := 0; i < n; i++ {
		out = append(out, sdk.Participant{ID: uint64(i + 1), DisplayName: names[i%len(names)]})
	}
	return out
}

func TestToggle_NoClientIsNoOp(t *testing.T) {
	doc := dom.NewDocument()
	comp := NewCompositor(doc, testConfig())

	comp.Toggle(true)

	if comp.Enabled() {
		t.Error("grid should not enable without a client")
	}
	if _, ok := doc.FindByID(dom.GridContainerID); ok {
		t.Error("overlay should not be created without a client")
	}
}

func TestToggle_RoundTrip(t *testing.T) {
	comp, client, doc := newGridRig(t, roster(3))

	comp.Toggle(true)

	overlay := overlayFor(t, doc)
	if overlay.Hidden() {
		t.Error("overlay should be visible while enabled")
	}
	if overlay.ChildCount() != 3 {
		t.Errorf("overlay has %d cells, want 3", overlay.ChildCount())
	}
	if got := client.Root().Style("visibility"); got != "hidden" {
		t.Errorf("native root visibility = %q, want hidden", got)
	}
	if client.Stream().ActiveRenders() != 3 {
		t.Errorf("active renders = %d, want 3", client.Stream().ActiveRenders())
	}

	comp.Toggle(false)

	if !overlay.Hidden() {
		t.Error("overlay should be hidden after disable")
	}
	if overlay.ChildCount() != 0 {
		t.Errorf("overlay has %d cells after disable, want 0", overlay.ChildCount())
	}
	if got := client.Root().Style("visibility"); got != "visible" {
		t.Errorf("native root visibility = %q, want visible", got)
	}
	if client.Stream().ActiveRenders() != 0 {
		t.Errorf("active renders = %d after disable, want 0", client.Stream().ActiveRenders())
	}
	if client.Stream().StopCalls() != 3 {
		t.Errorf("stop calls = %d, want 3 (one per mounted canvas)", client.Stream().StopCalls())
	}
	if comp.stopPoll != nil {
		t.Error("poll should be cancelled on disable")
	}
	if client.Events().HandlerCount(sdk.ParticipantAdded) != 0 {
		t.Error("participant subscriptions should be cancelled on disable")
	}
}

func TestRender_PerParticipantFailureIsIsolated(t *testing.T) {
	comp, client, doc := newGridRig(t, roster(3))
	client.Stream().RenderErrs = map[uint64]error{2: errors.New("decode error")}

	comp.Toggle(true)

	overlay := overlayFor(t, doc)
	if overlay.ChildCount() != 3 {
		t.Errorf("overlay has %d cells, want 3 (failed cell still created)", overlay.ChildCount())
	}
	if client.Stream().ActiveRenders() != 2 {
		t.Errorf("active renders = %d, want 2 (siblings unaffected)", client.Stream().ActiveRenders())
	}

	// Every participant got a canvas, including the failing one.
	seen := map[string]bool{}
	for _, cell := range overlay.Children() {
		for _, child := range cell.Children() {
			if child.Tag() == "canvas" {
				seen[child.Dataset("participant-id")] = true
			}
		}
	}
	for _, id := range []string{"1", "2", "3"} {
		if !seen[id] {
			t.Errorf("no canvas for participant %s", id)
		}
	}
}

func TestRender_SkipsWhenStreamUnavailable(t *testing.T) {
	comp, client, doc := newGridRig(t, roster(2))

	comp.Toggle(true)
	overlay := overlayFor(t, doc)
	if overlay.ChildCount() != 2 {
		t.Fatalf("overlay has %d cells, want 2", overlay.ChildCount())
	}

	// A refresh without a stream must leave the grid untouched.
	client.StreamUnavailable = true
	client.AddParticipant(sdk.Participant{ID: 9, DisplayName: "late"})
	if overlay.ChildCount() != 2 {
		t.Errorf("overlay mutated without a stream: %d cells", overlay.ChildCount())
	}

	// The next trigger after the stream returns picks the change up.
	client.StreamUnavailable = false
	comp.Render()
	if overlay.ChildCount() != 3 {
		t.Errorf("overlay has %d cells after recovery, want 3", overlay.ChildCount())
	}
}

func TestRender_EventTriggersRefresh(t *testing.T) {
	comp, client, doc := newGridRig(t, roster(1))

	comp.Toggle(true)
	overlay := overlayFor(t, doc)

	client.AddParticipant(sdk.Participant{ID: 5, DisplayName: "bob"})
	if overlay.ChildCount() != 2 {
		t.Errorf("overlay has %d cells after user-added, want 2", overlay.ChildCount())
	}

	client.RemoveParticipant(5)
	if overlay.ChildCount() != 1 {
		t.Errorf("overlay has %d cells after user-removed, want 1", overlay.ChildCount())
	}

	client.UpdateParticipant(sdk.Participant{ID: 1, DisplayName: "renamed"})
	labels := ""
	for _, cell := range overlay.Children() {
		for _, child := range cell.Children() {
			if child.Tag() == "span" {
				labels += child.Text()
			}
		}
	}
	if labels != "renamed" {
		t.Errorf("labels after user-updated = %q, want %q", labels, "renamed")
	}
}

func TestRender_PollHealsMissedRefresh(t *testing.T) {
	comp, client, doc := newGridRig(t, roster(1))
	comp.cfg.PollInterval = 10 * time.Millisecond

	comp.Toggle(true)
	overlay := overlayFor(t, doc)

	// The event-driven refresh is lost while the stream is away; the
	// fallback poll must catch up once it returns.
	client.StreamUnavailable = true
	client.AddParticipant(sdk.Participant{ID: 2, DisplayName: "bob"})
	client.StreamUnavailable = false

	deadline := time.Now().Add(2 * time.Second)
	for overlay.ChildCount() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poll never refreshed the grid: %d cells", overlay.ChildCount())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRelease_DisablesAndUnbinds(t *testing.T) {
	comp, _, doc := newGridRig(t, roster(2))

	comp.Toggle(true)
	comp.Release()

	if comp.Enabled() {
		t.Error("grid should be disabled after release")
	}
	overlay := overlayFor(t, doc)
	if !overlay.Hidden() || overlay.ChildCount() != 0 {
		t.Error("overlay should be hidden and empty after release")
	}

	// Unbound: further toggles are ignored.
	comp.Toggle(true)
	if comp.Enabled() {
		t.Error("toggle after release should be a no-op")
	}
}

func TestToggle_RedundantCallsAreIdempotent(t *testing.T) {
	comp, _, doc := newGridRig(t, roster(1))

	comp.Toggle(true)
	comp.Toggle(true)
	overlay := overlayFor(t, doc)
	if overlay.ChildCount() != 1 {
		t.Errorf("overlay has %d cells after redundant enable, want 1", overlay.ChildCount())
	}

	comp.Toggle(false)
	comp.Toggle(false)
	if comp.Enabled() {
		t.Error("grid should stay disabled")
	}
}
