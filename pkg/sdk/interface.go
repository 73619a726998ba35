package sdk

import (
	"context"

	"github.com/embedkit/zoom-embed/pkg/dom"
)

// ConnectionState mirrors the SDK's connection-change payloads.
type ConnectionState int

const (
	StateConnected ConnectionState = iota
	StateReconnecting
	StateClosed
	StateFailed
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Video quality tiers accepted by Stream.RenderVideo.
const (
	Quality90P  = 0
	Quality180P = 1
	Quality360P = 2
	Quality720P = 3
)

// Participant is one remote user as enumerated by the SDK.
type Participant struct {
	ID          uint64
	DisplayName string
}

// InitOptions configures SDK initialization.
type InitOptions struct {
	Language      string
	Customization map[string]interface{}
}

// JoinParams carries everything the SDK join call needs.
type JoinParams struct {
	Token      string
	ClientKey  string
	SessionID  int64
	Secret     string
	UserName   string
	Email      string
	ExtraToken string
}

// Stream is the SDK's per-session media surface.
type Stream interface {
	// RenderVideo starts drawing the participant's video into the canvas
	// at the given sub-resolution, crop offset, and quality tier.
	RenderVideo(canvas *dom.Element, participantID uint64, width, height, cropX, cropY, quality int) error
	// StopRenderVideo stops drawing into the canvas.
	StopRenderVideo(canvas *dom.Element) error
}

// Client is the single live connection object mediating all session
// operations. Implementations are the real SDK bridge and the simulated
// driver in pkg/simsdk.
type Client interface {
	Init(ctx context.Context, container *dom.Element, opts InitOptions) error
	Join(ctx context.Context, params JoinParams) error
	Leave(ctx context.Context) error

	// Root returns the SDK's visual root created during Init, nil before.
	Root() *dom.Element
	Events() *EventBus
	MediaStream() (Stream, error)
	Participants() []Participant
}

// Factory creates and destroys client instances. The session controller is
// its only caller; at most one live client exists process-wide.
type Factory interface {
	CreateClient() Client
	DestroyClient(client Client) error
}
