package simsdk

import (
	"sync"

	"github.com/embedkit/zoom-embed/pkg/dom"
)

// Stream simulates the SDK media surface. Canvas bindings are tracked so
// tests can assert render/stop pairing; RenderErrs injects per-participant
// render failures.
type Stream struct {
	RenderErrs map[uint64]error

	mu        sync.Mutex
	renders   map[*dom.Element]uint64
	stopCalls int
}

func NewStream() *Stream {
	return &Stream{renders: make(map[*dom.Element]uint64)}
}

func (s *Stream) RenderVideo(canvas *dom.Element, participantID uint64, width, height, cropX, cropY, quality int) error {
	if err := s.RenderErrs[participantID]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders[canvas] = participantID
	return nil
}

func (s *Stream) StopRenderVideo(canvas *dom.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCalls++
	delete(s.renders, canvas)
	return nil
}

// ActiveRenders returns the number of canvases currently bound.
func (s *Stream) ActiveRenders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.renders)
}

// RenderedParticipant returns the participant bound to the canvas, if any.
func (s *Stream) RenderedParticipant(canvas *dom.Element) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.renders[canvas]
	return id, ok
}

func (s *Stream) StopCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCalls
}
