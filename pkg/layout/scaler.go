// Package layout fits the SDK's fixed-resolution surface into the real
// container with a uniform contain transform.
package layout

import (
	"fmt"
	"sync"

	"github.com/embedkit/zoom-embed/pkg/dom"
)

const (
	// VirtualWidth/VirtualHeight is the fixed virtual resolution requested
	// from the SDK; larger than most containers so the SDK unlocks its
	// richer desktop layouts.
	VirtualWidth  = 960
	VirtualHeight = 540

	// controlBarOffsetPx shifts the surface up to clear the reserved
	// control-bar region at the bottom of the container.
	controlBarOffsetPx = 25
)

// FitScale computes the uniform scale factor that fits the virtual surface
// into a container of the given size without cropping.
func FitScale(containerWidth, containerHeight int) float64 {
	sx := float64(containerWidth) / float64(VirtualWidth)
	sy := float64(containerHeight) / float64(VirtualHeight)
	if sx < sy {
		return sx
	}
	return sy
}

// Scaler keeps one SDK surface fitted to its container across resizes.
type Scaler struct {
	mu         sync.Mutex
	container  *dom.Element
	target     *dom.Element
	window     *dom.Window
	listenerID int
	attached   bool
}

func NewScaler(container, target *dom.Element) *Scaler {
	return &Scaler{container: container, target: target}
}

// Fit recomputes the transform from the container's current measured size.
// No-ops while the container has not been laid out yet.
func (s *Scaler) Fit() {
	width, height := s.container.MeasuredSize()
	if width == 0 || height == 0 {
		return
	}

	scale := FitScale(width, height)

	s.target.SetStyle("position", "absolute")
	s.target.SetStyle("top", "50%")
	s.target.SetStyle("left", "50%")
	s.target.SetStyle("transform-origin", "center center")
	s.target.SetStyle("transform",
		fmt.Sprintf("translate(-50%%, calc(-50%% - %dpx)) scale(%.4f)", controlBarOffsetPx, scale))
}

// Attach fits immediately and re-fits on every window resize until Detach.
func (s *Scaler) Attach(window *dom.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return
	}
	s.window = window
	s.listenerID = window.OnResize(s.Fit)
	s.attached = true
	s.Fit()
}

// Detach removes the resize listener. Safe to call more than once.
func (s *Scaler) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return
	}
	s.window.RemoveListener(s.listenerID)
	s.window = nil
	s.attached = false
}
