package layout

import (
	"strings"
	"testing"

	"github.com/embedkit/zoom-embed/pkg/dom"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		width, height int
		want          float64
	}{
		{480, 270, 0.5},
		{960, 540, 1.0},
		{1920, 1080, 2.0},
		{480, 540, 0.5},  // width-bound
		{960, 270, 0.5},  // height-bound
		{240, 540, 0.25}, // extreme aspect, still uniform
	}

	for _, test := range tests {
		if got := FitScale(test.width, test.height); got != test.want {
			t.Errorf("FitScale(%d, %d) = %v, want %v", test.width, test.height, got, test.want)
		}
	}
}

func TestScaler_FitAppliesTransform(t *testing.T) {
	container := dom.NewElement("div")
	container.SetMeasuredSize(480, 270)
	target := dom.NewElement("div")

	NewScaler(container, target).Fit()

	if got := target.Style("position"); got != "absolute" {
		t.Errorf("position = %q, want absolute", got)
	}
	transform := target.Style("transform")
	if !strings.Contains(transform, "scale(0.5000)") {
		t.Errorf("transform = %q, want scale(0.5000)", transform)
	}
	if target.Style("transform-origin") != "center center" {
		t.Errorf("transform-origin = %q, want center center", target.Style("transform-origin"))
	}
}

func TestScaler_FitSkipsUnlaidOutContainer(t *testing.T) {
	container := dom.NewElement("div")
	target := dom.NewElement("div")

	NewScaler(container, target).Fit()

	if target.Style("transform") != "" {
		t.Errorf("transform applied to un-laid-out container: %q", target.Style("transform"))
	}
}

func TestScaler_AttachRefitsOnResize(t *testing.T) {
	container := dom.NewElement("div")
	container.SetMeasuredSize(480, 270)
	target := dom.NewElement("div")
	window := dom.NewWindow(480, 270)

	s := NewScaler(container, target)
	s.Attach(window)

	if !strings.Contains(target.Style("transform"), "scale(0.5000)") {
		t.Errorf("transform after attach = %q, want scale(0.5000)", target.Style("transform"))
	}

	container.SetMeasuredSize(960, 540)
	window.Resize(960, 540)
	if !strings.Contains(target.Style("transform"), "scale(1.0000)") {
		t.Errorf("transform after resize = %q, want scale(1.0000)", target.Style("transform"))
	}

	s.Detach()
	if window.ListenerCount() != 0 {
		t.Errorf("ListenerCount after detach = %d, want 0", window.ListenerCount())
	}

	// Detach must be idempotent; the leave path and the connection-loss
	// path can both reach it.
	s.Detach()
}
