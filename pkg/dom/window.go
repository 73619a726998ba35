package dom

import "sync"

// Window models the host window: a viewport size and resize notification.
type Window struct {
	mu        sync.Mutex
	width     int
	height    int
	listeners map[int]func()
	nextID    int
}

func NewWindow(width, height int) *Window {
	return &Window{
		width:     width,
		height:    height,
		listeners: make(map[int]func()),
	}
}

func (w *Window) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Resize updates the viewport size and notifies every registered listener.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	w.width = width
	w.height = height
	listeners := make([]func(), 0, len(w.listeners))
	for _, fn := range w.listeners {
		listeners = append(listeners, fn)
	}
	w.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnResize registers a resize listener and returns its handle.
func (w *Window) OnResize(fn func()) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	w.listeners[w.nextID] = fn
	return w.nextID
}

// RemoveListener unregisters a resize listener. Unknown handles are ignored.
func (w *Window) RemoveListener(id int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.listeners, id)
}

func (w *Window) ListenerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}
