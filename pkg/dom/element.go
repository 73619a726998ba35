package dom

import (
	"sync"
)

// Element is a node in the host application's visual tree. It models the
// subset of the document surface the embed controller touches: identity,
// dataset attributes, inline styles, children, and measured layout size.
type Element struct {
	mu       sync.Mutex
	tag      string
	id       string
	dataset  map[string]string
	styles   map[string]string
	text     string
	children []*Element
	width    int
	height   int
}

func NewElement(tag string) *Element {
	return &Element{
		tag:     tag,
		dataset: make(map[string]string),
		styles:  make(map[string]string),
	}
}

func (e *Element) Tag() string {
	return e.tag
}

func (e *Element) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Element) SetID(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = id
}

// SetDataset stores a data attribute on the element.
func (e *Element) SetDataset(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dataset[key] = value
}

func (e *Element) Dataset(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dataset[key]
}

func (e *Element) SetStyle(property, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.styles[property] = value
}

func (e *Element) Style(property string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.styles[property]
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *Element) AppendChild(child *Element) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.children = append(e.children, child)
}

// Children returns a snapshot of the element's current children.
func (e *Element) Children() []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) ChildCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.children)
}

// Clear removes all children.
func (e *Element) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.children = nil
}

// SetMeasuredSize records the element's rendered width/height. Zero means
// the element has not been laid out yet.
func (e *Element) SetMeasuredSize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width = width
	e.height = height
}

func (e *Element) MeasuredSize() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// Hide removes the element from layout (display:none).
func (e *Element) Hide() {
	e.SetStyle("display", "none")
}

// Show resets the element's display so it participates in layout again.
func (e *Element) Show() {
	e.SetStyle("display", "")
}

// Hidden reports whether the element is removed from layout.
func (e *Element) Hidden() bool {
	return e.Style("display") == "none"
}

// FindByID searches the element's subtree for a descendant with the given
// id. It does not cross embedded-view boundaries; those sub-trees are only
// reachable through their own Scope.
func (e *Element) FindByID(id string) (*Element, bool) {
	if e.ID() == id {
		return e, true
	}
	for _, child := range e.Children() {
		if found, ok := child.FindByID(id); ok {
			return found, true
		}
	}
	return nil, false
}
