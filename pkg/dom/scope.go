package dom

import "sync"

// Well-known singleton lookup keys used across the whole document,
// including nested embedded views.
const (
	// ContainerID identifies the element the SDK surface is mounted into.
	ContainerID = "zoom-meeting-container"
	// GridContainerID identifies the custom grid overlay.
	GridContainerID = "custom-grid-container"
	// StyleOverrideID identifies the injected global style block.
	StyleOverrideID = "zoom-embed-style-overrides"
)

// Scope is a searchable region of the host document. The top-level document
// is one scope; every embedded platform view exposes its encapsulated
// sub-tree as another.
type Scope interface {
	FindByID(id string) (*Element, bool)
}

// Document is the host application's top-level tree.
type Document struct {
	mu    sync.Mutex
	body  *Element
	views []*EmbeddedView
}

func NewDocument() *Document {
	return &Document{body: NewElement("body")}
}

func (d *Document) Body() *Element {
	return d.body
}

// AttachView registers an embedded platform view whose sub-tree is isolated
// from the main document search.
func (d *Document) AttachView(v *EmbeddedView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.views = append(d.views, v)
}

// FindByID searches the top-level tree only.
func (d *Document) FindByID(id string) (*Element, bool) {
	return d.body.FindByID(id)
}

// AllScopes returns a scope covering the top-level tree and every embedded
// view, searched in that order.
func (d *Document) AllScopes() Scope {
	d.mu.Lock()
	defer d.mu.Unlock()
	scopes := make(CompositeScope, 0, len(d.views)+1)
	scopes = append(scopes, d)
	for _, v := range d.views {
		scopes = append(scopes, v)
	}
	return scopes
}

// EmbeddedView is an opaque platform view with an isolated root. Its content
// is invisible to the enclosing document's search.
type EmbeddedView struct {
	root *Element
}

func NewEmbeddedView() *EmbeddedView {
	return &EmbeddedView{root: NewElement("view")}
}

func (v *EmbeddedView) Root() *Element {
	return v.root
}

func (v *EmbeddedView) FindByID(id string) (*Element, bool) {
	return v.root.FindByID(id)
}

// CompositeScope queries a sequence of scopes and returns the first hit.
type CompositeScope []Scope

func (c CompositeScope) FindByID(id string) (*Element, bool) {
	for _, s := range c {
		if el, ok := s.FindByID(id); ok {
			return el, true
		}
	}
	return nil, false
}

// LocateContainer finds the meeting container anywhere in the given scope.
// It is pure and never fails loudly; absence is reported as ok=false.
func LocateContainer(scope Scope) (*Element, bool) {
	return scope.FindByID(ContainerID)
}
