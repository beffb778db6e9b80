// Package field classifies host-page elements as text-entry targets and
// performs the reads and writes against them. The host page DOM is reached
// exclusively through the Element port; nothing in this package touches a
// real browser.
package field

// Rect is an element's rendered geometry in viewport coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// Width returns the rendered width.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the rendered height.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Viewport is the visible region of the host page.
type Viewport struct {
	Width  float64
	Height float64
}

// Element is the port to a host-page DOM element. Implementations are
// provided by the embedding host (browser bridge, test fake). Methods mirror
// the narrow slice of element inspection the adapter needs: standard
// value/text access, attribute and computed-style lookup, geometry, and
// descendant lookup for wrapper resolution.
type Element interface {
	// ID is a host-assigned identity that is stable for the lifetime of the
	// underlying element. Two Elements with equal IDs refer to the same node.
	ID() string

	// TagName returns the lower-cased tag name.
	TagName() string

	// Attr returns an attribute value, or "" when absent.
	Attr(name string) string

	// HasAttr reports whether the attribute is present at all, so an empty
	// contenteditable attribute is distinguishable from a missing one.
	HasAttr(name string) bool

	// Value returns the current value of a value-bearing element.
	Value() string

	// SetValue writes the value of a value-bearing element.
	SetValue(v string)

	// TextContent returns the text content of the element.
	TextContent() string

	// SetHTML replaces the element's content with the given HTML.
	SetHTML(html string)

	// QueryClass returns the first descendant carrying the given class, or
	// nil when there is none.
	QueryClass(class string) Element

	// QueryEditable returns the first descendant that is an input, a
	// textarea, or a contenteditable element, or nil when there is none.
	QueryEditable() Element

	// ShadowRoot returns the element's shadow root as an Element for
	// descendant lookup, or nil when the element hosts no shadow DOM.
	ShadowRoot() Element

	// Rect returns the element's rendered geometry.
	Rect() Rect

	// Style returns a computed style property value.
	Style(prop string) string
}
