package domain

// FieldKind is the closed set of text-entry capabilities a page element can
// be classified into. The write path (plain text vs HTML) is fixed by the
// kind at classification time and never re-decided afterwards.
type FieldKind int

const (
	// KindNone marks an element that cannot hold text input.
	KindNone FieldKind = iota

	// KindNativeInput is a native <input> of a text-like type. Value-bearing:
	// writes go through the plain-text rendering.
	KindNativeInput

	// KindTextArea is a native <textarea>. Value-bearing, like KindNativeInput.
	KindTextArea

	// KindEditableSurface is a contenteditable element or one exposing a
	// textbox accessibility role. Writes go through the HTML rendering.
	KindEditableSurface
)

// String returns a human-readable name for the kind.
func (k FieldKind) String() string {
	switch k {
	case KindNativeInput:
		return "native-input"
	case KindTextArea:
		return "textarea"
	case KindEditableSurface:
		return "editable-surface"
	default:
		return "none"
	}
}

// TextInputTypes lists the <input> type attributes that qualify as
// value-bearing text entry.
var TextInputTypes = []string{"text", "search", "email", "url", "tel", "number"}

// IsTextInputType reports whether the given (lower-cased) input type
// attribute qualifies an <input> as a text-entry target.
func IsTextInputType(inputType string) bool {
	for _, t := range TextInputTypes {
		if inputType == t {
			return true
		}
	}
	return false
}

// FieldTarget references a page element classified as a text-entry target.
// The reference is bound to the page's focus lifecycle; it becomes stale
// when the host page removes or replaces the element.
type FieldTarget struct {
	// ID identifies the underlying element for staleness checks. Two targets
	// with the same ID refer to the same element.
	ID string

	// Kind is the capability tag. Fixed at classification time.
	Kind FieldKind

	// InputType is the <input> type attribute, set only for KindNativeInput.
	InputType string
}

// Editable reports whether the target can hold text input at all.
func (t FieldTarget) Editable() bool {
	return t.Kind != KindNone
}

// WritesPlainText reports whether writes to this target consume the
// plain-text rendering of a fragment.
func (t FieldTarget) WritesPlainText() bool {
	return t.Kind == KindNativeInput || t.Kind == KindTextArea
}

// WritesHTML reports whether writes to this target consume the HTML
// rendering of a fragment.
func (t FieldTarget) WritesHTML() bool {
	return t.Kind == KindEditableSurface
}
