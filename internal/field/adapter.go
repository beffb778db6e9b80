package field

import (
	"fmt"
	"html"
	"strings"

	"github.com/sbeeredd04/promen/internal/domain"
)

// Adapter classifies page elements and moves text in and out of them. It is
// stateless: wrapper resolution is re-done on every interaction because the
// host page may recreate the nested surface at any time.
type Adapter struct{}

// NewAdapter constructs a field adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Classify produces the capability tag for an element. The tag fixes the
// write path (plain text vs HTML) for the lifetime of the target.
func (a *Adapter) Classify(el Element) domain.FieldTarget {
	if el == nil {
		return domain.FieldTarget{Kind: domain.KindNone}
	}

	switch el.TagName() {
	case "input":
		inputType := strings.ToLower(el.Attr("type"))
		if inputType == "" {
			// Missing type attribute defaults to a text input.
			inputType = "text"
		}
		if domain.IsTextInputType(inputType) {
			return domain.FieldTarget{ID: el.ID(), Kind: domain.KindNativeInput, InputType: inputType}
		}
		return domain.FieldTarget{ID: el.ID(), Kind: domain.KindNone}
	case "textarea":
		return domain.FieldTarget{ID: el.ID(), Kind: domain.KindTextArea}
	}

	if isContentEditable(el) || el.Attr("role") == "textbox" {
		return domain.FieldTarget{ID: el.ID(), Kind: domain.KindEditableSurface}
	}

	return domain.FieldTarget{ID: el.ID(), Kind: domain.KindNone}
}

// isContentEditable reports whether the editable attribute is explicitly
// enabled. A bare contenteditable attribute enables editing; any value other
// than "true" or "" disables it.
func isContentEditable(el Element) bool {
	if !el.HasAttr("contenteditable") {
		return false
	}
	v := strings.ToLower(el.Attr("contenteditable"))
	return v == "" || v == "true"
}

// ResolveEditableSurface descends into known wrapper shapes to find the true
// editing surface inside rich-editor containers and shadow-DOM hosts. When
// no nested surface is found the element itself is returned. The mapping is
// never cached.
func (a *Adapter) ResolveEditableSurface(el Element) Element {
	if el == nil {
		return nil
	}

	// Quill keeps the editable surface one level below its container.
	if hasClass(el, "ql-container") {
		if inner := el.QueryClass("ql-editor"); inner != nil {
			return inner
		}
		return el
	}

	if hasClass(el, "ProseMirror-wrapper") {
		if inner := el.QueryClass("ProseMirror"); inner != nil {
			return inner
		}
		return el
	}

	// Gemini's rich-textarea wraps a Quill editor.
	if el.TagName() == "rich-textarea" {
		if inner := el.QueryClass("ql-editor"); inner != nil {
			return inner
		}
		return el
	}

	if root := el.ShadowRoot(); root != nil {
		if inner := root.QueryEditable(); inner != nil {
			return inner
		}
	}

	return el
}

// ReadText returns the field's current content: the value for value-bearing
// targets, the text content otherwise.
func (a *Adapter) ReadText(el Element, target domain.FieldTarget) string {
	if el == nil {
		return ""
	}
	if target.WritesPlainText() {
		return el.Value()
	}
	return el.TextContent()
}

// WriteFormatted writes exactly one rendering of the fragment into the
// field, chosen by the target's capability tag fixed at classification time.
func (a *Adapter) WriteFormatted(el Element, target domain.FieldTarget, fragment domain.Fragment) error {
	if el == nil {
		return fmt.Errorf("write to nil element")
	}

	switch {
	case target.WritesPlainText():
		el.SetValue(fragment.PlainText)
		return nil
	case target.WritesHTML():
		el.SetHTML(fragment.HTML)
		return nil
	default:
		return fmt.Errorf("field %q is not a text-entry target", target.ID)
	}
}

// WriteText writes raw text back into the field, escaping it for HTML
// surfaces. Used to restore a field's original content on reject.
func (a *Adapter) WriteText(el Element, target domain.FieldTarget, text string) error {
	if el == nil {
		return fmt.Errorf("write to nil element")
	}

	switch {
	case target.WritesPlainText():
		el.SetValue(text)
		return nil
	case target.WritesHTML():
		el.SetHTML(html.EscapeString(text))
		return nil
	default:
		return fmt.Errorf("field %q is not a text-entry target", target.ID)
	}
}

// IsVisible reports whether the element has a non-zero rendered size, is not
// hidden via display or visibility, and sits fully within the viewport. The
// trigger affordance is only shown for visible fields.
func (a *Adapter) IsVisible(el Element, vp Viewport) bool {
	if el == nil {
		return false
	}

	if el.Style("display") == "none" || el.Style("visibility") == "hidden" {
		return false
	}

	rect := el.Rect()
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return false
	}

	return rect.Top >= 0 &&
		rect.Left >= 0 &&
		rect.Bottom <= vp.Height &&
		rect.Right <= vp.Width
}

func hasClass(el Element, class string) bool {
	for _, c := range strings.Fields(el.Attr("class")) {
		if c == class {
			return true
		}
	}
	return false
}
