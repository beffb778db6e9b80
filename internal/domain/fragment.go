package domain

// Fragment carries the two independent renderings of a formatted model
// response. It is derived deterministically from the raw model text and is
// never mutated after construction. Exactly one rendering is consumed per
// field write, chosen by the target's capability tag.
type Fragment struct {
	// HTML is the block-structured rendering for contenteditable targets.
	// Code blocks are preserved verbatim inside non-reflowing containers and
	// placeholders are wrapped in a distinguishable inline marker.
	HTML string

	// PlainText is the rendering for value-bearing targets: paragraphs
	// separated by blank lines, code fenced with triple backticks,
	// placeholders rendered as an uppercase [USER PART: ...] literal.
	PlainText string
}

// Empty reports whether both renderings are empty.
func (f Fragment) Empty() bool {
	return f.HTML == "" && f.PlainText == ""
}
