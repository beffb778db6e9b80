// Package diff computes readable differences between a field's original
// text and a generated suggestion, so a user can see what a transform
// changed before accepting it.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeType classifies a span of the comparison.
type ChangeType int

const (
	Equal ChangeType = iota
	Insert
	Delete
)

// Change is one contiguous span of the comparison.
type Change struct {
	Type ChangeType
	Text string
}

// Summary counts the changed characters on each side.
type Summary struct {
	Inserted int
	Deleted  int
}

// Changed reports whether the two texts differ at all.
func (s Summary) Changed() bool {
	return s.Inserted > 0 || s.Deleted > 0
}

// Compare returns the semantic character diff from original to suggested.
func Compare(original, suggested string) []Change {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, suggested, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	changes := make([]Change, 0, len(diffs))
	for _, d := range diffs {
		var t ChangeType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			t = Insert
		case diffmatchpatch.DiffDelete:
			t = Delete
		default:
			t = Equal
		}
		changes = append(changes, Change{Type: t, Text: d.Text})
	}
	return changes
}

// Summarize totals the inserted and deleted characters.
func Summarize(changes []Change) Summary {
	var s Summary
	for _, c := range changes {
		switch c.Type {
		case Insert:
			s.Inserted += len([]rune(c.Text))
		case Delete:
			s.Deleted += len([]rune(c.Text))
		}
	}
	return s
}

// Render formats changes in word-diff style: deletions as [-text-],
// insertions as {+text+}, unchanged text verbatim.
func Render(changes []Change) string {
	var b strings.Builder
	for _, c := range changes {
		switch c.Type {
		case Insert:
			b.WriteString("{+")
			b.WriteString(c.Text)
			b.WriteString("+}")
		case Delete:
			b.WriteString("[-")
			b.WriteString(c.Text)
			b.WriteString("-]")
		default:
			b.WriteString(c.Text)
		}
	}
	return b.String()
}
