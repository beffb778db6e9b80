package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbeeredd04/promen/internal/diff"
)

func TestCompare_Identical(t *testing.T) {
	changes := diff.Compare("same text", "same text")

	require.Len(t, changes, 1)
	assert.Equal(t, diff.Equal, changes[0].Type)
	assert.False(t, diff.Summarize(changes).Changed())
}

func TestCompare_Replacement(t *testing.T) {
	changes := diff.Compare("make it good", "make it excellent")

	summary := diff.Summarize(changes)
	assert.True(t, summary.Changed())
	assert.Greater(t, summary.Inserted, 0)
	assert.Greater(t, summary.Deleted, 0)

	// Round-trip: equals+deletes rebuild the original, equals+inserts the suggestion
	var original, suggested string
	for _, c := range changes {
		switch c.Type {
		case diff.Equal:
			original += c.Text
			suggested += c.Text
		case diff.Delete:
			original += c.Text
		case diff.Insert:
			suggested += c.Text
		}
	}
	assert.Equal(t, "make it good", original)
	assert.Equal(t, "make it excellent", suggested)
}

func TestRender(t *testing.T) {
	changes := []diff.Change{
		{Type: diff.Equal, Text: "write a "},
		{Type: diff.Delete, Text: "short"},
		{Type: diff.Insert, Text: "detailed"},
		{Type: diff.Equal, Text: " essay"},
	}

	assert.Equal(t, "write a [-short-]{+detailed+} essay", diff.Render(changes))
}

func TestSummarize_CountsRunes(t *testing.T) {
	changes := []diff.Change{
		{Type: diff.Insert, Text: "héllo"},
		{Type: diff.Delete, Text: "ab"},
	}

	summary := diff.Summarize(changes)
	assert.Equal(t, 5, summary.Inserted)
	assert.Equal(t, 2, summary.Deleted)
}
