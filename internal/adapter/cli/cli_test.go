package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbeeredd04/promen/internal/adapter/cli"
	"github.com/sbeeredd04/promen/internal/domain"
	"github.com/sbeeredd04/promen/internal/format"
	"github.com/sbeeredd04/promen/internal/store"
)

type fakeTransformer struct {
	reply     string
	err       error
	gotAction domain.Action
	gotText   string
}

func (f *fakeTransformer) Transform(ctx context.Context, action domain.Action, text string) (string, error) {
	f.gotAction = action
	f.gotText = text
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeKeys struct {
	key     string
	cleared bool
}

func (f *fakeKeys) UpdateKey(ctx context.Context, key string) error {
	f.key = key
	return nil
}

func (f *fakeKeys) ClearKey(ctx context.Context) error {
	f.cleared = true
	f.key = ""
	return nil
}

func (f *fakeKeys) Key(ctx context.Context) (string, error) {
	return f.key, nil
}

type fakeHistory struct {
	records []store.SuggestionRecord
}

func (f *fakeHistory) ListSuggestions(ctx context.Context, limit int) ([]store.SuggestionRecord, error) {
	if limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

type cliFixture struct {
	transformer *fakeTransformer
	keys        *fakeKeys
	history     *fakeHistory
	out         *bytes.Buffer
	errOut      *bytes.Buffer
	in          *bytes.Buffer
}

func runCLI(t *testing.T, fixture *cliFixture, args ...string) error {
	t.Helper()

	root := cli.NewRootCommand(cli.Dependencies{
		Transformer: fixture.transformer,
		Formatter:   format.New(),
		Keys:        fixture.keys,
		History:     fixture.history,
		Args: cli.Arguments{
			InReader:  fixture.in,
			OutWriter: fixture.out,
			ErrWriter: fixture.errOut,
		},
		Version: "v1.2.3",
	})
	root.SetArgs(args)
	return root.Execute()
}

func newFixture() *cliFixture {
	return &cliFixture{
		transformer: &fakeTransformer{reply: "A **better** prompt"},
		keys:        &fakeKeys{},
		history:     &fakeHistory{},
		out:         &bytes.Buffer{},
		errOut:      &bytes.Buffer{},
		in:          &bytes.Buffer{},
	}
}

func TestTransformCommand_PlainText(t *testing.T) {
	fixture := newFixture()

	err := runCLI(t, fixture, "transform", "improve me", "--action", "rephrase")

	require.NoError(t, err)
	assert.Equal(t, domain.ActionRephrase, fixture.transformer.gotAction)
	assert.Equal(t, "improve me", fixture.transformer.gotText)
	assert.Equal(t, "A better prompt\n", fixture.out.String())
}

func TestTransformCommand_HTML(t *testing.T) {
	fixture := newFixture()

	err := runCLI(t, fixture, "transform", "improve me", "--html")

	require.NoError(t, err)
	assert.Equal(t, "<p>A better prompt</p>\n", fixture.out.String())
}

func TestTransformCommand_FromStdin(t *testing.T) {
	fixture := newFixture()
	fixture.in.WriteString("piped text\n")

	err := runCLI(t, fixture, "transform", "--action", "enhance")

	require.NoError(t, err)
	assert.Equal(t, domain.ActionEnhance, fixture.transformer.gotAction)
	assert.Equal(t, "piped text", fixture.transformer.gotText)
}

func TestTransformCommand_Diff(t *testing.T) {
	fixture := newFixture()
	fixture.transformer.reply = "improve me please"

	err := runCLI(t, fixture, "transform", "improve me", "--diff")

	require.NoError(t, err)
	assert.Contains(t, fixture.out.String(), "{+")
	assert.Contains(t, fixture.errOut.String(), "characters")
}

func TestTransformCommand_UnknownAction(t *testing.T) {
	fixture := newFixture()

	err := runCLI(t, fixture, "transform", "text", "--action", "translate")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestKeySetAndShow(t *testing.T) {
	fixture := newFixture()

	require.NoError(t, runCLI(t, fixture, "key", "set", "AIza-test-key-9876"))
	assert.Equal(t, "AIza-test-key-9876", fixture.keys.key)
	assert.Contains(t, fixture.out.String(), "API key updated")

	fixture.out.Reset()
	require.NoError(t, runCLI(t, fixture, "key", "show"))
	assert.Equal(t, "...9876\n", fixture.out.String())
}

func TestKeySet_FromStdin(t *testing.T) {
	fixture := newFixture()
	fixture.in.WriteString("AIza-piped-key\n")

	require.NoError(t, runCLI(t, fixture, "key", "set"))
	assert.Equal(t, "AIza-piped-key", fixture.keys.key)
}

func TestKeySet_Empty(t *testing.T) {
	fixture := newFixture()

	err := runCLI(t, fixture, "key", "set", "   ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no key provided")
}

func TestKeyClear(t *testing.T) {
	fixture := newFixture()
	fixture.keys.key = "AIza-old"

	require.NoError(t, runCLI(t, fixture, "key", "clear"))
	assert.True(t, fixture.keys.cleared)
	assert.Contains(t, fixture.out.String(), "API key cleared")
}

func TestHistoryCommand(t *testing.T) {
	fixture := newFixture()
	fixture.history.records = []store.SuggestionRecord{
		{
			ID:        2,
			Action:    "enhance",
			Status:    "accepted",
			PlainText: "Expanded prompt text",
			CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		},
	}

	require.NoError(t, runCLI(t, fixture, "history"))

	output := fixture.out.String()
	assert.Contains(t, output, "enhance")
	assert.Contains(t, output, "accepted")
	assert.Contains(t, output, "Expanded prompt text")
}

func TestHistoryCommand_Empty(t *testing.T) {
	fixture := newFixture()

	require.NoError(t, runCLI(t, fixture, "history"))
	assert.Contains(t, fixture.out.String(), "no suggestions recorded")
}

func TestVersionFlag(t *testing.T) {
	fixture := newFixture()

	err := runCLI(t, fixture, "--version")

	assert.ErrorIs(t, err, cli.ErrVersionRequested)
	assert.Equal(t, "v1.2.3\n", fixture.out.String())
}

func TestHistoryTruncatesLongLines(t *testing.T) {
	fixture := newFixture()
	fixture.history.records = []store.SuggestionRecord{
		{
			ID:        1,
			Action:    "rephrase",
			Status:    "pending",
			PlainText: strings.Repeat("long ", 30),
			CreatedAt: time.Now(),
		},
	}

	require.NoError(t, runCLI(t, fixture, "history"))
	assert.Contains(t, fixture.out.String(), "...")
}
