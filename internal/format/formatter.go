// Package format converts raw model-returned text (markdown-ish, possibly
// containing code fences and placeholder markers) into page-insertable
// renderings. Formatting is deterministic, performs no I/O, and never fails:
// unparseable sections degrade to literal pass-through text.
package format

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sbeeredd04/promen/internal/domain"
)

// Formatter derives a Fragment from raw model text. The zero value is ready
// to use; New exists for symmetry with the rest of the codebase.
type Formatter struct{}

// New constructs a Formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format produces both renderings of the raw text.
func (f *Formatter) Format(raw string) domain.Fragment {
	return domain.Fragment{
		HTML:      f.HTML(raw),
		PlainText: f.PlainText(raw),
	}
}

const (
	codeTokenFmt = "\x00promen-code-%d\x00"
	paraMarker   = "\x00promen-par\x00"
)

var (
	// Code spans, in extraction order. Block fences first so that inline
	// backtick spans never match inside an already-claimed fence.
	fenceBlockRe   = regexp.MustCompile("(?s)```([A-Za-z0-9_+#.-]*)[ \t]*\n(.*?)```")
	fenceOneLineRe = regexp.MustCompile("(?s)```(.*?)```")
	codeTagRe      = regexp.MustCompile(`(?is)<code>(.*?)</code>`)
	backtickRe     = regexp.MustCompile("`([^`\n]+)`")

	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	paraBreakRe = regexp.MustCompile(`\n[ \t]*\n+`)
	numberedRe  = regexp.MustCompile(`(?m)^[ \t]*(\d+)\.[ \t]+(.+)$`)
	bulletRe    = regexp.MustCompile(`(?m)^[ \t]*\*[ \t]+(.+)$`)

	// Placeholder convention, both supported forms. Case-insensitive and
	// whitespace-tolerant around the keyword and colon; non-greedy within a
	// single bracket/paren group so one match never spans two placeholders.
	bracketPartRe = regexp.MustCompile(`(?i)\[\s*(user\s+part)\s*:\s*([^\[\]]*?)\s*\]`)
	blankPartRe   = regexp.MustCompile(`(?i)_{3,}\s*\(\s*([^()]*?)\s*\)`)
)

type spanKind int

const (
	spanFence spanKind = iota
	spanFenceOneLine
	spanCodeTag
	spanBacktick
)

// codeSpan is a code region lifted out of the text before any rewriting, so
// later steps can never alter its content.
type codeSpan struct {
	kind    spanKind
	lang    string
	content string
}

func (s codeSpan) block() bool {
	switch s.kind {
	case spanFence, spanFenceOneLine:
		return true
	case spanCodeTag:
		return strings.Contains(s.content, "\n")
	default:
		return false
	}
}

// extractCode replaces every code span with a unique positional token, in
// order of first appearance, and returns the spans for later restoration.
func extractCode(text string) (string, []codeSpan) {
	var spans []codeSpan

	lift := func(src string, re *regexp.Regexp, build func(sub []string) codeSpan) string {
		return re.ReplaceAllStringFunc(src, func(m string) string {
			token := fmt.Sprintf(codeTokenFmt, len(spans))
			spans = append(spans, build(re.FindStringSubmatch(m)))
			return token
		})
	}

	text = lift(text, fenceBlockRe, func(sub []string) codeSpan {
		return codeSpan{kind: spanFence, lang: sub[1], content: sub[2]}
	})
	text = lift(text, fenceOneLineRe, func(sub []string) codeSpan {
		return codeSpan{kind: spanFenceOneLine, content: sub[1]}
	})
	text = lift(text, codeTagRe, func(sub []string) codeSpan {
		return codeSpan{kind: spanCodeTag, content: sub[1]}
	})
	text = lift(text, backtickRe, func(sub []string) codeSpan {
		return codeSpan{kind: spanBacktick, content: sub[1]}
	})

	return text, spans
}

// HTML renders the block-structured form for contenteditable targets.
func (f *Formatter) HTML(raw string) string {
	text, spans := extractCode(raw)

	// Non-code text is escaped so the page renders model output rather than
	// interpreting it. Code tokens contain no escapable characters.
	text = html.EscapeString(text)

	text = boldRe.ReplaceAllString(text, "$1")

	// Blank lines become explicit paragraph-break markers before single
	// newlines are touched, keeping the two distinguishable. The marker sits
	// on its own line so list detection still sees line starts.
	text = paraBreakRe.ReplaceAllString(text, "\n"+paraMarker+"\n")

	text = numberedRe.ReplaceAllString(text, `<li class="promen-numbered">$1. $2</li>`)
	text = bulletRe.ReplaceAllString(text, `<li class="promen-bullet">&bull; $1</li>`)

	text = assembleBlocks(text)
	text = strings.TrimSpace(text)
	text = markUserParts(text, true)

	for i, span := range spans {
		token := fmt.Sprintf(codeTokenFmt, i)
		text = strings.Replace(text, token, renderCodeHTML(span), 1)
	}

	return text
}

// assembleBlocks restores paragraph-break markers and converts remaining
// single newlines into line breaks. Runs of list items form their own block
// without paragraph wrapping.
func assembleBlocks(text string) string {
	paras := strings.Split(text, "\n"+paraMarker+"\n")
	blocks := make([]string, 0, len(paras))

	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		lines := strings.Split(p, "\n")
		if allListItems(lines) {
			blocks = append(blocks, strings.Join(lines, ""))
			continue
		}

		// Adjacent list items inside a mixed paragraph need no break between
		// them.
		p = strings.ReplaceAll(p, "</li>\n<li", "</li><li")
		p = strings.ReplaceAll(p, "\n", "<br>")
		blocks = append(blocks, "<p>"+p+"</p>")
	}

	return strings.Join(blocks, "\n")
}

func allListItems(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "<li") || !strings.HasSuffix(line, "</li>") {
			return false
		}
	}
	return true
}

func renderCodeHTML(span codeSpan) string {
	if span.block() {
		content := strings.TrimPrefix(span.content, "\n")
		content = strings.TrimSuffix(content, "\n")
		return `<pre class="promen-code"><code>` + html.EscapeString(content) + `</code></pre>`
	}
	return `<code class="promen-code-inline">` + html.EscapeString(span.content) + `</code>`
}

// PlainText renders the form for value-bearing targets: blank-line-separated
// paragraphs, triple-backtick code fences, uppercase placeholder literals.
func (f *Formatter) PlainText(raw string) string {
	text, spans := extractCode(raw)

	text = boldRe.ReplaceAllString(text, "$1")
	text = markUserParts(text, false)
	text = paraBreakRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	for i, span := range spans {
		token := fmt.Sprintf(codeTokenFmt, i)
		text = strings.Replace(text, token, renderCodePlain(span), 1)
	}

	return text
}

func renderCodePlain(span codeSpan) string {
	switch span.kind {
	case spanFence:
		return "```" + span.lang + "\n" + span.content + "```"
	case spanFenceOneLine:
		return "```" + span.content + "```"
	case spanCodeTag:
		if span.block() {
			return "```\n" + strings.TrimPrefix(strings.TrimSuffix(span.content, "\n"), "\n") + "\n```"
		}
		return "`" + span.content + "`"
	default:
		return "`" + span.content + "`"
	}
}

// userPartKeyword is the canonical placeholder keyword. Detection is
// case- and whitespace-tolerant, but the emitted marker always carries
// the canonical keyword upcased.
const userPartKeyword = "user part"

// markUserParts detects the placeholder convention in both supported forms
// and replaces each with the uppercase USER PART marker, keeping the
// description verbatim. Malformed placeholder syntax never matches and is
// left as literal text.
func markUserParts(text string, asHTML bool) string {
	marker := cases.Upper(language.Und).String(userPartKeyword)

	wrap := func(description string) string {
		literal := marker + ": " + description
		if asHTML {
			return `<span class="promen-user-part">` + literal + `</span>`
		}
		return "[" + literal + "]"
	}

	text = bracketPartRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := bracketPartRe.FindStringSubmatch(m)
		return wrap(sub[2])
	})
	text = blankPartRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := blankPartRe.FindStringSubmatch(m)
		return wrap(sub[1])
	})

	return text
}
