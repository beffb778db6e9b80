// Package preview renders raw model output as standalone HTML so a
// suggestion can be inspected in a browser before it is written into a
// field. Unlike the popup formatter, which produces a constrained
// fragment, the preview is a full markdown rendering.
package preview

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

// Render converts markdown to an HTML fragment.
func Render(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	olRe = regexp.MustCompile(`(?s)<ol[^>]*>(.*?)</ol>`)
	ulRe = regexp.MustCompile(`(?s)<ul[^>]*>(.*?)</ul>`)
	liRe = regexp.MustCompile(`(?s)<li[^>]*>(.*?)</li>`)
)

// FlattenLists unwraps list markup into numbered and bulleted paragraphs.
// Editable surfaces on many sites strip or restyle <ol>/<ul> wholesale,
// so flattened paragraphs survive paste more reliably.
func FlattenLists(html string) string {
	html = olRe.ReplaceAllStringFunc(html, func(block string) string {
		items := liRe.FindAllStringSubmatch(block, -1)
		if len(items) == 0 {
			return block
		}
		var b strings.Builder
		for i, item := range items {
			text := strings.TrimSpace(item[1])
			b.WriteString("<p>")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, text))
			b.WriteString("</p>")
		}
		return b.String()
	})

	html = ulRe.ReplaceAllStringFunc(html, func(block string) string {
		items := liRe.FindAllStringSubmatch(block, -1)
		if len(items) == 0 {
			return block
		}
		var b strings.Builder
		for _, item := range items {
			text := strings.TrimSpace(item[1])
			b.WriteString("<p>&bull; ")
			b.WriteString(text)
			b.WriteString("</p>")
		}
		return b.String()
	})

	return html
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 48em; margin: 2em auto; padding: 0 1em; line-height: 1.5; }
pre { background: #f4f4f4; padding: 0.75em; overflow-x: auto; }
code { background: #f4f4f4; padding: 0.1em 0.3em; }
pre code { padding: 0; }
</style>
</head>
<body>
%s</body>
</html>
`

// Page wraps a markdown rendering in a minimal standalone document.
func Page(title, md string) (string, error) {
	body, err := Render(md)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(pageTemplate, title, body), nil
}
