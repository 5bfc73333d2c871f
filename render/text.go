// Package render serializes analyzed pages to plain text, Markdown, and
// JSON. All three renderers consume the same block sequence, so they agree
// on content and reading order and differ only in presentation.
package render

import (
	"strings"

	"github.com/scribadev/scriba/model"
)

// Text renders pages as plain text. Blocks are joined by a single newline
// and pages by a blank line; roles carry no styling.
func Text(pages []*model.Page) string {
	var sb strings.Builder
	first := true
	for _, page := range pages {
		if len(page.Blocks) == 0 {
			continue
		}
		if !first {
			sb.WriteString("\n\n")
		}
		first = false
		for i, block := range page.Blocks {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(block.Text())
		}
	}
	return sb.String()
}
