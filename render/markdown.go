package render

import (
	"fmt"
	"strings"

	"github.com/scribadev/scriba/layout"
	"github.com/scribadev/scriba/model"
)

// Markdown renders pages as Markdown. Headings get a # prefix per level,
// list items a normalized marker, tables come out as pipe tables, and
// everything else as plain paragraphs. Blocks are separated by blank lines.
func Markdown(pages []*model.Page) string {
	var parts []string
	for _, page := range pages {
		for _, block := range page.Blocks {
			if part := renderBlock(block); part != "" {
				parts = append(parts, part)
			}
		}
	}
	return strings.Join(parts, "\n\n")
}

func renderBlock(block model.Block) string {
	if block.Role == model.RoleTable && block.Table != nil {
		return renderTable(block.Table)
	}

	text := block.Text()
	if strings.TrimSpace(text) == "" {
		return ""
	}

	if level := block.Role.HeadingLevel(); level > 0 {
		return strings.Repeat("#", level) + " " + EscapeMarkdown(text)
	}

	if block.Role == model.RoleListItem {
		if marker, rest, ok := layout.SplitListMarker(text); ok {
			return listMarker(marker) + " " + EscapeMarkdown(rest)
		}
	}

	return EscapeMarkdown(text)
}

// renderTable emits a pipe table. Merged cells cannot be expressed in pipe
// syntax, so tables carrying them fall back to an HTML table, which
// Markdown renderers pass through.
func renderTable(table *model.Table) string {
	if table.RowCount() == 0 || table.ColCount() == 0 {
		return ""
	}
	if table.HasMergedCells() {
		return renderTableHTML(table)
	}

	var sb strings.Builder
	for i := range table.Cells {
		sb.WriteByte('|')
		for _, cell := range table.Cells[i] {
			sb.WriteByte(' ')
			sb.WriteString(EscapeMarkdown(strings.ReplaceAll(cell.Text, "\n", " ")))
			sb.WriteString(" |")
		}
		sb.WriteByte('\n')

		// Separator under the first row; pipe tables require one even
		// when no header was identified.
		if i == 0 {
			sb.WriteByte('|')
			for range table.Cells[i] {
				sb.WriteString(" --- |")
			}
			sb.WriteByte('\n')
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTableHTML(table *model.Table) string {
	var sb strings.Builder
	sb.WriteString("<table>\n")
	for i := range table.Cells {
		tag := "td"
		if i < table.HeaderRows {
			tag = "th"
		}
		sb.WriteString("<tr>")
		covered := 0
		for _, cell := range table.Cells[i] {
			// Cells swallowed by a preceding colspan are not emitted.
			if covered > 0 {
				covered--
				continue
			}
			covered = cell.ColSpan - 1
			sb.WriteByte('<')
			sb.WriteString(tag)
			if cell.RowSpan > 1 {
				fmt.Fprintf(&sb, " rowspan=\"%d\"", cell.RowSpan)
			}
			if cell.ColSpan > 1 {
				fmt.Fprintf(&sb, " colspan=\"%d\"", cell.ColSpan)
			}
			sb.WriteByte('>')
			sb.WriteString(escapeHTML(cell.Text))
			sb.WriteString("</")
			sb.WriteString(tag)
			sb.WriteByte('>')
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>")
	return sb.String()
}

func escapeHTML(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}

// listMarker normalizes a source list marker to Markdown. Bullet glyphs all
// become "-"; ordinal markers keep their label with ")" rewritten to ".",
// which Markdown renderers accept.
func listMarker(marker string) string {
	runes := []rune(marker)
	last := runes[len(runes)-1]
	if last == '.' || last == ')' {
		return string(runes[:len(runes)-1]) + "."
	}
	return "-"
}

// EscapeMarkdown escapes the characters that could be misread as Markdown
// syntax: backslash, backtick, asterisk, underscore, brackets, and pipe.
// Characters that are only special at line start ('#', '-', '>') are left
// alone to keep the output readable.
func EscapeMarkdown(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '|':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
