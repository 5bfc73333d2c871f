package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/scribadev/scriba/model"
)

func block(text string, role model.Role) model.Block {
	run := model.TextRun{Text: text, X: 72, Y: 700, Width: 100, FontSize: 12}
	line := model.Line{Runs: []model.TextRun{run}, BBox: run.BBox()}
	return model.Block{Lines: []model.Line{line}, BBox: line.BBox, Role: role}
}

func page(blocks ...model.Block) *model.Page {
	return &model.Page{Number: 1, Width: 612, Height: 792, Blocks: blocks}
}

func TestTextJoinsBlocksWithNewline(t *testing.T) {
	pages := []*model.Page{page(
		block("first", model.RoleParagraph),
		block("second", model.RoleParagraph),
	)}

	if got := Text(pages); got != "first\nsecond" {
		t.Errorf("Text() = %q, want %q", got, "first\nsecond")
	}
}

func TestTextSeparatesPagesWithBlankLine(t *testing.T) {
	pages := []*model.Page{
		page(block("page one", model.RoleParagraph)),
		page(block("page two", model.RoleParagraph)),
	}

	if got := Text(pages); got != "page one\n\npage two" {
		t.Errorf("Text() = %q", got)
	}
}

func TestTextSkipsEmptyPages(t *testing.T) {
	pages := []*model.Page{
		page(block("content", model.RoleParagraph)),
		page(),
	}

	if got := Text(pages); got != "content" {
		t.Errorf("Text() = %q, want %q", got, "content")
	}
}

func TestTextIgnoresRoles(t *testing.T) {
	pages := []*model.Page{page(
		block("Title", model.RoleHeading1),
		block("body", model.RoleParagraph),
	)}

	if got := Text(pages); got != "Title\nbody" {
		t.Errorf("Text() = %q, want no styling", got)
	}
}

func TestMarkdownHeadings(t *testing.T) {
	pages := []*model.Page{page(
		block("Top", model.RoleHeading1),
		block("Section", model.RoleHeading2),
		block("Subsection", model.RoleHeading3),
		block("body text", model.RoleParagraph),
	)}

	got := Markdown(pages)
	want := "# Top\n\n## Section\n\n### Subsection\n\nbody text"
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestMarkdownListItems(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"• bullet item", "- bullet item"},
		{"- dashed item", "- dashed item"},
		{"1. first", "1. first"},
		{"2) second", "2. second"},
		{"a. lettered", "a. lettered"},
	}

	for _, tt := range tests {
		pages := []*model.Page{page(block(tt.text, model.RoleListItem))}
		if got := Markdown(pages); got != tt.want {
			t.Errorf("Markdown(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestMarkdownListItemWithoutMarkerFallsBack(t *testing.T) {
	pages := []*model.Page{page(block("no marker here", model.RoleListItem))}
	if got := Markdown(pages); got != "no marker here" {
		t.Errorf("Markdown() = %q", got)
	}
}

func TestMarkdownSkipsBlankBlocks(t *testing.T) {
	pages := []*model.Page{page(
		block("   ", model.RoleParagraph),
		block("real", model.RoleParagraph),
	)}

	if got := Markdown(pages); got != "real" {
		t.Errorf("Markdown() = %q, want %q", got, "real")
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain text", "plain text"},
		{"a*b", `a\*b`},
		{"snake_case", `snake\_case`},
		{"[link]", `\[link\]`},
		{"back\\slash", `back\\slash`},
		{"`code`", "\\`code\\`"},
		{"cell|cell", `cell\|cell`},
		{"# not escaped", "# not escaped"},
		{"1. not escaped", "1. not escaped"},
	}
	for _, tt := range tests {
		if got := EscapeMarkdown(tt.in); got != tt.want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkdownEscapesHeadingText(t *testing.T) {
	pages := []*model.Page{page(block("C* Algebra", model.RoleHeading1))}
	if got := Markdown(pages); got != `# C\* Algebra` {
		t.Errorf("Markdown() = %q", got)
	}
}

// tableBlock builds a 2x2 table block with the given cell texts.
func tableBlock(cells [][]string) model.Block {
	tab := model.NewTable(len(cells), len(cells[0]))
	if len(cells) > 1 {
		tab.HeaderRows = 1
	}
	for i, row := range cells {
		for j, text := range row {
			tab.Cell(i, j).Text = text
		}
	}
	return model.Block{Role: model.RoleTable, Table: tab}
}

func TestMarkdownPipeTable(t *testing.T) {
	pages := []*model.Page{page(tableBlock([][]string{
		{"Name", "Age"},
		{"Alice", "30"},
	}))}

	got := Markdown(pages)
	want := "| Name | Age |\n| --- | --- |\n| Alice | 30 |"
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestMarkdownTableEscapesPipes(t *testing.T) {
	pages := []*model.Page{page(tableBlock([][]string{
		{"a|b", "c"},
		{"d", "e"},
	}))}

	if got := Markdown(pages); !strings.Contains(got, `a\|b`) {
		t.Errorf("pipe in cell not escaped: %q", got)
	}
}

func TestMarkdownMergedCellsFallBackToHTML(t *testing.T) {
	tab := model.NewTable(2, 2)
	tab.HeaderRows = 1
	tab.Cell(0, 0).Text = "Total"
	tab.Cell(0, 0).ColSpan = 2
	tab.Cell(1, 0).Text = "Q1"
	tab.Cell(1, 1).Text = "1200"
	pages := []*model.Page{page(model.Block{Role: model.RoleTable, Table: tab})}

	got := Markdown(pages)
	if !strings.HasPrefix(got, "<table>") {
		t.Fatalf("merged cells should render as HTML, got %q", got)
	}
	if !strings.Contains(got, `<th colspan="2">Total</th>`) {
		t.Errorf("missing colspan header cell: %q", got)
	}
	if strings.Count(got, "<th") != 1 {
		t.Errorf("covered cell should not be emitted: %q", got)
	}
	if !strings.Contains(got, "<td>Q1</td>") {
		t.Errorf("missing body cell: %q", got)
	}
}

func TestTextRendersTableRows(t *testing.T) {
	pages := []*model.Page{page(
		block("before", model.RoleParagraph),
		tableBlock([][]string{{"Name", "Age"}, {"Alice", "30"}}),
	)}

	if got := Text(pages); got != "before\nName\tAge\nAlice\t30" {
		t.Errorf("Text() = %q", got)
	}
}

func TestJSONTableRows(t *testing.T) {
	out, err := JSON([]*model.Page{page(tableBlock([][]string{
		{"Name", "Age"},
		{"Alice", "30"},
	}))}, false)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var doc struct {
		Pages []struct {
			Blocks []struct {
				Role string     `json:"role"`
				Rows [][]string `json:"rows"`
			} `json:"blocks"`
		} `json:"pages"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	b := doc.Pages[0].Blocks[0]
	if b.Role != "table" {
		t.Errorf("role = %q, want table", b.Role)
	}
	if len(b.Rows) != 2 || b.Rows[1][0] != "Alice" {
		t.Errorf("rows = %v", b.Rows)
	}
}

func TestJSONNonTableBlockOmitsRows(t *testing.T) {
	out, err := JSON([]*model.Page{page(block("plain", model.RoleParagraph))}, false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, `"rows"`) {
		t.Errorf("paragraph block carries rows: %s", out)
	}
}

func TestJSONStructure(t *testing.T) {
	pages := []*model.Page{
		page(block("hello", model.RoleHeading1)),
		page(block("world", model.RoleParagraph)),
	}

	out, err := JSON(pages, false)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var doc struct {
		Pages []struct {
			Index  int `json:"index"`
			Blocks []struct {
				Text string     `json:"text"`
				BBox [4]float64 `json:"bbox"`
				Role string     `json:"role"`
			} `json:"blocks"`
		} `json:"pages"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(doc.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(doc.Pages))
	}
	if doc.Pages[0].Index != 0 || doc.Pages[1].Index != 1 {
		t.Errorf("page indexes = %d, %d; want 0, 1", doc.Pages[0].Index, doc.Pages[1].Index)
	}

	b := doc.Pages[0].Blocks[0]
	if b.Text != "hello" || b.Role != "heading1" {
		t.Errorf("block = %+v", b)
	}
	if b.BBox != [4]float64{72, 700, 100, 12} {
		t.Errorf("bbox = %v, want [72 700 100 12]", b.BBox)
	}
}

func TestJSONEmptyPageKeepsEmptyBlockArray(t *testing.T) {
	out, err := JSON([]*model.Page{page()}, false)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if !strings.Contains(out, `"blocks":[]`) {
		t.Errorf("empty page should serialize an empty array, got %s", out)
	}
}

func TestJSONPrettyIsIndentationOnly(t *testing.T) {
	pages := []*model.Page{page(block("hello", model.RoleParagraph))}

	compact, err := JSON(pages, false)
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	pretty, err := JSON(pages, true)
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}

	if !strings.Contains(pretty, "\n") {
		t.Error("pretty output has no newlines")
	}
	if strings.Contains(compact, "\n") {
		t.Error("compact output has newlines")
	}

	var a, b interface{}
	if err := json.Unmarshal([]byte(compact), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(pretty), &b); err != nil {
		t.Fatal(err)
	}
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if string(aj) != string(bj) {
		t.Error("pretty and compact outputs differ structurally")
	}
}

func TestJSONNoPages(t *testing.T) {
	out, err := JSON(nil, false)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if out != `{"pages":[]}` {
		t.Errorf("JSON(nil) = %q", out)
	}
}

func TestRenderersAgreeOnBlockCount(t *testing.T) {
	pages := []*model.Page{
		page(
			block("Title", model.RoleHeading1),
			block("first paragraph", model.RoleParagraph),
			block("second paragraph", model.RoleParagraph),
		),
		page(
			block("closing", model.RoleParagraph),
		),
	}

	want := 4

	textBlocks := 0
	for _, para := range strings.Split(Text(pages), "\n\n") {
		textBlocks += len(strings.Split(para, "\n"))
	}
	if textBlocks != want {
		t.Errorf("Text() yields %d blocks, want %d", textBlocks, want)
	}

	mdBlocks := len(strings.Split(Markdown(pages), "\n\n"))
	if mdBlocks != want {
		t.Errorf("Markdown() yields %d blocks, want %d", mdBlocks, want)
	}

	out, err := JSON(pages, false)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Pages []struct {
			Blocks []json.RawMessage `json:"blocks"`
		} `json:"pages"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatal(err)
	}
	jsonBlocks := 0
	for _, p := range doc.Pages {
		jsonBlocks += len(p.Blocks)
	}
	if jsonBlocks != want {
		t.Errorf("JSON() yields %d blocks, want %d", jsonBlocks, want)
	}
}
