package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/scribadev/scriba/model"
)

// edgeBucket is the width in points of the histogram buckets that cluster
// run left edges into column-edge candidates.
const edgeBucket = 5.0

// edgeTolerance is how far, in points, a run's left edge may sit from a
// column edge and still count as aligned to it.
const edgeTolerance = 5.0

// ExtractTables finds tabular regions among the lines and lifts them out of
// the text flow. A region qualifies when enough consecutive multi-run lines
// start their runs on shared left-aligned column edges; regions that are
// really lists (a marker run beside a text run) are left alone. The second
// return holds the lines that stay in the flow.
func ExtractTables(lines []model.Line, cfg Config) ([]model.Block, []model.Line) {
	if len(lines) < cfg.MinTableRows {
		return nil, lines
	}

	edges := columnEdges(lines, cfg)
	if len(edges) < cfg.MinTableCols || len(edges) > cfg.MaxTableCols {
		return nil, lines
	}

	var tables []model.Block
	used := make([]bool, len(lines))
	for _, region := range tableRegions(lines, edges, cfg) {
		rows := lines[region.start : region.end+1]
		if isListRegion(rows) {
			continue
		}
		tables = append(tables, buildTable(rows, edges))
		for i := region.start; i <= region.end; i++ {
			used[i] = true
		}
	}
	if len(tables) == 0 {
		return nil, lines
	}

	rest := make([]model.Line, 0, len(lines))
	for i, line := range lines {
		if !used[i] {
			rest = append(rest, line)
		}
	}
	return tables, rest
}

// columnEdges votes run left edges from multi-run lines into buckets and
// keeps the positions that recur across enough lines. Edges closer together
// than a cell gap merge; fragments inside one cell vote for nearly the same
// position.
func columnEdges(lines []model.Line, cfg Config) []float64 {
	votes := make(map[int64]int)
	multi := 0
	for _, line := range lines {
		if len(line.Runs) < 2 {
			continue
		}
		multi++
		seen := make(map[int64]bool)
		for _, run := range line.Runs {
			seen[int64(math.Round(run.X/edgeBucket))] = true
		}
		for b := range seen {
			votes[b]++
		}
	}
	if multi < cfg.MinTableRows {
		return nil
	}

	need := int(math.Ceil(float64(multi) * cfg.TableAlignment))
	if need < 2 {
		need = 2
	}

	var candidates []float64
	for b, count := range votes {
		if count >= need {
			candidates = append(candidates, float64(b)*edgeBucket)
		}
	}
	sort.Float64s(candidates)

	var edges []float64
	for _, e := range candidates {
		if len(edges) == 0 || e-edges[len(edges)-1] >= cfg.MinCellGap {
			edges = append(edges, e)
		}
	}
	return edges
}

type lineSpan struct{ start, end int }

// tableRegions returns the maximal stretches of consecutive tabular lines
// long enough to be tables.
func tableRegions(lines []model.Line, edges []float64, cfg Config) []lineSpan {
	var regions []lineSpan
	start := -1
	for i, line := range lines {
		if tabularLine(line, edges, cfg) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= cfg.MinTableRows {
			regions = append(regions, lineSpan{start, i - 1})
		}
		start = -1
	}
	if start >= 0 && len(lines)-start >= cfg.MinTableRows {
		regions = append(regions, lineSpan{start, len(lines) - 1})
	}
	return regions
}

func tabularLine(line model.Line, edges []float64, cfg Config) bool {
	if len(line.Runs) < 2 {
		return false
	}
	aligned := 0
	for _, run := range line.Runs {
		if alignsToEdge(run.X, edges) {
			aligned++
		}
	}
	return float64(aligned)/float64(len(line.Runs)) >= cfg.TableAlignment
}

func alignsToEdge(x float64, edges []float64) bool {
	for _, e := range edges {
		if math.Abs(x-e) <= edgeTolerance {
			return true
		}
	}
	return false
}

// isListRegion reports whether the rows are a list whose markers landed in
// their own runs. A numbered or bulleted list reads exactly like a two
// column table to edge voting, so marker-led rows reject the region.
func isListRegion(rows []model.Line) bool {
	markers := 0
	for _, line := range rows {
		if len(line.Runs) == 0 {
			continue
		}
		text := strings.TrimSpace(line.Runs[0].Text)
		if marker, rest, ok := SplitListMarker(text); ok && marker != "" && rest == "" {
			markers++
		}
	}
	return markers*2 >= len(rows)
}

// buildTable assigns each row's runs to the column whose edge precedes
// them, concatenating runs that land in the same cell.
func buildTable(rows []model.Line, edges []float64) model.Block {
	table := model.NewTable(len(rows), len(edges))
	if len(rows) > 1 {
		table.HeaderRows = 1
	}

	bbox := rows[0].BBox
	for _, line := range rows[1:] {
		bbox = bbox.Union(line.BBox)
	}
	table.BBox = bbox

	for i, line := range rows {
		for _, run := range line.Runs {
			cell := table.Cell(i, columnFor(run.X, edges))
			if cell == nil {
				continue
			}
			if cell.Text != "" {
				cell.Text += " "
			}
			cell.Text += run.Text
			if cell.BBox.IsEmpty() {
				cell.BBox = run.BBox()
			} else {
				cell.BBox = cell.BBox.Union(run.BBox())
			}
		}
	}

	markColumnSpans(table, edges)

	return model.Block{BBox: bbox, Role: model.RoleTable, Table: table}
}

// columnFor returns the index of the rightmost edge at or left of x, within
// tolerance. Runs left of every edge fall into the first column.
func columnFor(x float64, edges []float64) int {
	col := 0
	for i, e := range edges {
		if x >= e-edgeTolerance {
			col = i
		}
	}
	return col
}

// markColumnSpans widens cells whose content crosses the next column edge
// into empty neighbors, which is how merged header cells come out of the
// grid.
func markColumnSpans(table *model.Table, edges []float64) {
	for i := 0; i < table.RowCount(); i++ {
		for j := 0; j < table.ColCount(); j++ {
			cell := table.Cell(i, j)
			if cell.Text == "" {
				continue
			}
			span := 1
			for k := j + 1; k < len(edges); k++ {
				if cell.BBox.Right() > edges[k]+edgeTolerance && table.Cell(i, k).Text == "" {
					span++
				} else {
					break
				}
			}
			cell.ColSpan = span
		}
	}
}
