package layout

import (
	"sort"

	"github.com/scribadev/scriba/model"
)

// SplitColumns partitions lines into columns when an uninterrupted vertical
// gutter divides the page. The result is ordered for reading: all of the
// left column, then the right. When no gutter qualifies the input comes
// back as a single column.
//
// The gutter is found from run coverage rather than line coverage, because
// two-column pages put left and right runs on shared baselines and line
// boxes would always span the gap. Lines that straddle the gutter are split
// into a left and a right line.
//
// A gutter only qualifies if no single run crosses it, so pages with
// full-width titles above columned text stay single column. That loses some
// layouts but never scrambles reading order, which is the worse failure.
func SplitColumns(lines []model.Line, pageWidth float64, cfg Config) [][]model.Line {
	if cfg.DisableColumns || len(lines) < 2 || pageWidth <= 0 {
		return [][]model.Line{lines}
	}

	var runCount int
	for _, line := range lines {
		runCount += len(line.Runs)
	}
	if runCount < 4 {
		return [][]model.Line{lines}
	}

	gutter, ok := findGutter(lines, pageWidth, cfg.MinColumnGutter)
	if !ok {
		return [][]model.Line{lines}
	}

	var left, right []model.Line
	for _, line := range lines {
		l, r := splitLineAt(line, gutter)
		if len(l.Runs) > 0 {
			left = append(left, l)
		}
		if len(r.Runs) > 0 {
			right = append(right, r)
		}
	}

	// Degenerate splits mean the gutter was a margin, not a divider.
	if len(left) < 2 || len(right) < 2 {
		return [][]model.Line{lines}
	}

	return [][]model.Line{left, right}
}

// splitLineAt partitions a line's runs around the gutter, preserving their
// reading order within each side.
func splitLineAt(line model.Line, gutter float64) (left, right model.Line) {
	for _, run := range line.Runs {
		if run.BBox().Center().X < gutter {
			left.Runs = append(left.Runs, run)
		} else {
			right.Runs = append(right.Runs, run)
		}
	}
	left = reboxLine(left)
	right = reboxLine(right)
	return left, right
}

func reboxLine(line model.Line) model.Line {
	if len(line.Runs) == 0 {
		return line
	}
	bbox := line.Runs[0].BBox()
	for _, run := range line.Runs[1:] {
		bbox = bbox.Union(run.BBox())
	}
	line.BBox = bbox
	return line
}

// findGutter returns the midpoint of the widest horizontal interval in the
// central band of the page that no run's box covers.
func findGutter(lines []model.Line, pageWidth, minWidth float64) (float64, bool) {
	type interval struct{ lo, hi float64 }

	var covered []interval
	for _, line := range lines {
		for _, run := range line.Runs {
			box := run.BBox()
			covered = append(covered, interval{box.Left(), box.Right()})
		}
	}
	sort.Slice(covered, func(i, j int) bool { return covered[i].lo < covered[j].lo })

	// Merge and track the widest gap between covered spans.
	var bestMid, bestWidth float64
	reach := covered[0].hi
	for _, iv := range covered[1:] {
		if iv.lo > reach {
			width := iv.lo - reach
			mid := reach + width/2
			if width > bestWidth && mid > pageWidth*0.25 && mid < pageWidth*0.75 {
				bestWidth = width
				bestMid = mid
			}
		}
		if iv.hi > reach {
			reach = iv.hi
		}
	}

	if bestWidth < minWidth {
		return 0, false
	}
	return bestMid, true
}
