package layout

import (
	"sort"
	"strings"

	"github.com/scribadev/scriba/model"
	"github.com/scribadev/scriba/text"
)

// BuildLines clusters text runs into baseline lines and orders the lines
// top to bottom. Runs within a line come out in reading order: ascending X
// for left-to-right text, descending for right-to-left.
func BuildLines(runs []model.TextRun, cfg Config) []model.Line {
	if len(runs) == 0 {
		return nil
	}

	// Top of the page first, then left to right. PDF Y grows upward.
	sorted := make([]model.TextRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []model.Line
	current := []model.TextRun{sorted[0]}
	baseline := sorted[0].Y

	for _, run := range sorted[1:] {
		tolerance := cfg.LineTolerance * maxSize(current[len(current)-1].FontSize, run.FontSize)
		if baseline-run.Y <= tolerance {
			current = append(current, run)
			continue
		}

		lines = append(lines, finishLine(current))
		current = []model.TextRun{run}
		baseline = run.Y
	}
	lines = append(lines, finishLine(current))

	return lines
}

// finishLine orders a line's runs in reading order and computes its box.
func finishLine(runs []model.TextRun) model.Line {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].X < runs[j].X
	})

	if lineDirection(runs) == text.RTL {
		for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
			runs[i], runs[j] = runs[j], runs[i]
		}
	}

	bbox := runs[0].BBox()
	for _, run := range runs[1:] {
		bbox = bbox.Union(run.BBox())
	}

	return model.Line{Runs: runs, BBox: bbox}
}

// lineDirection returns the dominant script direction of the line.
func lineDirection(runs []model.TextRun) text.Direction {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(run.Text)
	}
	return text.DetectDirection(sb.String())
}

func maxSize(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
