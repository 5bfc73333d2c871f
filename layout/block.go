package layout

import (
	"math"

	"github.com/scribadev/scriba/model"
)

// BuildBlocks clusters consecutive lines into blocks. A new block starts
// when the vertical gap between lines exceeds the block gap threshold, when
// the dominant font size changes materially, or when the line's left edge
// jumps backward past the block's left margin (a column or section break).
//
// Lines must already be in reading order; blocks inherit it.
func BuildBlocks(lines []model.Line, cfg Config) []model.Block {
	if len(lines) == 0 {
		return nil
	}

	var blocks []model.Block
	current := []model.Line{lines[0]}

	for _, line := range lines[1:] {
		if startsNewBlock(current, line, cfg) {
			blocks = append(blocks, finishBlock(current))
			current = []model.Line{line}
			continue
		}
		current = append(current, line)
	}
	blocks = append(blocks, finishBlock(current))

	return blocks
}

func startsNewBlock(current []model.Line, line model.Line, cfg Config) bool {
	prev := current[len(current)-1]
	size := prev.DominantFontSize()
	if size <= 0 {
		size = line.DominantFontSize()
	}

	// Vertical gap measured baseline band to baseline band.
	gap := prev.BBox.Bottom() - line.BBox.Top()
	if gap > cfg.BlockGap*size {
		return true
	}

	// A material font size change starts a new block even without extra
	// spacing: headings frequently sit flush above their body text.
	if sizeDiffers(size, line.DominantFontSize(), cfg.SizeBucket) {
		return true
	}

	// A line physically above the previous one means the flow jumped
	// (new column or out-of-order content stream).
	if line.BBox.Bottom() > prev.BBox.Top() {
		return true
	}

	return false
}

// sizeDiffers reports whether two font sizes land in different histogram
// buckets and differ by more than rounding noise.
func sizeDiffers(a, b, bucket float64) bool {
	if bucket <= 0 {
		bucket = 0.1
	}
	return math.Abs(a-b) > bucket*1.5
}

func finishBlock(lines []model.Line) model.Block {
	bbox := lines[0].BBox
	for _, line := range lines[1:] {
		bbox = bbox.Union(line.BBox)
	}

	return model.Block{Lines: lines, BBox: bbox, Role: model.RoleParagraph}
}
