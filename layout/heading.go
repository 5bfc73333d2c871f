package layout

import (
	"math"
	"sort"

	"github.com/scribadev/scriba/model"
)

// maxHeadingLevel caps heading promotion: sizes ranked past the third
// distinct heading size still render as heading3.
const maxHeadingLevel = 3

// BodyFontSize returns the page's dominant font size: the mode of the
// lines' dominant sizes, bucketed to absorb sub-point jitter. Ties go to
// the smaller size, since body text outnumbers everything else in a
// well-formed page and decoration tends to be larger.
func BodyFontSize(lines []model.Line, bucket float64) float64 {
	if bucket <= 0 {
		bucket = 0.1
	}

	counts := make(map[int64]int)
	for _, line := range lines {
		if size := line.DominantFontSize(); size > 0 {
			counts[bucketKey(size, bucket)]++
		}
	}
	if len(counts) == 0 {
		return 0
	}

	var bestKey int64
	bestCount := -1
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < bestKey) {
			bestKey = key
			bestCount = count
		}
	}

	return float64(bestKey) * bucket
}

// assignHeadings promotes blocks whose font size clears the heading ratio
// over the body size. Distinct heading sizes are ranked largest first and
// mapped to levels 1 through 3.
func assignHeadings(blocks []model.Block, bodySize float64, cfg Config) {
	if bodySize <= 0 {
		return
	}

	threshold := bodySize * cfg.HeadingRatio

	// Collect the distinct candidate sizes.
	seen := make(map[int64]bool)
	var sizes []float64
	for _, b := range blocks {
		size := b.FontSize()
		if size < threshold {
			continue
		}
		key := bucketKey(size, cfg.SizeBucket)
		if !seen[key] {
			seen[key] = true
			sizes = append(sizes, float64(key)*cfg.SizeBucket)
		}
	}
	if len(sizes) == 0 {
		return
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	rank := make(map[int64]int, len(sizes))
	for i, size := range sizes {
		level := i + 1
		if level > maxHeadingLevel {
			level = maxHeadingLevel
		}
		rank[bucketKey(size, cfg.SizeBucket)] = level
	}

	for i := range blocks {
		size := blocks[i].FontSize()
		if size < threshold {
			continue
		}
		switch rank[bucketKey(size, cfg.SizeBucket)] {
		case 1:
			blocks[i].Role = model.RoleHeading1
		case 2:
			blocks[i].Role = model.RoleHeading2
		case 3:
			blocks[i].Role = model.RoleHeading3
		}
	}
}

func bucketKey(size, bucket float64) int64 {
	return int64(math.Round(size / bucket))
}
