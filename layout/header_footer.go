package layout

import (
	"strings"
	"unicode"

	"github.com/scribadev/scriba/model"
)

// edgeBand is the fraction of the page height at the top and bottom where
// headers and footers live.
const edgeBand = 0.1

// repeatFraction is the share of pages a block's text must repeat on to be
// treated as a running header or footer.
const repeatFraction = 0.5

// FilterHeadersFooters removes running headers and footers: blocks in the
// top or bottom band of the page whose normalized text repeats across at
// least half the pages. Page numbers vary per page, so digit runs are
// collapsed before comparing. Documents with fewer than three pages are
// left alone.
func FilterHeadersFooters(pageBlocks [][]model.Block, pageHeight float64) [][]model.Block {
	if len(pageBlocks) < 3 || pageHeight <= 0 {
		return pageBlocks
	}

	counts := make(map[string]int)
	for _, blocks := range pageBlocks {
		seen := make(map[string]bool)
		for _, b := range blocks {
			if !inEdgeBand(b.BBox, pageHeight) {
				continue
			}
			key := normalizeEdgeText(b.Text())
			if key != "" && !seen[key] {
				seen[key] = true
				counts[key]++
			}
		}
	}

	minRepeats := int(float64(len(pageBlocks))*repeatFraction + 0.5)
	if minRepeats < 2 {
		minRepeats = 2
	}

	out := make([][]model.Block, len(pageBlocks))
	for i, blocks := range pageBlocks {
		kept := blocks[:0]
		for _, b := range blocks {
			if inEdgeBand(b.BBox, pageHeight) {
				if counts[normalizeEdgeText(b.Text())] >= minRepeats {
					continue
				}
			}
			kept = append(kept, b)
		}
		out[i] = kept
	}

	return out
}

func inEdgeBand(bbox model.BBox, pageHeight float64) bool {
	band := pageHeight * edgeBand
	return bbox.Bottom() >= pageHeight-band || bbox.Top() <= band
}

// normalizeEdgeText collapses digit runs and whitespace so "Page 3" and
// "Page 12" compare equal.
func normalizeEdgeText(s string) string {
	var sb strings.Builder
	inDigits := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			if !inDigits {
				sb.WriteRune('#')
				inDigits = true
			}
			continue
		}
		inDigits = false
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
