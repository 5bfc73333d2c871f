package layout

// Config holds the thresholds layout analysis derives structure from. All
// fractional values are relative to font size, so the same configuration
// works across documents set at different sizes.
//
// Detection features are on by default; the Disable flags turn them off.
// The zero value of every field means "use the default", so a caller can
// override a single threshold without re-stating the rest.
type Config struct {
	// LineTolerance is the vertical distance, as a fraction of the font
	// size, within which two runs share a baseline.
	LineTolerance float64

	// BlockGap is the vertical gap between consecutive lines, as a
	// fraction of the font size, beyond which a new block starts.
	BlockGap float64

	// HeadingRatio is the minimum multiple of the body font size at
	// which a block is promoted to a heading.
	HeadingRatio float64

	// SizeBucket is the width in points of the histogram buckets used to
	// find the body font size and to rank heading sizes.
	SizeBucket float64

	// DisableLists turns off bullet and numbered list marker detection.
	DisableLists bool

	// DisableColumns turns off gutter detection and column-wise reading
	// order.
	DisableColumns bool

	// DisableTables turns off tabular region detection.
	DisableTables bool

	// MinColumnGutter is the narrowest vertical gap, in points, accepted
	// as a column gutter.
	MinColumnGutter float64

	// MinTableRows is the fewest consecutive aligned rows accepted as a
	// table.
	MinTableRows int

	// MinTableCols is the fewest column edges accepted as a table.
	MinTableCols int

	// MaxTableCols rejects regions with more column edges than this;
	// such regions are almost always word-level fragmenting, not tables.
	MaxTableCols int

	// TableAlignment is the minimum fraction of a row's runs that must
	// start on a shared column edge for the row to count as tabular.
	TableAlignment float64

	// MinCellGap is the narrowest horizontal distance, in points,
	// between two column edges of a table.
	MinCellGap float64
}

// DefaultConfig returns the thresholds used when the caller does not supply
// any.
func DefaultConfig() Config {
	return Config{
		LineTolerance:   0.5,
		BlockGap:        1.5,
		HeadingRatio:    1.2,
		SizeBucket:      0.1,
		MinColumnGutter: 18,
		MinTableRows:    2,
		MinTableCols:    2,
		MaxTableCols:    6,
		TableAlignment:  0.5,
		MinCellGap:      15,
	}
}
