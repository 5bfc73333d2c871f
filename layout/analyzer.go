package layout

import (
	"github.com/scribadev/scriba/model"
)

// Analyzer reconstructs document structure from positioned text runs. It is
// stateless across pages and safe to reuse.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer returns an analyzer with the default thresholds.
func NewAnalyzer() *Analyzer {
	return &Analyzer{cfg: DefaultConfig()}
}

// NewAnalyzerWithConfig returns an analyzer with caller-supplied thresholds.
// Zero-valued fields are replaced by their defaults.
func NewAnalyzerWithConfig(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.LineTolerance <= 0 {
		cfg.LineTolerance = def.LineTolerance
	}
	if cfg.BlockGap <= 0 {
		cfg.BlockGap = def.BlockGap
	}
	if cfg.HeadingRatio <= 0 {
		cfg.HeadingRatio = def.HeadingRatio
	}
	if cfg.SizeBucket <= 0 {
		cfg.SizeBucket = def.SizeBucket
	}
	if cfg.MinColumnGutter <= 0 {
		cfg.MinColumnGutter = def.MinColumnGutter
	}
	if cfg.MinTableRows <= 0 {
		cfg.MinTableRows = def.MinTableRows
	}
	if cfg.MinTableCols <= 0 {
		cfg.MinTableCols = def.MinTableCols
	}
	if cfg.MaxTableCols <= 0 {
		cfg.MaxTableCols = def.MaxTableCols
	}
	if cfg.TableAlignment <= 0 {
		cfg.TableAlignment = def.TableAlignment
	}
	if cfg.MinCellGap <= 0 {
		cfg.MinCellGap = def.MinCellGap
	}
	return &Analyzer{cfg: cfg}
}

// Config returns the analyzer's effective configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze turns one page's text runs into reading-ordered blocks with
// resolved roles. Runs may arrive in any order; the content stream rarely
// matches the visual order. Tables are detected within each column so a
// prose column is never mistaken for table cells.
func (a *Analyzer) Analyze(runs []model.TextRun, pageWidth, pageHeight float64) []model.Block {
	lines := BuildLines(runs, a.cfg)
	if len(lines) == 0 {
		return nil
	}

	bodySize := BodyFontSize(lines, a.cfg.SizeBucket)

	var blocks []model.Block
	for _, column := range SplitColumns(lines, pageWidth, a.cfg) {
		colLines := column
		var tables []model.Block
		if !a.cfg.DisableTables {
			tables, colLines = ExtractTables(column, a.cfg)
		}
		blocks = append(blocks, interleaveTables(BuildBlocks(colLines, a.cfg), tables)...)
	}

	// Heading promotion and list detection skip table blocks: a table
	// block has no lines, so its font size is zero, and its role is
	// already resolved.
	assignHeadings(blocks, bodySize, a.cfg)

	if !a.cfg.DisableLists {
		for i := range blocks {
			if blocks[i].Role == model.RoleParagraph && IsListItem(blocks[i].Text()) {
				blocks[i].Role = model.RoleListItem
			}
		}
	}

	return blocks
}

// interleaveTables re-inserts table blocks into the flow by vertical
// position. Both inputs arrive top to bottom.
func interleaveTables(blocks, tables []model.Block) []model.Block {
	if len(tables) == 0 {
		return blocks
	}
	out := make([]model.Block, 0, len(blocks)+len(tables))
	ti := 0
	for _, b := range blocks {
		for ti < len(tables) && tables[ti].BBox.Top() > b.BBox.Top() {
			out = append(out, tables[ti])
			ti++
		}
		out = append(out, b)
	}
	return append(out, tables[ti:]...)
}

// AnalyzePage populates a model.Page's blocks from its runs.
func (a *Analyzer) AnalyzePage(page *model.Page) {
	page.Blocks = a.Analyze(page.Runs, page.Width, page.Height)
}
