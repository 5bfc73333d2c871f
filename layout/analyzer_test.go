package layout

import (
	"testing"

	"github.com/scribadev/scriba/model"
)

func TestAnalyzeSimpleDocument(t *testing.T) {
	runs := []model.TextRun{
		run("Document Title", 72, 700, 180, 24),
		run("First line of the body.", 72, 660, 200, 12),
		run("Second line of the body.", 72, 646, 210, 12),
		run("Third line of the body.", 72, 632, 200, 12),
		run("• List item", 72, 590, 80, 12),
	}

	blocks := NewAnalyzer().Analyze(runs, letterWidth, letterHeight)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}

	if blocks[0].Role != model.RoleHeading1 {
		t.Errorf("title Role = %v, want heading1", blocks[0].Role)
	}
	if blocks[1].Role != model.RoleParagraph {
		t.Errorf("body Role = %v, want paragraph", blocks[1].Role)
	}
	if got := blocks[1].Text(); got != "First line of the body. Second line of the body. Third line of the body." {
		t.Errorf("body Text() = %q", got)
	}
	if blocks[2].Role != model.RoleListItem {
		t.Errorf("bullet Role = %v, want list_item", blocks[2].Role)
	}
}

func TestAnalyzeTwoColumns(t *testing.T) {
	runs := []model.TextRun{
		// Content stream interleaves the columns.
		run("right starts here", 330, 700, 190, 12),
		run("left starts here", 72, 700, 190, 12),
		run("right continues", 330, 686, 190, 12),
		run("left continues", 72, 686, 190, 12),
	}

	blocks := NewAnalyzer().Analyze(runs, letterWidth, letterHeight)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if got := blocks[0].Text(); got != "left starts here left continues" {
		t.Errorf("first block = %q, want the left column", got)
	}
	if got := blocks[1].Text(); got != "right starts here right continues" {
		t.Errorf("second block = %q, want the right column", got)
	}
}

func TestAnalyzeEmptyPage(t *testing.T) {
	if blocks := NewAnalyzer().Analyze(nil, letterWidth, letterHeight); blocks != nil {
		t.Errorf("Analyze(nil) = %v, want nil", blocks)
	}
}

func TestAnalyzeListDetectionDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisableLists = true

	runs := []model.TextRun{
		run("• item one", 72, 700, 80, 12),
		run("filler", 72, 660, 80, 12),
	}

	blocks := NewAnalyzerWithConfig(cfg).Analyze(runs, letterWidth, letterHeight)
	for _, b := range blocks {
		if b.Role == model.RoleListItem {
			t.Errorf("list detected with DisableLists set: %q", b.Text())
		}
	}
}

func TestAnalyzePage(t *testing.T) {
	page := &model.Page{
		Width:  letterWidth,
		Height: letterHeight,
		Runs: []model.TextRun{
			run("hello", 72, 700, 40, 12),
		},
	}

	NewAnalyzer().AnalyzePage(page)
	if len(page.Blocks) != 1 || page.Blocks[0].Text() != "hello" {
		t.Fatalf("page.Blocks = %+v, want one hello block", page.Blocks)
	}
}

func TestNewAnalyzerWithConfigFillsDefaults(t *testing.T) {
	cfg := NewAnalyzerWithConfig(Config{BlockGap: 2.0}).Config()

	if cfg.BlockGap != 2.0 {
		t.Errorf("BlockGap = %v, want 2.0 (caller value kept)", cfg.BlockGap)
	}
	def := DefaultConfig()
	if cfg.LineTolerance != def.LineTolerance {
		t.Errorf("LineTolerance = %v, want default %v", cfg.LineTolerance, def.LineTolerance)
	}
	if cfg.HeadingRatio != def.HeadingRatio {
		t.Errorf("HeadingRatio = %v, want default %v", cfg.HeadingRatio, def.HeadingRatio)
	}
	if cfg.MinColumnGutter != def.MinColumnGutter {
		t.Errorf("MinColumnGutter = %v, want default %v", cfg.MinColumnGutter, def.MinColumnGutter)
	}
	if cfg.MinTableRows != def.MinTableRows || cfg.TableAlignment != def.TableAlignment {
		t.Errorf("table thresholds not defaulted: %+v", cfg)
	}

	// A partial override must not silently switch detection features off.
	if cfg.DisableLists || cfg.DisableColumns || cfg.DisableTables {
		t.Error("partial config disabled detection features")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LineTolerance != 0.5 || cfg.BlockGap != 1.5 || cfg.HeadingRatio != 1.2 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.DisableLists || cfg.DisableColumns || cfg.DisableTables {
		t.Error("detection features are off by default")
	}
	if cfg.MinTableRows != 2 || cfg.MinTableCols != 2 || cfg.MaxTableCols != 6 {
		t.Errorf("unexpected table defaults: %+v", cfg)
	}
}
