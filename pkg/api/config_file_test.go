package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gompdf/notepager/pkg/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadConfigFile_TOML(t *testing.T) {
	path := writeConfig(t, "layout.toml", `
[layout]
paper_size = "letter"
orientation = "Landscape"
footer_template = "{pageNumber} of {totalPages}"

[layout.margins_mm]
top = 25.0

[layout.section_break]
element = "page-break"

[calibration]
table_row = 26.0
`)

	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}
	if fc.Layout.PaperSize == nil || *fc.Layout.PaperSize != PaperLetter {
		t.Errorf("PaperSize = %v, want Letter", fc.Layout.PaperSize)
	}
	if fc.Layout.Orientation == nil || *fc.Layout.Orientation != PageOrientationLandscape {
		t.Errorf("Orientation = %v, want landscape", fc.Layout.Orientation)
	}
	if fc.Layout.Margins == nil || fc.Layout.Margins.Top == nil || *fc.Layout.Margins.Top != 25 {
		t.Errorf("Margins.Top not loaded: %+v", fc.Layout.Margins)
	}
	if fc.Layout.Margins.Left != nil {
		t.Errorf("Margins.Left = %v, want absent", *fc.Layout.Margins.Left)
	}
	if fc.Calibration.TableRow != 26 {
		t.Errorf("TableRow = %v, want 26", fc.Calibration.TableRow)
	}
	if fc.Calibration.TableBase != DefaultCalibration().TableBase {
		t.Errorf("TableBase = %v, want default", fc.Calibration.TableBase)
	}

	p := New(WithConfigFile(fc))
	cfg := p.Options().Layout
	if cfg.Margins.Top != 25 || cfg.Margins.Left != 16 {
		t.Errorf("merged margins = %+v", cfg.Margins)
	}
	if cfg.SectionBreak != (SectionBreak{Element: "page-break"}) {
		t.Errorf("SectionBreak = %+v", cfg.SectionBreak)
	}
	if cfg.HeaderTemplate != DefaultLayoutConfig().HeaderTemplate {
		t.Errorf("HeaderTemplate = %q, want default", cfg.HeaderTemplate)
	}
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := writeConfig(t, "layout.yml", `
layout:
  paper_size: Legal
  header_height_mm: 10.5
calibration:
  char_width: 7.5
`)

	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}
	cfg, err := MergeConfig(&fc.Layout)
	if err != nil {
		t.Fatalf("MergeConfig() failed: %v", err)
	}
	if cfg.PaperSize != PaperLegal || cfg.HeaderHeight != 10.5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Orientation != PageOrientationPortrait {
		t.Errorf("Orientation = %q, want default", cfg.Orientation)
	}
	if fc.Calibration.CharWidth != 7.5 || fc.Calibration.H1 != DefaultCalibration().H1 {
		t.Errorf("Calibration = %+v", fc.Calibration)
	}
}

func TestLoadConfigFile_EmptyStringsAreAbsent(t *testing.T) {
	path := writeConfig(t, "layout.yaml", "layout:\n  paper_size: \"\"\n  orientation: \"\"\n")
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}
	if fc.Layout.PaperSize != nil || fc.Layout.Orientation != nil {
		t.Errorf("empty values kept: %+v", fc.Layout)
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"extension", "layout.json", `{}`},
		{"bad toml", "layout.toml", "[layout\n"},
		{"bad yaml", "layout.yaml", "layout: [unclosed\n"},
		{"bad paper", "layout.toml", "[layout]\npaper_size = \"A3\"\n"},
		{"bad orientation", "layout.yaml", "layout:\n  orientation: diagonal\n"},
		{"negative calibration", "layout.toml", "[calibration]\ntable_row = -5.0\n"},
		{"NaN calibration", "layout.yaml", "calibration:\n  char_width: .nan\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFile(writeConfig(t, tt.file, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing file err = %v", err)
	}
}
