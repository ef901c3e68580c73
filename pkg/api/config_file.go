package api

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gompdf/notepager/internal/pagination"
	"github.com/gompdf/notepager/pkg/errors"
)

// FileConfig is the on-disk layout configuration.
//
//	[layout]
//	paper_size = "Letter"
//	orientation = "landscape"
//	footer_template = "{pageNumber} of {totalPages}"
//
//	[layout.margins_mm]
//	top = 25
//
//	[calibration]
//	table_row = 26
type FileConfig struct {
	Layout      Overrides   `toml:"layout" yaml:"layout"`
	Calibration Calibration `toml:"calibration" yaml:"calibration"`
}

// LoadConfigFile reads a .toml, .yaml or .yml layout file. Calibration keys
// absent from the file keep their default values; empty strings count as
// absent.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading %s", path)
	}

	cfg := FileConfig{Calibration: pagination.DefaultCalibration()}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decoding %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decoding %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}

	cfg.Layout.dropEmpty()
	if err := cfg.Layout.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Calibration.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// dropEmpty treats empty paper size and orientation strings as absent.
func (o *Overrides) dropEmpty() {
	if o.PaperSize != nil && *o.PaperSize == "" {
		o.PaperSize = nil
	}
	if o.Orientation != nil && *o.Orientation == "" {
		o.Orientation = nil
	}
}

// normalize canonicalises the case of paper size and orientation.
func (o *Overrides) normalize() error {
	if o.PaperSize != nil {
		p, err := ParsePaperSize(string(*o.PaperSize))
		if err != nil {
			return err
		}
		o.PaperSize = &p
	}
	if o.Orientation != nil {
		r, err := ParseOrientation(string(*o.Orientation))
		if err != nil {
			return err
		}
		o.Orientation = &r
	}
	return nil
}

// WithConfigFile applies a loaded file to Options: the layout overrides are
// merged over the current layout and the calibration replaces the current one.
func WithConfigFile(fc *FileConfig) Option {
	return func(o *Options) {
		if fc == nil {
			return
		}
		o.Layout = o.Layout.Merge(&fc.Layout)
		o.Calibration = fc.Calibration
	}
}
