package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gompdf/notepager/internal/source"
	"github.com/gompdf/notepager/pkg/api"
	"github.com/gompdf/notepager/pkg/errors"
)

const (
	formatJSON     = "json"
	formatPDF      = "pdf"
	formatMarkdown = "md"
)

// paginateOpts holds the flags of the paginate command.
type paginateOpts struct {
	title       string
	config      string // .toml or .yaml layout file
	paper       string
	orientation string
	format      string
	output      string // "" writes json/md to stdout and pdf next to the input
	sanitize    bool
	raw         bool // skip parsing: one page, raw body, templates untouched
}

func newPaginateCmd() *cobra.Command {
	opts := paginateOpts{format: formatJSON}

	cmd := &cobra.Command{
		Use:   "paginate [file|url|-]",
		Short: "Split an HTML note into pages",
		Long: `Split an HTML note into pages sized for the configured paper.

Reads an HTML or plain-text note from a file, an http(s) URL, a data URL
or stdin ("-") and writes the page sequence as JSON, a PDF text proof, or
Markdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaginate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "document title (default: file name)")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "layout file (.toml, .yaml)")
	cmd.Flags().StringVar(&opts.paper, "paper", "", "paper size: A4, Letter, Legal")
	cmd.Flags().StringVar(&opts.orientation, "orientation", "", "portrait or landscape")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, pdf, md")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path")
	cmd.Flags().BoolVar(&opts.sanitize, "sanitize", false, "sanitize untrusted markup before layout")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "skip parsing and emit a single uninterpolated page")

	return cmd
}

func runPaginate(cmd *cobra.Command, input string, opts paginateOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	format := strings.ToLower(opts.format)
	switch format {
	case formatJSON, formatPDF, formatMarkdown:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q", opts.format)
	}

	note, err := loadNote(cmd, input)
	if err != nil {
		return err
	}
	logger.Debug("loaded note", "source", note.URL, "type", note.MimeType, "bytes", len(note.Markup))

	apiOpts := []api.Option{api.WithLogger(logger)}
	if opts.config != "" {
		fc, err := api.LoadConfigFile(opts.config)
		if err != nil {
			return err
		}
		apiOpts = append(apiOpts, api.WithConfigFile(fc))
		logger.Debug("loaded layout file", "path", opts.config)
	}
	if opts.sanitize {
		apiOpts = append(apiOpts, api.WithSanitizing())
	}
	if opts.raw {
		apiOpts = append(apiOpts, api.WithoutParser())
	}

	overrides, err := flagOverrides(opts)
	if err != nil {
		return err
	}

	title := opts.title
	if title == "" {
		title = note.Title
	}
	if title == "" {
		title = defaultTitle(input)
	}

	p := api.New(apiOpts...)
	layout, err := p.BuildLayoutPages(api.Input{Title: title, HTML: note.Markup, Overrides: overrides})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Paginated %d pages", len(layout.Pages)))

	var out bytes.Buffer
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		out.Write(data)
		out.WriteByte('\n')
	case formatPDF:
		if err := p.ExportPDF(&out, layout); err != nil {
			return err
		}
	case formatMarkdown:
		md, err := p.ExportMarkdown(layout)
		if err != nil {
			return err
		}
		out.WriteString(md)
	}

	path := opts.output
	if path == "" && format == formatPDF && input != "-" && !isURL(input) {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
	}
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(out.Bytes())
		return err
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Infof("Wrote %s", path)
	return nil
}

// flagOverrides turns --paper and --orientation into layout overrides.
func flagOverrides(opts paginateOpts) (*api.Overrides, error) {
	var o api.Overrides
	set := false
	if opts.paper != "" {
		size, err := api.ParsePaperSize(opts.paper)
		if err != nil {
			return nil, err
		}
		o.PaperSize = &size
		set = true
	}
	if opts.orientation != "" {
		orient, err := api.ParseOrientation(opts.orientation)
		if err != nil {
			return nil, err
		}
		o.Orientation = &orient
		set = true
	}
	if !set {
		return nil, nil
	}
	return &o, nil
}

// loadNote reads stdin for "-" and otherwise loads a file, URL or data URL.
func loadNote(cmd *cobra.Command, input string) (*source.Note, error) {
	if input == "-" {
		return source.Read(cmd.InOrStdin(), input)
	}
	return source.NewLoader("").Load(cmd.Context(), input)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "data:")
}

// defaultTitle is the input file name without directory and extension.
func defaultTitle(input string) string {
	if input == "-" {
		return "Untitled"
	}
	base := filepath.Base(input)
	if t := strings.TrimSuffix(base, filepath.Ext(base)); t != "" {
		return t
	}
	return "Untitled"
}
