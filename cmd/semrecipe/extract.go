package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/semrecipe/config"
	"github.com/c360studio/semrecipe/export"
	"github.com/c360studio/semrecipe/recipe"
	"github.com/c360studio/semrecipe/source"
	"github.com/c360studio/semrecipe/source/dereference"
	"github.com/c360studio/semrecipe/source/weburl"
	"github.com/c360studio/semrecipe/units"
)

// extractOptions are the flags of the extract command.
type extractOptions struct {
	globs       []string
	format      string
	concurrency int
	scale       float64
	long        bool
}

// extraction is the outcome for one input.
type extraction struct {
	Source  string          `json:"source"`
	URL     string          `json:"url,omitempty"`
	Title   string          `json:"title,omitempty"`
	Recipes []recipe.Recipe `json:"recipes"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`

	doc *dereference.Document
}

func extractCmd(flags *globalFlags) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract [url|file]...",
		Short: "Extract recipes from pages or saved files",
		Long: `Extract reads schema.org Recipe markup from HTTPS pages and local files
(.html, .jsonld, .json, .nq, .nt) and prints the recipes as JSON, or the
page graph as Turtle, N-Triples, N-Quads or JSON-LD.`,
		Example: `  semrecipe extract https://example.com/pancakes
  semrecipe extract --glob 'saved/**/*.html' --scale 2
  semrecipe extract page.html --format turtle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), flags.logLevel)
			cfg, err := config.NewLoader(logger).Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			inputs, err := expandInputs(args, opts.globs)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("nothing to extract: give a URL, a file or --glob")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			derefOpts := []dereference.Option{dereference.WithLogger(logger)}
			if cfg.Extract.NormalizeMarkup {
				derefOpts = append(derefOpts, dereference.WithMarkupNormalization())
			}
			fetcher := dereference.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, cfg.Fetch.MaxContentSize, cfg.Fetch.MaxRedirects)
			d := dereference.New(fetcher, derefOpts...)

			concurrency := cfg.Extract.Concurrency
			if opts.concurrency > 0 {
				concurrency = opts.concurrency
			}
			results, err := extractAll(ctx, d, inputs, concurrency)
			if err != nil {
				return err
			}

			if opts.scale > 0 && opts.scale != 1 {
				length := cfg.DisplayLength()
				if opts.long {
					length = units.Long
				}
				scaleResults(results, opts.scale, length)
			}

			if err := writeExtractions(cmd.OutOrStdout(), results, opts.format); err != nil {
				return err
			}
			for _, r := range results {
				if r.Error != "" {
					return fmt.Errorf("%d of %d inputs failed", countFailed(results), len(results))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.globs, "glob", nil, "Glob of local files to extract (supports **)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format (json, turtle, ntriples, nquads, jsonld)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Inputs extracted at once (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "Scale ingredient amounts by this multiple")
	cmd.Flags().BoolVar(&opts.long, "long", false, "Spell out unit names when scaling")
	return cmd
}

// validate checks the flags that do not depend on the inputs, so a bad
// flag fails before anything is fetched.
func (o extractOptions) validate() error {
	if o.scale < 0 {
		return fmt.Errorf("--scale must be positive")
	}
	if o.format != "" && !strings.EqualFold(o.format, "json") {
		if _, ok := export.ParseFormat(o.format); !ok {
			return fmt.Errorf("unsupported format %q", o.format)
		}
	}
	return nil
}

// expandInputs appends the files matching each glob to args, in order and
// without duplicates.
func expandInputs(args, globs []string) ([]string, error) {
	seen := make(map[string]bool)
	var inputs []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			inputs = append(inputs, s)
		}
	}
	for _, a := range args {
		add(a)
	}
	for _, pattern := range globs {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if dereference.ContentTypeForPath(m) != "" {
				add(m)
			}
		}
	}
	return inputs, nil
}

// extractAll reads every input with at most concurrency in flight. A
// failed input is reported in its extraction; only cancellation aborts.
func extractAll(ctx context.Context, d *dereference.Dereferencer, inputs []string, concurrency int) ([]*extraction, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]*extraction, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = extractOne(gctx, d, input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return results, nil
}

func extractOne(ctx context.Context, d *dereference.Dereferencer, input string) *extraction {
	result := &extraction{Source: input, Recipes: []recipe.Recipe{}}

	var (
		doc *dereference.Document
		err error
	)
	if isRemote(input) {
		doc, err = d.Dereference(ctx, input)
	} else {
		doc, err = parseFile(d, input)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.doc = doc
	result.URL = doc.FinalURL
	result.Title = doc.Title
	result.Recipes = doc.Recipes()
	if len(result.Recipes) == 0 {
		result.Message = source.NoRecipesMessage(input)
	}
	return result
}

func isRemote(input string) bool {
	return strings.HasPrefix(input, "https://") || strings.HasPrefix(input, "http://")
}

func parseFile(d *dereference.Dereferencer, path string) (*dereference.Document, error) {
	contentType := dereference.ContentTypeForPath(path)
	if contentType == "" {
		return nil, fmt.Errorf("%w: %s", dereference.ErrUnsupportedContentType, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return d.Parse(data, contentType, weburl.FileURL(path))
}

func scaleResults(results []*extraction, multiple float64, length units.Length) {
	for _, r := range results {
		for i := range r.Recipes {
			r.Recipes[i].Ingredients = recipe.Scaled(r.Recipes[i].Ingredients, multiple, length)
		}
	}
}

func countFailed(results []*extraction) int {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	return n
}

// writeExtractions prints results as JSON, or each input's graph in an
// export format.
func writeExtractions(w io.Writer, results []*extraction, format string) error {
	if format == "" || strings.EqualFold(format, "json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	f, ok := export.ParseFormat(format)
	if !ok {
		return fmt.Errorf("unsupported format %q", format)
	}
	for _, r := range results {
		if r.doc == nil {
			continue
		}
		if err := export.WriteStore(w, r.doc.Store, f); err != nil {
			return fmt.Errorf("write %s: %w", r.Source, err)
		}
	}
	return nil
}
