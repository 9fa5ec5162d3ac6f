package dereference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/c360studio/semrecipe/rdf"
	"github.com/c360studio/semrecipe/recipe"
)

// ErrUnsupportedContentType is returned for documents that carry no
// format the dereferencer can read.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// Media types the dereferencer reads.
const (
	MediaHTML         = "text/html"
	MediaXHTML        = "application/xhtml+xml"
	MediaJSONLD       = "application/ld+json"
	MediaJSON         = "application/json"
	MediaNQuads       = "application/n-quads"
	MediaNTriples     = "application/n-triples"
	mediaTextNTriples = "text/n-triples"
)

// Document is the structured data of one page.
type Document struct {
	// Store holds every quad found in the page.
	Store *rdf.Store
	// Order ranks subjects and objects by where they first appeared.
	Order rdf.DocumentOrder
	// FinalURL is the page URL after redirects.
	FinalURL string
	// Title is the HTML title, if any.
	Title string
}

// Recipes extracts the recipes in the document.
func (d *Document) Recipes() []recipe.Recipe {
	return recipe.Parse(d.Store, d.FinalURL, d.Order)
}

// Dereferencer fetches pages and parses their structured data.
type Dereferencer struct {
	fetcher Fetcher
	markup  *MarkupNormalizer
	logger  *slog.Logger
}

// Option configures a Dereferencer.
type Option func(*Dereferencer)

// WithMarkupNormalization converts HTML inside literal values to Markdown.
func WithMarkupNormalization() Option {
	return func(d *Dereferencer) {
		d.markup = NewMarkupNormalizer()
	}
}

// WithLogger sets the logger for skipped blocks.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dereferencer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Dereferencer. A nil fetcher only supports Parse.
func New(fetcher Fetcher, opts ...Option) *Dereferencer {
	d := &Dereferencer{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dereference fetches url and parses its structured data. The Document's
// FinalURL is the URL after redirects.
func (d *Dereferencer) Dereference(ctx context.Context, url string) (*Document, error) {
	if d.fetcher == nil {
		return nil, fmt.Errorf("dereference %s: no fetcher configured", url)
	}
	result, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dereference %s: %w", url, err)
	}
	finalURL := result.FinalURL
	if finalURL == "" {
		finalURL = url
	}
	doc, err := d.Parse(result.Body, result.ContentType, finalURL)
	if err != nil {
		return nil, fmt.Errorf("dereference %s: %w", url, err)
	}
	return doc, nil
}

// Parse reads a document already in memory. contentType selects the
// format; docURL is the document's URL and the base for relative IRIs.
func (d *Dereferencer) Parse(data []byte, contentType, docURL string) (*Document, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch mediaType {
	case MediaHTML, MediaXHTML:
		return d.ParseHTML(data, docURL)
	case MediaJSONLD, MediaJSON:
		return d.ParseJSONLD(data, docURL)
	case MediaNQuads, MediaNTriples, mediaTextNTriples:
		return d.ParseNQuads(data, docURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
}

// ParseHTML reads every JSON-LD block in an HTML page into one Document.
// Blocks that are not valid JSON-LD are logged and skipped, so a page
// without usable markup gives an empty Document.
func (d *Dereferencer) ParseHTML(data []byte, docURL string) (*Document, error) {
	p, err := scanHTML(data, docURL)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	c := rdf.NewCollector()
	labels := newLabeler()
	for i, script := range p.scripts {
		labels.reset()
		if err := d.addJSONLD([]byte(script), p.baseURL, labels, c); err != nil {
			if errors.Is(err, rdf.ErrCollectorClosed) {
				return nil, err
			}
			d.logger.Warn("Skipping JSON-LD block", "url", docURL, "block", i, "error", err)
		}
	}

	store, order := c.Close()
	return &Document{Store: store, Order: order, FinalURL: docURL, Title: p.title}, nil
}

// ParseJSONLD reads a JSON-LD document.
func (d *Dereferencer) ParseJSONLD(data []byte, docURL string) (*Document, error) {
	c := rdf.NewCollector()
	if err := d.addJSONLD(data, docURL, newLabeler(), c); err != nil {
		return nil, fmt.Errorf("parse JSON-LD: %w", err)
	}
	store, order := c.Close()
	return &Document{Store: store, Order: order, FinalURL: docURL}, nil
}

// ParseNQuads reads an N-Quads or N-Triples document.
func (d *Dereferencer) ParseNQuads(data []byte, docURL string) (*Document, error) {
	c := rdf.NewCollector()
	if err := parseNQuads(data, newLabeler(), c.Add); err != nil {
		return nil, err
	}
	store, order := c.Close()
	return &Document{Store: store, Order: order, FinalURL: docURL}, nil
}

func (d *Dereferencer) addJSONLD(data []byte, base string, labels *labeler, c *rdf.Collector) error {
	expanded, err := expandJSONLD(data, base)
	if err != nil {
		return err
	}
	w := &walker{emit: c.Add, labels: labels}
	if d.markup != nil {
		w.text = d.markup.Normalize
	}
	return w.walk(expanded)
}

// ContentTypeForPath guesses a media type from a file extension, for
// pages saved to disk.
func ContentTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return MediaHTML
	case ".xhtml":
		return MediaXHTML
	case ".jsonld":
		return MediaJSONLD
	case ".json":
		return MediaJSON
	case ".nq":
		return MediaNQuads
	case ".nt":
		return MediaNTriples
	default:
		return ""
	}
}
