package recipeingester

import (
	"fmt"
	"time"

	"github.com/c360studio/semstreams/component"

	"github.com/c360studio/semrecipe/storage"
)

// Config holds configuration for the recipe-ingester processor component.
type Config struct {
	Ports *component.PortConfig `json:"ports" schema:"type:ports,description:Port configuration,category:basic"`

	// StreamName is the JetStream stream for import requests.
	StreamName string `json:"stream_name" schema:"type:string,description:JetStream stream name,category:basic,default:RECIPES"`

	// ConsumerName is the durable consumer name.
	ConsumerName string `json:"consumer_name" schema:"type:string,description:Durable consumer name,category:basic,default:recipe-ingester"`

	// ResultSubject prefixes the subject import results are published on.
	ResultSubject string `json:"result_subject" schema:"type:string,description:Subject prefix for import results,category:basic,default:recipe.result"`

	// DraftBucket is the KV bucket drafts are stored in.
	DraftBucket string `json:"draft_bucket" schema:"type:string,description:KV bucket for draft recipes,category:basic,default:RECIPE_DRAFTS"`

	// DraftHistory is the number of revisions kept per draft.
	DraftHistory int `json:"draft_history" schema:"type:int,description:Revisions kept per draft,category:advanced,default:1"`

	// FetchTimeout is the maximum time for fetching a page.
	FetchTimeout string `json:"fetch_timeout" schema:"type:string,description:HTTP fetch timeout,category:advanced,default:30s"`

	// MaxContentSize is the maximum response body size in bytes.
	MaxContentSize int64 `json:"max_content_size" schema:"type:int,description:Maximum content size in bytes,category:advanced,default:10485760"`

	// MaxRedirects is the number of redirects followed.
	MaxRedirects int `json:"max_redirects" schema:"type:int,description:Maximum redirects followed,category:advanced,default:5"`

	// UserAgent is the User-Agent header for HTTP requests.
	UserAgent string `json:"user_agent" schema:"type:string,description:HTTP User-Agent header,category:advanced,default:semrecipe-ingester/1.0"`

	// NormalizeMarkup converts HTML inside recipe text to Markdown.
	NormalizeMarkup bool `json:"normalize_markup" schema:"type:bool,description:Convert HTML in recipe text to Markdown,category:advanced,default:false"`

	// Watch configures the saved-page inbox.
	Watch WatchConfig `json:"watch" schema:"type:object,description:Saved page inbox watching,category:advanced"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StreamName == "" {
		return fmt.Errorf("stream_name is required")
	}
	if c.ConsumerName == "" {
		return fmt.Errorf("consumer_name is required")
	}
	if c.FetchTimeout != "" {
		if _, err := time.ParseDuration(c.FetchTimeout); err != nil {
			return fmt.Errorf("invalid fetch_timeout format: %w", err)
		}
	}
	if c.MaxContentSize < 0 {
		return fmt.Errorf("max_content_size must be non-negative")
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("max_redirects must be non-negative")
	}
	if c.DraftHistory < 0 || c.DraftHistory > 64 {
		return fmt.Errorf("draft_history must be between 0 and 64")
	}
	if c.Watch.Enabled && c.Watch.Dir == "" {
		return fmt.Errorf("watch.dir is required when watching is enabled")
	}
	if c.Watch.DebounceDelay != "" {
		if _, err := time.ParseDuration(c.Watch.DebounceDelay); err != nil {
			return fmt.Errorf("invalid watch.debounce_delay format: %w", err)
		}
	}
	return nil
}

// parseDurationOrDefault parses a duration string and returns the default if empty or invalid.
func parseDurationOrDefault(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// GetFetchTimeout returns the fetch timeout as a duration.
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDurationOrDefault(c.FetchTimeout, 30*time.Second)
}

// GetMaxContentSize returns the max content size with default.
func (c *Config) GetMaxContentSize() int64 {
	if c.MaxContentSize <= 0 {
		return 10 * 1024 * 1024 // 10MB default
	}
	return c.MaxContentSize
}

// GetUserAgent returns the user agent with default.
func (c *Config) GetUserAgent() string {
	if c.UserAgent == "" {
		return "semrecipe-ingester/1.0"
	}
	return c.UserAgent
}

// GetDraftBucket returns the draft bucket with default.
func (c *Config) GetDraftBucket() string {
	if c.DraftBucket == "" {
		return storage.BucketDrafts
	}
	return c.DraftBucket
}

// GetDraftHistory returns the per-draft history with default.
func (c *Config) GetDraftHistory() uint8 {
	if c.DraftHistory <= 0 {
		return 1
	}
	return uint8(c.DraftHistory)
}

// GetResultSubject returns the result subject prefix with default.
func (c *Config) GetResultSubject() string {
	if c.ResultSubject == "" {
		return "recipe.result"
	}
	return c.ResultSubject
}

// DefaultConfig returns default configuration for recipe-ingester processor.
func DefaultConfig() Config {
	inputDefs := []component.PortDefinition{
		{
			Name:        "import.in",
			Type:        "jetstream",
			Subject:     "recipe.import.>",
			StreamName:  "RECIPES",
			Required:    true,
			Description: "Recipe import requests",
		},
	}

	outputDefs := []component.PortDefinition{
		{
			Name:        "graph.out",
			Type:        "jetstream",
			Subject:     "graph.ingest.entity",
			StreamName:  "GRAPH",
			Required:    true,
			Description: "Recipe, ingredient and step entities for graph ingestion",
		},
		{
			Name:        "result.out",
			Type:        "nats",
			Subject:     "recipe.result.>",
			Required:    false,
			Description: "Import results",
		},
	}

	return Config{
		Ports: &component.PortConfig{
			Inputs:  inputDefs,
			Outputs: outputDefs,
		},
		StreamName:     "RECIPES",
		ConsumerName:   "recipe-ingester",
		ResultSubject:  "recipe.result",
		DraftBucket:    storage.BucketDrafts,
		DraftHistory:   1,
		FetchTimeout:   "30s",
		MaxContentSize: 10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		UserAgent:      "semrecipe-ingester/1.0",
		Watch:          DefaultWatchConfig(),
	}
}
