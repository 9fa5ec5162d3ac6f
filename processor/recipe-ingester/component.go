package recipeingester

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/metric"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semrecipe/source"
	"github.com/c360studio/semrecipe/source/dereference"
	"github.com/c360studio/semrecipe/source/weburl"
	"github.com/c360studio/semrecipe/storage"
)

// recipeIngesterSchema defines the configuration schema.
var recipeIngesterSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// messageSource is the source stamped on result messages.
const messageSource = "semrecipe"

// recipeImporter is the part of *source.Importer the component drives.
type recipeImporter interface {
	Import(ctx context.Context, req source.ImportRequest) (*source.ImportResult, error)
	ImportDocument(ctx context.Context, doc *dereference.Document, req source.ImportRequest) (*source.ImportResult, error)
}

// resultPublisher sends import results. *natsclient.Client satisfies it.
type resultPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// disposition is what happens to a request message after processing.
type disposition int

const (
	dispositionAck disposition = iota
	dispositionNak
	dispositionTerm
)

// Component implements the recipe-ingester processor.
type Component struct {
	name            string
	config          Config
	natsClient      *natsclient.Client
	metricsRegistry *metric.MetricsRegistry
	logger          *slog.Logger
	platform        component.PlatformMeta

	deref    *dereference.Dereferencer
	importer recipeImporter
	results  resultPublisher
	metrics  *ingesterMetrics
	watcher  *InboxWatcher

	// HTTP API, mounted once storage is open
	apiPrefix string
	api       http.Handler

	// Lifecycle management
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// Metrics
	pagesImported   atomic.Int64
	recipesImported atomic.Int64
	emptyPages      atomic.Int64
	errors          atomic.Int64
	lastActivityMu  sync.RWMutex
	lastActivity    time.Time
}

// NewComponent creates a new recipe-ingester processor component.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Use default config if ports not set
	if config.Ports == nil {
		config = DefaultConfig()
		// Re-unmarshal to get user-provided values
		if err := json.Unmarshal(rawConfig, &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Component{
		name:            "recipe-ingester",
		config:          config,
		natsClient:      deps.NATSClient,
		metricsRegistry: deps.MetricsRegistry,
		logger:          deps.GetLogger(),
		platform:        deps.Platform,
	}

	return c, nil
}

// Initialize prepares the component.
func (c *Component) Initialize() error {
	return nil
}

// Start opens draft storage and begins consuming import requests.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.natsClient == nil {
		c.mu.Unlock()
		return fmt.Errorf("NATS client required")
	}
	c.running = true
	c.startTime = time.Now()
	c.mu.Unlock()

	if err := c.setup(ctx); err != nil {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consumeMessages(runCtx)
	}()

	if c.config.Watch.Enabled {
		if err := c.startWatcher(runCtx); err != nil {
			cancel()
			c.wg.Wait()
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			return err
		}
	}

	c.logger.Info("Recipe ingester started",
		"stream", c.config.StreamName,
		"consumer", c.config.ConsumerName,
		"drafts", c.config.GetDraftBucket(),
		"watch", c.config.Watch.Enabled)

	return nil
}

// setup builds the fetch, storage and publish chain.
func (c *Component) setup(ctx context.Context) error {
	fetcher := dereference.NewHTTPFetcher(
		c.config.GetFetchTimeout(),
		c.config.GetUserAgent(),
		c.config.GetMaxContentSize(),
		c.config.MaxRedirects,
	)
	opts := []dereference.Option{dereference.WithLogger(c.logger)}
	if c.config.NormalizeMarkup {
		opts = append(opts, dereference.WithMarkupNormalization())
	}
	c.deref = dereference.New(fetcher, opts...)

	js, err := c.natsClient.JetStream()
	if err != nil {
		return fmt.Errorf("get JetStream context: %w", err)
	}
	bucket, err := storage.OpenKVBucket(ctx, js, c.config.GetDraftBucket(), c.config.GetDraftHistory())
	if err != nil {
		return fmt.Errorf("open draft bucket: %w", err)
	}

	drafts := storage.NewDraftStore(bucket)
	importer := source.NewImporter(c.deref, drafts, c.natsClient, c.logger)
	c.importer = importer
	c.results = c.natsClient
	c.mountAPI(source.NewHTTPHandler(importer, drafts, c.logger))

	if c.metrics == nil {
		m, err := newIngesterMetrics(c.metricsRegistry)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		c.metrics = m
	}
	return nil
}

func (c *Component) startWatcher(ctx context.Context) error {
	w, err := NewInboxWatcher(c.config.Watch, c.logger)
	if err != nil {
		return fmt.Errorf("create inbox watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return fmt.Errorf("start inbox watcher: %w", err)
	}
	c.watcher = w

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for file := range w.Files() {
			c.handleInboxFile(ctx, file)
		}
	}()
	return nil
}

// consumeMessages processes incoming import requests.
func (c *Component) consumeMessages(ctx context.Context) {
	js, err := c.natsClient.JetStream()
	if err != nil {
		c.logger.Error("Failed to get JetStream context", "error", err)
		return
	}

	consumer, err := js.Consumer(ctx, c.config.StreamName, c.config.ConsumerName)
	if err != nil {
		c.logger.Error("Failed to get consumer", "error", err, "stream", c.config.StreamName, "consumer", c.config.ConsumerName)
		return
	}

	c.logger.Info("Consumer connected", "stream", c.config.StreamName, "consumer", c.config.ConsumerName)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue // Timeout, try again
		}

		for msg := range msgs.Messages() {
			select {
			case <-ctx.Done():
				// NAK the current message so it can be redelivered
				_ = msg.Nak()
				for remaining := range msgs.Messages() {
					_ = remaining.Nak()
				}
				return
			default:
				c.handleMessage(ctx, msg)
			}
		}
	}
}

// handleMessage processes a single import request.
func (c *Component) handleMessage(ctx context.Context, msg jetstream.Msg) {
	switch c.process(ctx, msg.Data()) {
	case dispositionAck:
		_ = msg.Ack()
	case dispositionNak:
		_ = msg.Nak()
	case dispositionTerm:
		_ = msg.Term()
	}
}

// process imports one request and publishes its result. Malformed
// requests are terminated; failures that may pass on retry are NAKed
// without a result.
func (c *Component) process(ctx context.Context, data []byte) disposition {
	c.updateLastActivity()
	start := time.Now()

	var req source.ImportRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.logger.Warn("Failed to parse import request", "error", err)
		c.errors.Add(1)
		c.metrics.observe(source.StatusFailed, 0, time.Since(start))
		return dispositionTerm
	}

	if err := req.Validate(); err != nil {
		c.logger.Warn("Rejected import request", "url", req.URL, "error", err)
		c.errors.Add(1)
		c.metrics.observe(source.StatusFailed, 0, time.Since(start))
		c.publishResult(ctx, &source.ImportResult{
			RequestID:  req.RequestID,
			URL:        req.URL,
			Status:     source.StatusFailed,
			DraftIDs:   []string{},
			EntityIDs:  []string{},
			Error:      err.Error(),
			ImportedAt: time.Now(),
		})
		return dispositionTerm
	}

	c.logger.Info("Processing import request", "url", req.URL, "owner", req.Owner)

	result, err := c.importer.Import(ctx, req)
	if err != nil {
		c.logger.Error("Failed to import recipes", "url", req.URL, "error", err)
		c.errors.Add(1)
		c.metrics.observe(source.StatusFailed, 0, time.Since(start))
		return dispositionNak
	}

	c.record(result, time.Since(start))
	c.publishResult(ctx, result)
	return dispositionAck
}

// handleInboxFile imports a saved page from the inbox.
func (c *Component) handleInboxFile(ctx context.Context, file InboxFile) {
	c.updateLastActivity()
	start := time.Now()
	docURL := weburl.FileURL(file.Path)

	doc, err := c.deref.Parse(file.Data, file.ContentType, docURL)
	if err != nil {
		c.logger.Warn("Failed to parse inbox file", "path", file.Path, "error", err)
		c.errors.Add(1)
		c.metrics.observe(source.StatusFailed, 0, time.Since(start))
		return
	}

	req := source.ImportRequest{
		URL:       docURL,
		Owner:     c.config.Watch.Owner,
		RequestID: "inbox-" + subjectToken(filepath.Base(file.Path)),
	}
	result, err := c.importer.ImportDocument(ctx, doc, req)
	if err != nil {
		c.logger.Error("Failed to import inbox file", "path", file.Path, "error", err)
		c.errors.Add(1)
		c.metrics.observe(source.StatusFailed, 0, time.Since(start))
		return
	}

	c.record(result, time.Since(start))
	c.publishResult(ctx, result)
}

func (c *Component) record(result *source.ImportResult, elapsed time.Duration) {
	c.metrics.observe(result.Status, len(result.Recipes), elapsed)
	if result.Status == source.StatusEmpty {
		c.emptyPages.Add(1)
		return
	}
	c.pagesImported.Add(1)
	c.recipesImported.Add(int64(len(result.Recipes)))
}

// publishResult reports an import outcome. Failures are logged only; the
// drafts and entities are already in place.
func (c *Component) publishResult(ctx context.Context, result *source.ImportResult) {
	if c.results == nil {
		return
	}
	payload := &ImportResultPayload{ImportResult: *result}
	msg := message.NewBaseMessage(ImportResultType, payload, messageSource)
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal import result", "url", result.URL, "error", err)
		return
	}
	subject := c.config.GetResultSubject() + "." + subjectToken(result.RequestID)
	if err := c.results.Publish(ctx, subject, data); err != nil {
		c.logger.Warn("Failed to publish import result", "subject", subject, "error", err)
	}
}

// subjectToken makes s safe as a single NATS subject token.
func subjectToken(s string) string {
	token := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, s)
	if token == "" {
		return "anonymous"
	}
	return token
}

// updateLastActivity safely updates the last activity timestamp.
func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

// getLastActivity safely retrieves the last activity timestamp.
func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}

// Stop gracefully stops the component within the given timeout.
func (c *Component) Stop(timeout time.Duration) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}
	if c.watcher != nil {
		_ = c.watcher.Stop()
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-time.After(timeout):
		err = fmt.Errorf("stop timed out after %v", timeout)
	}

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	c.logger.Info("Recipe ingester stopped",
		"pages_imported", c.pagesImported.Load(),
		"recipes_imported", c.recipesImported.Load(),
		"empty_pages", c.emptyPages.Load(),
		"errors", c.errors.Load())

	return err
}

// Discoverable interface implementation

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "recipe-ingester",
		Type:        "processor",
		Description: "Imports schema.org recipes from web pages into drafts and the knowledge graph",
		Version:     "0.1.0",
	}
}

// InputPorts returns configured input port definitions.
func (c *Component) InputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Inputs))
	for i, portDef := range c.config.Ports.Inputs {
		ports[i] = buildPort(portDef, component.DirectionInput)
	}
	return ports
}

// OutputPorts returns configured output port definitions.
func (c *Component) OutputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Outputs))
	for i, portDef := range c.config.Ports.Outputs {
		ports[i] = buildPort(portDef, component.DirectionOutput)
	}
	return ports
}

// buildPort creates a component.Port from a PortDefinition.
func buildPort(portDef component.PortDefinition, direction component.Direction) component.Port {
	port := component.Port{
		Name:        portDef.Name,
		Direction:   direction,
		Required:    portDef.Required,
		Description: portDef.Description,
	}
	if portDef.Type == "jetstream" {
		port.Config = component.JetStreamPort{
			StreamName: portDef.StreamName,
			Subjects:   []string{portDef.Subject},
		}
	} else {
		port.Config = component.NATSPort{
			Subject: portDef.Subject,
		}
	}
	return port
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return recipeIngesterSchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running := c.running
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	if running {
		status = "running"
	}
	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.errors.Load()),
		Uptime:     time.Since(startTime),
		Status:     status,
	}
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	c.mu.RLock()
	startTime := c.startTime
	c.mu.RUnlock()

	var rate, errorRate float64
	handled := c.pagesImported.Load() + c.emptyPages.Load()
	failed := c.errors.Load()
	if elapsed := time.Since(startTime).Seconds(); !startTime.IsZero() && elapsed > 0 {
		rate = float64(handled) / elapsed
	}
	if total := handled + failed; total > 0 {
		errorRate = float64(failed) / float64(total)
	}
	return component.FlowMetrics{
		MessagesPerSecond: rate,
		ErrorRate:         errorRate,
		LastActivity:      c.getLastActivity(),
	}
}
