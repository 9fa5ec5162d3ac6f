package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/componentregistry"
	ssconfig "github.com/c360studio/semstreams/config"
	"github.com/c360studio/semstreams/metric"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semstreams/service"
	"github.com/c360studio/semstreams/types"
	"github.com/spf13/cobra"

	"github.com/c360studio/semrecipe/config"
	recipeingester "github.com/c360studio/semrecipe/processor/recipe-ingester"

	// Register vocabularies via init()
	_ "github.com/c360studio/semrecipe/vocabulary/recipe"
)

// serveOptions are the flags of the serve command.
type serveOptions struct {
	inbox    string
	owner    string
	httpPort int
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recipe import service",
		Long: `Serve connects to NATS and runs the semstreams runtime with the
recipe-ingester registered. Import requests on recipe.import.> are
fetched, stored as drafts and published to the graph; the HTTP API is
served under /recipe-ingester/.

--config takes a semstreams JSON flow config. Without one, a single
ingester flow is built from the semrecipe YAML config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.inbox, "inbox", "", "Directory of saved pages to watch and import")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "Owner recorded on drafts imported from the inbox")
	cmd.Flags().IntVar(&opts.httpPort, "http-port", 8080, "HTTP port for the API and health endpoints")
	return cmd
}

func runServe(ctx context.Context, flags *globalFlags, opts serveOptions) error {
	printBanner()

	logger := newLogger(os.Stderr, flags.logLevel)
	slog.SetDefault(logger)

	cfg, err := loadServiceConfig(flags.configPath, opts, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	natsClient, err := connectToNATS(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer natsClient.Close(ctx)

	if err := ensureStreams(ctx, cfg, natsClient, logger); err != nil {
		return err
	}

	slog.Info("Semrecipe ready", "version", Version)

	metricsRegistry := metric.NewMetricsRegistry()
	platform := extractPlatformMeta(cfg)

	// The component manager reads component configs through the config manager.
	configManager, err := ssconfig.NewConfigManager(cfg, natsClient, logger)
	if err != nil {
		return fmt.Errorf("create config manager: %w", err)
	}
	if err := configManager.Start(ctx); err != nil {
		return fmt.Errorf("start config manager: %w", err)
	}
	defer configManager.Stop(5 * time.Second)

	slog.Info("Platform identity configured",
		"org", platform.Org,
		"platform", platform.Platform)

	componentRegistry := component.NewRegistry()

	slog.Debug("Registering semstreams component factories")
	if err := componentregistry.Register(componentRegistry); err != nil {
		return fmt.Errorf("register semstreams components: %w", err)
	}

	slog.Debug("Registering semrecipe component factories")
	if err := recipeingester.Register(componentRegistry); err != nil {
		return fmt.Errorf("register recipe-ingester: %w", err)
	}

	factories := componentRegistry.ListFactories()
	slog.Info("Component factories registered", "count", len(factories))

	serviceRegistry := service.NewServiceRegistry()
	if err := service.RegisterAll(serviceRegistry); err != nil {
		return fmt.Errorf("register services: %w", err)
	}

	manager := service.NewServiceManager(serviceRegistry)
	ensureServiceManagerConfig(cfg, opts.httpPort)

	svcDeps := &service.Dependencies{
		NATSClient:        natsClient,
		MetricsRegistry:   metricsRegistry,
		Logger:            logger,
		Platform:          platform,
		Manager:           configManager,
		ComponentRegistry: componentRegistry,
	}

	if err := configureAndCreateServices(cfg, manager, svcDeps); err != nil {
		return err
	}

	slog.Info("All services configured")

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	slog.Info("Starting all services")
	if err := manager.StartAll(signalCtx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}
	slog.Info("All services started successfully")

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	shutdownTimeout := 30 * time.Second
	if err := manager.StopAll(shutdownTimeout); err != nil {
		slog.Error("Error stopping services", "error", err)
	}

	slog.Info("Semrecipe shutdown complete")
	return nil
}

func printBanner() {
	fmt.Println("╔═══════════════════════════════════════════════╗")
	fmt.Println("║             Semrecipe v" + Version + "                   ║")
	fmt.Println("║      Recipe Extraction & Import               ║")
	fmt.Println("╚═══════════════════════════════════════════════╝")
}

// loadServiceConfig reads a semstreams JSON config, or builds one from the
// semrecipe YAML config layers.
func loadServiceConfig(configPath string, opts serveOptions, logger *slog.Logger) (*ssconfig.Config, error) {
	if strings.EqualFold(filepath.Ext(configPath), ".json") {
		return loadConfigWithEnvSubstitution(configPath)
	}
	local, err := config.NewLoader(logger).Load(configPath)
	if err != nil {
		return nil, err
	}
	return buildDefaultConfig(local, opts)
}

// loadConfigWithEnvSubstitution reads a config file and expands environment
// variables before parsing. Supports ${VAR} and ${VAR:-default} syntax.
func loadConfigWithEnvSubstitution(configPath string) (*ssconfig.Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := ssconfig.ExpandEnvWithDefaults(string(data))

	loader := ssconfig.NewLoader()
	return loader.LoadFromBytes([]byte(expanded))
}

func buildDefaultConfig(local *config.Config, opts serveOptions) (*ssconfig.Config, error) {
	ingester := recipeingester.DefaultConfig()
	ingester.DraftBucket = local.NATS.DraftBucket
	ingester.FetchTimeout = local.Fetch.Timeout.String()
	ingester.MaxContentSize = local.Fetch.MaxContentSize
	ingester.MaxRedirects = local.Fetch.MaxRedirects
	ingester.UserAgent = local.Fetch.UserAgent
	ingester.NormalizeMarkup = local.Extract.NormalizeMarkup
	if opts.inbox != "" {
		ingester.Watch.Enabled = true
		ingester.Watch.Dir = opts.inbox
		ingester.Watch.Owner = opts.owner
	}
	if err := ingester.Validate(); err != nil {
		return nil, fmt.Errorf("recipe-ingester config: %w", err)
	}
	ingesterJSON, err := json.Marshal(ingester)
	if err != nil {
		return nil, fmt.Errorf("marshal recipe-ingester config: %w", err)
	}

	natsURLs := []string{"nats://localhost:4222"}
	if local.NATS.URL != "" {
		natsURLs = strings.Split(local.NATS.URL, ",")
	}

	return &ssconfig.Config{
		Version: "1.0.0",
		Platform: ssconfig.PlatformConfig{
			Org:         "semrecipe",
			ID:          "semrecipe-local",
			Environment: "dev",
		},
		NATS: ssconfig.NATSConfig{
			URLs:          natsURLs,
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
			JetStream: ssconfig.JetStreamConfig{
				Enabled: true,
			},
		},
		Services: types.ServiceConfigs{},
		Components: ssconfig.ComponentConfigs{
			"recipe-ingester": types.ComponentConfig{
				Name:    "recipe-ingester",
				Type:    types.ComponentTypeProcessor,
				Enabled: true,
				Config:  ingesterJSON,
			},
		},
		Streams: ssconfig.StreamConfigs{
			ingester.StreamName: ssconfig.StreamConfig{
				Subjects: []string{"recipe.import.>"},
				MaxAge:   "24h",
				Storage:  "file",
				Replicas: 1,
			},
			"GRAPH": ssconfig.StreamConfig{
				Subjects: []string{
					"graph.ingest.entity",
					"graph.export.>",
				},
				MaxAge:   "24h",
				Storage:  "memory",
				Replicas: 1,
			},
		},
	}, nil
}

func connectToNATS(ctx context.Context, cfg *ssconfig.Config, logger *slog.Logger) (*natsclient.Client, error) {
	natsURLs := "nats://localhost:4222"

	// Environment variable override takes precedence
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		natsURLs = envURL
	} else if envURL := os.Getenv(config.EnvNATSURL); envURL != "" {
		natsURLs = envURL
	} else if len(cfg.NATS.URLs) > 0 {
		natsURLs = strings.Join(cfg.NATS.URLs, ",")
	}

	logger.Info("Connecting to NATS", "url", natsURLs)

	client, err := natsclient.NewClient(natsURLs,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
		natsclient.WithCircuitBreakerThreshold(20),
		natsclient.WithHealthInterval(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, natsURLs)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, natsURLs)
	}

	logger.Info("Connected to NATS", "url", natsURLs)
	return client, nil
}

// wrapNATSError adds startup guidance to common connection failures.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker run -p 4222:4222 nats -js

Or set NATS_URL environment variable to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}

func ensureStreams(ctx context.Context, cfg *ssconfig.Config, natsClient *natsclient.Client, logger *slog.Logger) error {
	logger.Debug("Creating JetStream streams")
	streamsManager := ssconfig.NewStreamsManager(natsClient, logger)

	if err := streamsManager.EnsureStreams(ctx, cfg); err != nil {
		return fmt.Errorf("ensure streams: %w", err)
	}

	logger.Debug("JetStream streams ready")
	return nil
}

func extractPlatformMeta(cfg *ssconfig.Config) types.PlatformMeta {
	platformID := cfg.Platform.InstanceID
	if platformID == "" {
		platformID = cfg.Platform.ID
	}

	return types.PlatformMeta{
		Org:      cfg.Platform.Org,
		Platform: platformID,
	}
}

// ensureServiceManagerConfig adds a service-manager config if none is set.
func ensureServiceManagerConfig(cfg *ssconfig.Config, httpPort int) {
	if cfg.Services == nil {
		cfg.Services = make(types.ServiceConfigs)
	}

	if _, exists := cfg.Services["service-manager"]; exists {
		return
	}

	slog.Debug("Adding default service-manager config")
	defaultConfig := map[string]any{
		"http_port":  httpPort,
		"swagger_ui": false,
		"server_info": map[string]string{
			"title":       "Semrecipe API",
			"description": "recipe extraction, import and draft storage",
			"version":     Version,
		},
	}
	defaultConfigJSON, _ := json.Marshal(defaultConfig)
	cfg.Services["service-manager"] = types.ServiceConfig{
		Name:    "service-manager",
		Enabled: true,
		Config:  defaultConfigJSON,
	}
}

// configureAndCreateServices configures the manager and creates all services
func configureAndCreateServices(
	cfg *ssconfig.Config,
	manager *service.Manager,
	svcDeps *service.Dependencies,
) error {
	slog.Debug("Configuring Manager")
	if err := manager.ConfigureFromServices(cfg.Services, svcDeps); err != nil {
		return fmt.Errorf("configure service manager: %w", err)
	}

	slog.Debug("Creating services from config", "count", len(cfg.Services))
	for name, svcConfig := range cfg.Services {
		if name == "service-manager" {
			continue
		}

		if err := createServiceIfEnabled(manager, name, svcConfig, svcDeps); err != nil {
			return err
		}
	}

	return nil
}

// createServiceIfEnabled creates a service if it's enabled and registered
func createServiceIfEnabled(
	manager *service.Manager,
	name string,
	svcConfig types.ServiceConfig,
	svcDeps *service.Dependencies,
) error {
	if !svcConfig.Enabled {
		slog.Info("Service disabled in config", "name", name)
		return nil
	}

	if !manager.HasConstructor(name) {
		slog.Warn("Service configured but not registered", "key", name, "available_constructors", manager.ListConstructors())
		return nil
	}

	if _, err := manager.CreateService(name, svcConfig.Config, svcDeps); err != nil {
		return fmt.Errorf("create service %s: %w", name, err)
	}

	slog.Info("Created service", "name", name, "config_name", svcConfig.Name)
	return nil
}
