// Package app wires configuration into a runnable agent: provider adapter,
// completion client, tool registry, research store, and event logging.
// Both binaries share this assembly.
package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scoutagent/scout/agentloop"
	"github.com/scoutagent/scout/config"
	"github.com/scoutagent/scout/llmclient"
	"github.com/scoutagent/scout/research"
	"github.com/scoutagent/scout/tools/fetch"
	"github.com/scoutagent/scout/tools/search"
)

// App is the assembled engine plus its supporting pieces.
type App struct {
	Loop    *agentloop.Loop
	Store   *research.Store // nil when the store is disabled
	Emitter *agentloop.EventEmitter
	Logger  zerolog.Logger

	client *llmclient.Client
	done   chan struct{}
}

// NewLogger builds the process logger from config.
func NewLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// New assembles an App from configuration. Call Close when done.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	adapter, err := buildAdapter(cfg.Provider)
	if err != nil {
		return nil, err
	}

	client := llmclient.NewClient(adapter,
		llmclient.WithModel(cfg.Provider.Model),
		llmclient.WithTemperature(cfg.Provider.Temperature),
		llmclient.WithMaxTokens(cfg.Provider.MaxTokens),
		llmclient.WithRetryPolicy(llmclient.RetryPolicy{
			MaxAttempts: cfg.Provider.MaxAttempts,
			BaseDelay:   cfg.Provider.BaseDelay,
			OnRetry: func(err error, attempt int, delay time.Duration) {
				logger.Warn().Err(err).Int("attempt", attempt).
					Dur("delay", delay).Msg("retrying completion")
			},
		}),
	)

	app := &App{
		Logger: logger,
		client: client,
		done:   make(chan struct{}),
	}

	registry := agentloop.NewRegistry()
	if err := registerTools(registry, cfg, app); err != nil {
		app.Close()
		return nil, err
	}

	app.Emitter = agentloop.NewEventEmitter(256)
	go app.consumeEvents()

	loopCfg := agentloop.DefaultConfig()
	if cfg.Agent.MaxSteps > 0 {
		loopCfg.MaxSteps = cfg.Agent.MaxSteps
	}
	if cfg.Agent.ObservationLimit > 0 {
		loopCfg.ObservationLimit = cfg.Agent.ObservationLimit
	}
	app.Loop = agentloop.New(client, registry,
		agentloop.WithConfig(loopCfg),
		agentloop.WithEventEmitter(app.Emitter),
	)
	return app, nil
}

// buildAdapter maps the configured provider name to an adapter.
// "openrouter" uses the raw HTTP adapter; every other name is handed to
// gollm as one of its providers (openai, anthropic, ollama, ...).
func buildAdapter(cfg config.ProviderConfig) (llmclient.ProviderAdapter, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	if name == "" {
		return nil, fmt.Errorf("provider name is empty")
	}
	if name == "openrouter" {
		var opts []llmclient.OpenRouterOption
		if cfg.BaseURL != "" {
			opts = append(opts, llmclient.WithOpenRouterBaseURL(cfg.BaseURL))
		}
		adapter, err := llmclient.NewOpenRouterAdapter(cfg.APIKey, opts...)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	}
	adapter, err := llmclient.NewGollmAdapter(name, cfg.APIKey,
		llmclient.WithGollmModel(cfg.Model),
		llmclient.WithGollmMaxTokens(cfg.MaxTokens),
		llmclient.WithGollmTemperature(cfg.Temperature),
	)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

func registerTools(registry *agentloop.Registry, cfg *config.Config, app *App) error {
	if cfg.Tools.Search.Enabled {
		var backends []search.Backend
		for _, name := range cfg.Tools.Search.Backends {
			switch strings.ToLower(name) {
			case "duckduckgo":
				backends = append(backends, search.NewDuckDuckGo())
			case "brave":
				backends = append(backends, search.NewBrave(cfg.Tools.Search.BraveAPIKey))
			default:
				return fmt.Errorf("unknown search backend %q", name)
			}
		}
		if len(backends) > 0 {
			if err := registry.Register(search.NewTool(search.NewMulti(backends...), cfg.Tools.Search.MaxResults)); err != nil {
				return err
			}
		}
	}

	if cfg.Tools.Fetch.Enabled {
		fetcher := fetch.New(
			fetch.WithMaxBytes(cfg.Tools.Fetch.MaxBytes),
			fetch.WithTimeout(cfg.Tools.Fetch.Timeout),
		)
		if err := registry.Register(fetch.NewTool(fetcher)); err != nil {
			return err
		}
	}

	if cfg.Store.Enabled {
		store, err := research.Open(cfg.Store.Path, cfg.Store.Threshold)
		if err != nil {
			return fmt.Errorf("open research store: %w", err)
		}
		app.Store = store
		if err := registry.Register(research.NewTool(store)); err != nil {
			return err
		}
	}
	return nil
}

// consumeEvents translates run events into structured log lines.
func (a *App) consumeEvents() {
	defer close(a.done)
	for event := range a.Emitter.Events() {
		a.Logger.Debug().
			Str("run_id", event.RunID).
			Str("kind", string(event.Kind)).
			Fields(event.Data).
			Msg("run event")
	}
}

// Close flushes the event pipeline and releases resources.
func (a *App) Close() {
	if a.Emitter != nil {
		a.Emitter.Close()
		<-a.done
	}
	if a.client != nil {
		a.client.Close()
	}
	if a.Store != nil {
		a.Store.Close()
	}
}
