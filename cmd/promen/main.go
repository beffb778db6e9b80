package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/sbeeredd04/promen/internal/adapter/channel"
	"github.com/sbeeredd04/promen/internal/adapter/cli"
	"github.com/sbeeredd04/promen/internal/adapter/llm/gemini"
	llmhttp "github.com/sbeeredd04/promen/internal/adapter/llm/http"
	"github.com/sbeeredd04/promen/internal/adapter/llm/openai"
	"github.com/sbeeredd04/promen/internal/adapter/llm/static"
	"github.com/sbeeredd04/promen/internal/adapter/observability"
	storeAdapter "github.com/sbeeredd04/promen/internal/adapter/store"
	"github.com/sbeeredd04/promen/internal/adapter/store/sqlite"
	"github.com/sbeeredd04/promen/internal/config"
	"github.com/sbeeredd04/promen/internal/domain"
	"github.com/sbeeredd04/promen/internal/format"
	"github.com/sbeeredd04/promen/internal/server"
	"github.com/sbeeredd04/promen/internal/store"
	"github.com/sbeeredd04/promen/internal/usecase/proxy"
	"github.com/sbeeredd04/promen/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "promen",
		EnvPrefix:   "PROMEN",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	obs := buildObservability(cfg.Observability)

	// Initialize store if enabled
	var settings proxy.Settings
	var history cli.HistoryLister
	var recorder *storeAdapter.Bridge
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				defer sqliteStore.Close()
				settings = sqliteStore
				history = sqliteStore
				recorder = storeAdapter.NewBridge(sqliteStore, cfg.Provider)
			}
		}
	}
	if settings == nil {
		// Keys set this way do not survive a process restart.
		settings = newMemorySettings()
	}

	prox := proxy.New(cfg.Provider, settings, buildGenerator(&cfg, obs))
	if providerCfg, ok := cfg.Providers[cfg.Provider]; ok && providerCfg.APIKey != "" {
		prox.SetConfigKey(providerCfg.APIKey)
	}

	delay, err := time.ParseDuration(cfg.Channel.Delay)
	if err != nil {
		log.Printf("warning: invalid channel delay %q, using default 200ms", cfg.Channel.Delay)
		delay = 200 * time.Millisecond
	}
	sender := channel.NewRetrying(channel.NewLocal(prox), cfg.Channel.Attempts, delay)
	formatter := format.New()

	var transformer cli.Transformer = channel.NewClient(sender)
	if recorder != nil {
		transformer = &recordingTransformer{
			next:      transformer,
			formatter: formatter,
			history:   recorder,
		}
	}

	serve := func(ctx context.Context, listen string) error {
		handler := server.NewHandler(sender, formatter, prox)
		if obs.access != nil {
			handler = observability.AccessLog(obs.access)(handler)
		}
		srv := server.NewServer(listen, handler)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		}
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Transformer:   transformer,
		Formatter:     formatter,
		Keys:          prox,
		History:       history,
		Serve:         serve,
		DefaultListen: cfg.Server.Listen,
		Version:       version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "promen"))
	}
	return paths
}

// observabilityComponents holds shared observability instances
type observabilityComponents struct {
	llm    llmhttp.Logger
	access *observability.Logger
}

// buildObservability creates observability components based on configuration
func buildObservability(cfg config.ObservabilityConfig) observabilityComponents {
	if !cfg.Logging.Enabled {
		return observabilityComponents{}
	}

	level := llmhttp.ParseLogLevel(cfg.Logging.Level)
	logFormat := llmhttp.ParseLogFormat(cfg.Logging.Format)

	return observabilityComponents{
		llm:    llmhttp.NewDefaultLogger(level, logFormat, cfg.Logging.RedactAPIKeys),
		access: observability.NewLogger(level, logFormat),
	}
}

// buildGenerator returns the factory the proxy uses to bind an API key to
// a provider client. The factory runs again whenever the stored key changes.
func buildGenerator(cfg *config.Config, obs observabilityComponents) proxy.BuildGenerator {
	providerCfg := cfg.Providers[cfg.Provider]
	model := providerCfg.Model

	switch cfg.Provider {
	case "gemini":
		if model == "" {
			model = "gemini-2.0-flash"
		}
		return func(apiKey string) (proxy.Generator, error) {
			client := gemini.NewHTTPClient(apiKey, model, providerCfg, cfg.HTTP)
			if obs.llm != nil {
				client.SetLogger(obs.llm)
			}
			return gemini.NewProvider(model, client), nil
		}

	case "openai":
		if model == "" {
			model = "gpt-4o-mini"
		}
		return func(apiKey string) (proxy.Generator, error) {
			return openai.NewProvider(apiKey, model, providerCfg, cfg.HTTP)
		}

	case "static":
		if model == "" {
			model = "static-v1"
		}
		return func(apiKey string) (proxy.Generator, error) {
			return static.NewProvider(model), nil
		}

	default:
		return func(apiKey string) (proxy.Generator, error) {
			return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
		}
	}
}

// recordingTransformer persists successful transforms so the history
// command can list them later. Persistence failures are logged, never
// surfaced to the caller.
type recordingTransformer struct {
	next      cli.Transformer
	formatter cli.Formatter
	history   *storeAdapter.Bridge
}

func (r *recordingTransformer) Transform(ctx context.Context, action domain.Action, text string) (string, error) {
	result, err := r.next.Transform(ctx, action, text)
	if err != nil {
		return "", err
	}
	fragment := r.formatter.Format(result)
	suggestion := domain.NewSuggestion("cli", action, text, fragment, time.Now())
	if _, err := r.history.RecordSuggestion(ctx, suggestion); err != nil {
		log.Printf("warning: failed to record suggestion: %v", err)
	}
	return result, nil
}

// memorySettings keeps provider settings in memory when the store is
// disabled or unavailable.
type memorySettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemorySettings() *memorySettings {
	return &memorySettings{values: make(map[string]string)}
}

func (m *memorySettings) SetSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memorySettings) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return value, nil
}

func (m *memorySettings) DeleteSetting(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Compile-time interface compliance checks
var _ cli.Transformer = (*channel.Client)(nil)
var _ cli.Transformer = (*recordingTransformer)(nil)
var _ cli.KeyStore = (*proxy.Proxy)(nil)
var _ cli.HistoryLister = (*sqlite.Store)(nil)
var _ channel.Handler = (*proxy.Proxy)(nil)
var _ server.KeyManager = (*proxy.Proxy)(nil)
var _ proxy.Settings = (*sqlite.Store)(nil)
var _ proxy.Settings = (*memorySettings)(nil)
var _ proxy.Generator = (*gemini.Provider)(nil)
var _ proxy.Generator = (*openai.Provider)(nil)
var _ proxy.Generator = (*static.Provider)(nil)
