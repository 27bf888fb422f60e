// Command minerva is a terminal chat client for the Gemini API with
// search grounding and persistent conversation history.
//
// Usage:
//
//	GEMINI_API_KEY=gk-... minerva [flags]
//
// Flags:
//
//	-config string   Path to config file (default: user config dir)
//	-model string    Chat model ID (overrides config)
//	-store string    Storage backend: file, redis (overrides config)
//	-api-key string  API key (overrides GEMINI_API_KEY)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/fwojciec/minerva"
	bt "github.com/fwojciec/minerva/bubbletea"
	"github.com/fwojciec/minerva/config"
	"github.com/fwojciec/minerva/gemini"
	storejson "github.com/fwojciec/minerva/json"
	"github.com/fwojciec/minerva/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "minerva: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		configPath = flag.String("config", config.DefaultPath(), "Path to config file")
		model      = flag.String("model", "", "Chat model ID (overrides config)")
		storeFlag  = flag.String("store", "", "Storage backend: file, redis (overrides config)")
		apiKey     = flag.String("api-key", "", "API key (overrides GEMINI_API_KEY)")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *storeFlag != "" {
		cfg.Storage.Backend = *storeFlag
	}

	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	// Resolve API key. Env var is read here and passed as a value.
	key := *apiKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		return errors.New("no API key: set GEMINI_API_KEY or pass -api-key")
	}

	store, closeStore, err := newStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	repo := minerva.NewRepository(store, logger)
	repo.Hydrate(ctx)
	if repo.Len() == 0 {
		repo.CreateSession(ctx)
	}

	var clientOpts []gemini.Option
	if cfg.Model != "" {
		clientOpts = append(clientOpts, gemini.WithChatModel(cfg.Model))
	}
	if cfg.TitleModel != "" {
		clientOpts = append(clientOpts, gemini.WithTitleModel(cfg.TitleModel))
	}
	client, err := gemini.New(ctx, key, clientOpts...)
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}

	orch := minerva.NewOrchestrator(client, client, repo, logger)

	tuiModel := bt.New(orch.SendMessage, repo, minerva.DefaultTheme())
	if err := bt.Run(ctx, tuiModel); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// newStore selects the persistence backend from config. The returned
// close function releases backend resources on exit.
func newStore(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (minerva.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		var opts []redis.Option
		if cfg.Redis.Key != "" {
			opts = append(opts, redis.WithKey(cfg.Redis.Key))
		}
		s, err := redis.NewStore(ctx, &goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		return s, func() { s.Close() }, nil
	default:
		return storejson.NewStore(cfg.Path, logger), func() {}, nil
	}
}

func newLogger(cfg config.LogConfig) (zerolog.Logger, func(), error) {
	if cfg.Path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var w io.Writer = f
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: f, NoColor: true}
	}
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}
