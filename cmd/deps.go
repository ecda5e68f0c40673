package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/juanmoyano123/cards-study/internal/app"
	"github.com/juanmoyano123/cards-study/internal/config"
	"github.com/juanmoyano123/cards-study/internal/focus"
	"github.com/juanmoyano123/cards-study/internal/remote"
	"github.com/juanmoyano123/cards-study/internal/store"
	"github.com/juanmoyano123/cards-study/internal/study"
)

// deps is everything a command needs, built from config. remote and study
// are nil when no API base URL is configured.
type deps struct {
	cfg    *config.Config
	dbPath string
	store  *store.Store
	remote *remote.Client
	focus  *focus.Controller
	study  *study.Controller
	logger *slog.Logger
}

// logTarget picks where logs go once the config is known.
type logTarget func(cfg *config.Config, dbPath string) (io.Writer, func() error, error)

// toStderr logs to w, normally stderr, unless the config names a file.
func toStderr(w io.Writer) logTarget {
	return func(cfg *config.Config, dbPath string) (io.Writer, func() error, error) {
		if cfg.Log.File == "" {
			return w, func() error { return nil }, nil
		}
		f, err := app.OpenLogFile(cfg.Log.File, dbPath)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}

// toFile always logs to a file; the TUI owns the terminal.
func toFile(cfg *config.Config, dbPath string) (io.Writer, func() error, error) {
	f, err := app.OpenLogFile(cfg.Log.File, dbPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// openDeps loads config, opens the store and builds the services. The
// returned close function must be called once the command is done.
func openDeps(cmd *cobra.Command, target logTarget) (*deps, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	w, closeLog, err := target(cfg, dbPath)
	if err != nil {
		return nil, nil, err
	}
	logger := app.NewLogger(cfg.Log, w)

	st, err := store.Open(dbPath)
	if err != nil {
		_ = closeLog()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closeAll := func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
		_ = closeLog()
	}

	d := &deps{cfg: cfg, dbPath: dbPath, store: st, logger: logger}
	focusOpts := focus.Options{
		Persistence: st.TimerRecords(),
		SyncTimeout: cfg.API.SyncTimeout,
		Logger:      logger,
	}

	if !cfg.API.Offline() {
		client, err := remote.New(remote.Config{
			BaseURL: cfg.API.BaseURL,
			Token:   cfg.API.Token,
			Timeout: cfg.API.QueueTimeout,
			Retry: remote.RetryConfig{
				MaxAttempts: cfg.API.Retry.MaxAttempts,
				InitialWait: cfg.API.Retry.InitialWait,
				MaxWait:     cfg.API.Retry.MaxWait,
				Multiplier:  remote.DefaultRetryConfig().Multiplier,
			},
		}, logger)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("remote client: %w", err)
		}
		d.remote = client
		focusOpts.Counters = client
		focusOpts.Settings = client
		pipeline := study.NewPipeline(client, cfg.API.RatingTimeout, logger)
		d.study = study.NewController(client, pipeline, cfg.API.QueueTimeout, logger)
	} else {
		logger.Info("no api.base_url configured, running offline")
	}

	d.focus, err = focus.NewController(focusOpts)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("focus timer: %w", err)
	}
	if err := d.focus.Bootstrap(cmd.Context()); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("restore focus timer: %w", err)
	}
	return d, closeAll, nil
}
