// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/eballot/apiclient"
	"github.com/danielhkuo/eballot/cliparse"
	"github.com/danielhkuo/eballot/session"
	"github.com/danielhkuo/eballot/storage"
	"github.com/danielhkuo/eballot/view"
	"github.com/danielhkuo/eballot/workflow"
)

var errNotSignedIn = errors.New("not signed in; run 'eballot login' first")

// app is everything a command needs, wired from the configuration
type app struct {
	cfg      cliparse.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	client   *apiclient.Client
	term     *view.Terminal

	// nil for commands that do not touch the session
	store    storage.Storage
	sessions *session.Store
	ctrl     *workflow.Controller
}

type appOptions struct {
	withSession   bool
	assumeYes     bool
	resultsStatus string
}

// loadConfig layers the config file, environment and explicitly set flags
func loadConfig(cmd *cobra.Command) (cliparse.Config, error) {
	cfg, err := cliparse.Load(globalFlags.configFile)
	if err != nil {
		return cliparse.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIBaseURL = globalFlags.apiURL
	}
	if flags.Changed("storage") {
		cfg.StorageType = globalFlags.storageType
	}
	if flags.Changed("storage-path") {
		cfg.StoragePath = globalFlags.storagePath
	}
	if flags.Changed("database-url") {
		cfg.DatabaseURL = globalFlags.databaseURL
	}
	if flags.Changed("metrics-textfile") {
		cfg.MetricsTextfile = globalFlags.metricsFile
	}
	if flags.Changed("debug") {
		cfg.Debug = globalFlags.debug
	}

	if err := cfg.Finalize(); err != nil {
		return cliparse.Config{}, err
	}
	return cfg, nil
}

// newLogger writes text logs to stderr, warnings and up unless debugging
func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelWarn
	addSource := false
	if debug {
		logLevel = slog.LevelDebug
		addSource = true
	}
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			AddSource: addSource,
			Level:     logLevel,
		}),
	).With("component", programName)
	slog.SetDefault(logger)
	return logger
}

func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Debug)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		term:     view.NewTerminal(cmd.OutOrStdout(), view.WithInput(cmd.InOrStdin())),
	}
	a.client = apiclient.NewClient(cfg.APIBaseURL,
		apiclient.WithLogger(logger),
		apiclient.WithPromRegistry(a.registry),
		apiclient.WithTimeout(cfg.RequestTimeout),
	)
	logger.Debug("configuration loaded",
		"api_base_url", cfg.APIBaseURL,
		"storage", cfg.StorageType,
		"storage_path", cfg.StoragePath,
	)

	if !opts.withSession {
		return a, nil
	}

	a.store, err = storage.Open(cfg.Storage(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageType, err)
	}
	a.sessions = session.New(a.store, session.WithLogger(logger))

	var confirmer workflow.Confirmer = a.term
	if opts.assumeYes {
		confirmer = workflow.ConfirmFunc(func(string) bool { return true })
	}
	resultsStatus := cfg.ResultsStatus
	if opts.resultsStatus != "" {
		resultsStatus = opts.resultsStatus
	}
	a.ctrl = workflow.NewController(a.client, a.sessions, a.term, confirmer,
		workflow.WithLogger(logger),
		workflow.WithAlertTimeout(cfg.AlertTimeout),
		workflow.WithResultsStatus(resultsStatus),
	)
	return a, nil
}

// Close releases the session storage and writes the metrics snapshot
func (a *app) Close() {
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close storage", "error", err)
		}
	}
	if a.cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsTextfile, a.registry); err != nil {
			a.logger.Warn("failed to write metrics", "path", a.cfg.MetricsTextfile, "error", err)
		}
	}
}

// requireSession resumes the stored session or fails
func (a *app) requireSession() error {
	if a.ctrl.Resume() == workflow.Anonymous {
		return errNotSignedIn
	}
	return nil
}

// requireAnonymous fails when a session is already stored
func (a *app) requireAnonymous() error {
	if sess, ok := a.sessions.Current(); ok {
		return fmt.Errorf("already signed in as %s; run 'eballot logout' first", sess.Voter.VoterID)
	}
	a.ctrl.Resume()
	return nil
}

// run builds the app, runs fn and tears the app down
func run(cmd *cobra.Command, opts appOptions, fn func(a *app) error) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
