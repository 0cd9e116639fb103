package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/linewatch/internal/config"
	"github.com/five82/linewatch/internal/equipment"
	"github.com/five82/linewatch/internal/logging"
	"github.com/five82/linewatch/internal/prefs"
	"github.com/five82/linewatch/internal/provider"
	"github.com/five82/linewatch/internal/state"
	"github.com/five82/linewatch/internal/ui"
)

// Options configure the linewatch dashboard.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/linewatch/prefs.toml
	APIURL     string // overrides config file and environment
	PollEvery  int    // seconds; zero uses refresh_seconds from the config
}

// Run boots the linewatch TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.PollEvery) * time.Second
	}

	logger, closer, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	local, err := loadDataset(cfg.DatasetPath)
	if err != nil {
		return err
	}

	client, err := equipment.NewClient(cfg.APIURL, clientOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	prov := provider.New(client, local, client,
		provider.WithLogger(logger.With().Str("component", "provider").Logger()),
	)

	logger.Info().
		Str("api_url", client.BaseURL()).
		Int("local_records", local.Len()).
		Dur("refresh", cfg.RefreshInterval).
		Msg("linewatch starting")

	store := &state.Store{}
	refresher := NewRefresher(prov, store, userPrefs.Filters, logger.With().Str("component", "refresher").Logger())

	// Populate the store before the UI starts
	_ = refresher.Refresh(ctx)

	if cfg.RefreshInterval > 0 {
		StartPoller(ctx, refresher, cfg.RefreshInterval)
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Provider:  prov,
		Refresher: refresher,
		Store:     store,
		Config:    &cfg,
		ThemeName: userPrefs.Theme,
		ViewName:  userPrefs.View,
		PrefsPath: opts.PrefsPath,
		Logger:    logger.With().Str("component", "ui").Logger(),
	}
	err = ui.Run(uiOpts)
	logger.Info().Err(err).Msg("linewatch stopped")
	return err
}

func clientOptions(cfg config.Config, logger zerolog.Logger) []equipment.ClientOption {
	opts := []equipment.ClientOption{
		equipment.WithTimeout(cfg.Timeout),
		equipment.WithLogger(logger.With().Str("component", "client").Logger()),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, equipment.WithUserAgent(cfg.UserAgent))
	}
	return opts
}

func loadDataset(path string) (*equipment.Dataset, error) {
	if path == "" {
		return equipment.SampleDataset()
	}
	ds, err := equipment.LoadDatasetFile(path)
	if err != nil {
		return nil, fmt.Errorf("load local dataset: %w", err)
	}
	return ds, nil
}
