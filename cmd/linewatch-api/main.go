package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/linewatch/internal/equipment"
	"github.com/five82/linewatch/internal/logging"
	"github.com/five82/linewatch/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg := server.LoadConfig()

	logger, err := logging.Console(os.Stderr, cfg.LogLevel)
	if err != nil {
		logger, _ = logging.Console(os.Stderr, zerolog.LevelInfoValue)
		logger.Warn().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level, using info")
	}

	ds, err := loadDataset(cfg.DatasetPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.DatasetPath).Msg("dataset load failed")
		return 1
	}

	srv := server.New(ds,
		server.WithLogger(logger),
		server.WithCORSOrigins(cfg.CORSOrigins),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server exit")
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error().Err(err).Msg("shutdown failed")
		return 1
	}
	return 0
}

func loadDataset(path string) (*equipment.Dataset, error) {
	if path == "" {
		return equipment.SampleDataset()
	}
	return equipment.LoadDatasetFile(path)
}
