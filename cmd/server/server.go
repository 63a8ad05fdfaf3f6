package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/image-generation-api/internal/config"
	"github.com/janhq/image-generation-api/internal/infrastructure/fal"
	"github.com/janhq/image-generation-api/internal/infrastructure/logger"
	"github.com/janhq/image-generation-api/internal/infrastructure/metrics"
	"github.com/janhq/image-generation-api/internal/infrastructure/observability"
	"github.com/janhq/image-generation-api/internal/interfaces/httpserver"
)

// @title Image Generation API
// @version 1.0
// @description Single-endpoint proxy for FAL.ai image generation
// @BasePath /
type Application struct {
	cfg        *config.Config
	httpServer *httpserver.HttpServer
	falClient  *fal.Client
	log        zerolog.Logger
}

func NewApplication(cfg *config.Config, httpServer *httpserver.HttpServer, falClient *fal.Client, log zerolog.Logger) *Application {
	return &Application{
		cfg:        cfg,
		httpServer: httpServer,
		falClient:  falClient,
		log:        log,
	}
}

// Start runs the API and metrics listeners until ctx is cancelled or one of them fails.
func (a *Application) Start(ctx context.Context) error {
	defer func() {
		if err := a.falClient.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close FAL.ai client")
		}
	}()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.httpServer.Run(ctx)
	})
	if addr := a.cfg.MetricsAddr(); addr != "" {
		eg.Go(func() error {
			return metrics.Serve(ctx, addr, a.cfg.ShutdownTimeout, a.log)
		})
	}
	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	falClient, err := fal.NewClient(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize FAL.ai client")
	}

	httpServer := httpserver.New(cfg, log, falClient)
	app := NewApplication(cfg, httpServer, falClient, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return log.With().Str("service", cfg.ServiceName).Logger(), nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
