package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/wayfarer/adapter/cli"
	"github.com/felixgeelhaar/wayfarer/internal/app"
	"github.com/felixgeelhaar/wayfarer/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		// In development without .env, use defaults
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// In development, allow the CLI to run without a database
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
			cliApp = nil
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		// Flush domain events in the background while the CLI runs
		go func() {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				logger.Warn("outbox processor not started", "error", err)
			}
		}()

		cliApp = &cli.App{
			Engine:                container.Engine,
			RetryScheduler:        container.RetryScheduler,
			QueueDrainer:          container.QueueDrainer,
			QueueRepo:             container.QueueRepo,
			RemoteStore:           container.RemoteStore,
			ScheduleRepo:          container.ScheduleRepo,
			Pipeline:              container.Pipeline,
			GetDayScheduleHandler: container.GetDayScheduleHandler,
			FindFreeGapsHandler:   container.FindFreeGapsHandler,
			SavePlaceHandler:      container.SavePlaceHandler,
			ArchivePlaceHandler:   container.ArchivePlaceHandler,
			ListPlacesHandler:     container.ListPlacesHandler,
			GetPlaceHandler:       container.GetPlaceHandler,
			TravelEnabled:         cfg.TravelRulesEnabled,
		}
		cliApp.SetCurrentUserID(container.UserID)
	}

	cli.SetApp(cliApp)
	cli.Execute()
}
