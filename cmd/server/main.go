// Package main starts the HomeHub API server: it loads configuration,
// opens the selected store, wires services and handlers, starts the
// background jobs and serves HTTP (or HTTPS when a certificate is set).
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/homehub/internal/camera"
	"github.com/atinyakov/homehub/internal/config"
	"github.com/atinyakov/homehub/internal/db"
	"github.com/atinyakov/homehub/internal/logger"
	"github.com/atinyakov/homehub/internal/repository"
	"github.com/atinyakov/homehub/internal/seed"
	"github.com/atinyakov/homehub/internal/server/handler/http"
	"github.com/atinyakov/homehub/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := options.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, options *config.Options, log *zap.Logger) error {
	loc := options.Location()

	store, err := repository.Open(options.StoreDriver, options.DatabaseDSN, log)
	if err != nil {
		return fmt.Errorf("cannot init store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if store.DB != nil {
		db.StartHealthMonitor(ctx, store.DB, options.DBHealthInterval.Duration, log)
	}

	services := service.NewServices(store, log)
	services.Dashboard.Location = loc
	services.Calendar.Location = loc

	// The note row must exist before the first request.
	if _, err := services.Notes.Get(ctx); err != nil {
		return fmt.Errorf("ensure note: %w", err)
	}

	if options.Seed {
		if err := seed.Run(ctx, services, services.Dashboard.Today(), log); err != nil {
			return err
		}
	}

	scheduler := service.NewScheduler(loc, 2*time.Minute, log)
	if options.CalendarURL != "" {
		if _, err := scheduler.ScheduleCalendarSync(options.CalendarSchedule, options.CalendarURL, services.Calendar); err != nil {
			return err
		}
		log.Info("calendar sync scheduled",
			zap.String("url", options.CalendarURL),
			zap.String("schedule", options.CalendarSchedule))
	}
	scheduler.Start()
	defer scheduler.Stop()

	cam, err := camera.New(camera.Options{
		Mode:      options.UnifiMode,
		Host:      options.UnifiHost,
		APIKey:    options.UnifiAPIKey,
		ConsoleID: options.UnifiConsoleID,
		CAFile:    options.UnifiCAFile,
		Insecure:  options.UnifiInsecure,
	}, log)
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}

	handlers := http.NewHandlers(services, cam, options.UpcomingDaysDefault, log)
	router := http.NewRouter(handlers, log)

	server := &nethttp.Server{
		Addr:              options.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if options.TLSCert != "" {
			log.Info("starting HTTPS server", zap.String("addr", options.ServerAddress))
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		log.Info("starting HTTP server", zap.String("addr", options.ServerAddress))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
