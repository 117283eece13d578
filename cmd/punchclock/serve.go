package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/warp/punchclock/api"
	"github.com/warp/punchclock/log"
	"github.com/warp/punchclock/records"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the punch clock HTTP server",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen address host:port",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "enable the storage reset endpoint",
			},
		},
		Description: `
Environment variables:
	PUNCHCLOCK_SERVER_LISTEN_ADDR      (default: 0.0.0.0:8080)
	PUNCHCLOCK_SERVER_STATIC_DIR       (default: ./web)
	PUNCHCLOCK_SERVER_OFFLINE_PAGE     (default: offline.html)
	PUNCHCLOCK_SERVER_ALLOWED_ORIGINS  (comma-separated list)
	PUNCHCLOCK_SERVER_LOG_LEVEL        (default: info)
	PUNCHCLOCK_SERVER_MAX_RANGE_DAYS   (default: 366)
	PUNCHCLOCK_SERVER_DEV              (default: false)
	PUNCHCLOCK_STORAGE_BACKEND         (default: sqlite)
	PUNCHCLOCK_STORAGE_DB_PATH         (default: punchclock.db)
	PUNCHCLOCK_STORAGE_DATABASE_KEY    (default: punchclock:employees)
	PUNCHCLOCK_STORAGE_ACTIVE_KEY      (default: punchclock:active)
	PUNCHCLOCK_REDIS_ADDR              (default: localhost:6379)
	PUNCHCLOCK_REDIS_PASS
	PUNCHCLOCK_REDIS_DB                (default: 0)
	PUNCHCLOCK_REDIS_PREFIX
`,
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	c, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("listen") {
		c.Server.ListenAddr = cmd.String("listen")
	}
	if cmd.IsSet("dev") {
		c.Server.Dev = cmd.Bool("dev")
	}

	logger := slog.New(log.NewHandlerTo(os.Stderr, "punchclock", log.ParseLevel(c.Server.LogLevel)))
	ctx = log.IntoContext(ctx, logger)

	store, b, err := openRecords(ctx, c)
	if err != nil {
		return err
	}
	defer b.close()

	handler := api.NewHandler(records.NewService(store), log.SubLogger(logger, "api"))
	handler.MaxRangeDays = c.Server.MaxRangeDays
	if c.Server.Dev {
		logger.Info("running in dev mode, reset endpoint is enabled")
		handler.Reset = b.reset
	}

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: c.Server.AllowedOrigins,
		StaticDir:      c.Server.StaticDir,
		OfflinePage:    c.Server.OfflinePage,
	})

	server := &http.Server{
		Addr:         c.Server.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", c.Server.ListenAddr, "backend", c.Storage.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
