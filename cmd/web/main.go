package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jusunglee/fidelbot/internal/db/dbopen"
	"github.com/jusunglee/fidelbot/internal/db/postgres"
	"github.com/jusunglee/fidelbot/internal/health"
	"github.com/jusunglee/fidelbot/internal/logger"
	"github.com/jusunglee/fidelbot/internal/translation"
	"github.com/jusunglee/fidelbot/internal/web"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("fidelbot-web")
	var (
		port           = fs.Int64Long("port", 3000, "HTTP server port")
		metricsPort    = fs.Int64Long("metrics-port", 9090, "Port for /metrics")
		databaseURL    = fs.StringLong("database-url", "./fidelbot.db", "PostgreSQL URL or SQLite file path")
		allowedOrigins = fs.StringLong("allowed-origins", "", "Comma-separated list of allowed CORS origins")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := dbopen.Open(ctx, *databaseURL)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer repo.Close()
	log.InfoContext(ctx, "connected to history database", "postgres", dbopen.IsPostgres(*databaseURL))

	origins := lo.Compact(lo.Map(strings.Split(*allowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))
	router := web.NewRouter(translation.NewService(repo), log, web.Config{AllowedOrigins: origins})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	metricsServer := health.New(int(*metricsPort), health.WithMetrics())

	eg, ctx := errgroup.WithContext(ctx)
	if pg, ok := repo.(*postgres.Repository); ok {
		eg.Go(func() error {
			pg.ExportPoolStats(ctx, 15*time.Second)
			return nil
		})
	}
	eg.Go(func() error {
		router.Limiter().RunCleanup(ctx, 5*time.Minute)
		return nil
	})
	eg.Go(func() error {
		log.InfoContext(ctx, "starting metrics server", "port", *metricsPort)
		return metricsServer.Start()
	})
	eg.Go(func() error {
		log.InfoContext(ctx, "starting web server", "port", *port, "allowed_origins", origins)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(server.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	return eg.Wait()
}
