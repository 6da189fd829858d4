package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/jusunglee/fidelbot/internal/bot"
	"github.com/jusunglee/fidelbot/internal/db/dbopen"
	"github.com/jusunglee/fidelbot/internal/db/postgres"
	"github.com/jusunglee/fidelbot/internal/envsetup"
	"github.com/jusunglee/fidelbot/internal/health"
	"github.com/jusunglee/fidelbot/internal/logger"
	"github.com/jusunglee/fidelbot/internal/translation"
	"github.com/mattn/go-isatty"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
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
	if envsetup.NeedsSetup() && isatty.IsTerminal(os.Stdin.Fd()) {
		completed, err := envsetup.Run()
		if err != nil {
			return fmt.Errorf("running setup wizard: %w", err)
		}
		if !completed {
			return errors.New("setup was not completed")
		}
	}
	_ = godotenv.Load()

	fs := ff.NewFlagSet("fidelbot")
	var (
		discordToken     = fs.StringLong("discord-token", "", "Discord bot token")
		guildID          = fs.StringLong("discord-guild-id", "", "Register commands to this guild only")
		databaseURL      = fs.StringLong("database-url", "./fidelbot.db", "PostgreSQL URL or SQLite file path")
		historyRetention = fs.DurationLong("history-retention", 30*24*time.Hour, "How long transliteration history is kept (0 keeps it forever)")
		maxInputRunes    = fs.Int64Long("max-input-runes", 1000, "Longest text accepted per request")
		healthPort       = fs.Int64Long("health-port", 8080, "Port for /health and /metrics")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *discordToken == "" {
		return errors.New("discord-token is required")
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

	dg, err := discordgo.New("Bot " + *discordToken)
	if err != nil {
		return fmt.Errorf("creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	b := bot.New(bot.NewLogger(log), bot.NewDiscordSession(dg), translation.NewService(repo), bot.Config{
		GuildID:          *guildID,
		MaxInputRunes:    int(*maxInputRunes),
		HistoryRetention: *historyRetention,
	})
	healthServer := health.New(int(*healthPort), health.WithMetrics())

	eg, ctx := errgroup.WithContext(ctx)
	if pg, ok := repo.(*postgres.Repository); ok {
		eg.Go(func() error {
			pg.ExportPoolStats(ctx, 15*time.Second)
			return nil
		})
	}
	eg.Go(func() error {
		log.InfoContext(ctx, "starting health server", "port", *healthPort)
		return healthServer.Start()
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthServer.Shutdown(shutdownCtx)
	})
	eg.Go(func() error {
		return b.Run(ctx)
	})

	return eg.Wait()
}
