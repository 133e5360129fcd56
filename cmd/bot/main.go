package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"plat2plat/internal/config"
	"plat2plat/internal/metrics"
	"plat2plat/internal/pkg/logger"
	"plat2plat/internal/service/api"
	"plat2plat/internal/service/bot"
	"plat2plat/internal/service/resolver"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var rootCmd = &cobra.Command{
	Use:   "bot",
	Short: "Discord bot that links music across streaming platforms",
	Long: `bot watches Discord channels for Spotify, Apple Music, YouTube and SoundCloud
links, looks them up on song.link, and replies with the same song on every
other platform.`,
	SilenceUsage: true,
	RunE:         runBot,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().String("ops-addr", "", "address for the health and metrics server, e.g. :9090; overrides OPS_ADDR")
	rootCmd.PersistentFlags().String("api-url", "", "song.link API base URL; overrides SONGLINK_API_URL")
}

// applyFlags copies explicitly set flags over the environment configuration
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("ops-addr") {
		cfg.OpsAddr, _ = flags.GetString("ops-addr")
	}
	if flags.Changed("api-url") {
		cfg.SongLinkAPIURL, _ = flags.GetString("api-url")
	}
}

func runBot(cmd *cobra.Command, _ []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	applyFlags(cmd, cfg)

	// Validate bot-specific configuration
	if err := cfg.ValidateForBot(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Setup logging
	log, logCloser := logger.NewWithOptions(logger.Options{
		Level:      cfg.LogLevel,
		JSON:       cfg.LogFormat == "json",
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	defer logCloser.Close()

	log.Info("Starting Discord bot service...",
		"songlink_api", cfg.SongLinkAPIURL,
		"ops_addr", cfg.OpsAddr,
		"ignore_bots", cfg.IgnoreBots,
	)

	m := metrics.New()

	songLink := resolver.New(resolver.Options{
		BaseURL:     cfg.SongLinkAPIURL,
		APIKey:      cfg.SongLinkAPIKey,
		UserCountry: cfg.SongLinkUserCountry,
		Timeout:     cfg.SongLinkTimeout,
	}, log.With("component", "resolver"))

	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}

	// Create bot service
	botService, err := bot.New(cfg, log.With("component", "bot"), session, songLink, m)
	if err != nil {
		return fmt.Errorf("failed to create bot service: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return botService.Start(gCtx)
	})

	if cfg.OpsAddr != "" {
		opsServer := api.New(cfg.OpsAddr, log.With("component", "ops"), m.Registry, botService.Ready)
		g.Go(func() error {
			return opsServer.Start(gCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Bot service stopped with error", "error", err)
		return err
	}

	log.Info("Bot service shutdown complete")
	return nil
}
