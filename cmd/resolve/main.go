package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"plat2plat/internal/config"
	"plat2plat/internal/domain"
	"plat2plat/internal/pkg/logger"
	"plat2plat/internal/pkg/urldetector"
	"plat2plat/internal/service/bot"
	"plat2plat/internal/service/resolver"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

const noLinkFound = "no music link found"

var rootCmd = &cobra.Command{
	Use:   "resolve <text>",
	Short: "Resolve a music link through song.link and print the result",
	Long: `resolve finds the first Spotify, Apple Music, YouTube or SoundCloud link in
its arguments, looks it up on song.link and prints the reply the bot would
send. No Discord connection is made.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runResolve,
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().String("log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.Flags().String("api-url", "", "song.link API base URL; overrides SONGLINK_API_URL")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("api-url") {
		cfg.SongLinkAPIURL, _ = cmd.Flags().GetString("api-url")
	}
	if err := cfg.ValidateForResolve(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Logs go to stderr so stdout only carries the result
	log, closer := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Stdout: os.Stderr})
	defer closer.Close()

	client := resolver.New(resolver.Options{
		BaseURL:     cfg.SongLinkAPIURL,
		APIKey:      cfg.SongLinkAPIKey,
		UserCountry: cfg.SongLinkUserCountry,
		Timeout:     cfg.SongLinkTimeout,
	}, log)

	return resolve(cmd.Context(), client, strings.Join(args, " "), cmd.OutOrStdout())
}

// resolve prints the rendered reply for the first link in text
func resolve(ctx context.Context, r bot.Resolver, text string, out io.Writer) error {
	link, ok := urldetector.Extract(text)
	if !ok {
		fmt.Fprintln(out, noLinkFound)
		return nil
	}

	track, err := r.Resolve(ctx, link)
	if err != nil {
		if errors.Is(err, resolver.ErrMalformedResponse) {
			return fmt.Errorf("song.link returned an unexpected response for %s: %w", link, err)
		}
		return fmt.Errorf("could not resolve %s: %w", link, err)
	}

	embed := bot.RenderTrack(track, domain.FallbackIconCache(), domain.Platforms())
	fmt.Fprintln(out, embed.Title)
	if embed.Thumbnail != nil {
		fmt.Fprintln(out, embed.Thumbnail.URL)
	}
	for _, field := range embed.Fields {
		fmt.Fprintln(out, field.Name)
		fmt.Fprintln(out, field.Value)
	}
	return nil
}
