package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"plat2plat/internal/config"
	"plat2plat/internal/domain"
	"plat2plat/internal/metrics"
	"plat2plat/internal/pkg/urldetector"
	"plat2plat/internal/service/platforms"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// Session defines the discordgo session methods the bot needs.
// It allows tests to run the bot without a Discord connection.
type Session interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	UpdateGameStatus(idle int, name string) error
	ApplicationEmojis(appID string, options ...discordgo.RequestOption) ([]*discordgo.Emoji, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)

	// SelfID returns the bot's own user ID once the session is open
	SelfID() string
	// ApplicationID returns the bot's application ID once the session is open
	ApplicationID() string
}

// Resolver resolves a music link to its equivalents on other platforms
type Resolver interface {
	Resolve(ctx context.Context, musicURL string) (*domain.ResolvedTrack, error)
}

// discordSession adds identity lookups to *discordgo.Session
type discordSession struct {
	*discordgo.Session
}

func (d discordSession) SelfID() string {
	if d.State == nil || d.State.User == nil {
		return ""
	}
	return d.State.User.ID
}

func (d discordSession) ApplicationID() string {
	if d.State != nil && d.State.Application != nil && d.State.Application.ID != "" {
		return d.State.Application.ID
	}
	return d.SelfID()
}

// NewSession creates a Discord session with the intents the bot needs
func NewSession(token string) (Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return discordSession{session}, nil
}

// BotService handles Discord bot operations
type BotService struct {
	config    *config.Config
	logger    *slog.Logger
	session   Session
	resolver  Resolver
	detector  *urldetector.Detector
	platforms []domain.PlatformSpec
	metrics   *metrics.Metrics // Optional - nil disables metrics

	// Set in Start before message handlers are registered, read-only afterwards
	icons  *domain.IconCache
	selfID string
	ready  atomic.Bool

	// State
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new bot service
func New(
	config *config.Config,
	logger *slog.Logger,
	session Session,
	resolver Resolver,
	m *metrics.Metrics, // Optional - can be nil
) (*BotService, error) {
	if session == nil {
		return nil, errors.New("discord session is required")
	}
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &BotService{
		config:    config,
		logger:    logger,
		session:   session,
		resolver:  resolver,
		detector:  urldetector.New(),
		platforms: domain.Platforms(),
		metrics:   m,
		icons:     domain.FallbackIconCache(),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start connects to Discord and handles messages until ctx is cancelled.
// Icons are loaded before message handlers are registered.
func (s *BotService) Start(ctx context.Context) error {
	s.logger.Info("Starting Discord bot...")

	s.session.AddHandler(s.onReady)

	if err := s.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	s.logger.Info("Discord bot connected successfully")

	s.selfID = s.session.SelfID()
	s.loadIcons()
	s.registerHandlers()
	s.ready.Store(true)

	if err := s.registerCommands(); err != nil {
		s.logger.Error("Failed to register slash commands", "error", err)
	}

	s.logger.Info("Bot is running")

	select {
	case <-ctx.Done():
	case <-s.ctx.Done():
	}

	s.logger.Info("Shutting down Discord bot...")
	return s.Stop()
}

// Stop closes the Discord connection
func (s *BotService) Stop() error {
	s.cancel()
	s.ready.Store(false)

	s.logger.Info("Closing Discord connection...")
	if err := s.session.Close(); err != nil {
		s.logger.Error("Error closing Discord connection", "error", err)
		return err
	}

	s.logger.Info("Discord bot stopped")
	return nil
}

// Ready reports whether message handlers are registered
func (s *BotService) Ready() bool {
	return s.ready.Load()
}

// Icons returns the icon cache in use
func (s *BotService) Icons() *domain.IconCache {
	return s.icons
}

// loadIcons builds the icon cache from the application's emojis
func (s *BotService) loadIcons() {
	loader := platforms.NewLoader(s.session, s.logger)
	icons, results := loader.Load(s.session.ApplicationID())

	for _, result := range results {
		s.metrics.RecordIconLookup(result.Platform, string(result.Status))
	}

	s.icons = icons
}

func (s *BotService) registerHandlers() {
	s.session.AddHandler(s.onMessageCreate)
	s.session.AddHandler(s.onInteractionCreate)

	s.logger.Debug("REGISTER_HANDLERS: All handlers registered successfully")
}

// onReady is called when the bot successfully connects to Discord
func (s *BotService) onReady(session *discordgo.Session, ready *discordgo.Ready) {
	s.logger.Info("Bot is ready",
		"username", ready.User.Username,
		"user_id", ready.User.ID,
		"guilds", len(ready.Guilds),
	)

	if err := s.session.UpdateGameStatus(0, "🎵 Listening for music links"); err != nil {
		s.logger.Error("Failed to set bot status", "error", err)
	}
}
