package bot

import (
	"context"
	"log/slog"
	"plat2plat/internal/metrics"
	"plat2plat/internal/service/resolver"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// onMessageCreate handles new Discord messages
func (s *BotService) onMessageCreate(_ *discordgo.Session, message *discordgo.MessageCreate) {
	s.handleMessage(message.Message)
}

// handleMessage replies to a message holding a music link.
// At most one reply is sent per message.
func (s *BotService) handleMessage(message *discordgo.Message) {
	if s.shouldIgnore(message) {
		s.metrics.RecordMessage(metrics.OutcomeIgnored)
		return
	}

	log := s.logger.With(
		"handling_id", uuid.New().String(),
		"message_id", message.ID,
		"channel_id", message.ChannelID,
		"guild_id", message.GuildID,
	)

	embed, outcome := s.buildReply(s.ctx, log, message.Content)
	if embed == nil {
		s.metrics.RecordMessage(outcome)
		return
	}

	if _, err := s.session.ChannelMessageSendEmbed(message.ChannelID, embed); err != nil {
		log.Error("Failed to send reply", "error", err, "outcome", outcome)
		s.metrics.RecordMessage(metrics.OutcomeSendFail)
		return
	}

	log.Debug("Reply sent", "outcome", outcome)
	s.metrics.RecordMessage(outcome)
}

// shouldIgnore reports whether a message must not be answered
func (s *BotService) shouldIgnore(message *discordgo.Message) bool {
	if message == nil || message.Author == nil {
		return true
	}
	if s.selfID != "" && message.Author.ID == s.selfID {
		return true
	}
	return s.config != nil && s.config.IgnoreBots && message.Author.Bot
}

// buildReply turns message content into a reply embed. It returns a nil embed
// when the content holds no supported link. Resolution failures of any kind
// produce the error embed.
func (s *BotService) buildReply(ctx context.Context, log *slog.Logger, content string) (*discordgo.MessageEmbed, string) {
	link, ok := s.detector.Detect(content)
	if !ok {
		return nil, metrics.OutcomeNoLink
	}

	log.Info("Detected music link", "url", link.URL, "platform", link.Platform)
	s.metrics.RecordLink(link.Platform)

	start := time.Now()
	track, err := s.resolver.Resolve(ctx, link.URL)
	s.metrics.RecordResolution(resolver.Kind(err), time.Since(start))

	if err != nil {
		log.Error("Error calling song.link API",
			"error", err,
			"kind", resolver.Kind(err),
			"url", link.URL,
		)
		return RenderError(), metrics.OutcomeFailed
	}

	return RenderTrack(track, s.icons, s.platforms), metrics.OutcomeResolved
}
