package bot

import (
	"fmt"
	"log/slog"
	"plat2plat/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	linksCommand   = "links"
	linksOptionURL = "url"

	noLinkMessage = "That doesn't look like a Spotify, Apple Music, YouTube or SoundCloud link."
)

// Command definitions
var commands = []*discordgo.ApplicationCommand{
	{
		Name:        linksCommand,
		Description: "Find a song on other streaming platforms",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        linksOptionURL,
				Description: "Spotify, Apple Music, YouTube or SoundCloud link",
				Required:    true,
			},
		},
	},
}

// registerCommands registers slash commands with Discord
func (s *BotService) registerCommands() error {
	s.logger.Info("Registering slash commands...")

	// Register commands globally (takes up to 1 hour to propagate)
	_, err := s.session.ApplicationCommandBulkOverwrite(s.session.ApplicationID(), "", commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	s.logger.Info("Slash commands registered successfully")
	return nil
}

// onInteractionCreate handles slash command interactions
func (s *BotService) onInteractionCreate(_ *discordgo.Session, interaction *discordgo.InteractionCreate) {
	s.handleInteraction(interaction.Interaction)
}

func (s *BotService) handleInteraction(interaction *discordgo.Interaction) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}

	command := interaction.ApplicationCommandData()
	log := s.logger.With(
		"handling_id", uuid.New().String(),
		"command", command.Name,
		"guild_id", interaction.GuildID,
		"channel_id", interaction.ChannelID,
	)
	log.Debug("Received slash command")

	switch command.Name {
	case linksCommand:
		s.handleLinksCommand(interaction, log)
	default:
		response := &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Unknown command",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		}
		if err := s.session.InteractionRespond(interaction, response); err != nil {
			log.Error("Failed to respond to interaction", "error", err)
		}
	}
}

// handleLinksCommand handles the /links command. The response is deferred
// because the song.link lookup can outlast Discord's 3 second reply window.
func (s *BotService) handleLinksCommand(interaction *discordgo.Interaction, log *slog.Logger) {
	content := ""
	for _, option := range interaction.ApplicationCommandData().Options {
		if option.Name == linksOptionURL && option.Type == discordgo.ApplicationCommandOptionString {
			content = option.StringValue()
		}
	}

	deferred := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if err := s.session.InteractionRespond(interaction, deferred); err != nil {
		log.Error("Failed to defer interaction response", "error", err)
		return
	}

	edit := &discordgo.WebhookEdit{}
	embed, outcome := s.buildReply(s.ctx, log, content)
	if embed == nil {
		message := noLinkMessage
		edit.Content = &message
	} else {
		edit.Embeds = &[]*discordgo.MessageEmbed{embed}
	}

	if _, err := s.session.InteractionResponseEdit(interaction, edit); err != nil {
		log.Error("Failed to edit interaction response", "error", err)
		s.metrics.RecordMessage(metrics.OutcomeSendFail)
		return
	}

	s.metrics.RecordMessage(outcome)
}
