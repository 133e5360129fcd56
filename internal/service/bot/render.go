package bot

import (
	"fmt"
	"plat2plat/internal/domain"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Embed colours
const (
	ColorTrack = 0x3498db // blue
	ColorError = 0xe67e22 // orange
)

// Reply text
const (
	ListenOnLabel    = "Listen On:"
	ErrorTitle       = "API Error"
	ErrorDescription = "Sorry, I had trouble converting that link right now."
)

// RenderTrack builds the reply embed for a resolved track. Listen-on entries
// follow the order of platforms; links for platforms not in the list are skipped.
func RenderTrack(track *domain.ResolvedTrack, icons *domain.IconCache, platforms []domain.PlatformSpec) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s by %s", track.Title, track.Artist),
		Color: ColorTrack,
	}

	if track.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ThumbnailURL}
	}

	links := make(map[string]string, len(track.Links))
	for _, link := range track.Links {
		links[link.Platform] = link.URL
	}

	entries := make([]string, 0, len(track.Links))
	for _, platform := range platforms {
		url, ok := links[platform.Key]
		if !ok {
			continue
		}
		entries = append(entries, fmt.Sprintf("[%s %s](%s)", icons.Get(platform.Key), platform.Name, url))
	}

	if len(entries) > 0 {
		embed.Fields = []*discordgo.MessageEmbedField{{
			Name:   ListenOnLabel,
			Value:  strings.Join(entries, "\n"),
			Inline: true,
		}}
	}

	return embed
}

// RenderError builds the reply embed sent when a link could not be resolved
func RenderError() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       ErrorTitle,
		Description: ErrorDescription,
		Color:       ColorError,
	}
}
