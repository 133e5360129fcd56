package bot

import (
	"fmt"
	"plat2plat/internal/service/resolver"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linksInteraction(url string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "i1",
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "c1",
		GuildID:   "g1",
		Data: discordgo.ApplicationCommandInteractionData{
			Name: linksCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: linksOptionURL, Type: discordgo.ApplicationCommandOptionString, Value: url},
			},
		},
	}
}

func TestLinksCommandResolves(t *testing.T) {
	session := &MockSession{}
	fake := &fakeResolver{track: heyJude()}
	service := newTestService(t, session, fake, nil)

	service.handleInteraction(linksInteraction("https://open.spotify.com/track/X"))

	assert.Equal(t, []string{"https://open.spotify.com/track/X"}, fake.Calls())

	require.Len(t, session.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, session.responses[0].Type)

	require.Len(t, session.edits, 1)
	edit := session.edits[0]
	require.NotNil(t, edit.Embeds)
	require.Len(t, *edit.Embeds, 1)
	assert.Equal(t, "Hey Jude by The Beatles", (*edit.Embeds)[0].Title)
	assert.Nil(t, edit.Content)

	// Slash commands never post channel messages
	assert.Empty(t, session.Sent())
}

func TestLinksCommandNoLink(t *testing.T) {
	session := &MockSession{}
	fake := &fakeResolver{track: heyJude()}
	service := newTestService(t, session, fake, nil)

	service.handleInteraction(linksInteraction("not a link"))

	assert.Empty(t, fake.Calls())
	require.Len(t, session.edits, 1)
	require.NotNil(t, session.edits[0].Content)
	assert.Equal(t, noLinkMessage, *session.edits[0].Content)
	assert.Nil(t, session.edits[0].Embeds)
}

func TestLinksCommandFailure(t *testing.T) {
	session := &MockSession{}
	fake := &fakeResolver{err: &resolver.ResolveError{Kind: resolver.ErrNetwork, Err: fmt.Errorf("timeout")}}
	service := newTestService(t, session, fake, nil)

	service.handleInteraction(linksInteraction("https://youtu.be/abc"))

	require.Len(t, session.edits, 1)
	require.NotNil(t, session.edits[0].Embeds)
	assert.Equal(t, []*discordgo.MessageEmbed{RenderError()}, *session.edits[0].Embeds)
}

func TestHandleInteractionUnknownCommand(t *testing.T) {
	session := &MockSession{}
	service := newTestService(t, session, &fakeResolver{}, nil)

	service.handleInteraction(&discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "nope"},
	})

	require.Len(t, session.responses, 1)
	assert.Equal(t, "Unknown command", session.responses[0].Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, session.responses[0].Data.Flags)
	assert.Empty(t, session.edits)
}

func TestHandleInteractionIgnoresOtherTypes(t *testing.T) {
	session := &MockSession{}
	service := newTestService(t, session, &fakeResolver{}, nil)

	service.handleInteraction(&discordgo.Interaction{Type: discordgo.InteractionPing})

	assert.Empty(t, session.responses)
	assert.Empty(t, session.edits)
}

func TestCommandDefinitions(t *testing.T) {
	require.Len(t, commands, 1)
	assert.Equal(t, "links", commands[0].Name)
	require.Len(t, commands[0].Options, 1)
	assert.Equal(t, linksOptionURL, commands[0].Options[0].Name)
	assert.True(t, commands[0].Options[0].Required)
}
