package archive

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMessage(t *testing.T) {
	baseMessage := func() *discordgo.Message {
		return &discordgo.Message{
			ID:        testMessageID,
			ChannelID: testChannelID,
			Content:   "archival candidate",
			Timestamp: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
			Author: &discordgo.User{
				ID:       testAuthorID,
				Username: "somebody",
			},
		}
	}

	t.Run("maps_core_fields", func(t *testing.T) {
		payload := NormalizeMessage(baseMessage(), testGuildID, testArchiverID)

		assert.Equal(t, testMessageID, payload.MessageID)
		assert.Equal(t, testChannelID, payload.ChannelID)
		assert.Equal(t, testGuildID, payload.GuildID)
		assert.Equal(t, testAuthorID, payload.AuthorID)
		assert.Equal(t, "somebody", payload.AuthorUsername)
		assert.Equal(t, "archival candidate", payload.Content)
		assert.Equal(t, testArchiverID, payload.ArchivedBy)
		assert.Equal(t,
			"https://discord.com/channels/"+testGuildID+"/"+testChannelID+"/"+testMessageID,
			payload.MessageURL)
		assert.False(t, payload.ArchivedAt.IsZero())
	})

	t.Run("optional_author_fields_stay_absent", func(t *testing.T) {
		payload := NormalizeMessage(baseMessage(), testGuildID, testArchiverID)

		assert.Nil(t, payload.AuthorDisplayName)
		assert.Nil(t, payload.AuthorAvatar)
		assert.Nil(t, payload.EditedTimestamp)
	})

	t.Run("guild_nickname_wins_over_global_name", func(t *testing.T) {
		message := baseMessage()
		message.Author.GlobalName = "Global Name"
		message.Member = &discordgo.Member{Nick: "Nickname"}

		payload := NormalizeMessage(message, testGuildID, testArchiverID)

		require.NotNil(t, payload.AuthorDisplayName)
		assert.Equal(t, "Nickname", *payload.AuthorDisplayName)
	})

	t.Run("global_name_used_without_nickname", func(t *testing.T) {
		message := baseMessage()
		message.Author.GlobalName = "Global Name"

		payload := NormalizeMessage(message, testGuildID, testArchiverID)

		require.NotNil(t, payload.AuthorDisplayName)
		assert.Equal(t, "Global Name", *payload.AuthorDisplayName)
	})

	t.Run("avatar_recorded_only_when_set", func(t *testing.T) {
		message := baseMessage()
		message.Author.Avatar = "a1b2c3"

		payload := NormalizeMessage(message, testGuildID, testArchiverID)

		require.NotNil(t, payload.AuthorAvatar)
		assert.Contains(t, *payload.AuthorAvatar, "a1b2c3")
	})

	t.Run("attachment_dimensions_absent_for_non_images", func(t *testing.T) {
		message := baseMessage()
		message.Attachments = []*discordgo.MessageAttachment{
			{
				ID:       "200000000000000001",
				Filename: "notes.txt",
				URL:      "https://cdn.discordapp.com/attachments/notes.txt",
				ProxyURL: "https://media.discordapp.net/attachments/notes.txt",
				Size:     2048,
			},
		}

		payload := NormalizeMessage(message, testGuildID, testArchiverID)

		require.Len(t, payload.Attachments, 1)
		attachment := payload.Attachments[0]
		assert.Equal(t, "notes.txt", attachment.Filename)
		assert.Equal(t, 2048, attachment.Size)
		assert.Nil(t, attachment.Width)
		assert.Nil(t, attachment.Height)
		assert.Nil(t, attachment.ContentType)
	})

	t.Run("attachment_dimensions_kept_for_images", func(t *testing.T) {
		message := baseMessage()
		message.Attachments = []*discordgo.MessageAttachment{
			{
				ID:          "200000000000000002",
				Filename:    "photo.png",
				ContentType: "image/png",
				Size:        4096,
				Width:       800,
				Height:      600,
			},
		}

		payload := NormalizeMessage(message, testGuildID, testArchiverID)

		require.Len(t, payload.Attachments, 1)
		attachment := payload.Attachments[0]
		require.NotNil(t, attachment.Width)
		require.NotNil(t, attachment.Height)
		require.NotNil(t, attachment.ContentType)
		assert.Equal(t, 800, *attachment.Width)
		assert.Equal(t, 600, *attachment.Height)
		assert.Equal(t, "image/png", *attachment.ContentType)
	})

	t.Run("empty_lists_stay_non_nil_and_reactions_stay_nil", func(t *testing.T) {
		payload := NormalizeMessage(baseMessage(), testGuildID, testArchiverID)

		assert.NotNil(t, payload.Attachments)
		assert.Empty(t, payload.Attachments)
		assert.NotNil(t, payload.Embeds)
		assert.Empty(t, payload.Embeds)
		assert.Nil(t, payload.Reactions)
	})

	t.Run("embed_optional_parts_mapped", func(t *testing.T) {
		message := baseMessage()
		message.Embeds = []*discordgo.MessageEmbed{
			{
				Title:       "Release notes",
				Description: "What changed",
				Color:       0x5865F2,
				Footer:      &discordgo.MessageEmbedFooter{Text: "footer text"},
				Fields: []*discordgo.MessageEmbedField{
					{Name: "inline", Value: "yes", Inline: true},
					{Name: "block", Value: "no"},
				},
			},
		}

		payload := NormalizeMessage(message, testGuildID, testArchiverID)

		require.Len(t, payload.Embeds, 1)
		embed := payload.Embeds[0]
		require.NotNil(t, embed.Title)
		assert.Equal(t, "Release notes", *embed.Title)
		require.NotNil(t, embed.Color)
		assert.Equal(t, 0x5865F2, *embed.Color)
		require.NotNil(t, embed.Footer)
		assert.Equal(t, "footer text", embed.Footer.Text)
		assert.Nil(t, embed.Footer.IconURL)
		assert.Nil(t, embed.URL)
		assert.Nil(t, embed.Image)

		require.Len(t, embed.Fields, 2)
		require.NotNil(t, embed.Fields[0].Inline)
		assert.True(t, *embed.Fields[0].Inline)
		assert.Nil(t, embed.Fields[1].Inline)
	})

	t.Run("reactions_mapped_with_emoji_format", func(t *testing.T) {
		message := baseMessage()
		message.Reactions = []*discordgo.MessageReactions{
			{Count: 3, Emoji: &discordgo.Emoji{Name: "👍"}},
			{Count: 1, Emoji: &discordgo.Emoji{ID: "300000000000000001", Name: "blob"}},
		}

		payload := NormalizeMessage(message, testGuildID, testArchiverID)

		require.Len(t, payload.Reactions, 2)
		assert.Equal(t, "👍", payload.Reactions[0].Emoji)
		assert.Equal(t, 3, payload.Reactions[0].Count)
		assert.Equal(t, "<:blob:300000000000000001>", payload.Reactions[1].Emoji)
	})

	t.Run("edited_timestamp_carried_over", func(t *testing.T) {
		message := baseMessage()
		edited := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		message.EditedTimestamp = &edited

		payload := NormalizeMessage(message, testGuildID, testArchiverID)

		require.NotNil(t, payload.EditedTimestamp)
		assert.Equal(t, edited, *payload.EditedTimestamp)
	})
}
