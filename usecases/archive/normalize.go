package archive

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"msgarchive/models"
)

// NormalizeMessage transforms a live Discord message into a candidate
// archive payload. The repository assigns id, created_at and updated_at on
// insert. Optional fields stay absent when the source does not carry them;
// they are never zero-filled.
//
// The guild ID is passed explicitly because messages fetched over REST do
// not carry one.
func NormalizeMessage(message *discordgo.Message, guildID, archivedBy string) *models.ArchivedMessagePayload {
	author := message.Author
	if author == nil {
		author = &discordgo.User{}
	}

	payload := &models.ArchivedMessagePayload{
		MessageID:         message.ID,
		ChannelID:         message.ChannelID,
		GuildID:           guildID,
		AuthorID:          author.ID,
		AuthorUsername:    author.Username,
		AuthorDisplayName: normalizeDisplayName(message.Member, author),
		Content:           message.Content,
		Timestamp:         message.Timestamp,
		EditedTimestamp:   message.EditedTimestamp,
		Attachments:       normalizeAttachments(message.Attachments),
		Embeds:            normalizeEmbeds(message.Embeds),
		Reactions:         normalizeReactions(message.Reactions),
		ArchivedAt:        time.Now().UTC(),
		ArchivedBy:        archivedBy,
		MessageURL:        BuildMessageURL(guildID, message.ChannelID, message.ID),
	}

	// AvatarURL falls back to a default avatar; only record a URL when the
	// author actually has one set.
	if author.Avatar != "" {
		avatarURL := author.AvatarURL("")
		payload.AuthorAvatar = &avatarURL
	}

	return payload
}

// normalizeDisplayName picks the first non-empty of guild nickname and
// global display name; absent otherwise.
func normalizeDisplayName(member *discordgo.Member, author *discordgo.User) *string {
	if member != nil && member.Nick != "" {
		return &member.Nick
	}
	if author.GlobalName != "" {
		return &author.GlobalName
	}
	return nil
}

func normalizeAttachments(attachments []*discordgo.MessageAttachment) models.AttachmentList {
	result := make(models.AttachmentList, 0, len(attachments))
	for _, attachment := range attachments {
		mapped := models.MessageAttachment{
			ID:       attachment.ID,
			Filename: attachment.Filename,
			URL:      attachment.URL,
			ProxyURL: attachment.ProxyURL,
			Size:     attachment.Size,
		}
		if attachment.ContentType != "" {
			mapped.ContentType = &attachment.ContentType
		}
		if attachment.Width > 0 {
			mapped.Width = &attachment.Width
		}
		if attachment.Height > 0 {
			mapped.Height = &attachment.Height
		}
		result = append(result, mapped)
	}
	return result
}

func normalizeEmbeds(embeds []*discordgo.MessageEmbed) models.EmbedList {
	result := make(models.EmbedList, 0, len(embeds))
	for _, embed := range embeds {
		mapped := models.MessageEmbed{
			Title:       optionalString(embed.Title),
			Description: optionalString(embed.Description),
			URL:         optionalString(embed.URL),
			Timestamp:   optionalString(embed.Timestamp),
		}
		if embed.Color != 0 {
			color := embed.Color
			mapped.Color = &color
		}
		if embed.Footer != nil {
			mapped.Footer = &models.EmbedFooter{
				Text:    embed.Footer.Text,
				IconURL: optionalString(embed.Footer.IconURL),
			}
		}
		if embed.Image != nil {
			mapped.Image = &models.EmbedMedia{
				URL:    embed.Image.URL,
				Width:  optionalInt(embed.Image.Width),
				Height: optionalInt(embed.Image.Height),
			}
		}
		if embed.Thumbnail != nil {
			mapped.Thumbnail = &models.EmbedMedia{
				URL:    embed.Thumbnail.URL,
				Width:  optionalInt(embed.Thumbnail.Width),
				Height: optionalInt(embed.Thumbnail.Height),
			}
		}
		if embed.Author != nil {
			mapped.Author = &models.EmbedAuthor{
				Name:    embed.Author.Name,
				URL:     optionalString(embed.Author.URL),
				IconURL: optionalString(embed.Author.IconURL),
			}
		}
		for _, field := range embed.Fields {
			mappedField := models.EmbedField{
				Name:  field.Name,
				Value: field.Value,
			}
			if field.Inline {
				inline := true
				mappedField.Inline = &inline
			}
			mapped.Fields = append(mapped.Fields, mappedField)
		}
		result = append(result, mapped)
	}
	return result
}

func normalizeReactions(reactions []*discordgo.MessageReactions) models.ReactionList {
	if len(reactions) == 0 {
		return nil
	}
	result := make(models.ReactionList, 0, len(reactions))
	for _, reaction := range reactions {
		emoji := ""
		if reaction.Emoji != nil {
			emoji = reaction.Emoji.MessageFormat()
		}
		result = append(result, models.MessageReaction{
			Emoji: emoji,
			Count: reaction.Count,
		})
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(i int) *int {
	if i == 0 {
		return nil
	}
	return &i
}
