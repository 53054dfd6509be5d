package archive

import (
	"fmt"
	"regexp"

	"github.com/bwmarrin/discordgo"
)

var messageLinkRegex = regexp.MustCompile(`^https://discord\.com/channels/(\d{17,19})/(\d{17,19})/(\d{17,19})$`)

// ParseMessageLink extracts the guild, channel and message IDs from a
// Discord message deep link. Returns ok=false when the link does not match
// the canonical form.
func ParseMessageLink(link string) (guildID, channelID, messageID string, ok bool) {
	match := messageLinkRegex.FindStringSubmatch(link)
	if match == nil {
		return "", "", "", false
	}
	return match[1], match[2], match[3], true
}

// BuildMessageURL derives the canonical deep link back to the original
// message.
func BuildMessageURL(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

// isTextBearingChannel reports whether messages can be read from the
// channel type.
func isTextBearingChannel(channelType discordgo.ChannelType) bool {
	switch channelType {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return true
	default:
		return false
	}
}
