package clients

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"
)

// DiscordClient defines the interface for Discord API operations
type DiscordClient interface {
	// Channel operations
	GetChannel(ctx context.Context, channelID string) (*discordgo.Channel, error)

	// Message operations
	GetMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)
	// GetLatestMessage returns the most recent message in the channel,
	// skipping the message with excludeID when set.
	GetLatestMessage(ctx context.Context, channelID, excludeID string) (mo.Option[*discordgo.Message], error)
}
