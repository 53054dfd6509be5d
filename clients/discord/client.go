package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"msgarchive/clients"
)

// DiscordClient implements the clients.DiscordClient interface on top of a
// shared discordgo session.
type DiscordClient struct {
	session *discordgo.Session
}

// NewDiscordClient creates a new Discord client backed by the given session
func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

// GetChannel fetches channel information by ID
func (c *DiscordClient) GetChannel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	channel, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel: %w", err)
	}
	if channel == nil {
		return nil, fmt.Errorf("channel not found")
	}
	return channel, nil
}

// GetMessage fetches a single message by channel and message ID
func (c *DiscordClient) GetMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	message, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}
	if message == nil {
		return nil, fmt.Errorf("message not found")
	}
	return message, nil
}

// GetLatestMessage fetches the most recent message in the channel. The
// message with excludeID is skipped so a command invocation does not
// archive itself.
func (c *DiscordClient) GetLatestMessage(
	ctx context.Context,
	channelID, excludeID string,
) (mo.Option[*discordgo.Message], error) {
	messages, err := c.session.ChannelMessages(channelID, 2, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return mo.None[*discordgo.Message](), fmt.Errorf("failed to fetch channel messages: %w", err)
	}

	for _, message := range messages {
		if excludeID != "" && message.ID == excludeID {
			continue
		}
		return mo.Some(message), nil
	}

	return mo.None[*discordgo.Message](), nil
}
