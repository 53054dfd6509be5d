package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

// GetChannel mocks fetching channel information by ID
func (m *MockDiscordClient) GetChannel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Channel), args.Error(1)
}

// GetMessage mocks fetching a single message
func (m *MockDiscordClient) GetMessage(
	ctx context.Context,
	channelID, messageID string,
) (*discordgo.Message, error) {
	args := m.Called(ctx, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

// GetLatestMessage mocks fetching the most recent message in a channel
func (m *MockDiscordClient) GetLatestMessage(
	ctx context.Context,
	channelID, excludeID string,
) (mo.Option[*discordgo.Message], error) {
	args := m.Called(ctx, channelID, excludeID)
	return args.Get(0).(mo.Option[*discordgo.Message]), args.Error(1)
}
