package archivedmessages

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"msgarchive/models"
	"msgarchive/models/api"
)

type MockArchivedMessagesService struct {
	mock.Mock
}

func (m *MockArchivedMessagesService) CreateArchivedMessage(
	ctx context.Context,
	payload *models.ArchivedMessagePayload,
) (*models.ArchivedMessage, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArchivedMessage), args.Error(1)
}

func (m *MockArchivedMessagesService) ExistsByMessageAndGuild(
	ctx context.Context,
	messageID, guildID string,
) (bool, error) {
	args := m.Called(ctx, messageID, guildID)
	return args.Bool(0), args.Error(1)
}

func (m *MockArchivedMessagesService) GetArchivedMessageByMessageAndGuild(
	ctx context.Context,
	messageID, guildID string,
) (mo.Option[*models.ArchivedMessage], error) {
	args := m.Called(ctx, messageID, guildID)
	return args.Get(0).(mo.Option[*models.ArchivedMessage]), args.Error(1)
}

func (m *MockArchivedMessagesService) GetArchivedMessageByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.ArchivedMessage], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.ArchivedMessage]), args.Error(1)
}

func (m *MockArchivedMessagesService) DeleteArchivedMessageByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArchivedMessagesService) ListDistinctGuildIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockArchivedMessagesService) ListDistinctChannelIDs(
	ctx context.Context,
	guildID *string,
) ([]string, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockArchivedMessagesService) ListDistinctAuthors(
	ctx context.Context,
	guildID, channelID *string,
) ([]models.AuthorSummary, error) {
	args := m.Called(ctx, guildID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuthorSummary), args.Error(1)
}

func (m *MockArchivedMessagesService) QueryArchivedMessages(
	ctx context.Context,
	query models.ArchiveQuery,
) (*api.PaginatedMessages, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.PaginatedMessages), args.Error(1)
}
