package services

import (
	"context"

	"github.com/samber/mo"

	"msgarchive/models"
	"msgarchive/models/api"
)

// ArchivedMessagesService defines the interface for archive record operations
type ArchivedMessagesService interface {
	CreateArchivedMessage(
		ctx context.Context,
		payload *models.ArchivedMessagePayload,
	) (*models.ArchivedMessage, error)
	ExistsByMessageAndGuild(ctx context.Context, messageID, guildID string) (bool, error)
	GetArchivedMessageByMessageAndGuild(
		ctx context.Context,
		messageID, guildID string,
	) (mo.Option[*models.ArchivedMessage], error)
	GetArchivedMessageByID(ctx context.Context, id string) (mo.Option[*models.ArchivedMessage], error)
	DeleteArchivedMessageByID(ctx context.Context, id string) error
	ListDistinctGuildIDs(ctx context.Context) ([]string, error)
	ListDistinctChannelIDs(ctx context.Context, guildID *string) ([]string, error)
	ListDistinctAuthors(ctx context.Context, guildID, channelID *string) ([]models.AuthorSummary, error)
	QueryArchivedMessages(ctx context.Context, query models.ArchiveQuery) (*api.PaginatedMessages, error)
}

// TransactionManager defines the interface for running operations inside a
// database transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
