package archivedmessages

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"msgarchive/core"
	"msgarchive/db"
	"msgarchive/models"
	"msgarchive/utils"
)

type ArchivedMessagesService struct {
	archivedMessagesRepo *db.PostgresArchivedMessagesRepository
}

func NewArchivedMessagesService(repo *db.PostgresArchivedMessagesRepository) *ArchivedMessagesService {
	return &ArchivedMessagesService{
		archivedMessagesRepo: repo,
	}
}

// CreateArchivedMessage persists a normalized payload. The repository's
// unique constraint on (message_id, guild_id) guards against concurrent
// duplicates; a violation surfaces as core.ErrDuplicateMessage.
func (s *ArchivedMessagesService) CreateArchivedMessage(
	ctx context.Context,
	payload *models.ArchivedMessagePayload,
) (*models.ArchivedMessage, error) {
	log.Printf("📋 Starting to create archived message for message: %s, guild: %s",
		payload.MessageID, payload.GuildID)

	if !utils.IsValidSnowflake(payload.MessageID) {
		return nil, fmt.Errorf("message_id must be a valid snowflake: %w", core.ErrValidation)
	}
	if !utils.IsValidSnowflake(payload.GuildID) {
		return nil, fmt.Errorf("guild_id must be a valid snowflake: %w", core.ErrValidation)
	}
	if !utils.IsValidSnowflake(payload.ChannelID) {
		return nil, fmt.Errorf("channel_id must be a valid snowflake: %w", core.ErrValidation)
	}
	if payload.AuthorID == "" {
		return nil, fmt.Errorf("author_id cannot be empty: %w", core.ErrValidation)
	}
	if payload.AuthorUsername == "" {
		return nil, fmt.Errorf("author_username cannot be empty: %w", core.ErrValidation)
	}
	if payload.ArchivedBy == "" {
		return nil, fmt.Errorf("archived_by cannot be empty: %w", core.ErrValidation)
	}
	if payload.Timestamp.IsZero() {
		return nil, fmt.Errorf("timestamp cannot be zero: %w", core.ErrValidation)
	}

	message := &models.ArchivedMessage{
		ID:                core.NewID("am"),
		MessageID:         payload.MessageID,
		ChannelID:         payload.ChannelID,
		GuildID:           payload.GuildID,
		AuthorID:          payload.AuthorID,
		AuthorUsername:    payload.AuthorUsername,
		AuthorDisplayName: payload.AuthorDisplayName,
		AuthorAvatar:      payload.AuthorAvatar,
		Content:           payload.Content,
		Timestamp:         payload.Timestamp,
		EditedTimestamp:   payload.EditedTimestamp,
		Attachments:       payload.Attachments,
		Embeds:            payload.Embeds,
		Reactions:         payload.Reactions,
		Archived:          true,
		ArchivedAt:        payload.ArchivedAt,
		ArchivedBy:        payload.ArchivedBy,
		MessageURL:        payload.MessageURL,
	}
	if message.Attachments == nil {
		message.Attachments = models.AttachmentList{}
	}
	if message.Embeds == nil {
		message.Embeds = models.EmbedList{}
	}

	stored, err := s.archivedMessagesRepo.CreateArchivedMessage(ctx, message)
	if err != nil {
		if core.IsDuplicateError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create archived message: %w", err)
	}

	log.Printf("📋 Completed successfully - created archived message with ID: %s", stored.ID)
	return stored, nil
}

func (s *ArchivedMessagesService) ExistsByMessageAndGuild(
	ctx context.Context,
	messageID, guildID string,
) (bool, error) {
	log.Printf("📋 Starting to check archive existence for message: %s, guild: %s", messageID, guildID)
	if messageID == "" {
		return false, fmt.Errorf("message_id cannot be empty: %w", core.ErrValidation)
	}
	if guildID == "" {
		return false, fmt.Errorf("guild_id cannot be empty: %w", core.ErrValidation)
	}

	exists, err := s.archivedMessagesRepo.ExistsByMessageAndGuild(ctx, messageID, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to check archived message existence: %w", err)
	}

	log.Printf("📋 Completed successfully - existence check returned %t", exists)
	return exists, nil
}

func (s *ArchivedMessagesService) GetArchivedMessageByMessageAndGuild(
	ctx context.Context,
	messageID, guildID string,
) (mo.Option[*models.ArchivedMessage], error) {
	log.Printf("📋 Starting to get archived message for message: %s, guild: %s", messageID, guildID)
	if messageID == "" || guildID == "" {
		return mo.None[*models.ArchivedMessage](), fmt.Errorf(
			"message_id and guild_id cannot be empty: %w", core.ErrValidation)
	}

	maybeMessage, err := s.archivedMessagesRepo.GetArchivedMessageByMessageAndGuild(ctx, messageID, guildID)
	if err != nil {
		return mo.None[*models.ArchivedMessage](), fmt.Errorf("failed to get archived message: %w", err)
	}
	if !maybeMessage.IsPresent() {
		log.Printf("📋 Completed successfully - archived message not found")
		return mo.None[*models.ArchivedMessage](), nil
	}

	message := maybeMessage.MustGet()
	log.Printf("📋 Completed successfully - retrieved archived message with ID: %s", message.ID)
	return mo.Some(message), nil
}

func (s *ArchivedMessagesService) GetArchivedMessageByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.ArchivedMessage], error) {
	log.Printf("📋 Starting to get archived message by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.ArchivedMessage](), fmt.Errorf(
			"archived message ID must be a valid ULID: %w", core.ErrValidation)
	}

	maybeMessage, err := s.archivedMessagesRepo.GetArchivedMessageByID(ctx, id)
	if err != nil {
		return mo.None[*models.ArchivedMessage](), fmt.Errorf("failed to get archived message: %w", err)
	}
	if !maybeMessage.IsPresent() {
		log.Printf("📋 Completed successfully - archived message not found")
		return mo.None[*models.ArchivedMessage](), nil
	}

	message := maybeMessage.MustGet()
	log.Printf("📋 Completed successfully - retrieved archived message with ID: %s", message.ID)
	return mo.Some(message), nil
}

func (s *ArchivedMessagesService) DeleteArchivedMessageByID(ctx context.Context, id string) error {
	log.Printf("📋 Starting to delete archived message: %s", id)
	if !core.IsValidULID(id) {
		return fmt.Errorf("archived message ID must be a valid ULID: %w", core.ErrValidation)
	}

	if err := s.archivedMessagesRepo.DeleteArchivedMessageByID(ctx, id); err != nil {
		if core.IsNotFoundError(err) {
			return err
		}
		return fmt.Errorf("failed to delete archived message: %w", err)
	}

	log.Printf("📋 Completed successfully - deleted archived message with ID: %s", id)
	return nil
}

func (s *ArchivedMessagesService) ListDistinctGuildIDs(ctx context.Context) ([]string, error) {
	log.Printf("📋 Starting to list distinct guild IDs")

	guildIDs, err := s.archivedMessagesRepo.ListDistinctGuildIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct guild IDs: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d distinct guilds", len(guildIDs))
	return guildIDs, nil
}

func (s *ArchivedMessagesService) ListDistinctChannelIDs(
	ctx context.Context,
	guildID *string,
) ([]string, error) {
	log.Printf("📋 Starting to list distinct channel IDs")

	channelIDs, err := s.archivedMessagesRepo.ListDistinctChannelIDs(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct channel IDs: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d distinct channels", len(channelIDs))
	return channelIDs, nil
}

func (s *ArchivedMessagesService) ListDistinctAuthors(
	ctx context.Context,
	guildID, channelID *string,
) ([]models.AuthorSummary, error) {
	log.Printf("📋 Starting to list distinct authors")

	authors, err := s.archivedMessagesRepo.ListDistinctAuthors(ctx, guildID, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct authors: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d distinct authors", len(authors))
	return authors, nil
}
