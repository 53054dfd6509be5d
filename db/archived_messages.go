package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"msgarchive/core"
	dbtx "msgarchive/db/tx"
	"msgarchive/models"
)

type PostgresArchivedMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for archived_messages table
var archivedMessagesColumns = []string{
	"id",
	"message_id",
	"channel_id",
	"guild_id",
	"author_id",
	"author_username",
	"author_display_name",
	"author_avatar",
	"content",
	`"timestamp"`,
	"edited_timestamp",
	"attachments",
	"embeds",
	"reactions",
	"archived",
	"archived_at",
	"archived_by",
	"message_url",
	"created_at",
	"updated_at",
}

func NewPostgresArchivedMessagesRepository(db *sqlx.DB, schema string) *PostgresArchivedMessagesRepository {
	return &PostgresArchivedMessagesRepository{db: db, schema: schema}
}

// CreateArchivedMessage inserts a new archive record. The unique constraint
// on (message_id, guild_id) is the source of truth for deduplication: a
// unique violation is reported as core.ErrDuplicateMessage.
func (r *PostgresArchivedMessagesRepository) CreateArchivedMessage(
	ctx context.Context,
	message *models.ArchivedMessage,
) (*models.ArchivedMessage, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	insertColumns := []string{
		"id",
		"message_id",
		"channel_id",
		"guild_id",
		"author_id",
		"author_username",
		"author_display_name",
		"author_avatar",
		"content",
		`"timestamp"`,
		"edited_timestamp",
		"attachments",
		"embeds",
		"reactions",
		"archived",
		"archived_at",
		"archived_by",
		"message_url",
	}

	placeholders := make([]string, len(insertColumns))
	for i := range insertColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.archived_messages (%s, created_at, updated_at)
		VALUES (%s, NOW(), NOW())
		RETURNING %s`,
		r.schema,
		strings.Join(insertColumns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(archivedMessagesColumns, ", "))

	var stored models.ArchivedMessage
	err := db.GetContext(
		ctx,
		&stored,
		query,
		message.ID,
		message.MessageID,
		message.ChannelID,
		message.GuildID,
		message.AuthorID,
		message.AuthorUsername,
		message.AuthorDisplayName,
		message.AuthorAvatar,
		message.Content,
		message.Timestamp,
		message.EditedTimestamp,
		message.Attachments,
		message.Embeds,
		message.Reactions,
		message.Archived,
		message.ArchivedAt,
		message.ArchivedBy,
		message.MessageURL,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique violation
				return nil, fmt.Errorf("archived message for (%s, %s): %w",
					message.MessageID, message.GuildID, core.ErrDuplicateMessage)
			}
		}
		return nil, fmt.Errorf("failed to create archived message: %w", err)
	}

	return &stored, nil
}

// ExistsByMessageAndGuild reports whether an archive record exists for the
// (message_id, guild_id) natural key.
func (r *PostgresArchivedMessagesRepository) ExistsByMessageAndGuild(
	ctx context.Context,
	messageID, guildID string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s.archived_messages
			WHERE message_id = $1 AND guild_id = $2
		)`, r.schema)

	var exists bool
	if err := db.GetContext(ctx, &exists, query, messageID, guildID); err != nil {
		return false, fmt.Errorf("failed to check archived message existence: %w", err)
	}

	return exists, nil
}

func (r *PostgresArchivedMessagesRepository) GetArchivedMessageByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.ArchivedMessage], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(archivedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.archived_messages
		WHERE id = $1`,
		columnsStr, r.schema)

	var message models.ArchivedMessage
	err := db.GetContext(ctx, &message, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.ArchivedMessage](), nil
		}
		return mo.None[*models.ArchivedMessage](), fmt.Errorf("failed to get archived message: %w", err)
	}

	return mo.Some(&message), nil
}

func (r *PostgresArchivedMessagesRepository) GetArchivedMessageByMessageAndGuild(
	ctx context.Context,
	messageID, guildID string,
) (mo.Option[*models.ArchivedMessage], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(archivedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.archived_messages
		WHERE message_id = $1 AND guild_id = $2`,
		columnsStr, r.schema)

	var message models.ArchivedMessage
	err := db.GetContext(ctx, &message, query, messageID, guildID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.ArchivedMessage](), nil
		}
		return mo.None[*models.ArchivedMessage](), fmt.Errorf("failed to get archived message: %w", err)
	}

	return mo.Some(&message), nil
}

// DeleteArchivedMessageByID removes one record. Returns core.ErrNotFound
// when no record with the given id exists.
func (r *PostgresArchivedMessagesRepository) DeleteArchivedMessageByID(
	ctx context.Context,
	id string,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`DELETE FROM %s.archived_messages WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete archived message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("archived message %s: %w", id, core.ErrNotFound)
	}

	return nil
}

func (r *PostgresArchivedMessagesRepository) ListDistinctGuildIDs(ctx context.Context) ([]string, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		SELECT DISTINCT guild_id
		FROM %s.archived_messages
		WHERE archived = TRUE
		ORDER BY guild_id`, r.schema)

	var guildIDs []string
	if err := db.SelectContext(ctx, &guildIDs, query); err != nil {
		return nil, fmt.Errorf("failed to list distinct guild IDs: %w", err)
	}

	return guildIDs, nil
}

func (r *PostgresArchivedMessagesRepository) ListDistinctChannelIDs(
	ctx context.Context,
	guildID *string,
) ([]string, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	conditions := []string{"archived = TRUE"}
	args := []any{}
	if guildID != nil {
		args = append(args, *guildID)
		conditions = append(conditions, fmt.Sprintf("guild_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT channel_id
		FROM %s.archived_messages
		WHERE %s
		ORDER BY channel_id`,
		r.schema, strings.Join(conditions, " AND "))

	var channelIDs []string
	if err := db.SelectContext(ctx, &channelIDs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list distinct channel IDs: %w", err)
	}

	return channelIDs, nil
}

// ListDistinctAuthors groups by the (author_id, author_username,
// author_avatar) triple, so records sharing an author ID but differing in
// cached username or avatar produce separate entries.
func (r *PostgresArchivedMessagesRepository) ListDistinctAuthors(
	ctx context.Context,
	guildID, channelID *string,
) ([]models.AuthorSummary, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	conditions := []string{"archived = TRUE"}
	args := []any{}
	if guildID != nil {
		args = append(args, *guildID)
		conditions = append(conditions, fmt.Sprintf("guild_id = $%d", len(args)))
	}
	if channelID != nil {
		args = append(args, *channelID)
		conditions = append(conditions, fmt.Sprintf("channel_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT author_id, author_username, author_avatar
		FROM %s.archived_messages
		WHERE %s
		GROUP BY author_id, author_username, author_avatar
		ORDER BY author_username, author_id`,
		r.schema, strings.Join(conditions, " AND "))

	var authors []models.AuthorSummary
	if err := db.SelectContext(ctx, &authors, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list distinct authors: %w", err)
	}

	return authors, nil
}

// ListFiltered returns one page of archived messages matching the filter,
// ordered by original send time descending, along with the total count
// after filters and before pagination.
func (r *PostgresArchivedMessagesRepository) ListFiltered(
	ctx context.Context,
	filter models.MessageFilter,
	limit, offset int,
) ([]*models.ArchivedMessage, int, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	conditions, args := buildFilterConditions(filter)
	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s.archived_messages
		WHERE %s`, r.schema, whereClause)

	var total int
	if err := db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count archived messages: %w", err)
	}

	columnsStr := strings.Join(archivedMessagesColumns, ", ")
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s.archived_messages
		WHERE %s
		ORDER BY "timestamp" DESC
		LIMIT $%d OFFSET $%d`,
		columnsStr, r.schema, whereClause, len(args)+1, len(args)+2)

	listArgs := append(args, limit, offset)

	var messages []models.ArchivedMessage
	if err := db.SelectContext(ctx, &messages, listQuery, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list archived messages: %w", err)
	}

	result := make([]*models.ArchivedMessage, len(messages))
	for i := range messages {
		result[i] = &messages[i]
	}

	return result, total, nil
}

// buildFilterConditions converts a MessageFilter into SQL predicates and
// positional arguments. Every listing is scoped to archived records.
func buildFilterConditions(filter models.MessageFilter) ([]string, []any) {
	conditions := []string{"archived = TRUE"}
	args := []any{}

	if filter.GuildID != nil {
		args = append(args, *filter.GuildID)
		conditions = append(conditions, fmt.Sprintf("guild_id = $%d", len(args)))
	}
	if filter.ChannelID != nil {
		args = append(args, *filter.ChannelID)
		conditions = append(conditions, fmt.Sprintf("channel_id = $%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions,
			fmt.Sprintf("(content ILIKE $%d OR author_username ILIKE $%d)", len(args), len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf(`"timestamp" >= $%d`, len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf(`"timestamp" <= $%d`, len(args)))
	}

	return conditions, args
}
