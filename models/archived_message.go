package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MessageAttachment is a file attached to the archived message.
// Width and Height are only set for media attachments where Discord
// reports dimensions; they are never zero-filled.
type MessageAttachment struct {
	ID          string  `json:"id"`
	Filename    string  `json:"filename"`
	URL         string  `json:"url"`
	ProxyURL    string  `json:"proxyUrl"`
	Size        int     `json:"size"`
	ContentType *string `json:"contentType,omitempty"`
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
}

type EmbedFooter struct {
	Text    string  `json:"text"`
	IconURL *string `json:"iconUrl,omitempty"`
}

type EmbedMedia struct {
	URL    string `json:"url"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}

type EmbedAuthor struct {
	Name    string  `json:"name"`
	URL     *string `json:"url,omitempty"`
	IconURL *string `json:"iconUrl,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline *bool  `json:"inline,omitempty"`
}

// MessageEmbed is a rich embed descriptor. Nested objects are present only
// when the source message carried them.
type MessageEmbed struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	URL         *string      `json:"url,omitempty"`
	Color       *int         `json:"color,omitempty"`
	Timestamp   *string      `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Image       *EmbedMedia  `json:"image,omitempty"`
	Thumbnail   *EmbedMedia  `json:"thumbnail,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// MessageReaction is an emoji reaction with its count.
type MessageReaction struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// AttachmentList, EmbedList and ReactionList are stored as jsonb columns.

type AttachmentList []MessageAttachment

func (a AttachmentList) Value() (driver.Value, error) {
	return jsonbValue(a)
}

func (a *AttachmentList) Scan(src any) error {
	return jsonbScan(src, a)
}

type EmbedList []MessageEmbed

func (e EmbedList) Value() (driver.Value, error) {
	return jsonbValue(e)
}

func (e *EmbedList) Scan(src any) error {
	return jsonbScan(src, e)
}

type ReactionList []MessageReaction

func (r ReactionList) Value() (driver.Value, error) {
	return jsonbValue(r)
}

func (r *ReactionList) Scan(src any) error {
	return jsonbScan(src, r)
}

func jsonbValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb column: %w", err)
	}
	return data, nil
}

func jsonbScan(src any, dest any) error {
	if src == nil {
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb column: %w", err)
	}
	return nil
}

// ArchivedMessage is the durable archive record. At most one record exists
// per (message_id, guild_id) pair, enforced by a unique constraint in the
// database.
type ArchivedMessage struct {
	ID                string         `json:"id"                          db:"id"`
	MessageID         string         `json:"messageId"                   db:"message_id"`
	ChannelID         string         `json:"channelId"                   db:"channel_id"`
	GuildID           string         `json:"guildId"                     db:"guild_id"`
	AuthorID          string         `json:"authorId"                    db:"author_id"`
	AuthorUsername    string         `json:"authorUsername"              db:"author_username"`
	AuthorDisplayName *string        `json:"authorDisplayName,omitempty" db:"author_display_name"`
	AuthorAvatar      *string        `json:"authorAvatar,omitempty"      db:"author_avatar"`
	Content           string         `json:"content"                     db:"content"`
	Timestamp         time.Time      `json:"timestamp"                   db:"timestamp"`
	EditedTimestamp   *time.Time     `json:"editedTimestamp,omitempty"   db:"edited_timestamp"`
	Attachments       AttachmentList `json:"attachments"                 db:"attachments"`
	Embeds            EmbedList      `json:"embeds"                      db:"embeds"`
	Reactions         ReactionList   `json:"reactions,omitempty"         db:"reactions"`
	Archived          bool           `json:"archived"                    db:"archived"`
	ArchivedAt        time.Time      `json:"archivedAt"                  db:"archived_at"`
	ArchivedBy        string         `json:"archivedBy"                  db:"archived_by"`
	MessageURL        string         `json:"messageUrl"                  db:"message_url"`
	CreatedAt         time.Time      `json:"createdAt"                   db:"created_at"`
	UpdatedAt         time.Time      `json:"updatedAt"                   db:"updated_at"`
}

// ArchivedMessagePayload is the candidate record produced by normalization,
// before the repository assigns id, created_at and updated_at.
type ArchivedMessagePayload struct {
	MessageID         string
	ChannelID         string
	GuildID           string
	AuthorID          string
	AuthorUsername    string
	AuthorDisplayName *string
	AuthorAvatar      *string
	Content           string
	Timestamp         time.Time
	EditedTimestamp   *time.Time
	Attachments       AttachmentList
	Embeds            EmbedList
	Reactions         ReactionList
	ArchivedAt        time.Time
	ArchivedBy        string
	MessageURL        string
}

// AuthorSummary is one entry of the distinct-authors listing. Distinctness
// is defined by the (id, username, avatar) triple, so the same author ID
// can appear more than once when the cached username or avatar differs.
type AuthorSummary struct {
	ID       string  `json:"id"               db:"author_id"`
	Username string  `json:"username"         db:"author_username"`
	Avatar   *string `json:"avatar,omitempty" db:"author_avatar"`
}
