package testutils

import (
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"msgarchive/config"
	"msgarchive/models"
)

var snowflakeCounter atomic.Int64

func init() {
	snowflakeCounter.Store(time.Now().UnixNano())
}

// LoadTestConfig loads configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From services/ directory
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// NewTestSnowflake returns a unique 19-digit Discord-style snowflake ID.
func NewTestSnowflake() string {
	return strconv.FormatInt(snowflakeCounter.Add(1), 10)
}

// NewTestArchivePayload builds an archive payload with unique IDs to avoid
// constraint violations between tests
func NewTestArchivePayload(t *testing.T) *models.ArchivedMessagePayload {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	payload := &models.ArchivedMessagePayload{
		MessageID:      NewTestSnowflake(),
		ChannelID:      NewTestSnowflake(),
		GuildID:        NewTestSnowflake(),
		AuthorID:       NewTestSnowflake(),
		AuthorUsername: "testuser-" + uuid.New().String(),
		Content:        "test message " + uuid.New().String(),
		Timestamp:      now,
		Attachments:    models.AttachmentList{},
		Embeds:         models.EmbedList{},
		ArchivedAt:     now,
		ArchivedBy:     NewTestSnowflake(),
	}
	payload.MessageURL = fmt.Sprintf(
		"https://discord.com/channels/%s/%s/%s", payload.GuildID, payload.ChannelID, payload.MessageID)
	require.NotEmpty(t, payload.MessageID)
	return payload
}
