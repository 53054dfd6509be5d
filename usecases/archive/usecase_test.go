package archive

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	discordclient "msgarchive/clients/discord"
	"msgarchive/core"
	"msgarchive/models"
	"msgarchive/services/archivedmessages"
	"msgarchive/services/txmanager"
)

// Test constants for consistent test data
const (
	testGuildID    = "100000000000000001"
	testChannelID  = "100000000000000002"
	testMessageID  = "100000000000000003"
	testAuthorID   = "100000000000000004"
	testArchiverID = "100000000000000005"
)

// archiveUseCaseTestFixture encapsulates test setup and mocks
type archiveUseCaseTestFixture struct {
	useCase *ArchiveUseCase
	mocks   *archiveUseCaseMocks
	ctx     context.Context
}

// archiveUseCaseMocks contains all mock dependencies
type archiveUseCaseMocks struct {
	discordClient           *discordclient.MockDiscordClient
	archivedMessagesService *archivedmessages.MockArchivedMessagesService
	txManager               *txmanager.MockTransactionManager
}

// setupArchiveUseCaseTest creates a new test fixture with all mocks initialized
func setupArchiveUseCaseTest(t *testing.T) *archiveUseCaseTestFixture {
	mocks := &archiveUseCaseMocks{
		discordClient:           new(discordclient.MockDiscordClient),
		archivedMessagesService: new(archivedmessages.MockArchivedMessagesService),
		txManager:               new(txmanager.MockTransactionManager),
	}

	useCase := NewArchiveUseCase(
		mocks.discordClient,
		mocks.archivedMessagesService,
		mocks.txManager,
	)

	return &archiveUseCaseTestFixture{
		useCase: useCase,
		mocks:   mocks,
		ctx:     context.Background(),
	}
}

// assertAllExpectations asserts expectations on all mocks
func (f *archiveUseCaseTestFixture) assertAllExpectations(t *testing.T) {
	f.mocks.discordClient.AssertExpectations(t)
	f.mocks.archivedMessagesService.AssertExpectations(t)
	f.mocks.txManager.AssertExpectations(t)
}

// Test model builders for consistent test data

func createTestChannel(channelType discordgo.ChannelType) *discordgo.Channel {
	return &discordgo.Channel{
		ID:   testChannelID,
		Type: channelType,
	}
}

func createTestDiscordMessage() *discordgo.Message {
	return &discordgo.Message{
		ID:        testMessageID,
		ChannelID: testChannelID,
		Content:   "hello there",
		Timestamp: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Author: &discordgo.User{
			ID:       testAuthorID,
			Username: "somebody",
		},
	}
}

func createTestArchivedMessage() *models.ArchivedMessage {
	return &models.ArchivedMessage{
		ID:             "am_01hgw2x5k8p9q3r4s5t6v7w8x9",
		MessageID:      testMessageID,
		ChannelID:      testChannelID,
		GuildID:        testGuildID,
		AuthorID:       testAuthorID,
		AuthorUsername: "somebody",
		Content:        "hello there",
		Archived:       true,
		ArchivedBy:     testArchiverID,
	}
}

func TestArchiveMessage(t *testing.T) {
	t.Run("success_archives_new_message", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)
		stored := createTestArchivedMessage()

		// Configure expectations
		fixture.mocks.discordClient.On("GetChannel", mock.Anything, testChannelID).
			Return(createTestChannel(discordgo.ChannelTypeGuildText), nil)
		fixture.mocks.discordClient.On("GetMessage", mock.Anything, testChannelID, testMessageID).
			Return(createTestDiscordMessage(), nil)
		fixture.mocks.txManager.On("WithTransaction", fixture.ctx, mock.AnythingOfType("func(context.Context) error")).
			Return(nil)
		fixture.mocks.archivedMessagesService.On("GetArchivedMessageByMessageAndGuild", fixture.ctx, testMessageID, testGuildID).
			Return(mo.None[*models.ArchivedMessage](), nil)
		fixture.mocks.archivedMessagesService.On("CreateArchivedMessage", fixture.ctx, mock.AnythingOfType("*models.ArchivedMessagePayload")).
			Return(stored, nil)

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.NoError(t, err)
		assert.False(t, outcome.AlreadyArchived)
		assert.Equal(t, stored, outcome.Message)
		fixture.assertAllExpectations(t)
	})

	t.Run("success_passes_normalized_payload_to_service", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)
		stored := createTestArchivedMessage()

		var capturedPayload *models.ArchivedMessagePayload
		fixture.mocks.discordClient.On("GetChannel", mock.Anything, testChannelID).
			Return(createTestChannel(discordgo.ChannelTypeGuildText), nil)
		fixture.mocks.discordClient.On("GetMessage", mock.Anything, testChannelID, testMessageID).
			Return(createTestDiscordMessage(), nil)
		fixture.mocks.txManager.On("WithTransaction", fixture.ctx, mock.AnythingOfType("func(context.Context) error")).
			Return(nil)
		fixture.mocks.archivedMessagesService.On("GetArchivedMessageByMessageAndGuild", fixture.ctx, testMessageID, testGuildID).
			Return(mo.None[*models.ArchivedMessage](), nil)
		fixture.mocks.archivedMessagesService.On("CreateArchivedMessage", fixture.ctx, mock.AnythingOfType("*models.ArchivedMessagePayload")).
			Run(func(args mock.Arguments) {
				capturedPayload = args.Get(1).(*models.ArchivedMessagePayload)
			}).
			Return(stored, nil)

		// Execute
		_, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, testGuildID, capturedPayload.GuildID)
		assert.Equal(t, testArchiverID, capturedPayload.ArchivedBy)
		assert.Equal(t, "hello there", capturedPayload.Content)
		assert.Equal(t,
			fmt.Sprintf("https://discord.com/channels/%s/%s/%s", testGuildID, testChannelID, testMessageID),
			capturedPayload.MessageURL)
		fixture.assertAllExpectations(t)
	})

	t.Run("already_archived_returns_existing_record", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)
		existing := createTestArchivedMessage()

		// Configure expectations
		fixture.mocks.discordClient.On("GetChannel", mock.Anything, testChannelID).
			Return(createTestChannel(discordgo.ChannelTypeGuildText), nil)
		fixture.mocks.discordClient.On("GetMessage", mock.Anything, testChannelID, testMessageID).
			Return(createTestDiscordMessage(), nil)
		fixture.mocks.txManager.On("WithTransaction", fixture.ctx, mock.AnythingOfType("func(context.Context) error")).
			Return(nil)
		fixture.mocks.archivedMessagesService.On("GetArchivedMessageByMessageAndGuild", fixture.ctx, testMessageID, testGuildID).
			Return(mo.Some(existing), nil)

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.NoError(t, err)
		assert.True(t, outcome.AlreadyArchived)
		assert.Equal(t, existing, outcome.Message)
		fixture.mocks.archivedMessagesService.AssertNotCalled(t, "CreateArchivedMessage", mock.Anything, mock.Anything)
		fixture.assertAllExpectations(t)
	})

	t.Run("duplicate_race_reports_winning_record", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)
		winner := createTestArchivedMessage()

		// Configure expectations: the pre-check misses, the insert collides,
		// the follow-up lookup finds the record the concurrent writer stored
		fixture.mocks.discordClient.On("GetChannel", mock.Anything, testChannelID).
			Return(createTestChannel(discordgo.ChannelTypeGuildText), nil)
		fixture.mocks.discordClient.On("GetMessage", mock.Anything, testChannelID, testMessageID).
			Return(createTestDiscordMessage(), nil)
		fixture.mocks.txManager.On("WithTransaction", fixture.ctx, mock.AnythingOfType("func(context.Context) error")).
			Return(nil)
		fixture.mocks.archivedMessagesService.On("GetArchivedMessageByMessageAndGuild", fixture.ctx, testMessageID, testGuildID).
			Return(mo.None[*models.ArchivedMessage](), nil).Once()
		fixture.mocks.archivedMessagesService.On("CreateArchivedMessage", fixture.ctx, mock.AnythingOfType("*models.ArchivedMessagePayload")).
			Return(nil, fmt.Errorf("archived message for (%s, %s): %w", testMessageID, testGuildID, core.ErrDuplicateMessage))
		fixture.mocks.archivedMessagesService.On("GetArchivedMessageByMessageAndGuild", fixture.ctx, testMessageID, testGuildID).
			Return(mo.Some(winner), nil).Once()

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.NoError(t, err)
		assert.True(t, outcome.AlreadyArchived)
		assert.Equal(t, winner, outcome.Message)
		fixture.assertAllExpectations(t)
	})

	t.Run("error_channel_unavailable", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)

		// Configure expectations
		fixture.mocks.discordClient.On("GetChannel", mock.Anything, testChannelID).
			Return(nil, fmt.Errorf("HTTP 403 Forbidden"))

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, core.ErrChannelUnavailable)
		fixture.assertAllExpectations(t)
	})

	t.Run("error_channel_not_text_based", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)

		// Configure expectations
		fixture.mocks.discordClient.On("GetChannel", mock.Anything, testChannelID).
			Return(createTestChannel(discordgo.ChannelTypeGuildVoice), nil)

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, core.ErrChannelUnavailable)
		fixture.mocks.discordClient.AssertNotCalled(t, "GetMessage", mock.Anything, mock.Anything, mock.Anything)
		fixture.assertAllExpectations(t)
	})

	t.Run("error_message_not_found", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)

		// Configure expectations
		fixture.mocks.discordClient.On("GetChannel", mock.Anything, testChannelID).
			Return(createTestChannel(discordgo.ChannelTypeGuildText), nil)
		fixture.mocks.discordClient.On("GetMessage", mock.Anything, testChannelID, testMessageID).
			Return(nil, fmt.Errorf("HTTP 404 Not Found"))

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, core.ErrMessageNotFound)
		fixture.assertAllExpectations(t)
	})

	t.Run("error_fetch_timeout_maps_to_upstream_timeout", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)

		// Configure expectations
		fixture.mocks.discordClient.On("GetChannel", mock.Anything, testChannelID).
			Return(createTestChannel(discordgo.ChannelTypeGuildText), nil)
		fixture.mocks.discordClient.On("GetMessage", mock.Anything, testChannelID, testMessageID).
			Return(nil, context.DeadlineExceeded)

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, core.ErrUpstreamTimeout)
		fixture.assertAllExpectations(t)
	})

	t.Run("error_invalid_snowflake", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, "not-a-snowflake", testChannelID, testMessageID, testArchiverID)

		// Assert
		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, core.ErrValidation)
		fixture.mocks.discordClient.AssertNotCalled(t, "GetChannel", mock.Anything, mock.Anything)
		fixture.assertAllExpectations(t)
	})

	t.Run("error_empty_archived_by", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)

		// Execute
		outcome, err := fixture.useCase.ArchiveMessage(fixture.ctx, testGuildID, testChannelID, testMessageID, "")

		// Assert
		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, core.ErrValidation)
		fixture.assertAllExpectations(t)
	})
}

func TestResolveTarget(t *testing.T) {
	t.Run("message_link_takes_precedence", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)
		link := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", testGuildID, testChannelID, testMessageID)

		// Execute
		channelID, messageID, err := fixture.useCase.ResolveTarget(fixture.ctx, link, "100000000000000099", "")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, testChannelID, channelID)
		assert.Equal(t, testMessageID, messageID)
		fixture.mocks.discordClient.AssertNotCalled(t, "GetLatestMessage", mock.Anything, mock.Anything, mock.Anything)
		fixture.assertAllExpectations(t)
	})

	t.Run("invalid_message_link", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)

		// Execute
		_, _, err := fixture.useCase.ResolveTarget(fixture.ctx, "https://example.com/not/a/link", testChannelID, "")

		// Assert
		assert.ErrorIs(t, err, core.ErrValidation)
		fixture.assertAllExpectations(t)
	})

	t.Run("falls_back_to_latest_channel_message", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)
		latest := createTestDiscordMessage()

		// Configure expectations
		fixture.mocks.discordClient.On("GetLatestMessage", mock.Anything, testChannelID, "interaction-id").
			Return(mo.Some(latest), nil)

		// Execute
		channelID, messageID, err := fixture.useCase.ResolveTarget(fixture.ctx, "", testChannelID, "interaction-id")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, testChannelID, channelID)
		assert.Equal(t, latest.ID, messageID)
		fixture.assertAllExpectations(t)
	})

	t.Run("empty_channel_has_no_target", func(t *testing.T) {
		// Setup
		fixture := setupArchiveUseCaseTest(t)

		// Configure expectations
		fixture.mocks.discordClient.On("GetLatestMessage", mock.Anything, testChannelID, "").
			Return(mo.None[*discordgo.Message](), nil)

		// Execute
		_, _, err := fixture.useCase.ResolveTarget(fixture.ctx, "", testChannelID, "")

		// Assert
		assert.ErrorIs(t, err, core.ErrMessageNotFound)
		fixture.assertAllExpectations(t)
	})
}
