package archive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"msgarchive/clients"
	"msgarchive/core"
	"msgarchive/models"
	"msgarchive/services"
	"msgarchive/utils"
)

// fetchTimeout bounds each Discord fetch so a stalled upstream does not
// hang the caller.
const fetchTimeout = 5 * time.Second

// ArchiveUseCase coordinates the archival pipeline: resolve channel, fetch
// message, normalize, persist.
type ArchiveUseCase struct {
	discordClient           clients.DiscordClient
	archivedMessagesService services.ArchivedMessagesService
	txManager               services.TransactionManager
}

// ArchiveOutcome is the uniform result of one archival request. When
// AlreadyArchived is set, Message carries the pre-existing record.
type ArchiveOutcome struct {
	Message         *models.ArchivedMessage
	AlreadyArchived bool
}

// NewArchiveUseCase creates a new instance of ArchiveUseCase
func NewArchiveUseCase(
	discordClient clients.DiscordClient,
	archivedMessagesService services.ArchivedMessagesService,
	txManager services.TransactionManager,
) *ArchiveUseCase {
	return &ArchiveUseCase{
		discordClient:           discordClient,
		archivedMessagesService: archivedMessagesService,
		txManager:               txManager,
	}
}

// ArchiveMessage archives one Discord message on behalf of archivedBy.
// Exactly one row is persisted on success and none on any failure path;
// the unique constraint on (message_id, guild_id) resolves concurrent
// attempts to a single stored record.
func (u *ArchiveUseCase) ArchiveMessage(
	ctx context.Context,
	guildID, channelID, messageID, archivedBy string,
) (*ArchiveOutcome, error) {
	log.Printf("📋 Starting to archive message %s from channel %s in guild %s", messageID, channelID, guildID)

	if !utils.IsValidSnowflake(guildID) {
		return nil, fmt.Errorf("guild_id must be a valid snowflake: %w", core.ErrValidation)
	}
	if !utils.IsValidSnowflake(channelID) {
		return nil, fmt.Errorf("channel_id must be a valid snowflake: %w", core.ErrValidation)
	}
	if !utils.IsValidSnowflake(messageID) {
		return nil, fmt.Errorf("message_id must be a valid snowflake: %w", core.ErrValidation)
	}
	if archivedBy == "" {
		return nil, fmt.Errorf("archived_by cannot be empty: %w", core.ErrValidation)
	}

	// Step 1: Resolve the channel and make sure it can hold messages
	channelCtx, cancelChannel := context.WithTimeout(ctx, fetchTimeout)
	defer cancelChannel()
	channel, err := u.discordClient.GetChannel(channelCtx, channelID)
	if err != nil {
		log.Printf("❌ Failed to resolve channel %s: %v", channelID, err)
		return nil, classifyFetchError(err, core.ErrChannelUnavailable)
	}
	if !isTextBearingChannel(channel.Type) {
		log.Printf("❌ Channel %s is not text-bearing (type %d)", channelID, channel.Type)
		return nil, fmt.Errorf("channel %s is not text-based: %w", channelID, core.ErrChannelUnavailable)
	}

	// Step 2: Fetch the target message
	messageCtx, cancelMessage := context.WithTimeout(ctx, fetchTimeout)
	defer cancelMessage()
	message, err := u.discordClient.GetMessage(messageCtx, channelID, messageID)
	if err != nil {
		log.Printf("❌ Failed to fetch message %s: %v", messageID, err)
		return nil, classifyFetchError(err, core.ErrMessageNotFound)
	}

	// Step 3: Normalize into the archive record shape
	payload := NormalizeMessage(message, guildID, archivedBy)

	// Steps 4-5: Check the natural key and persist inside one transaction.
	// The database constraint remains the source of truth for concurrent
	// attempts racing from separate connections.
	var outcome *ArchiveOutcome
	err = u.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		maybeExisting, err := u.archivedMessagesService.GetArchivedMessageByMessageAndGuild(txCtx, messageID, guildID)
		if err != nil {
			return fmt.Errorf("failed to check for existing archive: %w", err)
		}
		if maybeExisting.IsPresent() {
			existing := maybeExisting.MustGet()
			log.Printf("📋 Message %s already archived as %s", messageID, existing.ID)
			outcome = &ArchiveOutcome{Message: existing, AlreadyArchived: true}
			return nil
		}

		stored, err := u.archivedMessagesService.CreateArchivedMessage(txCtx, payload)
		if err != nil {
			return err
		}
		outcome = &ArchiveOutcome{Message: stored}
		return nil
	})
	if err != nil {
		// A duplicate here means we lost a race with a concurrent archive
		// attempt; report the surviving record.
		if core.IsDuplicateError(err) {
			maybeWinner, getErr := u.archivedMessagesService.GetArchivedMessageByMessageAndGuild(
				ctx, messageID, guildID)
			if getErr == nil && maybeWinner.IsPresent() {
				return &ArchiveOutcome{Message: maybeWinner.MustGet(), AlreadyArchived: true}, nil
			}
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist archived message: %w", err)
	}

	if !outcome.AlreadyArchived {
		log.Printf("📋 Completed successfully - archived message %s as %s", messageID, outcome.Message.ID)
	}
	return outcome, nil
}

// ResolveTarget determines which message an archive command refers to.
// With a message link, the link wins; otherwise the most recent message in
// the invoking channel is targeted, skipping excludeMessageID.
func (u *ArchiveUseCase) ResolveTarget(
	ctx context.Context,
	messageLink, invokingChannelID, excludeMessageID string,
) (channelID, messageID string, err error) {
	if messageLink != "" {
		_, linkChannelID, linkMessageID, ok := ParseMessageLink(messageLink)
		if !ok {
			return "", "", fmt.Errorf("invalid message link %q: %w", messageLink, core.ErrValidation)
		}
		return linkChannelID, linkMessageID, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	maybeLatest, err := u.discordClient.GetLatestMessage(fetchCtx, invokingChannelID, excludeMessageID)
	if err != nil {
		return "", "", classifyFetchError(err, core.ErrChannelUnavailable)
	}
	if !maybeLatest.IsPresent() {
		return "", "", fmt.Errorf("no message found to archive: %w", core.ErrMessageNotFound)
	}

	latest := maybeLatest.MustGet()
	return invokingChannelID, latest.ID, nil
}

// classifyFetchError maps an upstream fetch failure onto the error
// taxonomy: deadline overruns become upstream timeouts, everything else
// takes the supplied category.
func classifyFetchError(err error, category error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("discord fetch timed out: %w", core.ErrUpstreamTimeout)
	}
	return fmt.Errorf("%v: %w", err, category)
}
