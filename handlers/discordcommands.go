package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"msgarchive/core"
	"msgarchive/usecases/archive"
)

const archiveCommandName = "archive"

// DiscordCommandsHandler owns the bot session and the /archive slash
// command. Discord enforces the Manage Messages permission through the
// command's default member permissions, so no permission check happens
// here.
type DiscordCommandsHandler struct {
	discordSDKClient *discordgo.Session
	archiveUseCase   *archive.ArchiveUseCase
}

func NewDiscordCommandsHandler(
	session *discordgo.Session,
	archiveUseCase *archive.ArchiveUseCase,
) *DiscordCommandsHandler {
	handler := &DiscordCommandsHandler{
		discordSDKClient: session,
		archiveUseCase:   archiveUseCase,
	}

	session.AddHandler(handler.handleInteractionCreate)
	session.Identify.Intents = discordgo.IntentsGuilds

	return handler
}

// StartBot opens the Discord connection and registers the slash command
func (h *DiscordCommandsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	manageMessages := int64(discordgo.PermissionManageMessages)
	command := &discordgo.ApplicationCommand{
		Name:                     archiveCommandName,
		Description:              "Archive a Discord message to the database",
		DefaultMemberPermissions: &manageMessages,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message_link",
				Description: "Link to the message to archive (defaults to the most recent message)",
				Required:    false,
			},
		},
	}

	if _, err := h.discordSDKClient.ApplicationCommandCreate(
		h.discordSDKClient.State.User.ID, "", command,
	); err != nil {
		return fmt.Errorf("failed to register archive command: %w", err)
	}

	log.Printf("🤖 Discord bot is now running with the /%s command registered", archiveCommandName)
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordCommandsHandler) StopBot() error {
	return h.discordSDKClient.Close()
}

func (h *DiscordCommandsHandler) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name != archiveCommandName {
		return
	}

	h.handleArchiveCommand(s, i)
}

func (h *DiscordCommandsHandler) handleArchiveCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	log.Printf("📥 Received archive command in guild %s, channel %s", i.GuildID, i.ChannelID)

	// Defer an ephemeral reply so the fetch+persist round trip does not
	// outrun the interaction deadline
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("❌ Failed to defer interaction reply: %v", err)
		return
	}

	ctx := context.Background()

	var messageLink string
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "message_link" {
			messageLink = option.StringValue()
		}
	}

	channelID, messageID, err := h.archiveUseCase.ResolveTarget(ctx, messageLink, i.ChannelID, "")
	if err != nil {
		log.Printf("❌ Failed to resolve archive target: %v", err)
		h.editReply(s, i, resolveErrorReply(err))
		return
	}

	outcome, err := h.archiveUseCase.ArchiveMessage(ctx, i.GuildID, channelID, messageID, invokingUserID(i))
	if err != nil {
		log.Printf("❌ Failed to archive message %s: %v", messageID, err)
		h.editReply(s, i, archiveErrorReply(err))
		return
	}

	if outcome.AlreadyArchived {
		h.editReply(s, i, fmt.Sprintf(
			"ℹ️ That message is already archived: %s", outcome.Message.MessageURL))
		return
	}

	h.editReply(s, i, fmt.Sprintf("✅ Archived message from **%s**: %s",
		outcome.Message.AuthorUsername, outcome.Message.MessageURL))

	// Public confirmation in the channel, mirroring the ephemeral reply
	confirmation := fmt.Sprintf("📦 Message from **%s** was archived by <@%s>",
		outcome.Message.AuthorUsername, outcome.Message.ArchivedBy)
	if _, err := s.ChannelMessageSend(i.ChannelID, confirmation); err != nil {
		log.Printf("⚠️ Failed to post archive confirmation: %v", err)
	}
}

func (h *DiscordCommandsHandler) editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		log.Printf("❌ Failed to edit interaction reply: %v", err)
	}
}

func invokingUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func resolveErrorReply(err error) string {
	switch {
	case core.IsValidationError(err):
		return "❌ Invalid Discord message link format."
	case core.IsNotFoundError(err):
		return "❌ No message found to archive."
	default:
		return "❌ Could not access the channel."
	}
}

func archiveErrorReply(err error) string {
	switch {
	case core.IsNotFoundError(err):
		return "❌ Message not found. It may have been deleted."
	case core.IsValidationError(err):
		return "❌ Invalid archive request."
	default:
		return "❌ Failed to archive the message. Please try again."
	}
}
