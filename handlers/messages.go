package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"msgarchive/core"
	"msgarchive/models"
	"msgarchive/models/api"
	"msgarchive/services"
)

// MessagesHTTPHandler serves the archive's JSON API.
type MessagesHTTPHandler struct {
	archivedMessagesService services.ArchivedMessagesService
}

func NewMessagesHTTPHandler(archivedMessagesService services.ArchivedMessagesService) *MessagesHTTPHandler {
	return &MessagesHTTPHandler{
		archivedMessagesService: archivedMessagesService,
	}
}

// ArchiveMessageRequest is the body of POST /api/messages/archive: a full
// normalized payload as produced by the bot's archival pipeline.
type ArchiveMessageRequest struct {
	MessageID         string                `json:"messageId"`
	ChannelID         string                `json:"channelId"`
	GuildID           string                `json:"guildId"`
	AuthorID          string                `json:"authorId"`
	AuthorUsername    string                `json:"authorUsername"`
	AuthorDisplayName *string               `json:"authorDisplayName,omitempty"`
	AuthorAvatar      *string               `json:"authorAvatar,omitempty"`
	Content           string                `json:"content"`
	Timestamp         time.Time             `json:"timestamp"`
	EditedTimestamp   *time.Time            `json:"editedTimestamp,omitempty"`
	Attachments       models.AttachmentList `json:"attachments"`
	Embeds            models.EmbedList      `json:"embeds"`
	Reactions         models.ReactionList   `json:"reactions,omitempty"`
	ArchivedAt        *time.Time            `json:"archivedAt,omitempty"`
	ArchivedBy        string                `json:"archivedBy"`
}

func (h *MessagesHTTPHandler) HandleArchiveMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Archive message request received from %s", r.RemoteAddr)

	var req ArchiveMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to decode archive request: %v", err)
		h.writeJSONResponse(w, http.StatusBadRequest, api.Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	payload := &models.ArchivedMessagePayload{
		MessageID:         req.MessageID,
		ChannelID:         req.ChannelID,
		GuildID:           req.GuildID,
		AuthorID:          req.AuthorID,
		AuthorUsername:    req.AuthorUsername,
		AuthorDisplayName: req.AuthorDisplayName,
		AuthorAvatar:      req.AuthorAvatar,
		Content:           req.Content,
		Timestamp:         req.Timestamp,
		EditedTimestamp:   req.EditedTimestamp,
		Attachments:       req.Attachments,
		Embeds:            req.Embeds,
		Reactions:         req.Reactions,
		ArchivedBy:        req.ArchivedBy,
	}
	if req.ArchivedAt != nil {
		payload.ArchivedAt = *req.ArchivedAt
	} else {
		payload.ArchivedAt = time.Now().UTC()
	}

	stored, err := h.archivedMessagesService.CreateArchivedMessage(r.Context(), payload)
	if err != nil {
		switch {
		case core.IsDuplicateError(err):
			// 409 carries the existing record so the caller can link to it
			maybeExisting, getErr := h.archivedMessagesService.GetArchivedMessageByMessageAndGuild(
				r.Context(), req.MessageID, req.GuildID)
			var existing *models.ArchivedMessage
			if getErr == nil && maybeExisting.IsPresent() {
				existing = maybeExisting.MustGet()
			}
			h.writeJSONResponse(w, http.StatusConflict, api.Response{
				Success: false,
				Error:   "Message already archived",
				Data:    existing,
			})
		case core.IsValidationError(err):
			log.Printf("❌ Invalid archive payload: %v", err)
			h.writeJSONResponse(w, http.StatusBadRequest, api.Response{
				Success: false,
				Error:   "invalid archive payload",
			})
		default:
			log.Printf("❌ Failed to archive message: %v", err)
			h.writeJSONResponse(w, http.StatusInternalServerError, api.Response{
				Success: false,
				Error:   "Failed to archive message",
			})
		}
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, api.Response{
		Success: true,
		Data:    stored,
		Message: "Message archived successfully",
	})
}

func (h *MessagesHTTPHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List messages request received from %s", r.RemoteAddr)

	params := r.URL.Query()
	query := models.ArchiveQuery{
		Page:      params.Get("page"),
		Limit:     params.Get("limit"),
		GuildID:   params.Get("guildId"),
		ChannelID: params.Get("channelId"),
		AuthorID:  params.Get("authorId"),
		Search:    params.Get("search"),
		StartDate: params.Get("startDate"),
		EndDate:   params.Get("endDate"),
	}

	result, err := h.archivedMessagesService.QueryArchivedMessages(r.Context(), query)
	if err != nil {
		if core.IsValidationError(err) {
			log.Printf("❌ Invalid listing parameters: %v", err)
			h.writeJSONResponse(w, http.StatusBadRequest, api.Response{
				Success: false,
				Error:   "invalid query parameters",
			})
			return
		}
		log.Printf("❌ Failed to list messages: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.Response{
			Success: false,
			Error:   "Failed to fetch messages",
		})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.Response{
		Success: true,
		Data:    result,
	})
}

func (h *MessagesHTTPHandler) HandleGetMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("📋 Get message request received for %s", id)

	maybeMessage, err := h.archivedMessagesService.GetArchivedMessageByID(r.Context(), id)
	if err != nil && !core.IsValidationError(err) {
		log.Printf("❌ Failed to get message %s: %v", id, err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.Response{
			Success: false,
			Error:   "Failed to fetch message",
		})
		return
	}
	if err != nil || !maybeMessage.IsPresent() {
		h.writeJSONResponse(w, http.StatusNotFound, api.Response{
			Success: false,
			Error:   "Message not found",
		})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.Response{
		Success: true,
		Data:    maybeMessage.MustGet(),
	})
}

func (h *MessagesHTTPHandler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("🗑️ Delete message request received for %s", id)

	if err := h.archivedMessagesService.DeleteArchivedMessageByID(r.Context(), id); err != nil {
		if core.IsNotFoundError(err) || core.IsValidationError(err) {
			h.writeJSONResponse(w, http.StatusNotFound, api.Response{
				Success: false,
				Error:   "Message not found",
			})
			return
		}
		log.Printf("❌ Failed to delete message %s: %v", id, err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.Response{
			Success: false,
			Error:   "Failed to delete message",
		})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.Response{
		Success: true,
		Message: "Message deleted successfully",
	})
}

func (h *MessagesHTTPHandler) HandleListGuilds(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List guilds request received from %s", r.RemoteAddr)

	guilds, err := h.archivedMessagesService.ListDistinctGuildIDs(r.Context())
	if err != nil {
		log.Printf("❌ Failed to list guilds: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.Response{
			Success: false,
			Error:   "Failed to fetch guilds",
		})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.Response{
		Success: true,
		Data:    guilds,
	})
}

func (h *MessagesHTTPHandler) HandleListChannels(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List channels request received from %s", r.RemoteAddr)

	var guildID *string
	if v := r.URL.Query().Get("guildId"); v != "" {
		guildID = &v
	}

	channels, err := h.archivedMessagesService.ListDistinctChannelIDs(r.Context(), guildID)
	if err != nil {
		log.Printf("❌ Failed to list channels: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.Response{
			Success: false,
			Error:   "Failed to fetch channels",
		})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.Response{
		Success: true,
		Data:    channels,
	})
}

func (h *MessagesHTTPHandler) HandleListAuthors(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List authors request received from %s", r.RemoteAddr)

	var guildID, channelID *string
	if v := r.URL.Query().Get("guildId"); v != "" {
		guildID = &v
	}
	if v := r.URL.Query().Get("channelId"); v != "" {
		channelID = &v
	}

	authors, err := h.archivedMessagesService.ListDistinctAuthors(r.Context(), guildID, channelID)
	if err != nil {
		log.Printf("❌ Failed to list authors: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError, api.Response{
			Success: false,
			Error:   "Failed to fetch authors",
		})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.Response{
		Success: true,
		Data:    authors,
	})
}

// SetupEndpoints registers the archive API routes. Meta routes come first
// so /messages/{id} does not shadow them.
func (h *MessagesHTTPHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering message archive API endpoints")

	router.HandleFunc("/api/messages/archive", h.HandleArchiveMessage).Methods("POST")
	router.HandleFunc("/api/messages/meta/guilds", h.HandleListGuilds).Methods("GET")
	router.HandleFunc("/api/messages/meta/channels", h.HandleListChannels).Methods("GET")
	router.HandleFunc("/api/messages/meta/authors", h.HandleListAuthors).Methods("GET")
	router.HandleFunc("/api/messages/{id}", h.HandleGetMessage).Methods("GET")
	router.HandleFunc("/api/messages/{id}", h.HandleDeleteMessage).Methods("DELETE")
	router.HandleFunc("/api/messages", h.HandleListMessages).Methods("GET")

	log.Printf("✅ Message archive API endpoints registered")
}

func (h *MessagesHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
