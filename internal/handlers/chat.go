package handlers

import (
	"errors"
	"net/http"
	"strings"

	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/internal/models"
	"tour-booking-platform/internal/stores"
)

// ChatHandler handles the travel assistant chat page
type ChatHandler struct {
	chat *stores.ChatStore
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *stores.ChatStore) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatPageData struct {
	pageBase
	Messages []models.ChatMessage
}

// ChatPage displays the conversation
func (h *ChatHandler) ChatPage(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())
	renderPage(w, "chat.html", chatPageData{
		pageBase: newPageBase(r, "Travel assistant", 0),
		Messages: h.chat.Messages(ac),
	})
}

// Send posts a message and returns the updated transcript fragment.
// Failed completions still produce a reply; the fallback message is
// flagged so the template can style it as an error.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	content := strings.TrimSpace(r.FormValue("message"))
	if err := h.chat.Send(r.Context(), ac, content); err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			writeHTMXError(w, http.StatusBadRequest, "Type a message first, or wait for the previous reply.")
			return
		}
		writeHTMXError(w, http.StatusInternalServerError, "Could not send the message.")
		return
	}

	renderPartial(w, "chat_messages", chatPageData{Messages: h.chat.Messages(ac)})
}
