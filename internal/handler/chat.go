package handler

import (
	"log/slog"
	"net/http"

	"uigen/internal/handler/sse"
	"uigen/internal/httputil"
	"uigen/internal/service/chat"
)

// ChatHandler handles the streaming completion endpoint.
type ChatHandler struct {
	chat   *chat.Service
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *chat.Service, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chatService, logger: logger}
}

// Complete streams one assistant turn as Server-Sent Events.
// POST /api/chat
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := httputil.GetUserID(r)
	anonSessionID := httputil.GetAnonSessionID(r)

	sink, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// Headers are sent; from here failures go through the event stream.
	if err := h.chat.Complete(r.Context(), &req, userID, anonSessionID, sink); err != nil {
		h.logger.Error("chat completion failed", "error", err, "project_id", req.ProjectID)
		_ = sink.StreamError("completion failed")
	}
}
