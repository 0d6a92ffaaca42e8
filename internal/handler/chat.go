package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/service"
)

// maxChatBody caps the conversation the widget may send in one request.
const maxChatBody = 64 << 10

type chatReplier interface {
	Reply(ctx context.Context, messages []model.ChatMessage) (string, error)
}

type ChatHandler struct {
	chatService chatReplier
}

func NewChatHandler(chatService chatReplier) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

type chatRequest struct {
	Messages []model.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	err = service.ValidateMessages(req.Messages)
	if errors.Is(err, service.ErrNoMessages) {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "Messages array is required"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "Invalid message", Details: err.Error()})
		return
	}

	reply, err := h.chatService.Reply(r.Context(), req.Messages)
	if err != nil {
		slog.Error("failed to get chat reply", "error", err, "messages", len(req.Messages))
		writeJSON(w, http.StatusInternalServerError, chatResponse{Error: "Failed to generate response", Details: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Message: reply})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}
