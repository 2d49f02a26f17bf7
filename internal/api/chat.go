package api

import (
	"context"
	"net/http"

	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/models"
)

// chatCompletionRequest carries the transcript to the backend chat
// endpoint; the backend owns the model call.
type chatCompletionRequest struct {
	Messages []chatTurn `json:"messages"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Content string `json:"content"`
}

// ChatCompletion sends the transcript and returns the assistant's
// reply. One call per user submission; no streaming.
func (c *Client) ChatCompletion(ctx context.Context, ac *auth.Context, messages []models.ChatMessage) (string, error) {
	req := chatCompletionRequest{Messages: make([]chatTurn, 0, len(messages))}
	for _, m := range messages {
		req.Messages = append(req.Messages, chatTurn{Role: string(m.Role), Content: m.Content})
	}

	var resp chatCompletionResponse
	if err := c.DoJSON(ctx, ac, http.MethodPost, "/chat/completion", req, &resp, nil); err != nil {
		return "", err
	}
	return resp.Content, nil
}
