package stores

import (
	"context"
	"log"
	"sync"
	"time"

	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/models"

	"github.com/google/uuid"
)

// FallbackReply is appended as the assistant turn when the completion
// call fails, so the widget never shows a dead submission.
const FallbackReply = "Sorry, I can't answer right now. Please try again in a moment."

// ChatCompleter is the slice of the API client the chat store needs.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, ac *auth.Context, messages []models.ChatMessage) (string, error)
}

// ChatStore holds one widget transcript per signed-in user, keyed by
// session token. One completion call per submission; failures become a
// fallback assistant message and a recorded error, never a thrown one.
type ChatStore struct {
	client ChatCompleter

	mu    sync.Mutex
	users map[string]*chatTranscript
}

type chatTranscript struct {
	messages []models.ChatMessage
	sending  bool
	lastErr  error
}

// NewChatStore creates a chat store over the API client.
func NewChatStore(client ChatCompleter) *ChatStore {
	return &ChatStore{client: client, users: make(map[string]*chatTranscript)}
}

// transcript returns the per-user transcript for ac. Caller holds the
// lock.
func (s *ChatStore) transcript(ac *auth.Context) *chatTranscript {
	key := ""
	if ac != nil {
		key = ac.SessionToken
	}
	c, ok := s.users[key]
	if !ok {
		c = &chatTranscript{}
		s.users[key] = c
	}
	return c
}

// Send appends the user message, awaits one completion call and
// appends the assistant reply. It only errors on misuse (empty
// content, overlapping sends); completion failures are absorbed.
func (s *ChatStore) Send(ctx context.Context, ac *auth.Context, content string) error {
	if content == "" {
		return models.ErrInvalidInput
	}

	s.mu.Lock()
	c := s.transcript(ac)
	if c.sending {
		s.mu.Unlock()
		return models.ErrInvalidInput
	}
	c.sending = true
	c.messages = append(c.messages, models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.ChatRoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	})
	transcript := make([]models.ChatMessage, len(c.messages))
	copy(transcript, c.messages)
	s.mu.Unlock()

	reply, err := s.client.ChatCompletion(ctx, ac, transcript)

	s.mu.Lock()
	defer s.mu.Unlock()
	c = s.transcript(ac)
	c.sending = false

	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.ChatRoleAssistant,
		CreatedAt: time.Now(),
	}
	if err != nil {
		log.Printf("chat: completion failed: %v", err)
		c.lastErr = err
		msg.Content = FallbackReply
		msg.Failed = true
	} else {
		c.lastErr = nil
		msg.Content = reply
	}
	c.messages = append(c.messages, msg)
	return nil
}

// Messages returns a copy of the user's transcript.
func (s *ChatStore) Messages(ac *auth.Context) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.transcript(ac)
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Sending reports whether the user has a completion call in flight.
func (s *ChatStore) Sending(ac *auth.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript(ac).sending
}

// Err returns the user's last completion error, if any.
func (s *ChatStore) Err(ac *auth.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript(ac).lastErr
}
