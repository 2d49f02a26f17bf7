package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie name of the browser session that carries
// the token pair between requests.
const SessionName = "session"

const (
	sessionTokenKey = "session_token"
	refreshTokenKey = "refresh_token"
	initializedKey  = "auth_initialized"
)

// SessionStore persists the per-browser token pair in a gorilla
// session. The tokens live only in the session cookie; nothing is
// written to process-wide state.
type SessionStore struct {
	store sessions.Store
}

// NewSessionStore creates a session-backed token store.
func NewSessionStore(store sessions.Store) *SessionStore {
	return &SessionStore{store: store}
}

// Load reads the token pair for the current browser session. A missing
// or unreadable session yields an empty (unauthenticated) context.
func (s *SessionStore) Load(r *http.Request) *Context {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return &Context{}
	}

	ctx := &Context{}
	if token, ok := session.Values[sessionTokenKey].(string); ok {
		ctx.SessionToken = token
	}
	if token, ok := session.Values[refreshTokenKey].(string); ok {
		ctx.RefreshToken = token
	}
	return ctx
}

// Initialize stores the token pair the first time a session sees one.
// Repeated calls on an already-initialized session are no-ops so that
// re-renders of the same page load cannot clobber a newer pair.
func (s *SessionStore) Initialize(r *http.Request, w http.ResponseWriter, ctx *Context) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if initialized, ok := session.Values[initializedKey].(bool); ok && initialized {
		return nil
	}
	return s.save(session, r, w, ctx)
}

// Save overwrites the stored token pair, e.g. after login or an
// explicit refresh.
func (s *SessionStore) Save(r *http.Request, w http.ResponseWriter, ctx *Context) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return s.save(session, r, w, ctx)
}

func (s *SessionStore) save(session *sessions.Session, r *http.Request, w http.ResponseWriter, ctx *Context) error {
	session.Values[sessionTokenKey] = ctx.SessionToken
	session.Values[refreshTokenKey] = ctx.RefreshToken
	session.Values[initializedKey] = true
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear drops the stored tokens on logout.
func (s *SessionStore) Clear(r *http.Request, w http.ResponseWriter) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	delete(session.Values, sessionTokenKey)
	delete(session.Values, refreshTokenKey)
	delete(session.Values, initializedKey)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
