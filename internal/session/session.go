// Package session manages browser session identity and per-session
// conversation transcripts. Identity lives in a signed cookie; transcripts
// live in a pluggable Store (in-memory or database-backed).
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	cookieName = "chatbot_session"
	idKey      = "session_id"
)

// Store holds conversation transcripts keyed by session identifier.
// Transcripts are ordered lists of "User: ..." / "Bot: ..." strings.
type Store interface {
	// Transcript returns the full transcript for a session, oldest first.
	// An unknown session yields an empty transcript.
	Transcript(ctx context.Context, sessionID string) ([]string, error)

	// Append adds entries to the end of a session's transcript.
	Append(ctx context.Context, sessionID string, entries ...string) error

	// Clear removes a session's transcript.
	Clear(ctx context.Context, sessionID string) error
}

// Manager mints and retrieves session identifiers via a signed cookie.
type Manager struct {
	cookies *sessions.CookieStore
	logger  *slog.Logger
}

// NewManager creates a Manager signing cookies with the given secret.
func NewManager(secret string, logger *slog.Logger) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{
		cookies: store,
		logger:  logger.With("component", "session"),
	}
}

// SessionID returns the session identifier for the request, minting and
// setting a new one on the response when the browser has none yet.
func (m *Manager) SessionID(w http.ResponseWriter, r *http.Request) string {
	// Get never fails fatally; a bad or tampered cookie yields a fresh session.
	sess, err := m.cookies.Get(r, cookieName)
	if err != nil {
		m.logger.Debug("Invalid session cookie, minting new session", "error", err)
	}

	if id, ok := sess.Values[idKey].(string); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	sess.Values[idKey] = id
	if err := sess.Save(r, w); err != nil {
		m.logger.Error("Failed to save session cookie", "error", err)
	}
	m.logger.Debug("Minted new session", "session_id", id)
	return id
}
