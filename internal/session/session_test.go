package session_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrocha/faqbot/internal/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	entries, err := store.Transcript(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Append(ctx, "a", "User: hi", "Bot: hello"))
	require.NoError(t, store.Append(ctx, "a", "User: bye"))
	require.NoError(t, store.Append(ctx, "b", "User: other"))

	entries, err = store.Transcript(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"User: hi", "Bot: hello", "User: bye"}, entries)

	require.NoError(t, store.Clear(ctx, "a"))

	entries, err = store.Transcript(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = store.Transcript(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"User: other"}, entries)
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Append(ctx, "a", "User: hi"))

	entries, err := store.Transcript(ctx, "a")
	require.NoError(t, err)
	entries[0] = "mutated"

	entries, err = store.Transcript(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"User: hi"}, entries)
}

func TestManagerMintsAndKeepsSessionID(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := session.NewManager("test-secret", log)

	// First visit mints an identifier and sets the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	firstID := m.SessionID(rec, req)
	require.NotEmpty(t, firstID)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Replay with the cookie yields the same identifier.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	secondID := m.SessionID(httptest.NewRecorder(), req)
	assert.Equal(t, firstID, secondID)
}

func TestManagerDistinctSessions(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := session.NewManager("test-secret", log)

	first := m.SessionID(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	second := m.SessionID(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEqual(t, first, second)
}
