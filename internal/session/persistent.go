package session

import (
	"context"

	"github.com/mrocha/faqbot/internal/database"
)

// DBStore is a Store implementation persisting transcripts in the SQLite
// database, so conversations survive process restarts.
type DBStore struct {
	store database.Store
}

// NewDBStore creates a transcript store backed by the given database Store.
func NewDBStore(store database.Store) *DBStore {
	return &DBStore{store: store}
}

func (s *DBStore) Transcript(ctx context.Context, sessionID string) ([]string, error) {
	return s.store.GetTranscript(ctx, sessionID)
}

func (s *DBStore) Append(ctx context.Context, sessionID string, entries ...string) error {
	return s.store.AppendTranscript(ctx, sessionID, entries...)
}

func (s *DBStore) Clear(ctx context.Context, sessionID string) error {
	return s.store.ClearTranscript(ctx, sessionID)
}
