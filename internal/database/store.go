package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// maxLoggedInputChars caps the user input stored per log row. Longer input is
// truncated before the insert, never rejected here.
const maxLoggedInputChars = 512

// Store defines the interface for database operations. Methods accept a
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveInteraction inserts a new interaction log row. The user input is
	// truncated to 512 characters and the timestamp is stamped in UTC.
	SaveInteraction(ctx context.Context, interaction *Interaction) error

	// CountInteractions returns the total number of logged interactions.
	CountInteractions(ctx context.Context) (int64, error)

	// GetRecentInteractions retrieves the most recent 'limit' rows, newest first.
	GetRecentInteractions(ctx context.Context, limit int) ([]Interaction, error)

	// AppendTranscript appends transcript entries for a session.
	AppendTranscript(ctx context.Context, sessionID string, entries ...string) error

	// GetTranscript retrieves a session's transcript in insertion order.
	GetTranscript(ctx context.Context, sessionID string) ([]string, error)

	// ClearTranscript deletes all transcript entries for a session.
	ClearTranscript(ctx context.Context, sessionID string) error

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveInteraction inserts a new interaction log row inside a transaction.
func (s *sqlxStore) SaveInteraction(ctx context.Context, interaction *Interaction) error {
	if interaction == nil {
		return fmt.Errorf("cannot save nil interaction")
	}
	if interaction.SessionID == "" {
		return fmt.Errorf("interaction must have a non-empty session_id")
	}

	interaction.UserInput = truncate(interaction.UserInput, maxLoggedInputChars)
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving interaction",
			"session_id", interaction.SessionID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO logs (session_id, user_input, bot_response, timestamp)
        VALUES (:session_id, :user_input, :bot_response, :timestamp);
    `

	result, err := tx.NamedExecContext(ctx, query, interaction)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving interaction", "session_id", interaction.SessionID, "error", err)
		return fmt.Errorf("failed to save interaction (session %s): %w", interaction.SessionID, err)
	}

	if id, idErr := result.LastInsertId(); idErr == nil {
		interaction.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving interaction",
			"session_id", interaction.SessionID, "error", idErr)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"session_id", interaction.SessionID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Interaction saved successfully",
		"session_id", interaction.SessionID, "interaction_id", interaction.ID)
	return nil
}

func (s *sqlxStore) CountInteractions(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM logs`); err != nil {
		s.logger.ErrorContext(ctx, "Error counting interactions", "error", err)
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}

func (s *sqlxStore) GetRecentInteractions(ctx context.Context, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 5
	}

	var interactions []Interaction
	query := `
        SELECT id, session_id, user_input, bot_response, timestamp
        FROM logs
        ORDER BY id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &interactions, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent interactions", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent interactions: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched recent interactions", "count", len(interactions))
	return interactions, nil
}

// AppendTranscript appends transcript entries for a session in one transaction
// so a partial turn is never persisted.
func (s *sqlxStore) AppendTranscript(ctx context.Context, sessionID string, entries ...string) error {
	if sessionID == "" {
		return fmt.Errorf("session_id cannot be empty")
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for transcript append",
			"session_id", sessionID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	now := time.Now().UTC()
	query := `
        INSERT INTO transcripts (session_id, entry, created_at)
        VALUES (:session_id, :entry, :created_at);
    `
	for _, entry := range entries {
		row := TranscriptEntry{SessionID: sessionID, Entry: entry, CreatedAt: now}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			s.logger.ErrorContext(ctx, "Error appending transcript entry", "session_id", sessionID, "error", err)
			return fmt.Errorf("failed to append transcript entry (session %s): %w", sessionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transcript append", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	return nil
}

func (s *sqlxStore) GetTranscript(ctx context.Context, sessionID string) ([]string, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id cannot be empty")
	}

	var entries []string
	query := `SELECT entry FROM transcripts WHERE session_id = ? ORDER BY id ASC`
	if err := s.db.SelectContext(ctx, &entries, query, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting transcript", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to get transcript for session %s: %w", sessionID, err)
	}
	return entries, nil
}

func (s *sqlxStore) ClearTranscript(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session_id cannot be empty")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transcripts WHERE session_id = ?`, sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error clearing transcript", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to clear transcript for session %s: %w", sessionID, err)
	}

	count, _ := result.RowsAffected()
	s.logger.DebugContext(ctx, "Cleared transcript", "session_id", sessionID, "entries_deleted", count)
	return nil
}

// RunMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
