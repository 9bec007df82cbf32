package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/admitdesk/admitdesk/internal/engine"
)

// SQLStore is a SQLite-backed implementation of both ConversationStore and
// UserStore, for deployments where a single JSON directory is not enough.
type SQLStore struct {
	db *sql.DB

	// Serializes read-modify-write sequences (SetField) that span two
	// statements. Plain statements are already serialized by the
	// single-connection pool.
	mu sync.Mutex
}

// NewSQLStore opens (or creates) the database at dbPath and initializes the
// schema.
func NewSQLStore(ctx context.Context, dbPath string) (*SQLStore, error) {
	// WAL mode allows readers alongside the single writer; the busy timeout
	// covers short lock contention instead of failing immediately.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		session_id TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transcript (
		entry_id   INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transcript_session ON transcript (session_id, entry_id);

	CREATE TABLE IF NOT EXISTS users (
		user_id    TEXT PRIMARY KEY,
		profile    TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// State implements ConversationStore.
func (s *SQLStore) State(ctx context.Context, sessionID string) (*engine.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM conversations WHERE session_id = ?`, sessionID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query state: %w", err)
	}

	var st engine.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &st, nil
}

// SaveState implements ConversationStore.
func (s *SQLStore) SaveState(ctx context.Context, sessionID string, st *engine.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	now := time.Now().UTC().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, state, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		sessionID, string(raw), now, now)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// AppendMessage implements ConversationStore.
func (s *SQLStore) AppendMessage(ctx context.Context, sessionID string, role engine.MessageRole, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcript (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, string(role), content, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// Messages implements ConversationStore.
func (s *SQLStore) Messages(ctx context.Context, sessionID string, limit int) ([]engine.ChatMessage, error) {
	query := `SELECT role, content, created_at FROM transcript WHERE session_id = ? ORDER BY entry_id`
	args := []any{sessionID}
	if limit > 0 {
		// Most recent N, returned in chronological order.
		query = `SELECT role, content, created_at FROM (
			SELECT entry_id, role, content, created_at FROM transcript
			WHERE session_id = ? ORDER BY entry_id DESC LIMIT ?
		) ORDER BY entry_id`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	defer rows.Close()

	var msgs []engine.ChatMessage
	for rows.Next() {
		var role, content string
		var created int64
		if err := rows.Scan(&role, &content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}
		msgs = append(msgs, engine.ChatMessage{
			Role:      engine.MessageRole(role),
			Content:   content,
			Timestamp: time.Unix(created, 0).UTC(),
		})
	}
	return msgs, rows.Err()
}

// Delete implements ConversationStore.
func (s *SQLStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM transcript WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	return nil
}

// Sessions implements ConversationStore.
func (s *SQLStore) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id FROM conversations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ClearOld deletes conversations (and their transcripts) whose last update is
// older than maxAge. Returns the number of conversations removed.
func (s *SQLStore) ClearOld(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Unix()

	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id FROM conversations WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to query old conversations: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// Get implements UserStore.
func (s *SQLStore) Get(ctx context.Context, userID string) (map[string]any, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile FROM users WHERE user_id = ?`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	var profile map[string]any
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, nil
}

// Save implements UserStore.
func (s *SQLStore) Save(ctx context.Context, userID string, profile map[string]any) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	now := time.Now().UTC().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, profile, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`,
		userID, string(raw), now, now)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// SetField implements UserStore. Unknown users are ignored.
func (s *SQLStore) SetField(ctx context.Context, userID, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}
	profile[field] = value
	return s.Save(ctx, userID, profile)
}

// Exists implements UserStore.
func (s *SQLStore) Exists(ctx context.Context, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query user existence: %w", err)
	}
	return n > 0, nil
}

// DeleteUser removes a user profile. Named to avoid clashing with the
// ConversationStore Delete on the same type.
func (s *SQLStore) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Users returns the UserStore view of this database. A separate view is
// needed because ConversationStore and UserStore both declare Delete.
func (s *SQLStore) Users() UserStore { return sqlUserStore{s} }

type sqlUserStore struct{ s *SQLStore }

func (u sqlUserStore) Get(ctx context.Context, userID string) (map[string]any, error) {
	return u.s.Get(ctx, userID)
}
func (u sqlUserStore) Save(ctx context.Context, userID string, profile map[string]any) error {
	return u.s.Save(ctx, userID, profile)
}
func (u sqlUserStore) SetField(ctx context.Context, userID, field string, value any) error {
	return u.s.SetField(ctx, userID, field, value)
}
func (u sqlUserStore) Exists(ctx context.Context, userID string) (bool, error) {
	return u.s.Exists(ctx, userID)
}
func (u sqlUserStore) Delete(ctx context.Context, userID string) error {
	return u.s.DeleteUser(ctx, userID)
}
func (u sqlUserStore) Search(ctx context.Context, filters map[string]any) (map[string]map[string]any, error) {
	return u.s.Search(ctx, filters)
}

// Search implements UserStore.
func (s *SQLStore) Search(ctx context.Context, filters map[string]any) (map[string]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, profile FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	results := map[string]map[string]any{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var profile map[string]any
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			continue // skip corrupt rows
		}
		if matchesFilters(profile, filters) {
			results[id] = profile
		}
	}
	return results, rows.Err()
}
