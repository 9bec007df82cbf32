package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/admitdesk/admitdesk/internal/engine"
)

// FileConversationStore persists one JSON file per session under
// <dir>/conversations. The mutex is the per-store critical section required
// for concurrent turns: a session's file is never read while being written.
type FileConversationStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileConversationStore creates the store rooted at baseDir.
func NewFileConversationStore(baseDir string) (*FileConversationStore, error) {
	dir := filepath.Join(baseDir, "conversations")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create conversation directory: %w", err)
	}
	return &FileConversationStore{dir: dir}, nil
}

func (s *FileConversationStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

// read loads a session record, or nil when the session is unknown.
// Callers must hold s.mu.
func (s *FileConversationStore) read(sessionID string) (*conversationRecord, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation file: %w", err)
	}

	var rec conversationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &rec, nil
}

// write saves a session record. Callers must hold s.mu.
func (s *FileConversationStore) write(sessionID string, rec *conversationRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := os.WriteFile(s.path(sessionID), data, 0644); err != nil {
		return fmt.Errorf("failed to write conversation file: %w", err)
	}
	return nil
}

// State implements ConversationStore.
func (s *FileConversationStore) State(_ context.Context, sessionID string) (*engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(sessionID)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.State, nil
}

// SaveState implements ConversationStore.
func (s *FileConversationStore) SaveState(_ context.Context, sessionID string, st *engine.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(sessionID)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &conversationRecord{CreatedAt: time.Now().UTC(), Messages: []engine.ChatMessage{}}
	}
	rec.State = st
	return s.write(sessionID, rec)
}

// AppendMessage implements ConversationStore.
func (s *FileConversationStore) AppendMessage(_ context.Context, sessionID string, role engine.MessageRole, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(sessionID)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &conversationRecord{CreatedAt: time.Now().UTC(), Messages: []engine.ChatMessage{}}
	}
	rec.Messages = append(rec.Messages, engine.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	return s.write(sessionID, rec)
}

// Messages implements ConversationStore. A positive limit returns only the
// most recent entries.
func (s *FileConversationStore) Messages(_ context.Context, sessionID string, limit int) ([]engine.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(sessionID)
	if err != nil || rec == nil {
		return nil, err
	}
	msgs := rec.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// Delete implements ConversationStore.
func (s *FileConversationStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Sessions implements ConversationStore.
func (s *FileConversationStore) Sessions(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}

// ClearOld deletes conversations whose last update is older than maxAge.
// Returns the number of conversations removed.
func (s *FileConversationStore) ClearOld(ctx context.Context, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list conversation directory: %w", err)
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		rec, err := s.read(id)
		if err != nil || rec == nil {
			continue // skip unreadable files
		}
		if rec.UpdatedAt.Before(cutoff) {
			if err := os.Remove(s.path(id)); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// FileUserStore persists all user profiles in a single users.json file,
// loaded on first use and rewritten on every mutation.
type FileUserStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	users  map[string]map[string]any
}

// NewFileUserStore creates the store rooted at baseDir.
func NewFileUserStore(baseDir string) (*FileUserStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create user store directory: %w", err)
	}
	return &FileUserStore{path: filepath.Join(baseDir, "users.json")}, nil
}

// load reads users.json into memory. Callers must hold s.mu. The loaded flag
// is only set after a successful read: a transient failure must not leave an
// empty map behind that a later flush would write over existing profiles.
func (s *FileUserStore) load() error {
	if s.loaded {
		return nil
	}

	users := map[string]map[string]any{}
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// No file yet, start empty.
	case err != nil:
		return fmt.Errorf("failed to read user store: %w", err)
	default:
		if err := json.Unmarshal(data, &users); err != nil {
			return fmt.Errorf("failed to unmarshal user store: %w", err)
		}
	}

	s.users = users
	s.loaded = true
	return nil
}

// flush writes the in-memory map back to disk. Callers must hold s.mu.
func (s *FileUserStore) flush() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write user store: %w", err)
	}
	return nil
}

// Get implements UserStore.
func (s *FileUserStore) Get(_ context.Context, userID string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.users[userID], nil
}

// Save implements UserStore.
func (s *FileUserStore) Save(_ context.Context, userID string, profile map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, exists := s.users[userID]; !exists {
		profile["created_at"] = now
	}
	profile["updated_at"] = now
	s.users[userID] = profile
	return s.flush()
}

// SetField implements UserStore. Unknown users are ignored.
func (s *FileUserStore) SetField(_ context.Context, userID, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}

	profile, ok := s.users[userID]
	if !ok {
		return nil
	}
	profile[field] = value
	profile["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return s.flush()
}

// Exists implements UserStore.
func (s *FileUserStore) Exists(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}
	_, ok := s.users[userID]
	return ok, nil
}

// Delete implements UserStore.
func (s *FileUserStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.users[userID]; !ok {
		return nil
	}
	delete(s.users, userID)
	return s.flush()
}

// Search implements UserStore.
func (s *FileUserStore) Search(_ context.Context, filters map[string]any) (map[string]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}

	results := map[string]map[string]any{}
	for id, profile := range s.users {
		if matchesFilters(profile, filters) {
			results[id] = profile
		}
	}
	return results, nil
}
