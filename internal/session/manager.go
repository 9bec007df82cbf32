// Package session wraps the turn executor with session lifecycle management:
// creating sessions, persisting state between turns, recording the durable
// transcript, and keeping user profiles up to date.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/admitdesk/admitdesk/internal/engine"
	"github.com/admitdesk/admitdesk/internal/memory"
)

// ErrSessionEnded is returned when a turn is submitted to a session that has
// already been ended.
var ErrSessionEnded = errors.New("session has ended")

// Manager owns session lifecycle. All dependencies are injected; the Manager
// implements no storage or routing itself.
type Manager struct {
	executor      *engine.Executor
	conversations memory.ConversationStore
	users         memory.UserStore
}

// NewManager creates a conversation manager.
func NewManager(executor *engine.Executor, conversations memory.ConversationStore, users memory.UserStore) *Manager {
	return &Manager{
		executor:      executor,
		conversations: conversations,
		users:         users,
	}
}

// CreateSession starts a new conversation and returns its id. When userID
// names a known profile, the session is seeded with the stored name so a
// returning user is not asked for it again.
func (m *Manager) CreateSession(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	st := engine.NewState(sessionID)

	if userID != "" {
		profile, err := m.users.Get(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("failed to load user profile: %w", err)
		}
		if profile != nil {
			if name, ok := profile[engine.InfoName].(string); ok && name != "" {
				st.SetUserInfo(engine.InfoName, name)
			}
			st.SetUserInfo(engine.InfoUserID, userID)
			log.Printf("session: loaded existing user profile for %s", userID)
		}
	}

	if err := m.conversations.SaveState(ctx, sessionID, st); err != nil {
		return "", fmt.Errorf("failed to save initial state: %w", err)
	}

	log.Printf("session: created new session %s", sessionID)
	return sessionID, nil
}

// ProcessMessage runs one turn and returns the assistant's reply. The
// resulting state is persisted, both transcript entries are recorded, and the
// user profile is upserted when contact details newly appear.
func (m *Manager) ProcessMessage(ctx context.Context, sessionID, userMessage string) (string, error) {
	prior, err := m.conversations.State(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session state: %w", err)
	}
	if prior != nil && prior.Ended {
		return "", ErrSessionEnded
	}

	st := m.executor.ProcessMessage(ctx, sessionID, userMessage, prior)

	if err := m.conversations.SaveState(ctx, sessionID, st); err != nil {
		return "", fmt.Errorf("failed to save session state: %w", err)
	}
	if err := m.conversations.AppendMessage(ctx, sessionID, engine.RoleUser, userMessage); err != nil {
		return "", fmt.Errorf("failed to record user message: %w", err)
	}

	reply := lastAssistantMessage(st)
	if reply != "" {
		if err := m.conversations.AppendMessage(ctx, sessionID, engine.RoleAssistant, reply); err != nil {
			return "", fmt.Errorf("failed to record assistant message: %w", err)
		}
	}

	if hasProfileInfo(st) {
		if err := m.updateUserProfile(ctx, sessionID, st); err != nil {
			// Profile upkeep is best-effort; the turn already succeeded.
			log.Printf("session: failed to update user profile: %v", err)
		}
	}

	return reply, nil
}

// End marks a session ended and persists it. Ending an already-ended or
// unknown session is a no-op.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	st, err := m.conversations.State(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session state: %w", err)
	}
	if st == nil || st.Ended {
		return nil
	}

	st.Ended = true
	if err := m.conversations.SaveState(ctx, sessionID, st); err != nil {
		return fmt.Errorf("failed to save ended state: %w", err)
	}
	log.Printf("session: ended session %s", sessionID)
	return nil
}

// History returns the durable transcript for a session. A positive limit
// returns only the most recent entries.
func (m *Manager) History(ctx context.Context, sessionID string, limit int) ([]engine.ChatMessage, error) {
	return m.conversations.Messages(ctx, sessionID, limit)
}

// State returns the current session state, or nil for an unknown session.
func (m *Manager) State(ctx context.Context, sessionID string) (*engine.State, error) {
	return m.conversations.State(ctx, sessionID)
}

// updateUserProfile upserts the profile keyed by phone, else email, else
// session id, copying every non-empty user_info field. When a contact key
// becomes available the provisional session-keyed profile is removed; its
// fields all live in st.UserInfo and are re-saved under the stronger key.
func (m *Manager) updateUserProfile(ctx context.Context, sessionID string, st *engine.State) error {
	userID := st.UserInfoString(engine.InfoPhone, "")
	if userID == "" {
		userID = st.UserInfoString(engine.InfoEmail, "")
	}
	if userID == "" {
		userID = sessionID
	}

	if userID != sessionID {
		provisional, err := m.users.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		if provisional != nil {
			if err := m.users.Delete(ctx, sessionID); err != nil {
				return err
			}
		}
	}

	existing, err := m.users.Get(ctx, userID)
	if err != nil {
		return err
	}

	if existing != nil {
		for key, value := range st.UserInfo {
			if value == nil || value == "" {
				continue
			}
			if err := m.users.SetField(ctx, userID, key, value); err != nil {
				return err
			}
		}
		return nil
	}

	profile := map[string]any{"user_id": userID}
	for key, value := range st.UserInfo {
		if value == nil || value == "" {
			continue
		}
		profile[key] = value
	}
	return m.users.Save(ctx, userID, profile)
}

func lastAssistantMessage(st *engine.State) string {
	for i := len(st.Messages) - 1; i >= 0; i-- {
		if st.Messages[i].Role == engine.RoleAssistant {
			return st.Messages[i].Content
		}
	}
	return ""
}

func hasProfileInfo(st *engine.State) bool {
	return st.UserInfoString(engine.InfoName, "") != "" ||
		st.UserInfoString(engine.InfoEmail, "") != "" ||
		st.UserInfoString(engine.InfoPhone, "") != ""
}
