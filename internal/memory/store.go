// Package memory provides the persistence collaborators for conversation
// state, durable transcripts, and user profiles. Two backends implement the
// same interfaces: a JSON-file store and a SQLite store. Both serialize
// read-modify-write access so one turn's save can never interleave with
// another turn's load for the same key.
package memory

import (
	"context"
	"time"

	"github.com/admitdesk/admitdesk/internal/engine"
)

// ConversationStore persists session state and the durable transcript.
// State returns nil (and no error) for an unknown session.
type ConversationStore interface {
	State(ctx context.Context, sessionID string) (*engine.State, error)
	SaveState(ctx context.Context, sessionID string, st *engine.State) error
	AppendMessage(ctx context.Context, sessionID string, role engine.MessageRole, content string) error
	Messages(ctx context.Context, sessionID string, limit int) ([]engine.ChatMessage, error)
	Delete(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
}

// UserStore persists user profiles keyed by phone, email, or session id.
// Get returns nil (and no error) for an unknown user.
type UserStore interface {
	Get(ctx context.Context, userID string) (map[string]any, error)
	Save(ctx context.Context, userID string, profile map[string]any) error
	SetField(ctx context.Context, userID, field string, value any) error
	Exists(ctx context.Context, userID string) (bool, error)
	Delete(ctx context.Context, userID string) error
	Search(ctx context.Context, filters map[string]any) (map[string]map[string]any, error)
}

// conversationRecord is the stored shape of one session: its transcript plus
// the latest engine state snapshot.
type conversationRecord struct {
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Messages  []engine.ChatMessage `json:"messages"`
	State     *engine.State        `json:"state,omitempty"`
}

// matchesFilters reports whether a profile satisfies every filter entry.
func matchesFilters(profile, filters map[string]any) bool {
	for k, want := range filters {
		if profile[k] != want {
			return false
		}
	}
	return true
}
