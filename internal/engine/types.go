// Package engine implements the conversation routing core: session state,
// the stage transition policy, the per-stage handlers, and the turn executor
// that walks the stage graph for each user message.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MessageRole represents the role of a transcript message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one entry in a session transcript.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// Validate checks if the ChatMessage is valid.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("invalid message role: %s", m.Role)
	}
}

// Intent is the five-way classification label driving specialist routing.
type Intent string

const (
	IntentCourse    Intent = "course"
	IntentFees      Intent = "fees"
	IntentAdmission Intent = "admission"
	IntentFollowup  Intent = "followup"
	IntentGeneral   Intent = "general"
)

// NormalizeIntent maps a raw classifier label onto the closed intent set.
// Anything outside the whitelist (including empty or garbage output) becomes
// IntentGeneral.
func NormalizeIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentCourse:
		return IntentCourse
	case IntentFees:
		return IntentFees
	case IntentAdmission:
		return IntentAdmission
	case IntentFollowup:
		return IntentFollowup
	default:
		return IntentGeneral
	}
}

// ClassifierContext carries lightweight session context that helps the
// external classifier disambiguate short queries.
type ClassifierContext struct {
	UserName string
	Topics   []string
}

// IntentClassifier abstracts the hosted LLM used for intent classification.
// Implementations return the raw label text; normalization and failure
// fallback belong to the router handler.
type IntentClassifier interface {
	Classify(ctx context.Context, query string, cc ClassifierContext) (string, error)
}
