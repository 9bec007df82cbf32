package engine

import "time"

// Context keys used by the routing policy and handlers. The Context map is
// open for knowledge-base cross-references, but routing decisions only ever
// read the keys listed here.
const (
	KeyWaitingForName        = "waiting_for_name"
	KeyReadyForInquiry       = "ready_for_inquiry"
	KeyCurrentIntent         = "current_intent"
	KeyNextAgent             = "next_agent"
	KeySelectedCourse        = "selected_course"
	KeyScholarshipPercentage = "scholarship_percentage"
)

// User info keys accumulated across a session.
const (
	InfoName    = "name"
	InfoEmail   = "email"
	InfoPhone   = "phone"
	InfoGreeted = "greeted"
	InfoUserID  = "user_id"
)

// State is the mutable session record threaded through a turn. It is owned
// exclusively by the Executor while a turn runs and persisted by the
// conversation manager between turns.
type State struct {
	SessionID         string         `json:"session_id"`
	Messages          []ChatMessage  `json:"messages"`
	UserInfo          map[string]any `json:"user_info"`
	Context           map[string]any `json:"context"`
	VisitedAgents     []string       `json:"visited_agents"`
	TopicsDiscussed   []string       `json:"topics_discussed"`
	ConversationCount int            `json:"conversation_count"`
	Ended             bool           `json:"ended"`
}

// NewState creates an empty session state.
func NewState(sessionID string) *State {
	return &State{
		SessionID:       sessionID,
		Messages:        []ChatMessage{},
		UserInfo:        map[string]any{},
		Context:         map[string]any{},
		VisitedAgents:   []string{},
		TopicsDiscussed: []string{},
	}
}

// AppendMessage appends a transcript entry. Messages are append-only; nothing
// is ever rewritten or removed.
func (s *State) AppendMessage(role MessageRole, content string) {
	s.Messages = append(s.Messages, ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// LastMessage returns the most recent transcript entry, or nil when empty.
func (s *State) LastMessage() *ChatMessage {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// SetUserInfo writes a single profile field.
func (s *State) SetUserInfo(key string, value any) {
	if s.UserInfo == nil {
		s.UserInfo = map[string]any{}
	}
	s.UserInfo[key] = value
}

// UserInfoString returns a profile field as a string, or fallback when absent.
func (s *State) UserInfoString(key, fallback string) string {
	if v, ok := s.UserInfo[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// UserInfoBool returns a boolean profile field, false when absent.
func (s *State) UserInfoBool(key string) bool {
	v, _ := s.UserInfo[key].(bool)
	return v
}

// SetContext writes a single routing flag.
func (s *State) SetContext(key string, value any) {
	if s.Context == nil {
		s.Context = map[string]any{}
	}
	s.Context[key] = value
}

// ContextString returns a routing flag as a string, "" when absent.
func (s *State) ContextString(key string) string {
	v, _ := s.Context[key].(string)
	return v
}

// ContextBool returns a boolean routing flag, false when absent.
func (s *State) ContextBool(key string) bool {
	v, _ := s.Context[key].(bool)
	return v
}

// MarkVisited records a stage name in the visited set. Idempotent.
func (s *State) MarkVisited(name string) {
	for _, v := range s.VisitedAgents {
		if v == name {
			return
		}
	}
	s.VisitedAgents = append(s.VisitedAgents, name)
}

// AddTopic records a topic label in first-occurrence order. Idempotent.
func (s *State) AddTopic(label string) {
	for _, t := range s.TopicsDiscussed {
		if t == label {
			return
		}
	}
	s.TopicsDiscussed = append(s.TopicsDiscussed, label)
}
