package engine

import (
	"context"
	"log"
	"strings"
	"time"
)

// classifyTimeout bounds a single classifier call. A slow or dead classifier
// degrades the turn to a general intent instead of stalling it.
const classifyTimeout = 10 * time.Second

// RouterHandler classifies the pending user message and records the chosen
// intent for the transition policy to consume. It produces no reply of its
// own and never lets a classifier failure escape: any error or
// out-of-whitelist label degrades to the general intent.
type RouterHandler struct {
	classifier IntentClassifier
}

// NewRouterHandler creates a router backed by the given classifier.
func NewRouterHandler(classifier IntentClassifier) *RouterHandler {
	return &RouterHandler{classifier: classifier}
}

func (h *RouterHandler) Name() string { return string(StageRouter) }

func (h *RouterHandler) Handle(ctx context.Context, st *State) error {
	st.MarkVisited(h.Name())

	last := st.LastMessage()
	if last == nil || last.Role != RoleUser {
		return nil
	}

	intent := h.classify(ctx, last.Content, st)
	st.SetContext(KeyCurrentIntent, string(intent))
	st.SetContext(KeyNextAgent, string(intent))

	log.Printf("router: classified intent=%s query=%q", intent, truncate(last.Content, 50))
	return nil
}

func (h *RouterHandler) classify(ctx context.Context, query string, st *State) Intent {
	if h.classifier == nil {
		return IntentGeneral
	}

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	raw, err := h.classifier.Classify(ctx, query, ClassifierContext{
		UserName: st.UserInfoString(InfoName, ""),
		Topics:   st.TopicsDiscussed,
	})
	if err != nil {
		log.Printf("router: classifier error, defaulting to general: %v", err)
		return IntentGeneral
	}

	intent := NormalizeIntent(raw)
	if string(intent) != strings.ToLower(strings.TrimSpace(raw)) {
		log.Printf("router: invalid intent %q, defaulting to general", raw)
	}
	return intent
}

// multiIntentKeywords powers DetectMultiIntent. Advisory only; routing always
// follows the single classified intent.
var multiIntentKeywords = map[Intent][]string{
	IntentCourse:    {"course", "program", "syllabus", "subjects", "btech", "mba", "bba"},
	IntentFees:      {"fees", "cost", "payment", "price", "scholarship"},
	IntentAdmission: {"admission", "apply", "application", "documents", "deadline"},
}

// DetectMultiIntent reports whether a query appears to span more than one
// intent category, e.g. "tell me about B.Tech fees and admission process".
func DetectMultiIntent(query string) bool {
	lower := strings.ToLower(query)
	detected := 0
	for _, words := range multiIntentKeywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				detected++
				break
			}
		}
	}
	return detected > 1
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
