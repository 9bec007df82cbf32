package engine

import (
	"context"
	"fmt"
	"log"
)

// maxTransitions bounds one walk of the stage graph. A normal turn visits at
// most three stages (greeting, router, specialist); anything near the bound
// means a stage kept re-queuing the same user message.
const maxTransitions = 10

// apologyMessage is appended when a turn fails inside a handler or the stage
// graph. The turn still returns a valid state; mutations applied before the
// fault are kept.
const apologyMessage = "I apologize, but I encountered an error. Please try again or contact our helpline at 1800-123-4567."

// Executor drives one user-message turn: it appends the input, runs the stage
// graph to quiescence, and returns the resulting state. A single Executor is
// safe for concurrent use across sessions; each call owns its state value.
type Executor struct {
	handlers map[Stage]Handler
}

// NewExecutor wires the stage graph: greeting, router, and the four
// specialists.
func NewExecutor(classifier IntentClassifier, kb Knowledge) *Executor {
	return &Executor{
		handlers: map[Stage]Handler{
			StageGreeting:  &GreetingHandler{},
			StageRouter:    NewRouterHandler(classifier),
			StageCourse:    NewCourseHandler(kb),
			StageFees:      NewFeesHandler(kb),
			StageAdmission: &AdmissionHandler{},
			StageFollowup:  NewFollowupHandler(kb),
		},
	}
}

// ProcessMessage runs one turn. prior is the persisted state from the last
// turn, or nil for a brand-new session. The returned state is never nil, even
// when a handler fails: the fault path appends a fixed apology reply and
// keeps whatever mutations were already applied. ConversationCount increases
// by exactly one per call regardless of how many stages were traversed.
func (e *Executor) ProcessMessage(ctx context.Context, sessionID, userMessage string, prior *State) *State {
	st := prior
	if st == nil {
		st = NewState(sessionID)
	}

	// Name capture pre-step: the previous turn asked for the user's name, so
	// this raw message is the answer. Runs before the stage graph so the
	// greeting handler sees the captured value.
	if st.ContextBool(KeyWaitingForName) {
		name := ExtractName(userMessage)
		st.SetUserInfo(InfoName, name)
		st.SetContext(KeyWaitingForName, false)
		log.Printf("executor: captured user name: %s", name)
	}

	st.AppendMessage(RoleUser, userMessage)

	if err := e.walk(ctx, st); err != nil {
		log.Printf("executor: turn failed for session %s: %v", sessionID, err)
		st.AppendMessage(RoleAssistant, apologyMessage)
	}

	st.ConversationCount++
	log.Printf("executor: processed message for session %s, conversation count: %d",
		sessionID, st.ConversationCount)
	return st
}

// walk runs the stage graph from greeting until the policy terminates or the
// transition bound trips. Handler panics are converted to errors here so a
// misbehaving stage can never take down the process.
func (e *Executor) walk(ctx context.Context, st *State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panicked: %v", r)
		}
	}()

	stage := StageGreeting
	for i := 0; i < maxTransitions; i++ {
		if stage == StageTerminated {
			return nil
		}

		handler, ok := e.handlers[stage]
		if !ok {
			return fmt.Errorf("no handler for stage %s", stage)
		}
		if err := handler.Handle(ctx, st); err != nil {
			return fmt.Errorf("stage %s failed: %w", stage, err)
		}

		stage = Next(stage, st)
	}
	return fmt.Errorf("stage graph did not terminate after %d transitions", maxTransitions)
}
