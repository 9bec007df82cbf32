package engine

// Stage is a named point in the routing graph corresponding to one handler.
type Stage string

const (
	StageGreeting  Stage = "greeting"
	StageRouter    Stage = "router"
	StageCourse    Stage = "course"
	StageFees      Stage = "fees"
	StageAdmission Stage = "admission"
	StageFollowup  Stage = "followup"

	// StageTerminated means control returns to the caller pending the next
	// user input. It does not mean the conversation ended.
	StageTerminated Stage = "terminated"
)

// intentStages maps a classified intent onto the specialist stage that
// handles it. A general query is routed to followup so the session ends on a
// contact/engagement offer rather than a dead end.
var intentStages = map[Intent]Stage{
	IntentCourse:    StageCourse,
	IntentFees:      StageFees,
	IntentAdmission: StageAdmission,
	IntentFollowup:  StageFollowup,
	IntentGeneral:   StageFollowup,
}

// Next is the routing policy: a pure function of the current stage and the
// session state. It has no side effects.
//
// Edges:
//   - greeting -> router once a name has been captured, otherwise terminated
//     (the session is waiting for the user to supply a name)
//   - router -> specialist per current_intent, terminated when no user
//     message is pending (defensive, should not occur in a normal turn)
//   - specialist -> router while the newest message is still from the user,
//     otherwise terminated
//
// There is no edge back into greeting: once ready_for_inquiry is set the
// greeting stage short-circuits for the rest of the session.
func Next(from Stage, st *State) Stage {
	switch from {
	case StageGreeting:
		if st.ContextBool(KeyReadyForInquiry) {
			return StageRouter
		}
		return StageTerminated

	case StageRouter:
		last := st.LastMessage()
		if last == nil || last.Role != RoleUser {
			return StageTerminated
		}
		intent := NormalizeIntent(st.ContextString(KeyCurrentIntent))
		return intentStages[intent]

	case StageCourse, StageFees, StageAdmission, StageFollowup:
		if last := st.LastMessage(); last != nil && last.Role == RoleUser {
			return StageRouter
		}
		return StageTerminated

	default:
		return StageTerminated
	}
}
