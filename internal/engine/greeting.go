package engine

import "context"

const welcomeMessage = `Hello! Welcome to Parul University Admission Helpline.
I'm your AI admission assistant, here to help you with any questions about courses, fees, admission process, and scholarships.

May I know your name?`

// GreetingHandler welcomes the user and drives name capture. The actual name
// extraction from the raw message happens in the executor's pre-step, before
// the stage graph runs; this handler only reacts to the captured value.
type GreetingHandler struct{}

func (h *GreetingHandler) Name() string { return string(StageGreeting) }

func (h *GreetingHandler) Handle(_ context.Context, st *State) error {
	st.MarkVisited(h.Name())

	// Once greeted and routed, this stage is a no-op for the rest of the
	// session; Next short-circuits straight to the router.
	if st.UserInfoBool(InfoGreeted) && st.ContextBool(KeyReadyForInquiry) {
		return nil
	}

	name := st.UserInfoString(InfoName, "")
	if name == "" {
		if st.UserInfoBool(InfoGreeted) {
			// Already asked; keep waiting for the user's next message.
			return nil
		}
		st.AppendMessage(RoleAssistant, welcomeMessage)
		st.SetUserInfo(InfoGreeted, true)
		st.SetContext(KeyWaitingForName, true)
		return nil
	}

	menu := "Nice to meet you, " + name + `! I'm here to help you with information about:

- Courses and Programs
- Fees and Payment Options
- Admission Process and Requirements
- Scholarships and Financial Aid

How can I assist you today?`

	st.AppendMessage(RoleAssistant, menu)
	// A seeded profile name reaches here without the welcome step; the menu
	// counts as the greeting either way, so the no-op guard holds from now on.
	st.SetUserInfo(InfoGreeted, true)
	st.SetContext(KeyWaitingForName, false)
	st.SetContext(KeyReadyForInquiry, true)
	return nil
}
