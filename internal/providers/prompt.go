// Package providers implements engine.IntentClassifier over hosted LLM APIs:
// an OpenAI-compatible client (Groq, OpenAI, local servers) and an Anthropic
// client, plus an environment-keyed factory.
package providers

import (
	"fmt"
	"strings"

	"github.com/admitdesk/admitdesk/internal/engine"
)

// classifierSystemPrompt instructs the model to emit exactly one category
// label. The category set must stay in sync with engine's intent whitelist;
// out-of-set output is normalized to general by the router anyway.
const classifierSystemPrompt = `You are an intent classifier for a university admission helpline.
Classify the user's query into ONE of these categories:

1. "course" - Questions about courses, programs, syllabus, duration, eligibility, subjects
   Examples: "tell me about B.Tech", "what courses do you offer", "CSE syllabus"

2. "fees" - Questions about fee structure, payment, costs, discounts
   Examples: "how much is the fee", "payment options", "total cost"

3. "admission" - Questions about admission process, application, documents, deadlines
   Examples: "how to apply", "admission process", "required documents", "last date"

4. "followup" - User wants to schedule visit, get brochure, talk to counselor, provide contact
   Examples: "campus visit", "send brochure", "call me back", "my email is"

5. "general" - General questions, greetings, thank you, or unclear intent
   Examples: "hello", "thank you", "where is the university"

Respond with ONLY the category name, nothing else.`

// classifierTemperature is kept low for consistent classification.
const classifierTemperature = 0.3

// buildUserPrompt combines the session context with the query the way the
// classifier prompt expects.
func buildUserPrompt(query string, cc engine.ClassifierContext) string {
	var b strings.Builder
	if cc.UserName != "" {
		fmt.Fprintf(&b, "\nUser name: %s", cc.UserName)
	}
	if len(cc.Topics) > 0 {
		fmt.Fprintf(&b, "\nPrevious topics: %s", strings.Join(cc.Topics, ", "))
	}
	fmt.Fprintf(&b, "\n\nUser query: %s", query)
	return b.String()
}
