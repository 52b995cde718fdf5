package ai

import (
	"fmt"
	"strings"
)

// contextPrefixes scope the reasoning prompt to the classified intent.
var contextPrefixes = map[Intent]string{
	IntentTasks:         "[CTX_TASKS]",
	IntentNotes:         "[CTX_NOTES]",
	IntentEvents:        "[CTX_EVENTS]",
	IntentNotifications: "[CTX_NOTIFICATIONS]",
	IntentGeneral:       "[CTX_GENERAL]",
}

// ContextPrefix returns the prompt prefix for an intent.
func ContextPrefix(intent Intent) string {
	if p, ok := contextPrefixes[intent]; ok {
		return p
	}
	return contextPrefixes[IntentGeneral]
}

// RouterSystemPrompt is the instruction for the classification call. The
// output contract is a single label; the router treats anything else as
// general.
func RouterSystemPrompt() string {
	return strings.TrimSpace(`
You classify a user's request for Captus, a student productivity assistant.
Reply with exactly one of these labels and nothing else:
- tasks: create, list, complete, or update tasks
- notes: create, list, or edit notes
- events: create, list, or edit calendar events
- notifications: reminders and alerts
- general: normal conversation, tutoring, or anything without an action
If you are unsure, reply general.
`)
}

// BuildSystemPrompt constructs the system instruction for the reasoning
// call. contextData, when present, is a compact summary of the user's
// current records so the model can answer list questions without a tool
// round-trip.
func BuildSystemPrompt(intent Intent, userID, contextData string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are Captus, the assistant for the user with ID %q.\n", userID)
	fmt.Fprintf(&b, "Context: %s\n", ContextPrefix(intent))

	if contextData != "" {
		b.WriteString("\nCURRENT USER DATA:\n")
		b.WriteString(contextData)
		b.WriteString("\n")
	}

	b.WriteString(strings.TrimSpace(`
RULES:
- Use a tool only when the user asks for an action and you have the data the tool requires.
- If the user asks about information already present in CURRENT USER DATA, answer from it directly; do not call a listing tool.
- If the user is just chatting or asking something informational, answer naturally without tools.
- Ask only for required fields. For optional fields apply the documented defaults (empty description, event type personal) and say so in one line before acting.
- Never invent identifiers or dates.
- The user ID is supplied by the server. Never ask for it or infer it.
- Never print tool-shaped JSON as conversational text; if you are not executing a tool, reply with plain text only.
`))

	return b.String()
}
