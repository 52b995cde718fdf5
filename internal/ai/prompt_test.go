package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextPrefix(t *testing.T) {
	require.Equal(t, "[CTX_TASKS]", ContextPrefix(IntentTasks))
	require.Equal(t, "[CTX_NOTES]", ContextPrefix(IntentNotes))
	require.Equal(t, "[CTX_EVENTS]", ContextPrefix(IntentEvents))
	require.Equal(t, "[CTX_NOTIFICATIONS]", ContextPrefix(IntentNotifications))
	require.Equal(t, "[CTX_GENERAL]", ContextPrefix(IntentGeneral))
	require.Equal(t, "[CTX_GENERAL]", ContextPrefix(Intent("bogus")))
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(IntentTasks, "user-42", "- [t1] buy milk")

	require.Contains(t, prompt, `"user-42"`)
	require.Contains(t, prompt, "[CTX_TASKS]")
	require.Contains(t, prompt, "CURRENT USER DATA:")
	require.Contains(t, prompt, "- [t1] buy milk")
	require.Contains(t, prompt, "Never invent identifiers or dates.")
}

func TestBuildSystemPromptWithoutContextData(t *testing.T) {
	prompt := BuildSystemPrompt(IntentGeneral, "user-42", "")

	require.Contains(t, prompt, "[CTX_GENERAL]")
	require.NotContains(t, prompt, "CURRENT USER DATA:")
}

func TestRouterSystemPromptNamesAllLabels(t *testing.T) {
	prompt := RouterSystemPrompt()
	for _, intent := range []Intent{IntentTasks, IntentNotes, IntentEvents, IntentNotifications, IntentGeneral} {
		require.Contains(t, prompt, string(intent))
	}
}
