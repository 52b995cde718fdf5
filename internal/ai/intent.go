package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/llm"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
	"github.com/Raikadier/Captus-sub002/pkg/metrics"
)

// Intent is a coarse classification of a user message. It scopes prompt
// construction only; the tool catalog is never filtered by intent.
type Intent string

const (
	IntentTasks         Intent = "tasks"
	IntentNotes         Intent = "notes"
	IntentEvents        Intent = "events"
	IntentNotifications Intent = "notifications"
	IntentGeneral       Intent = "general"
)

var validIntents = map[Intent]bool{
	IntentTasks:         true,
	IntentNotes:         true,
	IntentEvents:        true,
	IntentNotifications: true,
	IntentGeneral:       true,
}

// Router classifies user messages into the closed intent set with a single
// model call.
type Router struct {
	client llm.Client
	model  string
	logger *logger.Logger
}

// NewRouter creates an intent router. model may be empty to use the
// provider default.
func NewRouter(client llm.Client, model string, log *logger.Logger) *Router {
	return &Router{
		client: client,
		model:  model,
		logger: log,
	}
}

// Classify returns the intent of message. Anything that is not exactly a
// label from the closed set degrades to general: a misclassification must
// mean "just talk", never "guess and mutate data". Model errors degrade the
// same way.
func (r *Router) Classify(ctx context.Context, message string) Intent {
	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Model:     r.model,
		System:    RouterSystemPrompt(),
		Messages:  []llm.ChatMessage{{Role: "user", Content: message}},
		MaxTokens: 16,
	})
	if err != nil {
		r.logger.Warn("intent classification failed, defaulting to general", zap.Error(err))
		metrics.IntentTotal.WithLabelValues(string(IntentGeneral)).Inc()
		return IntentGeneral
	}

	intent := ParseIntent(resp.Content)
	metrics.IntentTotal.WithLabelValues(string(intent)).Inc()
	return intent
}

// ParseIntent maps raw model output onto the closed intent set. The label
// may be wrapped in whitespace, quotes, or trailing punctuation; any output
// that is not exactly one label yields general.
func ParseIntent(raw string) Intent {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.Trim(label, "\"'`.")

	if intent := Intent(label); validIntents[intent] {
		return intent
	}
	return IntentGeneral
}
