package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/llm"
	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/tool"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
	"github.com/Raikadier/Captus-sub002/pkg/metrics"
)

// reasoningTemperature biases the model toward deterministic tool selection
// over creative text.
const reasoningTemperature = 0.1

// Dispatcher executes one named tool for a user and returns its envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, name tool.Name, rawArgs []byte, userID string) model.Result
}

// ContextFetcher supplies a summary of the user's current records for the
// reasoning prompt.
type ContextFetcher interface {
	Fetch(ctx context.Context, intent Intent, userID string) string
}

// Outcome is the normalized result of one orchestrated turn.
// ActionPerformed is empty when no tool ran or the requested tool failed.
type Outcome struct {
	ResultText      string
	ActionPerformed string
	Data            any
}

// Params configures an Orchestrator. Fast may be nil; general-intent turns
// then use the reasoning client. Model names may be empty for provider
// defaults.
type Params struct {
	Reasoning      llm.Client
	Fast           llm.Client
	ReasoningModel string
	FastModel      string
}

// Orchestrator drives one chat turn: prompt construction, the model call
// with the tool catalog, tool dispatch with JSON-recovery fallback, and the
// conversational fallback. At most one tool is dispatched per turn; that is
// a stated constraint of this contract, not an accident of taking the first
// array element.
type Orchestrator struct {
	reasoning      llm.Client
	fast           llm.Client
	reasoningModel string
	fastModel      string
	dispatcher     Dispatcher
	contexts       ContextFetcher
	logger         *logger.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(p Params, dispatcher Dispatcher, contexts ContextFetcher, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		reasoning:      p.Reasoning,
		fast:           p.Fast,
		reasoningModel: p.ReasoningModel,
		fastModel:      p.FastModel,
		dispatcher:     dispatcher,
		contexts:       contexts,
		logger:         log,
	}
}

// Respond processes one user message. Expected action failures come back
// inside the Outcome; only infrastructure failures (model unreachable)
// return an error.
func (o *Orchestrator) Respond(ctx context.Context, userID, message string, intent Intent) (*Outcome, error) {
	if userID == "" {
		return nil, errors.New("user identity is required")
	}

	// Pure chit-chat skips tool exposure entirely; no reasoning-grade
	// call is spent on it.
	if intent == IntentGeneral {
		return o.quickReply(ctx, userID, message)
	}

	var contextData string
	if o.contexts != nil {
		contextData = o.contexts.Fetch(ctx, intent, userID)
	}

	resp, err := o.reasoning.Complete(ctx, &llm.CompletionRequest{
		Model:       o.reasoningModel,
		System:      BuildSystemPrompt(intent, userID, contextData),
		Messages:    []llm.ChatMessage{{Role: "user", Content: message}},
		Temperature: reasoningTemperature,
		Tools:       tool.Definitions(),
	})
	if err != nil {
		return nil, fmt.Errorf("reasoning call: %w", err)
	}

	if len(resp.ToolCalls) > 0 {
		if len(resp.ToolCalls) > 1 {
			o.logger.Warn("model requested multiple tools, dispatching only the first",
				zap.Int("requested", len(resp.ToolCalls)),
				zap.String("tool", resp.ToolCalls[0].Name),
			)
		}
		call := resp.ToolCalls[0]
		metrics.OrchestratorBranchTotal.WithLabelValues("native_tool").Inc()
		return o.dispatch(ctx, tool.Name(call.Name), []byte(call.Arguments), userID), nil
	}

	if recovered, ok := ExtractToolCall(resp.Content); ok {
		metrics.OrchestratorBranchTotal.WithLabelValues("recovered_tool").Inc()
		return o.dispatch(ctx, tool.Name(recovered.Tool), recovered.Args, userID), nil
	}

	metrics.OrchestratorBranchTotal.WithLabelValues("conversational").Inc()
	return &Outcome{ResultText: resp.Content}, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, name tool.Name, rawArgs []byte, userID string) *Outcome {
	res := o.dispatcher.Dispatch(ctx, name, rawArgs, userID)
	if !res.Success {
		o.logger.Info("tool dispatch failed",
			zap.String("tool", string(name)),
			zap.String("reason", res.Message),
		)
		return &Outcome{
			ResultText: fmt.Sprintf("I'm sorry, I couldn't complete the action %q. %s", string(name), res.Message),
		}
	}

	o.logger.Info("tool dispatched", zap.String("tool", string(name)))
	return &Outcome{
		ResultText:      res.Message,
		ActionPerformed: string(name),
		Data:            res.Data,
	}
}

func (o *Orchestrator) quickReply(ctx context.Context, userID, message string) (*Outcome, error) {
	client := o.fast
	modelName := o.fastModel
	if client == nil {
		client = o.reasoning
		modelName = o.reasoningModel
	}

	resp, err := client.Complete(ctx, &llm.CompletionRequest{
		Model:    modelName,
		System:   BuildSystemPrompt(IntentGeneral, userID, ""),
		Messages: []llm.ChatMessage{{Role: "user", Content: message}},
	})
	if err != nil {
		return nil, fmt.Errorf("conversational call: %w", err)
	}

	metrics.OrchestratorBranchTotal.WithLabelValues("general").Inc()
	return &Outcome{ResultText: resp.Content}, nil
}
