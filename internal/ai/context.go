package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/store"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

const (
	contextTaskLimit  = 10
	contextNoteLimit  = 5
	contextEventLimit = 5
)

// ContextProvider fetches a compact summary of the user's current records
// for the classified intent, injected into the reasoning prompt. Failures
// degrade to no context; the turn still proceeds.
type ContextProvider struct {
	store  *store.Store
	logger *logger.Logger
}

// NewContextProvider creates a context provider.
func NewContextProvider(st *store.Store, log *logger.Logger) *ContextProvider {
	return &ContextProvider{store: st, logger: log}
}

// Fetch returns context data for the intent, or "" when there is none.
func (p *ContextProvider) Fetch(ctx context.Context, intent Intent, userID string) string {
	switch intent {
	case IntentTasks:
		tasks, err := p.store.ListOpenTasks(ctx, userID)
		if err != nil {
			p.logger.Warn("context fetch failed", zap.String("intent", string(intent)), zap.Error(err))
			return ""
		}
		if len(tasks) == 0 {
			return "The user has no pending tasks."
		}
		if len(tasks) > contextTaskLimit {
			tasks = tasks[:contextTaskLimit]
		}
		var b strings.Builder
		for _, t := range tasks {
			due := "no due date"
			if t.DueDate != nil {
				due = t.DueDate.Format("2006-01-02")
			}
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", t.ID, t.Title, due)
		}
		return strings.TrimRight(b.String(), "\n")

	case IntentNotes:
		notes, err := p.store.ListNotes(ctx, userID)
		if err != nil {
			p.logger.Warn("context fetch failed", zap.String("intent", string(intent)), zap.Error(err))
			return ""
		}
		if len(notes) == 0 {
			return "The user has no notes."
		}
		if len(notes) > contextNoteLimit {
			notes = notes[:contextNoteLimit]
		}
		var b strings.Builder
		for _, n := range notes {
			fmt.Fprintf(&b, "- [%s] %s\n", n.ID, n.Title)
		}
		return strings.TrimRight(b.String(), "\n")

	case IntentEvents:
		events, err := p.store.ListUpcomingEvents(ctx, userID, time.Now())
		if err != nil {
			p.logger.Warn("context fetch failed", zap.String("intent", string(intent)), zap.Error(err))
			return ""
		}
		if len(events) == 0 {
			return "The user has no upcoming events."
		}
		if len(events) > contextEventLimit {
			events = events[:contextEventLimit]
		}
		var b strings.Builder
		for _, e := range events {
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", e.ID, e.Title, e.StartDate.Format("2006-01-02 15:04"))
		}
		return strings.TrimRight(b.String(), "\n")

	default:
		return ""
	}
}
