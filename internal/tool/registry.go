package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/store"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
	"github.com/Raikadier/Captus-sub002/pkg/metrics"
)

// Publisher fans a notification out to interested consumers. A nil Publisher
// disables fan-out; the notification is still stored.
type Publisher interface {
	Publish(ctx context.Context, notif *model.Notification) error
}

// Registry executes tools against the user's own data. Every handler scopes
// reads and writes to the calling userID and returns a Result envelope;
// expected failures never surface as errors.
type Registry struct {
	store     *store.Store
	publisher Publisher
	logger    *logger.Logger
}

// NewRegistry creates a tool registry.
func NewRegistry(st *store.Store, publisher Publisher, log *logger.Logger) *Registry {
	return &Registry{
		store:     st,
		publisher: publisher,
		logger:    log,
	}
}

// Dispatch normalizes the raw argument payload and executes the named tool
// for userID. Unknown names yield a failure envelope, never a panic or
// error. Callers invoke Dispatch at most once per chat turn.
func (r *Registry) Dispatch(ctx context.Context, name Name, rawArgs []byte, userID string) model.Result {
	args := NormalizeArgs(rawArgs)

	var res model.Result
	switch name {
	case CreateTask:
		res = r.createTask(ctx, args, userID)
	case ListTasks:
		res = r.listTasks(ctx, userID)
	case CompleteTask:
		res = r.completeTask(ctx, args, userID)
	case CreateNote:
		res = r.createNote(ctx, args, userID)
	case ListNotes:
		res = r.listNotes(ctx, userID)
	case UpdateNote:
		res = r.updateNote(ctx, args, userID)
	case DeleteNote:
		res = r.deleteNote(ctx, args, userID)
	case CreateEvent:
		res = r.createEvent(ctx, args, userID)
	case ListEvents:
		res = r.listEvents(ctx, userID)
	case UpdateEvent:
		res = r.updateEvent(ctx, args, userID)
	case DeleteEvent:
		res = r.deleteEvent(ctx, args, userID)
	case SendNotification:
		res = r.sendNotification(ctx, args, userID)
	default:
		r.logger.Warn("unknown tool requested", zap.String("tool", string(name)))
		res = model.Fail(fmt.Sprintf("The action %q is not available.", string(name)))
	}

	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	metrics.ToolDispatchTotal.WithLabelValues(string(name), outcome).Inc()

	return res
}

// NormalizeArgs coerces a raw argument payload into a JSON object. Payloads
// that arrive as a JSON-encoded string are unwrapped; anything malformed
// degrades to an empty object so validation inside the handler reports the
// missing fields instead of the transport noise.
func NormalizeArgs(raw []byte) json.RawMessage {
	empty := json.RawMessage(`{}`)
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return empty
	}

	if strings.HasPrefix(trimmed, "{") {
		if json.Valid([]byte(trimmed)) {
			return json.RawMessage(trimmed)
		}
		return empty
	}

	// A quoted string may carry a double-encoded object.
	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
		inner = strings.TrimSpace(inner)
		if strings.HasPrefix(inner, "{") && json.Valid([]byte(inner)) {
			return json.RawMessage(inner)
		}
	}

	return empty
}

// decodeArgs fills the typed argument struct. Decoding failures leave the
// zero value in place; required-field validation produces the user-facing
// message.
func decodeArgs(raw json.RawMessage, v any) {
	_ = json.Unmarshal(raw, v)
}

// parseDate accepts ISO dates with or without a time component.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
