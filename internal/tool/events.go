package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/store"
)

func (r *Registry) createEvent(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args CreateEventArgs
	decodeArgs(raw, &args)

	if strings.TrimSpace(args.Title) == "" {
		return model.Fail("A title is required to create an event.")
	}
	if strings.TrimSpace(args.StartDate) == "" {
		return model.Fail("A start date is required to create an event.")
	}

	start, err := parseDate(args.StartDate)
	if err != nil {
		return model.Fail("The start date could not be understood. Use an ISO date like 2025-04-30T15:00:00Z.")
	}

	var end *time.Time
	if args.EndDate != "" {
		t, err := parseDate(args.EndDate)
		if err != nil {
			return model.Fail("The end date could not be understood. Use an ISO date like 2025-04-30T16:00:00Z.")
		}
		end = &t
	}

	event, err := r.store.CreateEvent(ctx, userID, &model.Event{
		Title:       strings.TrimSpace(args.Title),
		Description: args.Description,
		Type:        strings.TrimSpace(args.Type),
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		r.logger.Error("create event failed", zap.Error(err))
		return model.Fail("The event could not be saved. Please try again.")
	}

	return model.Ok(fmt.Sprintf("Event %q scheduled for %s.", event.Title, event.StartDate.Format("2006-01-02 15:04")), event)
}

func (r *Registry) listEvents(ctx context.Context, userID string) model.Result {
	events, err := r.store.ListUpcomingEvents(ctx, userID, time.Now())
	if err != nil {
		r.logger.Error("list events failed", zap.Error(err))
		return model.Fail("Your events could not be loaded. Please try again.")
	}

	if len(events) == 0 {
		return model.Ok("You have no upcoming events.", []model.Event{})
	}

	var b strings.Builder
	b.WriteString("Your upcoming events are:\n")
	for _, e := range events {
		fmt.Fprintf(&b, "- %q on %s (ID: %s)\n", e.Title, e.StartDate.Format("2006-01-02 15:04"), e.ID)
	}
	return model.Ok(strings.TrimRight(b.String(), "\n"), events)
}

func (r *Registry) updateEvent(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args UpdateEventArgs
	decodeArgs(raw, &args)

	if args.EventID == "" {
		return model.Fail("An event ID is required to update an event.")
	}

	var start, end *time.Time
	if args.StartDate != "" {
		t, err := parseDate(args.StartDate)
		if err != nil {
			return model.Fail("The start date could not be understood.")
		}
		start = &t
	}
	if args.EndDate != "" {
		t, err := parseDate(args.EndDate)
		if err != nil {
			return model.Fail("The end date could not be understood.")
		}
		end = &t
	}

	event, err := r.store.UpdateEvent(ctx, userID, string(args.EventID), args.Title, args.Description, start, end)
	if errors.Is(err, store.ErrNotFound) {
		return model.Fail("No event with that ID was found.")
	}
	if err != nil {
		r.logger.Error("update event failed", zap.Error(err))
		return model.Fail("The event could not be updated. Please try again.")
	}

	return model.Ok(fmt.Sprintf("Event %q updated.", event.Title), event)
}

func (r *Registry) deleteEvent(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args DeleteEventArgs
	decodeArgs(raw, &args)

	if args.EventID == "" {
		return model.Fail("An event ID is required to delete an event.")
	}

	err := r.store.DeleteEvent(ctx, userID, string(args.EventID))
	if errors.Is(err, store.ErrNotFound) {
		return model.Fail("No event with that ID was found.")
	}
	if err != nil {
		r.logger.Error("delete event failed", zap.Error(err))
		return model.Fail("The event could not be deleted. Please try again.")
	}

	return model.Ok("Event deleted.", nil)
}
