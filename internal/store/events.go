package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Raikadier/Captus-sub002/internal/model"
)

const eventColumns = "id, user_id, title, description, type, start_date, end_date, created_at, updated_at"

// CreateEvent inserts a new calendar event for the user.
func (s *Store) CreateEvent(ctx context.Context, userID string, event *model.Event) (*model.Event, error) {
	now := time.Now()
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.UserID = userID
	if event.Type == "" {
		event.Type = "personal"
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, user_id, title, description, type, start_date, end_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Title, event.Description, event.Type,
		formatTime(event.StartDate), formatNullableTime(event.EndDate),
		formatTime(event.CreatedAt), formatTime(event.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// ListUpcomingEvents returns the user's events starting at or after now,
// soonest first.
func (s *Store) ListUpcomingEvents(ctx context.Context, userID string, now time.Time) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = ? AND start_date >= ? ORDER BY start_date ASC`,
		userID, formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// UpdateEvent rewrites the given fields of the user's event. Empty strings
// and nil dates keep the stored values. ErrNotFound when the event does not
// belong to the user.
func (s *Store) UpdateEvent(ctx context.Context, userID, eventID, title, description string, startDate, endDate *time.Time) (*model.Event, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events
		 SET title = COALESCE(NULLIF(?, ''), title),
		     description = COALESCE(NULLIF(?, ''), description),
		     start_date = COALESCE(?, start_date),
		     end_date = COALESCE(?, end_date),
		     updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		title, description, formatNullableTime(startDate), formatNullableTime(endDate),
		formatTime(time.Now()), eventID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ? AND user_id = ?`, eventID, userID,
	)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes the user's event. ErrNotFound when nothing was deleted.
func (s *Store) DeleteEvent(ctx context.Context, userID, eventID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = ? AND user_id = ?`, eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var event model.Event
	var endDate sql.NullString
	var startDate, createdAt, updatedAt string

	if err := row.Scan(&event.ID, &event.UserID, &event.Title, &event.Description, &event.Type, &startDate, &endDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	event.StartDate = parseTime(startDate)
	event.EndDate = parseNullableTime(endDate)
	event.CreatedAt = parseTime(createdAt)
	event.UpdatedAt = parseTime(updatedAt)
	return &event, nil
}
