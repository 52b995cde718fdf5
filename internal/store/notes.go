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

const noteColumns = "id, user_id, title, content, created_at, updated_at"

// CreateNote inserts a new note for the user.
func (s *Store) CreateNote(ctx context.Context, userID, title, content string) (*model.Note, error) {
	now := time.Now()
	note := &model.Note{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.UserID, note.Title, note.Content, formatTime(note.CreatedAt), formatTime(note.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return note, nil
}

// ListNotes returns the user's notes, most recently updated first.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id = ? ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

// UpdateNote rewrites the given fields of the user's note. Empty title or
// content keeps the stored value. ErrNotFound when the note does not belong
// to the user.
func (s *Store) UpdateNote(ctx context.Context, userID, noteID, title, content string) (*model.Note, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes
		 SET title = COALESCE(NULLIF(?, ''), title),
		     content = COALESCE(NULLIF(?, ''), content),
		     updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		title, content, formatTime(time.Now()), noteID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`, noteID, userID,
	)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return note, nil
}

// DeleteNote removes the user's note. ErrNotFound when nothing was deleted.
func (s *Store) DeleteNote(ctx context.Context, userID, noteID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, noteID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNote(row rowScanner) (*model.Note, error) {
	var note model.Note
	var createdAt, updatedAt string

	if err := row.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	note.CreatedAt = parseTime(createdAt)
	note.UpdatedAt = parseTime(updatedAt)
	return &note, nil
}
