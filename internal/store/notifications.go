package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Raikadier/Captus-sub002/internal/model"
)

// CreateNotification inserts a notification for the user.
func (s *Store) CreateNotification(ctx context.Context, userID, title, body, typ string) (*model.Notification, error) {
	notif := &model.Notification{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Type:      typ,
		CreatedAt: time.Now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, title, body, type, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		notif.ID, notif.UserID, notif.Title, notif.Body, notif.Type, formatTime(notif.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return notif, nil
}
