package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/Raikadier/Captus-sub002/internal/model"
)

const (
	// StreamName is the JetStream stream for notification fan-out.
	StreamName = "NOTIFICATIONS"
	// SubjectPrefix is the subject prefix for notification messages.
	SubjectPrefix = "notify"
)

// Notifier publishes assistant notifications to JetStream so other app
// surfaces (web push, email digests) can consume them. A nil Notifier is
// valid and drops everything.
type Notifier struct {
	client *Client
}

// NewNotifier creates a notifier on an established NATS client.
func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

// EnsureStream ensures the notifications stream exists.
func (n *Notifier) EnsureStream(ctx context.Context) error {
	js := n.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Assistant notifications awaiting delivery",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// NotificationSubject returns the subject for a user's notifications.
func NotificationSubject(userID string) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, userID)
}

// Publish publishes a notification. Safe to call on a nil Notifier.
func (n *Notifier) Publish(ctx context.Context, notif *model.Notification) error {
	if n == nil || n.client == nil {
		return nil
	}

	data, err := json.Marshal(notif)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if _, err := n.client.JetStream().Publish(ctx, NotificationSubject(notif.UserID), data); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
