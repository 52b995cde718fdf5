package tool

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/model"
)

func (r *Registry) sendNotification(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args SendNotificationArgs
	decodeArgs(raw, &args)

	if strings.TrimSpace(args.Message) == "" {
		return model.Fail("A message is required to send a notification.")
	}

	notif, err := r.store.CreateNotification(ctx, userID, "Assistant notification", strings.TrimSpace(args.Message), "system")
	if err != nil {
		r.logger.Error("create notification failed", zap.Error(err))
		return model.Fail("The notification could not be sent. Please try again.")
	}

	// Fan-out is best effort; the notification is already stored.
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, notif); err != nil {
			r.logger.Warn("notification publish failed", zap.Error(err))
		}
	}

	return model.Ok("Notification sent.", notif)
}
