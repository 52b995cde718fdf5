package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/store"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

// ConversationService exposes conversation history reads. Expiry is lazy:
// conversations older than the retention window are purged when the owner
// lists, not by a background job.
type ConversationService struct {
	store     *store.Store
	retention time.Duration
	logger    *logger.Logger
}

// NewConversationService creates a conversation service with the given
// retention window.
func NewConversationService(st *store.Store, retention time.Duration, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:     st,
		retention: retention,
		logger:    log,
	}
}

// List purges the caller's expired conversations and returns the survivors,
// most recently active first.
func (s *ConversationService) List(ctx context.Context, userID string) ([]model.Conversation, error) {
	cutoff := time.Now().Add(-s.retention)
	purged, err := s.store.DeleteExpiredConversations(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("purge expired conversations: %w", err)
	}
	if purged > 0 {
		s.logger.Info("expired conversations purged",
			zap.String("user_id", userID),
			zap.Int64("count", purged),
		)
	}

	convs, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// Messages returns a conversation's transcript in chronological order.
// Returns store.ErrNotFound when the conversation does not exist or belongs
// to another user.
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string) ([]model.Message, error) {
	if _, err := s.store.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}
