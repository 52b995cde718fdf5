// Package service provides business logic tying conversation persistence to
// the orchestration core.
package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/ai"
	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/store"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

const (
	// placeholderTitle is assigned at creation and rewritten once from the
	// first user message.
	placeholderTitle = "New conversation"

	// titleRuneLimit caps derived titles; longer first messages are cut and
	// marked with an ellipsis.
	titleRuneLimit = 50
)

// ChatService processes one chat turn: it resolves the conversation,
// persists the transcript, and delegates the reply to the orchestrator.
//
// Two near-simultaneous messages without a conversation id may create two
// conversations; turns are independent and no cross-turn lock is taken.
type ChatService struct {
	store        *store.Store
	router       *ai.Router
	orchestrator *ai.Orchestrator
	logger       *logger.Logger
}

// NewChatService creates a chat service.
func NewChatService(st *store.Store, router *ai.Router, orch *ai.Orchestrator, log *logger.Logger) *ChatService {
	return &ChatService{
		store:        st,
		router:       router,
		orchestrator: orch,
		logger:       log,
	}
}

// Chat handles one user message. conversationID may be empty; an id that
// does not belong to userID is treated the same as a missing one and a new
// conversation is started rather than leaking another user's thread.
func (s *ChatService) Chat(ctx context.Context, userID, message, conversationID string) (*model.ChatResponse, error) {
	conv, isNew, err := s.resolveConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.AppendMessage(ctx, conv.ID, model.RoleUser, message); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	if isNew {
		title := deriveTitle(message)
		if err := s.store.UpdateConversationTitle(ctx, conv.ID, title); err != nil {
			// The turn still proceeds; the placeholder title remains.
			s.logger.Warn("title update failed", zap.String("conversation_id", conv.ID), zap.Error(err))
		}
	}

	intent := s.router.Classify(ctx, message)
	s.logger.Info("message classified",
		zap.String("user_id", userID),
		zap.String("conversation_id", conv.ID),
		zap.String("intent", string(intent)),
	)

	outcome, err := s.orchestrator.Respond(ctx, userID, message, intent)
	if err != nil {
		return nil, fmt.Errorf("orchestrate: %w", err)
	}

	if _, err := s.store.AppendMessage(ctx, conv.ID, model.RoleBot, outcome.ResultText); err != nil {
		return nil, fmt.Errorf("persist bot message: %w", err)
	}

	if err := s.store.TouchConversation(ctx, conv.ID); err != nil {
		s.logger.Warn("conversation touch failed", zap.String("conversation_id", conv.ID), zap.Error(err))
	}

	resp := &model.ChatResponse{
		Result:         outcome.ResultText,
		ConversationID: conv.ID,
	}
	if outcome.ActionPerformed != "" {
		action := outcome.ActionPerformed
		resp.ActionPerformed = &action
	}
	return resp, nil
}

func (s *ChatService) resolveConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, bool, error) {
	if conversationID != "" {
		conv, err := s.store.GetConversation(ctx, userID, conversationID)
		if err == nil {
			return conv, false, nil
		}
		if err != store.ErrNotFound {
			return nil, false, fmt.Errorf("resolve conversation: %w", err)
		}
	}

	conv, err := s.store.CreateConversation(ctx, userID, placeholderTitle)
	if err != nil {
		return nil, false, fmt.Errorf("create conversation: %w", err)
	}
	return conv, true, nil
}

// deriveTitle builds a conversation title from the first user message,
// counting runes so multi-byte text is not split mid-character.
func deriveTitle(message string) string {
	if utf8.RuneCountInString(message) <= titleRuneLimit {
		return message
	}
	runes := []rune(message)
	return string(runes[:titleRuneLimit]) + "…"
}
