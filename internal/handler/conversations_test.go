package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/service"
	"github.com/Raikadier/Captus-sub002/internal/store"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

func newConversationRouter(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := service.NewConversationService(st, 24*time.Hour, logger.NewNop())
	h := NewConversationHandler(svc, logger.NewNop())

	r := chi.NewRouter()
	r.Get("/conversations", h.List)
	r.Get("/conversations/{id}/messages", h.Messages)
	return r, st
}

func TestListConversationsEmpty(t *testing.T) {
	r, _ := newConversationRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodGet, "/conversations", "", "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"conversations":[]}`, rec.Body.String())
}

func TestListConversationsRequiresIdentity(t *testing.T) {
	r, _ := newConversationRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodGet, "/conversations", "", ""))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListConversationsScopedToUser(t *testing.T) {
	r, st := newConversationRouter(t)
	ctx := context.Background()

	mine, err := st.CreateConversation(ctx, "user-1", "mine")
	require.NoError(t, err)
	_, err = st.CreateConversation(ctx, "user-2", "theirs")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodGet, "/conversations", "", "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ListConversationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Conversations, 1)
	require.Equal(t, mine.ID, resp.Conversations[0].ID)
}

func TestMessagesNotFoundForForeignConversation(t *testing.T) {
	r, st := newConversationRouter(t)

	conv, err := st.CreateConversation(context.Background(), "user-2", "theirs")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodGet, "/conversations/"+conv.ID+"/messages", "", "user-1"))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessagesRejectsMalformedID(t *testing.T) {
	r, _ := newConversationRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodGet, "/conversations/not-a-uuid/messages", "", "user-1"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessagesReturnsTranscript(t *testing.T) {
	r, st := newConversationRouter(t)
	ctx := context.Background()

	conv, err := st.CreateConversation(ctx, "user-1", "chat")
	require.NoError(t, err)
	_, err = st.AppendMessage(ctx, conv.ID, model.RoleUser, "hello")
	require.NoError(t, err)
	_, err = st.AppendMessage(ctx, conv.ID, model.RoleBot, "hi!")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodGet, "/conversations/"+conv.ID+"/messages", "", "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ListMessagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	require.Equal(t, model.RoleUser, resp.Messages[0].Role)
	require.Equal(t, model.RoleBot, resp.Messages[1].Role)
}
