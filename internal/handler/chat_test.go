package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Raikadier/Captus-sub002/internal/ai"
	"github.com/Raikadier/Captus-sub002/internal/llm"
	"github.com/Raikadier/Captus-sub002/internal/middleware"
	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/service"
	"github.com/Raikadier/Captus-sub002/internal/store"
	"github.com/Raikadier/Captus-sub002/internal/tool"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

type cannedClient struct {
	content string
}

func (c *cannedClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: c.content}, nil
}

func (c *cannedClient) Name() string { return "canned" }

func (c *cannedClient) Models() []string { return []string{"canned-model"} }

func newChatHandlerFixture(t *testing.T) (*ChatHandler, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := logger.NewNop()
	router := ai.NewRouter(&cannedClient{content: "general"}, "", log)
	orch := ai.NewOrchestrator(ai.Params{Reasoning: &cannedClient{content: "Hi!"}},
		tool.NewRegistry(st, nil, log), ai.NewContextProvider(st, log), log)
	svc := service.NewChatService(st, router, orch, log)

	return NewChatHandler(svc, log), st
}

func authedRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	return req
}

func TestChatRequiresIdentity(t *testing.T) {
	h, _ := newChatHandlerFixture(t)

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(http.MethodPost, "/api/v1/ai/chat", `{"message":"hi"}`, ""))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	h, _ := newChatHandlerFixture(t)

	for _, body := range []string{
		`{"message":""}`,
		`{"message":"   "}`,
		`{}`,
	} {
		rec := httptest.NewRecorder()
		h.Chat(rec, authedRequest(http.MethodPost, "/api/v1/ai/chat", body, "user-1"))
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestChatRejectsInvalidBody(t *testing.T) {
	h, _ := newChatHandlerFixture(t)

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(http.MethodPost, "/api/v1/ai/chat", `not json`, "user-1"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHappyPath(t *testing.T) {
	h, st := newChatHandlerFixture(t)

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(http.MethodPost, "/api/v1/ai/chat", `{"message":"hello"}`, "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Hi!", resp.Result)
	require.NotEmpty(t, resp.ConversationID)
	require.Nil(t, resp.ActionPerformed)

	// null action_performed is serialized explicitly, not omitted.
	require.Contains(t, rec.Body.String(), `"action_performed":null`)

	msgs, err := st.ListMessages(context.Background(), resp.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
}
