package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Raikadier/Captus-sub002/internal/llm"
	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/tool"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

// fakeClient is a scripted llm.Client for tests.
type fakeClient struct {
	content   string
	toolCalls []llm.ToolCall
	err       error
	calls     int
	lastReq   *llm.CompletionRequest
}

func (f *fakeClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{
		Content:   f.content,
		ToolCalls: f.toolCalls,
	}, nil
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Models() []string { return []string{"fake-model"} }

type fakeDispatcher struct {
	result   model.Result
	calls    int
	lastName tool.Name
	lastArgs []byte
	lastUser string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, name tool.Name, rawArgs []byte, userID string) model.Result {
	f.calls++
	f.lastName = name
	f.lastArgs = rawArgs
	f.lastUser = userID
	return f.result
}

type fakeContexts struct {
	data string
}

func (f *fakeContexts) Fetch(ctx context.Context, intent Intent, userID string) string {
	return f.data
}

func newTestOrchestrator(reasoning, fast llm.Client, d Dispatcher) *Orchestrator {
	return NewOrchestrator(Params{
		Reasoning: reasoning,
		Fast:      fast,
	}, d, &fakeContexts{data: "The user has no pending tasks."}, logger.NewNop())
}

func TestRespondRequiresUserID(t *testing.T) {
	orch := newTestOrchestrator(&fakeClient{}, nil, &fakeDispatcher{})

	_, err := orch.Respond(context.Background(), "", "hello", IntentTasks)
	require.Error(t, err)
}

func TestRespondNativeToolCall(t *testing.T) {
	reasoning := &fakeClient{toolCalls: []llm.ToolCall{
		{Name: "create_task", Arguments: `{"title":"buy milk"}`},
	}}
	dispatcher := &fakeDispatcher{result: model.Ok("Task \"buy milk\" created.", nil)}
	orch := newTestOrchestrator(reasoning, nil, dispatcher)

	out, err := orch.Respond(context.Background(), "user-1", "add buy milk", IntentTasks)
	require.NoError(t, err)
	require.Equal(t, "create_task", string(dispatcher.lastName))
	require.JSONEq(t, `{"title":"buy milk"}`, string(dispatcher.lastArgs))
	require.Equal(t, "user-1", dispatcher.lastUser)
	require.Equal(t, "create_task", out.ActionPerformed)
	require.Equal(t, `Task "buy milk" created.`, out.ResultText)
}

func TestRespondDispatchesOnlyFirstToolCall(t *testing.T) {
	reasoning := &fakeClient{toolCalls: []llm.ToolCall{
		{Name: "create_task", Arguments: `{"title":"one"}`},
		{Name: "create_task", Arguments: `{"title":"two"}`},
	}}
	dispatcher := &fakeDispatcher{result: model.Ok("done", nil)}
	orch := newTestOrchestrator(reasoning, nil, dispatcher)

	_, err := orch.Respond(context.Background(), "user-1", "add two tasks", IntentTasks)
	require.NoError(t, err)
	require.Equal(t, 1, dispatcher.calls)
	require.JSONEq(t, `{"title":"one"}`, string(dispatcher.lastArgs))
}

func TestRespondRecoversToolCallFromText(t *testing.T) {
	reasoning := &fakeClient{content: "```json\n{\"tool\":\"list_tasks\",\"input\":{}}\n```"}
	dispatcher := &fakeDispatcher{result: model.Ok("You have no pending tasks.", []model.Task{})}
	orch := newTestOrchestrator(reasoning, nil, dispatcher)

	out, err := orch.Respond(context.Background(), "user-1", "what do I have to do", IntentTasks)
	require.NoError(t, err)
	require.Equal(t, "list_tasks", string(dispatcher.lastName))
	require.Equal(t, "list_tasks", out.ActionPerformed)
}

func TestRespondConversationalFallback(t *testing.T) {
	reasoning := &fakeClient{content: "You have 3 tasks pending."}
	dispatcher := &fakeDispatcher{}
	orch := newTestOrchestrator(reasoning, nil, dispatcher)

	out, err := orch.Respond(context.Background(), "user-1", "how many tasks do I have", IntentTasks)
	require.NoError(t, err)
	require.Equal(t, 0, dispatcher.calls)
	require.Empty(t, out.ActionPerformed)
	require.Equal(t, "You have 3 tasks pending.", out.ResultText)
}

func TestRespondFailedDispatchReportsApology(t *testing.T) {
	reasoning := &fakeClient{toolCalls: []llm.ToolCall{
		{Name: "complete_task", Arguments: `{"task_id":"99"}`},
	}}
	dispatcher := &fakeDispatcher{result: model.Fail("No task with that ID was found.")}
	orch := newTestOrchestrator(reasoning, nil, dispatcher)

	out, err := orch.Respond(context.Background(), "user-1", "finish task 99", IntentTasks)
	require.NoError(t, err)
	require.Empty(t, out.ActionPerformed)
	require.Contains(t, out.ResultText, "complete_task")
	require.Contains(t, out.ResultText, "No task with that ID was found.")
}

func TestRespondGeneralSkipsTools(t *testing.T) {
	reasoning := &fakeClient{}
	fast := &fakeClient{content: "Hello! How's studying going?"}
	dispatcher := &fakeDispatcher{}
	orch := newTestOrchestrator(reasoning, fast, dispatcher)

	out, err := orch.Respond(context.Background(), "user-1", "hi", IntentGeneral)
	require.NoError(t, err)
	require.Equal(t, 0, reasoning.calls)
	require.Equal(t, 1, fast.calls)
	require.Empty(t, fast.lastReq.Tools)
	require.Equal(t, 0, dispatcher.calls)
	require.Equal(t, "Hello! How's studying going?", out.ResultText)
}

func TestRespondGeneralFallsBackToReasoningClient(t *testing.T) {
	reasoning := &fakeClient{content: "Hi there!"}
	orch := newTestOrchestrator(reasoning, nil, &fakeDispatcher{})

	out, err := orch.Respond(context.Background(), "user-1", "hi", IntentGeneral)
	require.NoError(t, err)
	require.Equal(t, 1, reasoning.calls)
	require.Equal(t, "Hi there!", out.ResultText)
}

func TestRespondReasoningErrorIsFatal(t *testing.T) {
	reasoning := &fakeClient{err: errors.New("model unreachable")}
	orch := newTestOrchestrator(reasoning, nil, &fakeDispatcher{})

	_, err := orch.Respond(context.Background(), "user-1", "add a task", IntentTasks)
	require.Error(t, err)
}

func TestRespondExposesToolCatalog(t *testing.T) {
	reasoning := &fakeClient{content: "ok"}
	orch := newTestOrchestrator(reasoning, nil, &fakeDispatcher{})

	_, err := orch.Respond(context.Background(), "user-1", "add a task", IntentTasks)
	require.NoError(t, err)
	require.Len(t, reasoning.lastReq.Tools, len(tool.All()))
	require.Equal(t, reasoningTemperature, reasoning.lastReq.Temperature)
	require.Contains(t, reasoning.lastReq.System, "user-1")
}

func TestRespondRecoveredArgsRoundTrip(t *testing.T) {
	reasoning := &fakeClient{content: `{"tool":"create_note","args":{"title":"ideas","content":"go study"}}`}
	dispatcher := &fakeDispatcher{result: model.Ok("Note created.", nil)}
	orch := newTestOrchestrator(reasoning, nil, dispatcher)

	_, err := orch.Respond(context.Background(), "user-1", "note my ideas", IntentNotes)
	require.NoError(t, err)

	var args map[string]string
	require.NoError(t, json.Unmarshal(dispatcher.lastArgs, &args))
	require.Equal(t, "ideas", args["title"])
	require.Equal(t, "go study", args["content"])
}
