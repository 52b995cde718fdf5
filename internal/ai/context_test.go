package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/store"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

func newContextFixture(t *testing.T) (*ContextProvider, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewContextProvider(st, logger.NewNop()), st
}

func TestFetchTasksContext(t *testing.T) {
	p, st := newContextFixture(t)
	ctx := context.Background()

	got := p.Fetch(ctx, IntentTasks, "user-1")
	require.Equal(t, "The user has no pending tasks.", got)

	task, err := st.CreateTask(ctx, "user-1", "buy milk", "", nil)
	require.NoError(t, err)

	got = p.Fetch(ctx, IntentTasks, "user-1")
	require.Contains(t, got, task.ID)
	require.Contains(t, got, "buy milk")
	require.Contains(t, got, "no due date")

	// Another user's records never leak into the prompt.
	got = p.Fetch(ctx, IntentTasks, "user-2")
	require.Equal(t, "The user has no pending tasks.", got)
}

func TestFetchTasksContextCapped(t *testing.T) {
	p, st := newContextFixture(t)
	ctx := context.Background()

	for i := 0; i < contextTaskLimit+5; i++ {
		_, err := st.CreateTask(ctx, "user-1", "task", "", nil)
		require.NoError(t, err)
	}

	got := p.Fetch(ctx, IntentTasks, "user-1")
	require.Len(t, strings.Split(got, "\n"), contextTaskLimit)
}

func TestFetchEventsContext(t *testing.T) {
	p, st := newContextFixture(t)
	ctx := context.Background()

	require.Equal(t, "The user has no upcoming events.", p.Fetch(ctx, IntentEvents, "user-1"))

	_, err := st.CreateEvent(ctx, "user-1", &model.Event{
		Title:     "study group",
		StartDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	got := p.Fetch(ctx, IntentEvents, "user-1")
	require.Contains(t, got, "study group")
}

func TestFetchGeneralHasNoContext(t *testing.T) {
	p, _ := newContextFixture(t)
	require.Empty(t, p.Fetch(context.Background(), IntentGeneral, "user-1"))
	require.Empty(t, p.Fetch(context.Background(), IntentNotifications, "user-1"))
}
