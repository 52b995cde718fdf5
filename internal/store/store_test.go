package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// backdateConversation rewrites a conversation's created_at for expiry tests.
func backdateConversation(t *testing.T, st *Store, conversationID string, createdAt time.Time) {
	t.Helper()
	_, err := st.db.Exec(
		`UPDATE conversations SET created_at = ? WHERE id = ?`,
		formatTime(createdAt), conversationID,
	)
	require.NoError(t, err)
}

func TestConversationOwnership(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	conv, err := st.CreateConversation(ctx, "user-1", "New conversation")
	require.NoError(t, err)

	got, err := st.GetConversation(ctx, "user-1", conv.ID)
	require.NoError(t, err)
	require.Equal(t, conv.ID, got.ID)

	_, err = st.GetConversation(ctx, "user-2", conv.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetConversation(ctx, "user-1", "no-such-id")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListConversationsMostRecentFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.CreateConversation(ctx, "user-1", "first")
	require.NoError(t, err)
	second, err := st.CreateConversation(ctx, "user-1", "second")
	require.NoError(t, err)
	_, err = st.CreateConversation(ctx, "user-2", "other user")
	require.NoError(t, err)

	// Touching the older conversation moves it back to the front.
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, st.TouchConversation(ctx, first.ID))

	convs, err := st.ListConversations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, first.ID, convs[0].ID)
	require.Equal(t, second.ID, convs[1].ID)
}

func TestDeleteExpiredConversationsCascades(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	expired, err := st.CreateConversation(ctx, "user-1", "old")
	require.NoError(t, err)
	fresh, err := st.CreateConversation(ctx, "user-1", "recent")
	require.NoError(t, err)
	foreign, err := st.CreateConversation(ctx, "user-2", "someone else, also old")
	require.NoError(t, err)

	_, err = st.AppendMessage(ctx, expired.ID, model.RoleUser, "hello")
	require.NoError(t, err)
	_, err = st.AppendMessage(ctx, fresh.ID, model.RoleUser, "hi")
	require.NoError(t, err)

	backdateConversation(t, st, expired.ID, time.Now().Add(-25*time.Hour))
	backdateConversation(t, st, fresh.ID, time.Now().Add(-1*time.Hour))
	backdateConversation(t, st, foreign.ID, time.Now().Add(-25*time.Hour))

	n, err := st.DeleteExpiredConversations(ctx, "user-1", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = st.GetConversation(ctx, "user-1", expired.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Messages go with the conversation.
	count, err := st.CountMessages(ctx, expired.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	// The fresh conversation and its transcript survive.
	count, err = st.CountMessages(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Lazy expiry is per owner; other users' threads are untouched.
	_, err = st.GetConversation(ctx, "user-2", foreign.ID)
	require.NoError(t, err)
}

func TestMessagesChronologicalOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	conv, err := st.CreateConversation(ctx, "user-1", "chat")
	require.NoError(t, err)

	_, err = st.AppendMessage(ctx, conv.ID, model.RoleUser, "first")
	require.NoError(t, err)
	_, err = st.AppendMessage(ctx, conv.ID, model.RoleBot, "second")
	require.NoError(t, err)
	_, err = st.AppendMessage(ctx, conv.ID, model.RoleUser, "third")
	require.NoError(t, err)

	msgs, err := st.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "first", msgs[0].Content)
	require.Equal(t, model.RoleUser, msgs[0].Role)
	require.Equal(t, "second", msgs[1].Content)
	require.Equal(t, model.RoleBot, msgs[1].Role)
	require.Equal(t, "third", msgs[2].Content)
}

func TestTaskLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	task, err := st.CreateTask(ctx, "user-1", "study for exam", "chapters 3-5", &due)
	require.NoError(t, err)
	require.False(t, task.Completed)
	require.NotNil(t, task.DueDate)

	open, err := st.ListOpenTasks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, open, 1)

	// Completing someone else's task must not succeed.
	_, err = st.CompleteTask(ctx, "user-2", task.ID)
	require.ErrorIs(t, err, ErrNotFound)

	done, err := st.CompleteTask(ctx, "user-1", task.ID)
	require.NoError(t, err)
	require.True(t, done.Completed)

	open, err = st.ListOpenTasks(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, open)
}

func TestNotePartialUpdate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	note, err := st.CreateNote(ctx, "user-1", "ideas", "original content")
	require.NoError(t, err)

	// Empty fields keep their stored value.
	updated, err := st.UpdateNote(ctx, "user-1", note.ID, "", "revised content")
	require.NoError(t, err)
	require.Equal(t, "ideas", updated.Title)
	require.Equal(t, "revised content", updated.Content)

	_, err = st.UpdateNote(ctx, "user-1", "no-such-note", "x", "y")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.DeleteNote(ctx, "user-1", note.ID))
	require.ErrorIs(t, st.DeleteNote(ctx, "user-1", note.ID), ErrNotFound)
}

func TestEventTypeDefaultsToPersonal(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreateEvent(ctx, "user-1", &model.Event{
		Title:     "study group",
		StartDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, "personal", created.Type)

	upcoming, err := st.ListUpcomingEvents(ctx, "user-1", time.Now())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
}

func TestListUpcomingEventsExcludesPast(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.CreateEvent(ctx, "user-1", &model.Event{
		Title:     "yesterday's lecture",
		StartDate: time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	future, err := st.CreateEvent(ctx, "user-1", &model.Event{
		Title:     "tomorrow's exam",
		StartDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	upcoming, err := st.ListUpcomingEvents(ctx, "user-1", time.Now())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, future.ID, upcoming[0].ID)
}
