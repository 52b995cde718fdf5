package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Raikadier/Captus-sub002/pkg/logger"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		raw  string
		want Intent
	}{
		{"tasks", IntentTasks},
		{"notes", IntentNotes},
		{"events", IntentEvents},
		{"notifications", IntentNotifications},
		{"general", IntentGeneral},
		{" Tasks ", IntentTasks},
		{"\"notes\"", IntentNotes},
		{"events.", IntentEvents},
		{"`general`", IntentGeneral},
		{"TASKS", IntentTasks},
		{"", IntentGeneral},
		{"reminders", IntentGeneral},
		{"tasks and notes", IntentGeneral},
		{"I think this is about tasks", IntentGeneral},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseIntent(tt.raw), "raw: %q", tt.raw)
	}
}

func TestClassifyUsesModelLabel(t *testing.T) {
	client := &fakeClient{content: "tasks"}
	router := NewRouter(client, "", logger.NewNop())

	got := router.Classify(context.Background(), "add buy milk to my list")
	require.Equal(t, IntentTasks, got)
	require.Equal(t, 1, client.calls)
}

func TestClassifyModelErrorDefaultsGeneral(t *testing.T) {
	client := &fakeClient{err: errors.New("model unreachable")}
	router := NewRouter(client, "", logger.NewNop())

	got := router.Classify(context.Background(), "add buy milk to my list")
	require.Equal(t, IntentGeneral, got)
}

func TestClassifyUnknownLabelDefaultsGeneral(t *testing.T) {
	client := &fakeClient{content: "shopping"}
	router := NewRouter(client, "", logger.NewNop())

	got := router.Classify(context.Background(), "what's the weather")
	require.Equal(t, IntentGeneral, got)
}
