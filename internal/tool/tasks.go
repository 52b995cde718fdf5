package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/store"
)

func (r *Registry) createTask(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args CreateTaskArgs
	decodeArgs(raw, &args)

	if strings.TrimSpace(args.Title) == "" {
		return model.Fail("A title is required to create a task.")
	}

	var due *time.Time
	if args.DueDate != "" {
		t, err := parseDate(args.DueDate)
		if err != nil {
			return model.Fail("The due date could not be understood. Use an ISO date like 2025-04-30.")
		}
		due = &t
	}

	created, err := r.store.CreateTask(ctx, userID, strings.TrimSpace(args.Title), strings.TrimSpace(args.Description), due)
	if err != nil {
		r.logger.Error("create task failed", zap.Error(err))
		return model.Fail("The task could not be saved. Please try again.")
	}

	return model.Ok(fmt.Sprintf("Task %q created.", created.Title), created)
}

func (r *Registry) listTasks(ctx context.Context, userID string) model.Result {
	tasks, err := r.store.ListOpenTasks(ctx, userID)
	if err != nil {
		r.logger.Error("list tasks failed", zap.Error(err))
		return model.Fail("Your tasks could not be loaded. Please try again.")
	}

	if len(tasks) == 0 {
		return model.Ok("You have no pending tasks.", []model.Task{})
	}

	var b strings.Builder
	b.WriteString("Your pending tasks are:\n")
	for _, t := range tasks {
		if t.DueDate != nil {
			fmt.Fprintf(&b, "- %q (ID: %s, due %s)\n", t.Title, t.ID, t.DueDate.Format("2006-01-02"))
		} else {
			fmt.Fprintf(&b, "- %q (ID: %s)\n", t.Title, t.ID)
		}
	}
	return model.Ok(strings.TrimRight(b.String(), "\n"), tasks)
}

func (r *Registry) completeTask(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args CompleteTaskArgs
	decodeArgs(raw, &args)

	if args.TaskID == "" {
		return model.Fail("A task ID is required to complete a task.")
	}

	task, err := r.store.CompleteTask(ctx, userID, string(args.TaskID))
	if errors.Is(err, store.ErrNotFound) {
		return model.Fail("No task with that ID was found.")
	}
	if err != nil {
		r.logger.Error("complete task failed", zap.Error(err))
		return model.Fail("The task could not be updated. Please try again.")
	}

	return model.Ok(fmt.Sprintf("Task %q marked as completed.", task.Title), task)
}
