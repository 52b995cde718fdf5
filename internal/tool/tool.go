// Package tool defines the closed catalog of domain operations the
// assistant may execute. Tools are a fixed enumeration with a typed argument
// struct per variant; dispatch is an exhaustive switch, so adding a tool is
// a compile-time change rather than a string lookup.
package tool

import (
	"encoding/json"
	"fmt"

	"github.com/Raikadier/Captus-sub002/internal/llm"
)

// Name identifies one tool in the catalog.
type Name string

const (
	CreateTask       Name = "create_task"
	ListTasks        Name = "list_tasks"
	CompleteTask     Name = "complete_task"
	CreateNote       Name = "create_note"
	ListNotes        Name = "list_notes"
	UpdateNote       Name = "update_note"
	DeleteNote       Name = "delete_note"
	CreateEvent      Name = "create_event"
	ListEvents       Name = "list_events"
	UpdateEvent      Name = "update_event"
	DeleteEvent      Name = "delete_event"
	SendNotification Name = "send_notification"
)

// All returns every tool in the catalog, in a stable order.
func All() []Name {
	return []Name{
		CreateTask, ListTasks, CompleteTask,
		CreateNote, ListNotes, UpdateNote, DeleteNote,
		CreateEvent, ListEvents, UpdateEvent, DeleteEvent,
		SendNotification,
	}
}

// ID accepts both string and numeric JSON values, since text-driven models
// frequently emit identifiers either way.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	return fmt.Errorf("id must be a string or number")
}

// CreateTaskArgs are the arguments for create_task.
type CreateTaskArgs struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

// CompleteTaskArgs are the arguments for complete_task.
type CompleteTaskArgs struct {
	TaskID ID `json:"task_id"`
}

// CreateNoteArgs are the arguments for create_note.
type CreateNoteArgs struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteArgs are the arguments for update_note.
type UpdateNoteArgs struct {
	NoteID  ID     `json:"note_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DeleteNoteArgs are the arguments for delete_note.
type DeleteNoteArgs struct {
	NoteID ID `json:"note_id"`
}

// CreateEventArgs are the arguments for create_event.
type CreateEventArgs struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Type        string `json:"type"`
}

// UpdateEventArgs are the arguments for update_event.
type UpdateEventArgs struct {
	EventID     ID     `json:"event_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// DeleteEventArgs are the arguments for delete_event.
type DeleteEventArgs struct {
	EventID ID `json:"event_id"`
}

// SendNotificationArgs are the arguments for send_notification.
type SendNotificationArgs struct {
	Message string `json:"message"`
}

// Definitions returns the catalog as function-calling definitions for the
// model. This is the only channel by which the model can request a mutation.
func Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        string(CreateTask),
			Description: "Create a new task for the user.",
			Parameters: objectSchema(map[string]any{
				"title":       stringProp("Title of the task."),
				"description": stringProp("Optional description."),
				"due_date":    stringProp("Optional due date in ISO format (YYYY-MM-DD)."),
			}, "title"),
		},
		{
			Name:        string(ListTasks),
			Description: "List the user's pending tasks.",
			Parameters:  objectSchema(map[string]any{}),
		},
		{
			Name:        string(CompleteTask),
			Description: "Mark one of the user's tasks as completed.",
			Parameters: objectSchema(map[string]any{
				"task_id": stringProp("Identifier of the task to complete."),
			}, "task_id"),
		},
		{
			Name:        string(CreateNote),
			Description: "Create a new note for the user.",
			Parameters: objectSchema(map[string]any{
				"title":   stringProp("Title of the note."),
				"content": stringProp("Optional note content."),
			}, "title"),
		},
		{
			Name:        string(ListNotes),
			Description: "List the user's notes.",
			Parameters:  objectSchema(map[string]any{}),
		},
		{
			Name:        string(UpdateNote),
			Description: "Update the title or content of one of the user's notes.",
			Parameters: objectSchema(map[string]any{
				"note_id": stringProp("Identifier of the note to update."),
				"title":   stringProp("New title, if it changes."),
				"content": stringProp("New content, if it changes."),
			}, "note_id"),
		},
		{
			Name:        string(DeleteNote),
			Description: "Delete one of the user's notes.",
			Parameters: objectSchema(map[string]any{
				"note_id": stringProp("Identifier of the note to delete."),
			}, "note_id"),
		},
		{
			Name:        string(CreateEvent),
			Description: "Schedule a new calendar event for the user.",
			Parameters: objectSchema(map[string]any{
				"title":       stringProp("Title of the event."),
				"description": stringProp("Optional description."),
				"start_date":  stringProp("Start date and time in ISO format."),
				"end_date":    stringProp("Optional end date and time in ISO format."),
				"type":        stringProp("Optional event type; defaults to personal."),
			}, "title", "start_date"),
		},
		{
			Name:        string(ListEvents),
			Description: "List the user's upcoming calendar events.",
			Parameters:  objectSchema(map[string]any{}),
		},
		{
			Name:        string(UpdateEvent),
			Description: "Update one of the user's calendar events.",
			Parameters: objectSchema(map[string]any{
				"event_id":    stringProp("Identifier of the event to update."),
				"title":       stringProp("New title, if it changes."),
				"description": stringProp("New description, if it changes."),
				"start_date":  stringProp("New start date in ISO format, if it changes."),
				"end_date":    stringProp("New end date in ISO format, if it changes."),
			}, "event_id"),
		},
		{
			Name:        string(DeleteEvent),
			Description: "Delete one of the user's calendar events.",
			Parameters: objectSchema(map[string]any{
				"event_id": stringProp("Identifier of the event to delete."),
			}, "event_id"),
		},
		{
			Name:        string(SendNotification),
			Description: "Send a simple notification to the user.",
			Parameters: objectSchema(map[string]any{
				"message": stringProp("Text of the notification."),
			}, "message"),
		},
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}
