package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Raikadier/Captus-sub002/internal/model"
	"github.com/Raikadier/Captus-sub002/internal/store"
)

func (r *Registry) createNote(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args CreateNoteArgs
	decodeArgs(raw, &args)

	if strings.TrimSpace(args.Title) == "" {
		return model.Fail("A title is required to create a note.")
	}

	note, err := r.store.CreateNote(ctx, userID, strings.TrimSpace(args.Title), args.Content)
	if err != nil {
		r.logger.Error("create note failed", zap.Error(err))
		return model.Fail("The note could not be saved. Please try again.")
	}

	return model.Ok(fmt.Sprintf("Note %q created.", note.Title), note)
}

func (r *Registry) listNotes(ctx context.Context, userID string) model.Result {
	notes, err := r.store.ListNotes(ctx, userID)
	if err != nil {
		r.logger.Error("list notes failed", zap.Error(err))
		return model.Fail("Your notes could not be loaded. Please try again.")
	}

	if len(notes) == 0 {
		return model.Ok("You have no saved notes.", []model.Note{})
	}

	var b strings.Builder
	b.WriteString("Your notes are:\n")
	for _, n := range notes {
		fmt.Fprintf(&b, "- %q (ID: %s)\n", n.Title, n.ID)
	}
	return model.Ok(strings.TrimRight(b.String(), "\n"), notes)
}

func (r *Registry) updateNote(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args UpdateNoteArgs
	decodeArgs(raw, &args)

	if args.NoteID == "" {
		return model.Fail("A note ID is required to update a note.")
	}

	note, err := r.store.UpdateNote(ctx, userID, string(args.NoteID), args.Title, args.Content)
	if errors.Is(err, store.ErrNotFound) {
		return model.Fail("No note with that ID was found.")
	}
	if err != nil {
		r.logger.Error("update note failed", zap.Error(err))
		return model.Fail("The note could not be updated. Please try again.")
	}

	return model.Ok(fmt.Sprintf("Note %q updated.", note.Title), note)
}

func (r *Registry) deleteNote(ctx context.Context, raw json.RawMessage, userID string) model.Result {
	var args DeleteNoteArgs
	decodeArgs(raw, &args)

	if args.NoteID == "" {
		return model.Fail("A note ID is required to delete a note.")
	}

	err := r.store.DeleteNote(ctx, userID, string(args.NoteID))
	if errors.Is(err, store.ErrNotFound) {
		return model.Fail("No note with that ID was found.")
	}
	if err != nil {
		r.logger.Error("delete note failed", zap.Error(err))
		return model.Fail("The note could not be deleted. Please try again.")
	}

	return model.Ok("Note deleted.", nil)
}
