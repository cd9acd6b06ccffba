package insights

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"

	"github.com/notedmedia/noted/internal/catalog/repository"
	"github.com/notedmedia/noted/pkg/errors"
	"github.com/notedmedia/noted/pkg/interfaces"
	"github.com/notedmedia/noted/pkg/models"
)

// NotesToolName is the single tool declared to the model session.
const NotesToolName = "notes_database"

// notesToolArgs are the arguments the model may pass to the tool.
type notesToolArgs struct {
	MediaItemID string `json:"media_item_id,omitempty"`
}

// MediaSummary identifies the entry a note belongs to, including the chain of
// parent titles from the root down.
type MediaSummary struct {
	Title       string   `json:"title"`
	Kind        string   `json:"kind"`
	ParentChain []string `json:"parent_chain,omitempty"`
}

// NoteRecord is the shape of one note as returned to the model.
type NoteRecord struct {
	Text      string       `json:"text"`
	CreatedAt string       `json:"created_at"` // ISO-8601
	Quote     string       `json:"quote,omitempty"`
	Media     MediaSummary `json:"media"`
}

// NotesTool serves the user's notes to the model session. With a media item
// ID it returns only that item's own notes (exact match); without one it
// returns every note. An ID that matches nothing yields an empty list, not an
// error — the session instructions tell the model to admit insufficiency.
type NotesTool struct {
	notes  repository.NoteRepository
	logger interfaces.Logger
}

// NewNotesTool creates the notes retrieval tool.
func NewNotesTool(notes repository.NoteRepository, logger interfaces.Logger) *NotesTool {
	return &NotesTool{notes: notes, logger: logger}
}

// Name implements Tool.
func (t *NotesTool) Name() string { return NotesToolName }

// Description implements Tool.
func (t *NotesTool) Description() string {
	return "Retrieves the user's saved notes about their media library. " +
		"Pass media_item_id to fetch notes for a single media entry; omit it to fetch all notes."
}

// ArgumentsSchema implements Tool.
func (t *NotesTool) ArgumentsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"media_item_id": {
				Type:        "string",
				Description: "Optional media item UUID; when set, only notes attached to that item are returned.",
			},
		},
	}
}

// Call implements Tool.
func (t *NotesTool) Call(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var parsed notesToolArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return nil, errors.Generation("malformed notes_database arguments", err)
		}
	}

	var (
		notes []*models.Note
		err   error
	)
	if parsed.MediaItemID != "" {
		id, parseErr := uuid.Parse(parsed.MediaItemID)
		if parseErr != nil {
			return nil, errors.Generation("media_item_id is not a valid UUID", parseErr)
		}
		notes, err = t.notes.ListNotesForItem(ctx, id)
	} else {
		notes, err = t.notes.ListNotes(ctx)
	}
	if err != nil {
		return nil, err
	}

	t.logger.Debug("notes_database tool called",
		interfaces.String("media_item_id", parsed.MediaItemID),
		interfaces.Int("notes", len(notes)))

	records := make([]NoteRecord, 0, len(notes))
	for _, note := range notes {
		records = append(records, toNoteRecord(note))
	}
	return json.Marshal(records)
}

func toNoteRecord(note *models.Note) NoteRecord {
	record := NoteRecord{
		Text:      note.Text,
		CreatedAt: note.CreatedAt.UTC().Format(time.RFC3339),
		Quote:     note.Quote,
	}
	if note.MediaItem != nil {
		record.Media = MediaSummary{
			Title:       note.MediaItem.Title,
			Kind:        string(note.MediaItem.Kind),
			ParentChain: note.MediaItem.ParentChain(),
		}
	}
	return record
}
