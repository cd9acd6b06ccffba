package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/notedmedia/noted/pkg/models"
)

// MediaRepository defines the interface for media item data access. Lookups
// by ID surface a typed not-found error rather than a nil result.
type MediaRepository interface {
	CreateMediaItem(ctx context.Context, item *models.MediaItem) error
	GetMediaItem(ctx context.Context, id uuid.UUID) (*models.MediaItem, error)
	// ListMediaItems returns all items, most recently updated first.
	ListMediaItems(ctx context.Context) ([]*models.MediaItem, error)
	// ListRootItems returns items without a parent, most recently updated first.
	ListRootItems(ctx context.Context) ([]*models.MediaItem, error)
	// SearchMediaItems matches the query as a case-insensitive substring of the title.
	SearchMediaItems(ctx context.Context, query string) ([]*models.MediaItem, error)
	UpdateMediaItem(ctx context.Context, item *models.MediaItem) error
	// DeleteMediaItem removes the item together with its descendants, their
	// notes and their attributes.
	DeleteMediaItem(ctx context.Context, id uuid.UUID) error
	// AddChild creates a child under the parent, deriving the child's kind
	// from the parent's kind. Parents of a leaf kind are rejected.
	AddChild(ctx context.Context, parentID uuid.UUID, title string, sortKey *string) (*models.MediaItem, error)
}

// NoteRepository defines the interface for note data access.
type NoteRepository interface {
	// CreateNote persists the note and refreshes the owning item's update
	// timestamp in the same transaction. Text is stored as given; emptiness
	// checks belong to the caller.
	CreateNote(ctx context.Context, text string, mediaItemID uuid.UUID, quote string) (*models.Note, error)
	GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error)
	// ListNotes returns all notes, newest first.
	ListNotes(ctx context.Context) ([]*models.Note, error)
	// ListNotesForItem returns the notes owned directly by the item, newest first.
	ListNotesForItem(ctx context.Context, mediaItemID uuid.UUID) ([]*models.Note, error)
	// SearchNotes matches the query as a case-insensitive substring of the text.
	SearchNotes(ctx context.Context, query string) ([]*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note, text, quote string) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
}

// Repository aggregates both catalog repositories. Implementations share one
// transactional context so multi-entity mutations are atomic.
type Repository interface {
	MediaRepository
	NoteRepository
}
