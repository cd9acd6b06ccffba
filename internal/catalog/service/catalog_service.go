package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/notedmedia/noted/internal/catalog/repository"
	"github.com/notedmedia/noted/pkg/errors"
	"github.com/notedmedia/noted/pkg/events"
	"github.com/notedmedia/noted/pkg/interfaces"
	"github.com/notedmedia/noted/pkg/models"
)

// CatalogService is the mutation entry point exposed to the presentation
// layer. Validation lives here; the repository below stays permissive.
type CatalogService struct {
	repo     repository.Repository
	eventBus interfaces.EventBus
	logger   interfaces.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	repo repository.Repository,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
) *CatalogService {
	return &CatalogService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger.WithFields(interfaces.String("component", "catalog")),
	}
}

// CreateMediaItem creates a new root-level media entry.
func (s *CatalogService) CreateMediaItem(ctx context.Context, title string, kind models.MediaKind) (*models.MediaItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.InvalidOperation("media item title is required")
	}
	if !kind.IsValid() {
		return nil, errors.InvalidOperation("unknown media kind " + string(kind))
	}

	item := models.NewMediaItem(title, kind)
	if err := s.repo.CreateMediaItem(ctx, item); err != nil {
		s.logger.Error("Failed to create media item", interfaces.Error(err))
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.MediaItemCreated, item.ID.String(), map[string]interface{}{
		"title": item.Title,
		"kind":  string(item.Kind),
	}))

	s.logger.Info("Media item created",
		interfaces.String("id", item.ID.String()),
		interfaces.String("title", item.Title),
		interfaces.String("kind", string(item.Kind)))

	return item, nil
}

// GetMediaItem retrieves a media item with its subtree loaded.
func (s *CatalogService) GetMediaItem(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	return s.repo.GetMediaItem(ctx, id)
}

// AddChild creates a child entry under the parent. The child's kind follows
// from the parent's kind; leaf parents are rejected.
func (s *CatalogService) AddChild(ctx context.Context, parentID uuid.UUID, title string, sortKey *string) (*models.MediaItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.InvalidOperation("child title is required")
	}

	child, err := s.repo.AddChild(ctx, parentID, title, sortKey)
	if err != nil {
		s.logger.Error("Failed to add child",
			interfaces.String("parent_id", parentID.String()),
			interfaces.Error(err))
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.ChildAdded, parentID.String(), map[string]interface{}{
		"child_id": child.ID.String(),
		"title":    child.Title,
		"kind":     string(child.Kind),
	}))

	return child, nil
}

// UpdateTitle renames a media item.
func (s *CatalogService) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*models.MediaItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.InvalidOperation("media item title is required")
	}

	item, err := s.repo.GetMediaItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Title = title
	if err := s.repo.UpdateMediaItem(ctx, item); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.MediaItemUpdated, item.ID.String(), map[string]interface{}{
		"title": item.Title,
	}))

	return item, nil
}

// SetAttribute upserts a metadata attribute on a media item.
func (s *CatalogService) SetAttribute(ctx context.Context, id uuid.UUID, key models.AttributeKey, value string) (*models.MediaItem, error) {
	item, err := s.repo.GetMediaItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.SetAttribute(key, value)
	if err := s.repo.UpdateMediaItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteMediaItem removes a media item and everything it owns.
func (s *CatalogService) DeleteMediaItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMediaItem(ctx, id); err != nil {
		s.logger.Error("Failed to delete media item",
			interfaces.String("id", id.String()),
			interfaces.Error(err))
		return err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.MediaItemDeleted, id.String(), nil))

	s.logger.Info("Media item deleted", interfaces.String("id", id.String()))
	return nil
}

// CreateNote attaches a note to a media item. Empty or whitespace-only text
// is rejected here; the repository itself persists whatever it is given.
func (s *CatalogService) CreateNote(ctx context.Context, text string, mediaItemID uuid.UUID, quote string) (*models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.InvalidOperation("note text is required")
	}

	note, err := s.repo.CreateNote(ctx, text, mediaItemID, quote)
	if err != nil {
		s.logger.Error("Failed to create note",
			interfaces.String("media_item_id", mediaItemID.String()),
			interfaces.Error(err))
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.NoteCreated, note.ID.String(), map[string]interface{}{
		"media_item_id": mediaItemID.String(),
	}))

	return note, nil
}

// UpdateNote replaces a note's content.
func (s *CatalogService) UpdateNote(ctx context.Context, id uuid.UUID, text, quote string) (*models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.InvalidOperation("note text is required")
	}

	note, err := s.repo.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateNote(ctx, note, text, quote); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.NoteUpdated, note.ID.String(), nil))

	return note, nil
}

// DeleteNote removes a note.
func (s *CatalogService) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		return err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.NoteDeleted, id.String(), nil))
	return nil
}
