package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/notedmedia/noted/pkg/errors"
	"github.com/notedmedia/noted/pkg/models"
	"github.com/notedmedia/noted/pkg/repository"
)

// mediaPreloads load the full aggregate. The kind taxonomy caps hierarchies
// at container -> leaf, so one level of children covers the whole subtree.
var mediaPreloads = []string{
	"Parent",
	"Notes",
	"Attributes",
	"Children",
	"Children.Notes",
	"Children.Attributes",
}

// GormRepository implements the catalog repositories on a single shared
// *gorm.DB, which acts as the common transactional context.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// CreateMediaItem inserts a new media item.
func (r *GormRepository) CreateMediaItem(ctx context.Context, item *models.MediaItem) error {
	return repository.Create(ctx, r.db, item)
}

// GetMediaItem retrieves a media item with its full subtree loaded.
func (r *GormRepository) GetMediaItem(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	return repository.FindByID[models.MediaItem](ctx, r.db, id, mediaPreloads...)
}

// ListMediaItems lists all media items, most recently updated first.
func (r *GormRepository) ListMediaItems(ctx context.Context) ([]*models.MediaItem, error) {
	return r.listMedia(ctx, r.db)
}

// ListRootItems lists media items without a parent, most recently updated first.
func (r *GormRepository) ListRootItems(ctx context.Context) ([]*models.MediaItem, error) {
	return r.listMedia(ctx, r.db.Where("parent_id IS NULL"))
}

// SearchMediaItems lists media items whose title contains the query,
// case-insensitively, most recently updated first.
func (r *GormRepository) SearchMediaItems(ctx context.Context, query string) ([]*models.MediaItem, error) {
	return r.listMedia(ctx, r.db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, likePattern(query)))
}

func (r *GormRepository) listMedia(ctx context.Context, tx *gorm.DB) ([]*models.MediaItem, error) {
	q := tx.WithContext(ctx).Model(&models.MediaItem{})
	for _, preload := range mediaPreloads {
		q = q.Preload(preload)
	}

	var items []*models.MediaItem
	if err := q.Order("updated_at DESC").Find(&items).Error; err != nil {
		return nil, pkgerrors.Persistence("failed to list media items", err)
	}
	return items, nil
}

// UpdateMediaItem refreshes the update timestamp and persists the item.
// Field values are not validated here.
func (r *GormRepository) UpdateMediaItem(ctx context.Context, item *models.MediaItem) error {
	item.Touch()
	return r.saveItemWithAttributes(ctx, r.db, item)
}

// saveItemWithAttributes persists the item row and any in-memory attribute
// rows added through SetAttribute/AddAttribute.
func (r *GormRepository) saveItemWithAttributes(ctx context.Context, tx *gorm.DB, item *models.MediaItem) error {
	return r.transact(ctx, tx, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return err
		}
		for _, attr := range item.Attributes {
			if err := tx.Save(attr).Error; err != nil {
				return err
			}
		}
		return nil
	}, "failed to update media item")
}

// DeleteMediaItem removes the item and cascades over its children, notes and
// attributes inside one transaction.
func (r *GormRepository) DeleteMediaItem(ctx context.Context, id uuid.UUID) error {
	item, err := r.GetMediaItem(ctx, id)
	if err != nil {
		return err
	}

	return r.transact(ctx, r.db, func(tx *gorm.DB) error {
		return deleteTree(tx, item)
	}, "failed to delete media item")
}

func deleteTree(tx *gorm.DB, item *models.MediaItem) error {
	for _, child := range item.Children {
		if err := deleteTree(tx, child); err != nil {
			return err
		}
	}
	if err := tx.Where("media_item_id = ?", item.ID).Delete(&models.Note{}).Error; err != nil {
		return err
	}
	if err := tx.Where("media_item_id = ?", item.ID).Delete(&models.MediaAttribute{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.MediaItem{}, "id = ?", item.ID).Error
}

// AddChild creates a child entry under parentID. The child's kind is derived
// from the parent's kind; leaf kinds are rejected before anything is written.
// Child insert and parent timestamp refresh share one transaction.
func (r *GormRepository) AddChild(ctx context.Context, parentID uuid.UUID, title string, sortKey *string) (*models.MediaItem, error) {
	parent, err := r.GetMediaItem(ctx, parentID)
	if err != nil {
		return nil, err
	}

	childKind, ok := parent.Kind.ChildKind()
	if !ok {
		return nil, pkgerrors.InvalidOperation("media kind " + string(parent.Kind) + " cannot have children")
	}

	child := models.NewMediaItem(title, childKind)
	child.SortKey = sortKey
	parent.AttachChild(child)

	err = r.transact(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(child).Error; err != nil {
			return err
		}
		return tx.Model(&models.MediaItem{}).
			Where("id = ?", parent.ID).
			Update("updated_at", parent.UpdatedAt).Error
	}, "failed to add child")
	if err != nil {
		return nil, err
	}
	return child, nil
}

// CreateNote persists the note and touches the owning item's update timestamp
// atomically. The text is stored byte-for-byte as supplied.
func (r *GormRepository) CreateNote(ctx context.Context, text string, mediaItemID uuid.UUID, quote string) (*models.Note, error) {
	if _, err := repository.FindByID[models.MediaItem](ctx, r.db, mediaItemID); err != nil {
		return nil, err
	}

	note := models.NewNote(text, mediaItemID, quote)
	err := r.transact(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return tx.Model(&models.MediaItem{}).
			Where("id = ?", mediaItemID).
			Update("updated_at", time.Now().UTC()).Error
	}, "failed to create note")
	if err != nil {
		return nil, err
	}
	return note, nil
}

// GetNote retrieves a note by ID.
func (r *GormRepository) GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	return repository.FindByID[models.Note](ctx, r.db, id, "MediaItem", "MediaItem.Parent")
}

// ListNotes lists all notes, newest first.
func (r *GormRepository) ListNotes(ctx context.Context) ([]*models.Note, error) {
	return r.listNotes(ctx, r.db)
}

// ListNotesForItem lists the notes owned directly by a media item, newest first.
func (r *GormRepository) ListNotesForItem(ctx context.Context, mediaItemID uuid.UUID) ([]*models.Note, error) {
	return r.listNotes(ctx, r.db.Where("media_item_id = ?", mediaItemID))
}

// SearchNotes lists notes whose text contains the query, case-insensitively.
func (r *GormRepository) SearchNotes(ctx context.Context, query string) ([]*models.Note, error) {
	return r.listNotes(ctx, r.db.Where(`LOWER(text) LIKE ? ESCAPE '\'`, likePattern(query)))
}

func (r *GormRepository) listNotes(ctx context.Context, tx *gorm.DB) ([]*models.Note, error) {
	var notes []*models.Note
	err := tx.WithContext(ctx).
		Model(&models.Note{}).
		Preload("MediaItem").
		Preload("MediaItem.Parent").
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, pkgerrors.Persistence("failed to list notes", err)
	}
	return notes, nil
}

// UpdateNote replaces the note content, stamps the edit time and persists.
// The owning item's update timestamp is left alone. On a persistence failure
// the in-memory note is rolled back to its prior content.
func (r *GormRepository) UpdateNote(ctx context.Context, note *models.Note, text, quote string) error {
	prevText, prevQuote, prevEdited := note.Text, note.Quote, note.EditedAt
	note.Edit(text, quote)
	if err := r.db.WithContext(ctx).Omit("MediaItem").Save(note).Error; err != nil {
		note.Text, note.Quote, note.EditedAt = prevText, prevQuote, prevEdited
		return pkgerrors.Persistence("failed to update note", err)
	}
	return nil
}

// DeleteNote removes a note.
func (r *GormRepository) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return repository.Delete[models.Note](ctx, r.db, id)
}

func (r *GormRepository) transact(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error, msg string) error {
	if err := tx.WithContext(ctx).Transaction(fn); err != nil {
		return pkgerrors.Persistence(msg, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive containment pattern. LIKE
// metacharacters in the query match themselves literally.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}
