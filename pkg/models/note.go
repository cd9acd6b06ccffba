package models

import (
	"time"

	"github.com/google/uuid"
)

// notePreviewLimit is measured in runes, not bytes.
const notePreviewLimit = 100

// Note is a free-form text entry tied to exactly one media item. Text is
// stored exactly as supplied; no normalization beyond caller-side trimming.
type Note struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Text        string     `json:"text" gorm:"type:text;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`
	Quote       string     `json:"quote,omitempty" gorm:"type:text"`
	TimeOffset  *float64   `json:"time_offset,omitempty"` // seconds into the media
	MediaItemID uuid.UUID  `json:"media_item_id" gorm:"type:uuid;not null;index"`

	// Relationships
	MediaItem *MediaItem `json:"-" gorm:"foreignKey:MediaItemID"`
}

// TableName customization.
func (Note) TableName() string {
	return "notes"
}

// NewNote constructs a note for the given media item. EditedAt stays unset
// until the first edit.
func NewNote(text string, mediaItemID uuid.UUID, quote string) *Note {
	return &Note{
		ID:          uuid.New(),
		Text:        text,
		CreatedAt:   time.Now().UTC(),
		Quote:       quote,
		MediaItemID: mediaItemID,
	}
}

// Edit replaces the note content and stamps EditedAt.
func (n *Note) Edit(text, quote string) {
	n.Text = text
	n.Quote = quote
	now := time.Now().UTC()
	n.EditedAt = &now
}

// SetTimeOffset changes the media time offset and stamps EditedAt.
func (n *Note) SetTimeOffset(seconds *float64) {
	n.TimeOffset = seconds
	now := time.Now().UTC()
	n.EditedAt = &now
}

// WasEdited reports whether the note has been modified since creation.
func (n *Note) WasEdited() bool {
	return n.EditedAt != nil
}

// Preview returns the first 100 characters of the text, with an ellipsis when
// truncated.
func (n *Note) Preview() string {
	runes := []rune(n.Text)
	if len(runes) <= notePreviewLimit {
		return n.Text
	}
	return string(runes[:notePreviewLimit]) + "…"
}
