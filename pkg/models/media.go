package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MediaItem is a hierarchical media entry. It owns its children, notes and
// attributes; deleting an item removes all of them.
//
// Parent and Children are kept mutually consistent by routing every link
// mutation through AttachChild. The kind taxonomy caps hierarchies at two
// levels (container -> leaf), so loading Children one level deep captures the
// full subtree.
type MediaItem struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title      string     `json:"title" gorm:"not null;index"`
	Kind       MediaKind  `json:"kind" gorm:"type:varchar(32);not null;index"`
	Subtitle   string     `json:"subtitle,omitempty"`
	ArtworkURL string     `json:"artwork_url,omitempty"`
	SortKey    *string    `json:"sort_key,omitempty" gorm:"type:varchar(255)"`
	CreatedAt  time.Time  `json:"created_at"`
	// UpdatedAt is managed explicitly: refreshed on updates, attribute
	// mutations and child additions, and on note creation for the owner,
	// but never on note edits.
	UpdatedAt  time.Time  `json:"updated_at" gorm:"index;autoUpdateTime:false"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`

	// Relationships
	Parent     *MediaItem        `json:"-" gorm:"foreignKey:ParentID"`
	Children   []*MediaItem      `json:"children,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Notes      []*Note           `json:"notes,omitempty" gorm:"foreignKey:MediaItemID;constraint:OnDelete:CASCADE"`
	Attributes []*MediaAttribute `json:"attributes,omitempty" gorm:"foreignKey:MediaItemID;constraint:OnDelete:CASCADE"`
}

// TableName customization.
func (MediaItem) TableName() string {
	return "media_items"
}

// NewMediaItem constructs a root-level media item. Kind is fixed at
// construction; there is deliberately no setter for it.
func NewMediaItem(title string, kind MediaKind) *MediaItem {
	now := time.Now().UTC()
	return &MediaItem{
		ID:        uuid.New(),
		Title:     title,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the update timestamp.
func (m *MediaItem) Touch() {
	m.UpdatedAt = time.Now().UTC()
}

// AttachChild links child under m, keeping both sides of the relationship
// consistent, and refreshes m's update timestamp. Kind validation happens in
// the repository's AddChild; this is the single low-level link mutator.
func (m *MediaItem) AttachChild(child *MediaItem) {
	child.ParentID = &m.ID
	child.Parent = m
	m.Children = append(m.Children, child)
	m.Touch()
}

// TotalNoteCount is the number of notes on m plus all of its descendants.
func (m *MediaItem) TotalNoteCount() int {
	count := len(m.Notes)
	for _, child := range m.Children {
		count += child.TotalNoteCount()
	}
	return count
}

// AllNotes flattens m's own notes and every descendant's notes, newest first.
func (m *MediaItem) AllNotes() []*Note {
	notes := make([]*Note, 0, len(m.Notes))
	notes = append(notes, m.Notes...)
	for _, child := range m.Children {
		notes = append(notes, child.AllNotes()...)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes
}

// LatestNoteTime returns the creation time of the most recent note on m or
// any descendant, or nil when the subtree has no notes.
func (m *MediaItem) LatestNoteTime() *time.Time {
	var latest *time.Time
	for _, note := range m.Notes {
		if latest == nil || note.CreatedAt.After(*latest) {
			t := note.CreatedAt
			latest = &t
		}
	}
	for _, child := range m.Children {
		if t := child.LatestNoteTime(); t != nil && (latest == nil || t.After(*latest)) {
			latest = t
		}
	}
	return latest
}

// SortedChildren orders siblings for display. Children carrying a sort key
// come first, compared with numeric-aware collation so "S01E2" sorts before
// "S01E10". Children without a sort key follow, ordered by creation time.
func (m *MediaItem) SortedChildren() []*MediaItem {
	children := make([]*MediaItem, len(m.Children))
	copy(children, m.Children)

	coll := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		switch {
		case a.SortKey != nil && b.SortKey != nil:
			return coll.CompareString(*a.SortKey, *b.SortKey) < 0
		case a.SortKey != nil:
			return true
		case b.SortKey != nil:
			return false
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return children
}

// GetAttribute returns the first attribute stored under key, or nil.
// Duplicate keys are representable when callers bypass SetAttribute; lookups
// see only the first match.
func (m *MediaItem) GetAttribute(key AttributeKey) *MediaAttribute {
	for _, attr := range m.Attributes {
		if attr.Key == string(key) {
			return attr
		}
	}
	return nil
}

// SetAttribute upserts the attribute for key and refreshes the update
// timestamp. Existing entries for the key are replaced, never duplicated.
func (m *MediaItem) SetAttribute(key AttributeKey, value string) *MediaAttribute {
	if existing := m.GetAttribute(key); existing != nil {
		existing.Value = value
		m.Touch()
		return existing
	}
	attr := &MediaAttribute{
		ID:          uuid.New(),
		Key:         string(key),
		Value:       value,
		MediaItemID: m.ID,
		CreatedAt:   time.Now().UTC(),
	}
	m.Attributes = append(m.Attributes, attr)
	m.Touch()
	return attr
}

// AddAttribute appends an attribute without key deduplication.
func (m *MediaItem) AddAttribute(key AttributeKey, value string) *MediaAttribute {
	attr := &MediaAttribute{
		ID:          uuid.New(),
		Key:         string(key),
		Value:       value,
		MediaItemID: m.ID,
		CreatedAt:   time.Now().UTC(),
	}
	m.Attributes = append(m.Attributes, attr)
	m.Touch()
	return attr
}

// ParentChain returns the titles from the root down to m's direct parent.
// Requires Parent links to be loaded.
func (m *MediaItem) ParentChain() []string {
	var chain []string
	for p := m.Parent; p != nil; p = p.Parent {
		chain = append([]string{p.Title}, chain...)
	}
	return chain
}
