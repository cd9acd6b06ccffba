package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// AttributeKey is a namespaced metadata key of the form "<namespace>.<name>",
// e.g. "tv.seasonNumber". The set is open: arbitrary keys are persisted as-is;
// the catalog below only drives display names and per-kind suggestions.
type AttributeKey string

// Well-known attribute keys.
const (
	AttrSeasonNumber   AttributeKey = "tv.seasonNumber"
	AttrEpisodeNumber  AttributeKey = "tv.episodeNumber"
	AttrNetwork        AttributeKey = "tv.network"
	AttrDirector       AttributeKey = "movie.director"
	AttrAuthor         AttributeKey = "book.author"
	AttrISBN           AttributeKey = "book.isbn"
	AttrPageCount      AttributeKey = "book.pageCount"
	AttrArtist         AttributeKey = "music.artist"
	AttrTrackNumber    AttributeKey = "music.trackNumber"
	AttrVenue          AttributeKey = "event.venue"
	AttrEventDate      AttributeKey = "event.date"
	AttrReleaseYear    AttributeKey = "media.releaseYear"
	AttrGenre          AttributeKey = "media.genre"
	AttrRuntimeMinutes AttributeKey = "media.runtimeMinutes"
)

var attributeDisplayNames = map[AttributeKey]string{
	AttrSeasonNumber:   "Season",
	AttrEpisodeNumber:  "Episode",
	AttrNetwork:        "Network",
	AttrDirector:       "Director",
	AttrAuthor:         "Author",
	AttrISBN:           "ISBN",
	AttrPageCount:      "Pages",
	AttrArtist:         "Artist",
	AttrTrackNumber:    "Track Number",
	AttrVenue:          "Venue",
	AttrEventDate:      "Date",
	AttrReleaseYear:    "Release Year",
	AttrGenre:          "Genre",
	AttrRuntimeMinutes: "Runtime (min)",
}

// Namespace returns the part before the first dot, or "" if there is none.
func (k AttributeKey) Namespace() string {
	if i := strings.Index(string(k), "."); i >= 0 {
		return string(k)[:i]
	}
	return ""
}

// Name returns the part after the first dot, or the whole key if there is no dot.
func (k AttributeKey) Name() string {
	if i := strings.Index(string(k), "."); i >= 0 {
		return string(k)[i+1:]
	}
	return string(k)
}

// DisplayName returns the catalog display name for well-known keys. Unknown
// keys fall back to a capitalized rendering of their name component.
func (k AttributeKey) DisplayName() string {
	if name, ok := attributeDisplayNames[k]; ok {
		return name
	}
	name := k.Name()
	if name == "" {
		return string(k)
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + name[size:]
}

// MediaAttribute is a typed metadata entry owned by exactly one media item.
// It is removed together with its owner.
type MediaAttribute struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Key         string    `json:"key" gorm:"not null;index"`
	Value       string    `json:"value" gorm:"type:text;not null"`
	MediaItemID uuid.UUID `json:"media_item_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttributeKey returns the typed key of the attribute.
func (a *MediaAttribute) AttributeKey() AttributeKey {
	return AttributeKey(a.Key)
}

// TableName customization.
func (MediaAttribute) TableName() string {
	return "media_attributes"
}
