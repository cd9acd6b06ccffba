package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/notedmedia/noted/internal/catalog/repository"
	"github.com/notedmedia/noted/pkg/interfaces"
	"github.com/notedmedia/noted/pkg/models"
)

// SortOrder is the closed set of library sort orders.
type SortOrder string

const (
	SortRecentlyNoted SortOrder = "recently_noted"
	SortRecentlyAdded SortOrder = "recently_added"
	SortAlphabetical  SortOrder = "alphabetical"
	SortNoteCount     SortOrder = "note_count"
)

// Scope selects which result buckets a consumer sees. Switching scope never
// re-runs the query.
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeMedia Scope = "media"
	ScopeNotes Scope = "notes"
)

// Results holds the outcome of one global search. Performed distinguishes a
// search that ran and found nothing from a blank query that never ran.
type Results struct {
	Performed bool
	Query     string
	Media     []*models.MediaItem
	Notes     []*models.Note
}

// MediaInScope returns the media bucket, or nil when scoped to notes.
func (r *Results) MediaInScope(scope Scope) []*models.MediaItem {
	if scope == ScopeNotes {
		return nil
	}
	return r.Media
}

// NotesInScope returns the notes bucket, or nil when scoped to media.
func (r *Results) NotesInScope(scope Scope) []*models.Note {
	if scope == ScopeMedia {
		return nil
	}
	return r.Notes
}

// Engine runs global searches and pure in-memory filtering and sorting over
// snapshots the repositories return.
type Engine struct {
	media  repository.MediaRepository
	notes  repository.NoteRepository
	logger interfaces.Logger
}

// NewEngine creates a new search engine.
func NewEngine(media repository.MediaRepository, notes repository.NoteRepository, logger interfaces.Logger) *Engine {
	return &Engine{
		media:  media,
		notes:  notes,
		logger: logger.WithFields(interfaces.String("component", "search")),
	}
}

// Search scans media titles and note text concurrently for the query as a
// case-insensitive substring. A blank query short-circuits to a not-performed
// result. Both scans complete before results are surfaced.
func (e *Engine) Search(ctx context.Context, query string) (*Results, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &Results{Performed: false, Query: trimmed}, nil
	}

	results := &Results{Performed: true, Query: trimmed}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		media, err := e.media.SearchMediaItems(gctx, trimmed)
		if err != nil {
			return err
		}
		results.Media = media
		return nil
	})
	g.Go(func() error {
		notes, err := e.notes.SearchNotes(gctx, trimmed)
		if err != nil {
			return err
		}
		results.Notes = notes
		return nil
	})
	if err := g.Wait(); err != nil {
		e.logger.Error("Global search failed",
			interfaces.String("query", trimmed),
			interfaces.Error(err))
		return nil, err
	}

	return results, nil
}

// FilterLibrary keeps only items whose subtree carries at least one note,
// optionally narrowed to a single kind, and sorts them by the given order.
func FilterLibrary(items []*models.MediaItem, kind *models.MediaKind, order SortOrder) []*models.MediaItem {
	filtered := make([]*models.MediaItem, 0, len(items))
	for _, item := range items {
		if item.TotalNoteCount() == 0 {
			continue
		}
		if kind != nil && item.Kind != *kind {
			continue
		}
		filtered = append(filtered, item)
	}
	SortItems(filtered, order)
	return filtered
}

// SortItems orders items in place by the given order. Ties keep their
// incoming relative order.
func SortItems(items []*models.MediaItem, order SortOrder) {
	switch order {
	case SortRecentlyNoted:
		sort.SliceStable(items, func(i, j int) bool {
			return latestOrZero(items[i]).After(latestOrZero(items[j]))
		})
	case SortRecentlyAdded:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	case SortAlphabetical:
		coll := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			return coll.CompareString(items[i].Title, items[j].Title) < 0
		})
	case SortNoteCount:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].TotalNoteCount() > items[j].TotalNoteCount()
		})
	}
}

// latestOrZero treats items without notes as noted in the distant past.
func latestOrZero(item *models.MediaItem) time.Time {
	if t := item.LatestNoteTime(); t != nil {
		return *t
	}
	return time.Time{}
}

// FilterPicker narrows candidates for attaching a note: an optional kind
// filter combined with a case-insensitive substring match against the title,
// subtitle or parent title.
func FilterPicker(items []*models.MediaItem, kind *models.MediaKind, query string) []*models.MediaItem {
	query = strings.ToLower(strings.TrimSpace(query))
	filtered := make([]*models.MediaItem, 0, len(items))
	for _, item := range items {
		if kind != nil && item.Kind != *kind {
			continue
		}
		if query != "" && !matchesPicker(item, query) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func matchesPicker(item *models.MediaItem, query string) bool {
	if strings.Contains(strings.ToLower(item.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Subtitle), query) {
		return true
	}
	if item.Parent != nil && strings.Contains(strings.ToLower(item.Parent.Title), query) {
		return true
	}
	return false
}
