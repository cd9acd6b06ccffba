package models

// MediaKind is the closed set of media entry kinds.
type MediaKind string

const (
	KindMovie       MediaKind = "movie"
	KindTVSeries    MediaKind = "tv_series"
	KindEpisode     MediaKind = "episode"
	KindBook        MediaKind = "book"
	KindChapter     MediaKind = "chapter"
	KindAlbum       MediaKind = "album"
	KindTrack       MediaKind = "track"
	KindLiveEvent   MediaKind = "live_event"
	KindPerformance MediaKind = "performance"
	KindOther       MediaKind = "other"
)

// AllKinds returns every valid media kind.
func AllKinds() []MediaKind {
	return []MediaKind{
		KindMovie, KindTVSeries, KindEpisode, KindBook, KindChapter,
		KindAlbum, KindTrack, KindLiveEvent, KindPerformance, KindOther,
	}
}

// childKinds is the total hierarchy table: only container kinds appear.
var childKinds = map[MediaKind]MediaKind{
	KindTVSeries:  KindEpisode,
	KindBook:      KindChapter,
	KindAlbum:     KindTrack,
	KindLiveEvent: KindPerformance,
}

var kindDisplayNames = map[MediaKind]string{
	KindMovie:       "Movie",
	KindTVSeries:    "TV Series",
	KindEpisode:     "Episode",
	KindBook:        "Book",
	KindChapter:     "Chapter",
	KindAlbum:       "Album",
	KindTrack:       "Track",
	KindLiveEvent:   "Live Event",
	KindPerformance: "Performance",
	KindOther:       "Other",
}

var kindIcons = map[MediaKind]string{
	KindMovie:       "film",
	KindTVSeries:    "tv",
	KindEpisode:     "play.rectangle",
	KindBook:        "book",
	KindChapter:     "bookmark",
	KindAlbum:       "opticaldisc",
	KindTrack:       "music.note",
	KindLiveEvent:   "ticket",
	KindPerformance: "music.mic",
	KindOther:       "square.grid.2x2",
}

// IsValid reports whether k is one of the closed set of kinds.
func (k MediaKind) IsValid() bool {
	_, ok := kindDisplayNames[k]
	return ok
}

// DisplayName returns the human-readable name of the kind.
func (k MediaKind) DisplayName() string {
	if name, ok := kindDisplayNames[k]; ok {
		return name
	}
	return string(k)
}

// Icon returns the icon identifier for the kind.
func (k MediaKind) Icon() string {
	if icon, ok := kindIcons[k]; ok {
		return icon
	}
	return kindIcons[KindOther]
}

// ChildKind returns the kind children of k must have. The second return is
// false for leaf kinds.
func (k MediaKind) ChildKind() (MediaKind, bool) {
	child, ok := childKinds[k]
	return child, ok
}

// CanHaveChildren reports whether k is a container kind.
func (k MediaKind) CanHaveChildren() bool {
	_, ok := childKinds[k]
	return ok
}

// SuggestedAttributeKeys returns the well-known attribute keys commonly
// attached to entries of this kind.
func (k MediaKind) SuggestedAttributeKeys() []AttributeKey {
	switch k {
	case KindMovie:
		return []AttributeKey{AttrDirector, AttrReleaseYear, AttrGenre, AttrRuntimeMinutes}
	case KindTVSeries:
		return []AttributeKey{AttrNetwork, AttrReleaseYear, AttrGenre}
	case KindEpisode:
		return []AttributeKey{AttrSeasonNumber, AttrEpisodeNumber, AttrRuntimeMinutes}
	case KindBook:
		return []AttributeKey{AttrAuthor, AttrISBN, AttrReleaseYear, AttrGenre}
	case KindChapter:
		return []AttributeKey{AttrPageCount}
	case KindAlbum:
		return []AttributeKey{AttrArtist, AttrReleaseYear, AttrGenre}
	case KindTrack:
		return []AttributeKey{AttrTrackNumber, AttrRuntimeMinutes}
	case KindLiveEvent:
		return []AttributeKey{AttrVenue, AttrEventDate}
	case KindPerformance:
		return []AttributeKey{AttrArtist}
	default:
		return []AttributeKey{AttrGenre, AttrReleaseYear}
	}
}
