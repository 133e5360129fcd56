package domain

// Defaults used when song.link omits entity metadata
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
)

// PlatformLink is one platform's URL for a resolved track
type PlatformLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// ResolvedTrack is the normalized result of a song.link lookup.
// Links only contains known platform keys, ordered as Platforms().
type ResolvedTrack struct {
	Title        string         `json:"title"`
	Artist       string         `json:"artist"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"` // empty when absent
	Links        []PlatformLink `json:"links"`
}

// HasLinks reports whether any platform link was resolved
func (t *ResolvedTrack) HasLinks() bool {
	return len(t.Links) > 0
}
