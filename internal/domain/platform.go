package domain

// PlatformSpec describes a streaming platform the bot links to
type PlatformSpec struct {
	Key       string `json:"key"`        // song.link platform key
	Name      string `json:"name"`       // display name
	EmojiName string `json:"emoji_name"` // application emoji looked up at startup
}

// Platform keys as used by the song.link API - single source of truth
const (
	PlatformAppleMusic = "appleMusic"
	PlatformSpotify    = "spotify"
	PlatformYouTube    = "youtube"
	PlatformSoundCloud = "soundCloud"
	PlatformUnknown    = "unknown" // For links the detector could not classify
)

// FallbackIcon is shown when a platform has no application emoji
const FallbackIcon = "▪️"

// platformTable is ordered: reply entries follow this order, not the API's
var platformTable = []PlatformSpec{
	{Key: PlatformAppleMusic, Name: "Apple Music", EmojiName: "Apple_Music_icon"},
	{Key: PlatformSpotify, Name: "Spotify", EmojiName: "Spotify_icon"},
	{Key: PlatformYouTube, Name: "YouTube", EmojiName: "Youtube_Music_icon"},
	{Key: PlatformSoundCloud, Name: "SoundCloud", EmojiName: "Soundcloud_icon"},
}

// Platforms returns the supported platforms in reply order.
// The returned slice is a copy and may be modified by the caller.
func Platforms() []PlatformSpec {
	platforms := make([]PlatformSpec, len(platformTable))
	copy(platforms, platformTable)
	return platforms
}

// LookupPlatform returns the platform with the given key
func LookupPlatform(key string) (PlatformSpec, bool) {
	for _, platform := range platformTable {
		if platform.Key == key {
			return platform, true
		}
	}
	return PlatformSpec{}, false
}

// IsValidPlatform checks if a platform key is one the bot links to
func IsValidPlatform(key string) bool {
	_, ok := LookupPlatform(key)
	return ok
}
