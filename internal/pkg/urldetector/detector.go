package urldetector

import (
	"plat2plat/internal/domain"
	"regexp"
	"strings"
)

// URLInfo contains information about a detected URL
type URLInfo struct {
	URL      string
	Platform string
}

// urlShape is one alternative of the combined pattern
type urlShape struct {
	platform string
	pattern  string
}

// Supported link shapes. Order matters only for documentation: the combined
// pattern picks the leftmost match in the text, whichever shape it is.
var urlShapes = []urlShape{
	{domain.PlatformSpotify, `open\.spotify\.com/(?:track|album)/[a-zA-Z0-9]+`},
	{domain.PlatformAppleMusic, `music\.apple\.com/[\w/]+/(?:album|song)/[^/\s]+/\d+`},
	{domain.PlatformSoundCloud, `soundcloud\.com/[^/\s]+/[^/\s]+`},
	{domain.PlatformYouTube, `youtu\.be/[\w-]+`},
	{domain.PlatformYouTube, `www\.youtube\.com/watch\?v=[\w-]+`},
}

// musicLinkPattern is shared by all detectors; *regexp.Regexp is safe for concurrent use
var musicLinkPattern = buildPattern(urlShapes)

// buildPattern joins the shapes into one alternation behind a shared scheme.
// Each shape gets its own capture group so the match can be classified.
func buildPattern(shapes []urlShape) *regexp.Regexp {
	alternatives := make([]string, 0, len(shapes))
	for _, shape := range shapes {
		alternatives = append(alternatives, "("+shape.pattern+")")
	}
	return regexp.MustCompile(`https?://(?:` + strings.Join(alternatives, "|") + `)`)
}

// Detector finds the first supported music link in message content
type Detector struct {
	pattern *regexp.Regexp
	shapes  []urlShape
}

// New creates a new URL detector for the supported platforms
func New() *Detector {
	return &Detector{
		pattern: musicLinkPattern,
		shapes:  urlShapes,
	}
}

// Detect returns the leftmost supported link in content, unmodified.
// The second return value is false if content holds no supported link.
func (d *Detector) Detect(content string) (URLInfo, bool) {
	loc := d.pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return URLInfo{}, false
	}

	info := URLInfo{
		URL:      content[loc[0]:loc[1]],
		Platform: domain.PlatformUnknown,
	}

	// Group i+1 holds shape i; exactly one group participates in the match
	for i, shape := range d.shapes {
		if loc[2*(i+1)] >= 0 {
			info.Platform = shape.platform
			break
		}
	}

	return info, true
}

// IsSupported checks if content contains any supported music link
func (d *Detector) IsSupported(content string) bool {
	return d.pattern.MatchString(content)
}

// GetSupportedPlatforms returns the platform keys links can be detected for
func (d *Detector) GetSupportedPlatforms() []string {
	seen := make(map[string]bool)
	platforms := make([]string, 0, len(d.shapes))
	for _, shape := range d.shapes {
		if !seen[shape.platform] {
			seen[shape.platform] = true
			platforms = append(platforms, shape.platform)
		}
	}
	return platforms
}

// Extract returns the leftmost supported music link in text
func Extract(text string) (string, bool) {
	loc := musicLinkPattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}
