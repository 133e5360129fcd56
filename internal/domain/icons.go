package domain

// IconCache maps platform keys to a renderable icon. It is built once at
// startup and never mutated afterwards, so it can be shared between
// message handlers without locking.
type IconCache struct {
	icons map[string]string
}

// NewIconCache copies icons into a new cache. Every key in Platforms()
// missing from icons is filled with FallbackIcon.
func NewIconCache(icons map[string]string) *IconCache {
	cache := &IconCache{icons: make(map[string]string, len(platformTable))}
	for key, icon := range icons {
		if icon != "" {
			cache.icons[key] = icon
		}
	}
	for _, platform := range platformTable {
		if _, ok := cache.icons[platform.Key]; !ok {
			cache.icons[platform.Key] = FallbackIcon
		}
	}
	return cache
}

// FallbackIconCache returns a cache holding FallbackIcon for every platform
func FallbackIconCache() *IconCache {
	return NewIconCache(nil)
}

// Get returns the icon for a platform, or FallbackIcon if none is cached.
// A nil cache behaves like FallbackIconCache().
func (c *IconCache) Get(platformKey string) string {
	if c == nil {
		return FallbackIcon
	}
	if icon, ok := c.icons[platformKey]; ok {
		return icon
	}
	return FallbackIcon
}

// Len returns the number of cached icons
func (c *IconCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.icons)
}
