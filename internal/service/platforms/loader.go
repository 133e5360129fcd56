package platforms

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"plat2plat/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// EmojiSource defines the part of the Discord API the loader needs
type EmojiSource interface {
	ApplicationEmojis(appID string, options ...discordgo.RequestOption) ([]*discordgo.Emoji, error)
}

// LookupStatus is the outcome of looking up one platform's icon
type LookupStatus string

const (
	LookupFound            LookupStatus = "found"
	LookupMiss             LookupStatus = "miss"
	LookupPermissionDenied LookupStatus = "permission_denied"
	LookupFetchFailed      LookupStatus = "fetch_failed"
)

// LookupResult records how a platform's icon was resolved
type LookupResult struct {
	Platform  string
	EmojiName string
	Status    LookupStatus
	Icon      string
}

// ErrPermissionDenied is returned by FetchEmojis when Discord rejects the bot's credentials
var ErrPermissionDenied = errors.New("not permitted to fetch application emojis")

// Loader builds the icon cache from the bot's application emojis
type Loader struct {
	source    EmojiSource
	platforms []domain.PlatformSpec
	logger    *slog.Logger
}

// NewLoader creates a new icon loader for the supported platforms
func NewLoader(source EmojiSource, logger *slog.Logger) *Loader {
	return &Loader{
		source:    source,
		platforms: domain.Platforms(),
		logger:    logger,
	}
}

// Load fetches application emojis and caches one icon per platform.
// It never fails: platforms without an emoji get domain.FallbackIcon.
func (l *Loader) Load(appID string) (*domain.IconCache, []LookupResult) {
	l.logger.Info("Fetching and caching application emojis...", "application_id", appID)

	emojis, err := l.FetchEmojis(appID)
	if err != nil {
		status := LookupFetchFailed
		if errors.Is(err, ErrPermissionDenied) {
			status = LookupPermissionDenied
			l.logger.Error("Bot does not have permission to fetch application emojis, using fallback icons",
				"error", err,
			)
		} else {
			l.logger.Error("Unexpected error fetching application emojis, using fallback icons",
				"error", err,
			)
		}
		return l.fallbackAll(status)
	}

	results := l.match(emojis)
	icons := make(map[string]string, len(results))
	found := 0
	for _, result := range results {
		icons[result.Platform] = result.Icon
		if result.Status == LookupFound {
			found++
		}
	}

	l.logger.Info("Application emojis cached",
		"platforms", len(results),
		"found", found,
		"fallback", len(results)-found,
	)

	return domain.NewIconCache(icons), results
}

// FetchEmojis lists the application's emojis, mapping 401/403 responses to ErrPermissionDenied
func (l *Loader) FetchEmojis(appID string) ([]*discordgo.Emoji, error) {
	emojis, err := l.source.ApplicationEmojis(appID)
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil &&
			(restErr.Response.StatusCode == http.StatusForbidden || restErr.Response.StatusCode == http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("failed to fetch application emojis: %w", err)
	}
	return emojis, nil
}

// match looks up each platform's emoji by name, first match wins
func (l *Loader) match(emojis []*discordgo.Emoji) []LookupResult {
	byName := make(map[string]*discordgo.Emoji, len(emojis))
	for _, emoji := range emojis {
		if emoji == nil {
			continue
		}
		if _, exists := byName[emoji.Name]; !exists {
			byName[emoji.Name] = emoji
		}
	}

	results := make([]LookupResult, 0, len(l.platforms))
	for _, platform := range l.platforms {
		result := LookupResult{
			Platform:  platform.Key,
			EmojiName: platform.EmojiName,
			Status:    LookupMiss,
			Icon:      domain.FallbackIcon,
		}

		if emoji, ok := byName[platform.EmojiName]; ok {
			result.Status = LookupFound
			result.Icon = emoji.MessageFormat()
			l.logger.Debug("Cached application emoji",
				"platform", platform.Key,
				"emoji_name", platform.EmojiName,
				"emoji_id", emoji.ID,
			)
		} else {
			l.logger.Warn("Could not find an application emoji, using fallback icon",
				"platform", platform.Key,
				"emoji_name", platform.EmojiName,
			)
		}

		results = append(results, result)
	}

	return results
}

// fallbackAll gives every platform the fallback icon
func (l *Loader) fallbackAll(status LookupStatus) (*domain.IconCache, []LookupResult) {
	results := make([]LookupResult, 0, len(l.platforms))
	for _, platform := range l.platforms {
		results = append(results, LookupResult{
			Platform:  platform.Key,
			EmojiName: platform.EmojiName,
			Status:    status,
			Icon:      domain.FallbackIcon,
		})
	}
	return domain.FallbackIconCache(), results
}
