package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"plat2plat/internal/domain"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public song.link (Odesli) API
	DefaultBaseURL = "https://api.song.link"
	// DefaultTimeout bounds a single song.link request
	DefaultTimeout = 10 * time.Second

	linksPath    = "/v1-alpha.1/links"
	maxErrorBody = 500
)

// Failure kinds. Callers show both to users the same way but can tell them
// apart with errors.Is.
var (
	ErrNetwork           = errors.New("song.link request failed")
	ErrMalformedResponse = errors.New("song.link response malformed")
)

// ResolveError carries the failure kind alongside the underlying cause
type ResolveError struct {
	Kind error
	Err  error
}

func (e *ResolveError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Is matches the failure kind, so errors.Is(err, ErrNetwork) works
func (e *ResolveError) Is(target error) bool { return e.Kind == target }

func networkError(format string, args ...any) error {
	return &ResolveError{Kind: ErrNetwork, Err: fmt.Errorf(format, args...)}
}

func malformedError(format string, args ...any) error {
	return &ResolveError{Kind: ErrMalformedResponse, Err: fmt.Errorf(format, args...)}
}

// Kind returns a short label for a resolve error, for logs and metrics
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	default:
		return "error"
	}
}

// Options configures a Client
type Options struct {
	BaseURL     string        // defaults to DefaultBaseURL
	APIKey      string        // optional song.link API key
	UserCountry string        // optional ISO country used for store lookups
	Timeout     time.Duration // defaults to DefaultTimeout
	HTTPClient  *http.Client  // overrides Timeout when set
}

// Client resolves music links to their equivalents on other platforms
type Client struct {
	baseURL     string
	apiKey      string
	userCountry string
	platforms   []domain.PlatformSpec
	logger      *slog.Logger
	httpClient  *http.Client
}

// linksResponse is the subset of the song.link links response we read
type linksResponse struct {
	EntityUniqueID     string                     `json:"entityUniqueId"`
	EntitiesByUniqueID map[string]entity          `json:"entitiesByUniqueId"`
	LinksByPlatform    map[string]platformLinkDTO `json:"linksByPlatform"`
}

type entity struct {
	Title        string `json:"title"`
	ArtistName   string `json:"artistName"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type platformLinkDTO struct {
	URL string `json:"url"`
}

// New creates a new song.link client
func New(opts Options, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      opts.APIKey,
		userCountry: opts.UserCountry,
		platforms:   domain.Platforms(),
		logger:      logger,
		httpClient:  httpClient,
	}
}

// Resolve looks up musicURL on song.link with a single request.
// Errors match ErrNetwork or ErrMalformedResponse.
func (c *Client) Resolve(ctx context.Context, musicURL string) (*domain.ResolvedTrack, error) {
	requestURL, err := c.buildLinksURL(musicURL)
	if err != nil {
		return nil, networkError("failed to build request URL: %w", err)
	}

	c.logger.Debug("Making song.link API request",
		"music_url", musicURL,
		"api_url", requestURL,
	)

	resp, err := c.fetchLinks(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	track, err := c.toTrack(resp)
	if err != nil {
		return nil, err
	}

	c.logger.Info("song.link resolution successful",
		"music_url", musicURL,
		"title", track.Title,
		"artist", track.Artist,
		"platforms", len(track.Links),
	)

	return track, nil
}

// buildLinksURL constructs the links endpoint URL with query parameters
func (c *Client) buildLinksURL(musicURL string) (string, error) {
	baseURL, err := url.Parse(c.baseURL + linksPath)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	query := baseURL.Query()
	query.Set("url", musicURL)
	if c.userCountry != "" {
		query.Set("userCountry", c.userCountry)
	}
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}
	baseURL.RawQuery = query.Encode()

	return baseURL.String(), nil
}

// fetchLinks makes the HTTP request and decodes the body
func (c *Client) fetchLinks(ctx context.Context, requestURL string) (*linksResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, networkError("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, networkError("HTTP error: %s (body: %s)", resp.Status, string(body))
	}

	var links linksResponse
	if err := json.NewDecoder(resp.Body).Decode(&links); err != nil {
		return nil, malformedError("failed to parse JSON response: %w", err)
	}

	return &links, nil
}

// toTrack maps the API response onto a ResolvedTrack in platform order
func (c *Client) toTrack(resp *linksResponse) (*domain.ResolvedTrack, error) {
	if resp.EntityUniqueID == "" {
		return nil, malformedError("missing entityUniqueId")
	}
	if resp.EntitiesByUniqueID == nil {
		return nil, malformedError("missing entitiesByUniqueId")
	}
	primary, ok := resp.EntitiesByUniqueID[resp.EntityUniqueID]
	if !ok {
		return nil, malformedError("entity %q not found in entitiesByUniqueId", resp.EntityUniqueID)
	}

	track := &domain.ResolvedTrack{
		Title:        primary.Title,
		Artist:       primary.ArtistName,
		ThumbnailURL: primary.ThumbnailURL,
		Links:        make([]domain.PlatformLink, 0, len(c.platforms)),
	}
	if track.Title == "" {
		track.Title = domain.UnknownTitle
	}
	if track.Artist == "" {
		track.Artist = domain.UnknownArtist
	}

	for _, platform := range c.platforms {
		link, ok := resp.LinksByPlatform[platform.Key]
		if !ok || link.URL == "" {
			continue
		}
		track.Links = append(track.Links, domain.PlatformLink{
			Platform: platform.Key,
			URL:      link.URL,
		})
	}

	return track, nil
}
