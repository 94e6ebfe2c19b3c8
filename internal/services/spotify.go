// Spotify Web API implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// maxPageSize is the largest page the playlist items endpoint serves.
	maxPageSize = 100
)

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
	IsLocal bool            `json:"is_local"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
// Track is nil for items that are no longer available.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedPlaylistTracks is one page of playlist items.
type SpotifyPaginatedPlaylistTracks struct {
	Items    []SpotifyPlaylistTrack `json:"items"`
	Total    int                    `json:"total"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
	Next     *string                `json:"next"`
	Previous *string                `json:"previous"`
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	BaseURL      string       // defaults to the public Web API
	TokenURL     string       // defaults to the accounts service
	PageSize     int          // items per page, at most 100
	RateLimit    float64      // requests per second; zero or less disables pacing
	HTTPClient   *http.Client // transport for both token and API requests
	Logger       *log.Logger
}

// SpotifyService implements [Catalog] for the Spotify Web API.
type SpotifyService struct {
	config     *clientcredentials.Config
	baseURL    string
	pageSize   int
	transport  *http.Client
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyService creates a Spotify catalog client. No request is made until the first call.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrMissingCredentials)
	}

	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.PageSize <= 0 || opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &SpotifyService{
		config: &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		},
		baseURL:   opts.BaseURL,
		pageSize:  opts.PageSize,
		transport: opts.HTTPClient,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    opts.Logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate fetches an app token with the client credentials flow.
// The resulting client refreshes the token on expiry.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.transport)
	token, err := s.config.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	refreshCtx := context.WithValue(context.Background(), oauth2.HTTPClient, s.transport)
	s.httpClient = oauth2.NewClient(refreshCtx, oauth2.ReuseTokenSource(token, s.config.TokenSource(refreshCtx)))
	s.logger.Debug("authenticated with spotify", "expires", token.Expiry)
	return nil
}

// doRequest performs an authenticated GET against rawURL and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, rawURL string, result any) error {
	if s.httpClient == nil {
		if err := s.Authenticate(ctx); err != nil {
			return err
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, rawURL)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// PlaylistName returns the display name of a playlist.
func (s *SpotifyService) PlaylistName(ctx context.Context, playlistID string) (string, error) {
	endpoint := fmt.Sprintf("%s/playlists/%s?fields=name", s.baseURL, url.PathEscape(playlistID))

	var response struct {
		Name string `json:"name"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return "", err
	}
	return response.Name, nil
}

// PlaylistTracks returns every track of a playlist, following the next links until the last page.
//
// Items without a track object still count toward the position, so ordinals match the playlist.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.RemoteTrack, error) {
	next := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d&offset=0", s.baseURL, url.PathEscape(playlistID), s.pageSize)

	var (
		tracks   []models.RemoteTrack
		position int
		pages    int
	)
	for next != "" {
		var page SpotifyPaginatedPlaylistTracks
		if err := s.doRequest(ctx, next, &page); err != nil {
			return nil, err
		}
		pages++

		for _, item := range page.Items {
			position++
			if item.Track == nil {
				s.logger.Debug("skipping unavailable playlist item", "position", position)
				continue
			}
			tracks = append(tracks, toRemoteTrack(position, item.Track))
		}

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	s.logger.Debug("fetched playlist tracks", "playlist", playlistID, "tracks", len(tracks), "pages", pages)
	return tracks, nil
}

// ExportPlaylist returns the playlist name and its complete track list.
func (s *SpotifyService) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	name, err := s.PlaylistName(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	tracks, err := s.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &models.PlaylistExport{
		Playlist: models.Playlist{ID: playlistID, Name: name, TrackCount: len(tracks)},
		Tracks:   tracks,
	}, nil
}

func toRemoteTrack(ordinal int, t *SpotifyTrack) models.RemoteTrack {
	track := models.RemoteTrack{
		Ordinal: ordinal,
		Title:   t.Name,
		Album:   t.Album.Name,
	}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	return track
}
