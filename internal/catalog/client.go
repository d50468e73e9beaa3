// Package catalog provides mood-driven track search and playlist creation
// against the Spotify Web API.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
)

const searchMarket = "US"

// Client wraps the Spotify API client with the operations the playlist
// builder needs. The underlying client must already be authenticated.
type Client struct {
	api *spotify.Client
}

// New creates a new catalog client wrapper.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// UserID returns the current user's Spotify ID.
func (c *Client) UserID(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("getting current user: %w", err)
	}
	return user.ID, nil
}

// SearchTracks runs a single track search and converts the results.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack,
		spotify.Limit(limit), spotify.Market(searchMarket))
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}

	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]Track, 0, len(result.Tracks.Tracks))
	for _, ft := range result.Tracks.Tracks {
		tracks = append(tracks, convertTrack(ft, query))
	}
	return tracks, nil
}

// CreatePlaylist creates a public playlist for the current user and
// returns its ID and public URL.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (id, url string, err error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return "", "", err
	}

	playlist, err := c.api.CreatePlaylistForUser(ctx, userID, name, description, true, false)
	if err != nil {
		return "", "", fmt.Errorf("creating playlist: %w", err)
	}

	return playlist.ID.String(), playlist.ExternalURLs["spotify"], nil
}

// AddTracks adds tracks to a playlist in one bulk operation.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	if _, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
		return fmt.Errorf("adding tracks: %w", err)
	}
	return nil
}

// RemovePlaylist unfollows (deletes, from the user's perspective) a
// playlist. Used to compensate when populating a fresh playlist fails.
func (c *Client) RemovePlaylist(ctx context.Context, playlistID string) error {
	if err := c.api.UnfollowPlaylist(ctx, spotify.ID(playlistID)); err != nil {
		return fmt.Errorf("removing playlist: %w", err)
	}
	return nil
}

// convertTrack converts a Spotify FullTrack to a catalog Track, recording
// which query produced it.
func convertTrack(ft spotify.FullTrack, source string) Track {
	artist := ""
	if len(ft.Artists) > 0 {
		artist = ft.Artists[0].Name
	}

	return Track{
		Name:         ft.Name,
		Artist:       artist,
		URI:          string(ft.URI),
		ID:           ft.ID.String(),
		PreviewURL:   ft.PreviewURL,
		ExternalURL:  ft.ExternalURLs["spotify"],
		SearchSource: source,
	}
}

// trackIDFromURI extracts the bare track ID from a spotify:track: URI.
// Returns the input unchanged when it is not in URI form.
func trackIDFromURI(uri string) string {
	if i := strings.LastIndex(uri, ":"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
