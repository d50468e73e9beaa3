package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
)

const embedURLPrefix = "https://open.spotify.com/embed/playlist/"

var (
	// ErrNotAuthenticated is returned when catalog operations are attempted
	// before a session is established.
	ErrNotAuthenticated = errors.New("not authenticated with the catalog service")

	// ErrPlaylistCreate is returned when creating or populating a playlist
	// fails. The caller never receives a half-populated playlist reference.
	ErrPlaylistCreate = errors.New("playlist creation failed")
)

// API is the set of catalog operations the builder depends on.
// *Client implements it against the Spotify Web API.
type API interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
	CreatePlaylist(ctx context.Context, name, description string) (id, url string, err error)
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
	RemovePlaylist(ctx context.Context, playlistID string) error
}

// Builder runs weighted multi-query searches and creates playlists.
// The random source drives the final shuffle; inject a seeded source for
// reproducible ordering. rand.Rand is not safe for concurrent use, so
// rngMu serializes shuffles across requests.
type Builder struct {
	api   API
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewBuilder creates a Builder. api may be nil before authentication, in
// which case every operation fails with ErrNotAuthenticated.
func NewBuilder(api API, rng *rand.Rand) *Builder {
	return &Builder{api: api, rng: rng}
}

// SetAPI installs the authenticated catalog client.
// Expected to be called once at session establishment; the builder has a
// single-writer expectation if concurrent use is added later.
func (b *Builder) SetAPI(api API) {
	b.api = api
}

// SearchTracks builds the weighted query batch, executes each query, and
// returns up to limit unique tracks in shuffled order. A single query's
// failure is logged and skipped; it does not abort the batch. When the
// merged unique pool is smaller than limit, all of it is returned.
func (b *Builder) SearchTracks(ctx context.Context, genres []string, limit int, keywords []string, energyLevel string) ([]Track, error) {
	if b.api == nil {
		return nil, ErrNotAuthenticated
	}

	queries := BuildQueries(genres, keywords, energyLevel)
	if len(queries) == 0 {
		return nil, nil
	}
	limits := quotas(queries, limit)

	var all []Track
	for i, q := range queries {
		tracks, err := b.api.SearchTracks(ctx, q.Text, limits[i])
		if err != nil {
			log.Printf("search %q failed, skipping: %v", q.Text, err)
			continue
		}
		all = append(all, tracks...)
	}

	unique := dedupeTracks(all)
	b.rngMu.Lock()
	b.rng.Shuffle(len(unique), func(i, j int) {
		unique[i], unique[j] = unique[j], unique[i]
	})
	b.rngMu.Unlock()

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique, nil
}

// CreatePlaylist creates a public playlist, adds all tracks in one bulk
// call, and returns the playlist reference with a derived embed URL.
// If adding tracks fails, the freshly created playlist is removed
// best-effort before reporting failure.
func (b *Builder) CreatePlaylist(ctx context.Context, name string, trackURIs []string, moodPrompt string, emotionalTags, genres []string) (*PlaylistResult, error) {
	if b.api == nil {
		return nil, ErrNotAuthenticated
	}

	description := playlistDescription(moodPrompt, emotionalTags, genres)

	id, url, err := b.api.CreatePlaylist(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlaylistCreate, err)
	}

	trackIDs := make([]string, len(trackURIs))
	for i, uri := range trackURIs {
		trackIDs[i] = trackIDFromURI(uri)
	}

	if err := b.api.AddTracks(ctx, id, trackIDs); err != nil {
		if removeErr := b.api.RemovePlaylist(ctx, id); removeErr != nil {
			log.Printf("removing orphaned playlist %s: %v", id, removeErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPlaylistCreate, err)
	}

	return &PlaylistResult{
		URL:      url,
		ID:       id,
		EmbedURL: embedURLPrefix + id,
	}, nil
}

// playlistDescription joins present context fields with a fixed delimiter.
func playlistDescription(moodPrompt string, emotionalTags, genres []string) string {
	parts := []string{"Generated by MoodCanvas 🎨"}

	if moodPrompt != "" {
		parts = append(parts, `Mood: "`+moodPrompt+`"`)
	}
	if len(emotionalTags) > 0 {
		parts = append(parts, "Emotions: "+strings.Join(emotionalTags, ", "))
	}
	if len(genres) > 0 {
		parts = append(parts, "Genres: "+strings.Join(genres, ", "))
	}

	return strings.Join(parts, " | ")
}

// dedupeTracks removes duplicate URIs, preserving first occurrence.
func dedupeTracks(tracks []Track) []Track {
	seen := make(map[string]struct{}, len(tracks))
	unique := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.URI]; ok {
			continue
		}
		seen[t.URI] = struct{}{}
		unique = append(unique, t)
	}
	return unique
}
