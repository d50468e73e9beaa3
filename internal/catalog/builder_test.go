package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
)

// fakeAPI implements API with canned results and call recording.
type fakeAPI struct {
	searchResults map[string][]Track
	searchErrs    map[string]error
	searchCalls   []string

	createdName        string
	createdDescription string
	createErr          error
	addErr             error
	addedTracks        []string
	removedPlaylists   []string
	calls              int
}

func (f *fakeAPI) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	f.calls++
	f.searchCalls = append(f.searchCalls, query)
	if err, ok := f.searchErrs[query]; ok {
		return nil, err
	}
	tracks := f.searchResults[query]
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (f *fakeAPI) CreatePlaylist(ctx context.Context, name, description string) (string, string, error) {
	f.calls++
	if f.createErr != nil {
		return "", "", f.createErr
	}
	f.createdName = name
	f.createdDescription = description
	return "pl123", "https://open.spotify.com/playlist/pl123", nil
}

func (f *fakeAPI) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	f.calls++
	if f.addErr != nil {
		return f.addErr
	}
	f.addedTracks = append(f.addedTracks, trackIDs...)
	return nil
}

func (f *fakeAPI) RemovePlaylist(ctx context.Context, playlistID string) error {
	f.calls++
	f.removedPlaylists = append(f.removedPlaylists, playlistID)
	return nil
}

func makeTracks(prefix string, n int) []Track {
	tracks := make([]Track, n)
	for i := range tracks {
		tracks[i] = Track{
			Name:   fmt.Sprintf("%s song %d", prefix, i),
			Artist: "Artist",
			URI:    fmt.Sprintf("spotify:track:%s%d", prefix, i),
		}
	}
	return tracks
}

func TestSearchTracks_Unauthenticated(t *testing.T) {
	b := NewBuilder(nil, rand.New(rand.NewSource(1)))

	_, err := b.SearchTracks(context.Background(), []string{"ambient"}, 10, nil, "")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
}

func TestSearchTracks_DedupAndLimit(t *testing.T) {
	shared := Track{Name: "Shared", URI: "spotify:track:shared"}

	api := &fakeAPI{
		searchResults: map[string][]Track{
			"genre:ambient": append(makeTracks("amb", 8), shared),
			"genre:folk":    append(makeTracks("folk", 8), shared),
		},
	}
	b := NewBuilder(api, rand.New(rand.NewSource(42)))

	got, err := b.SearchTracks(context.Background(), []string{"ambient", "folk"}, 10, nil, "")
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}

	if len(got) > 10 {
		t.Errorf("result length = %d, want <= 10", len(got))
	}

	seen := make(map[string]bool)
	for _, track := range got {
		if seen[track.URI] {
			t.Errorf("duplicate URI in result: %s", track.URI)
		}
		seen[track.URI] = true
	}
}

func TestSearchTracks_SmallPoolReturnsAll(t *testing.T) {
	api := &fakeAPI{
		searchResults: map[string][]Track{
			"genre:ambient": makeTracks("amb", 3),
		},
	}
	b := NewBuilder(api, rand.New(rand.NewSource(1)))

	got, err := b.SearchTracks(context.Background(), []string{"ambient"}, 20, nil, "")
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("result length = %d, want all 3 from the small pool", len(got))
	}
}

func TestSearchTracks_PartialFailureTolerated(t *testing.T) {
	api := &fakeAPI{
		searchResults: map[string][]Track{
			"genre:folk": makeTracks("folk", 5),
		},
		searchErrs: map[string]error{
			"genre:ambient": errors.New("rate limited"),
		},
	}
	b := NewBuilder(api, rand.New(rand.NewSource(1)))

	got, err := b.SearchTracks(context.Background(), []string{"ambient", "folk"}, 10, nil, "")
	if err != nil {
		t.Fatalf("SearchTracks() error = %v, failed query should be skipped", err)
	}
	if len(got) != 5 {
		t.Errorf("result length = %d, want 5 from the surviving query", len(got))
	}
}

func TestSearchTracks_ShuffleReproducible(t *testing.T) {
	results := map[string][]Track{
		"genre:ambient": makeTracks("amb", 20),
	}

	run := func(seed int64) []string {
		api := &fakeAPI{searchResults: results}
		b := NewBuilder(api, rand.New(rand.NewSource(seed)))
		got, err := b.SearchTracks(context.Background(), []string{"ambient"}, 10, nil, "")
		if err != nil {
			t.Fatalf("SearchTracks() error = %v", err)
		}
		uris := make([]string, len(got))
		for i, track := range got {
			uris[i] = track.URI
		}
		return uris
	}

	first := run(7)
	second := run(7)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different order:\n%v\n%v", first, second)
		}
	}
}

// staticAPI returns fresh canned tracks on every call and records nothing,
// so concurrent searches exercise only the builder's own state.
type staticAPI struct{}

func (staticAPI) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	return makeTracks("amb", 20), nil
}

func (staticAPI) CreatePlaylist(ctx context.Context, name, description string) (string, string, error) {
	return "pl123", "https://open.spotify.com/playlist/pl123", nil
}

func (staticAPI) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	return nil
}

func (staticAPI) RemovePlaylist(ctx context.Context, playlistID string) error {
	return nil
}

func TestSearchTracks_ConcurrentRequests(t *testing.T) {
	b := NewBuilder(staticAPI{}, rand.New(rand.NewSource(1)))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				got, err := b.SearchTracks(context.Background(), []string{"ambient"}, 10, nil, "")
				if err != nil {
					t.Errorf("SearchTracks() error = %v", err)
					return
				}
				if len(got) != 10 {
					t.Errorf("result length = %d, want 10", len(got))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCreatePlaylist_Unauthenticated(t *testing.T) {
	b := NewBuilder(nil, rand.New(rand.NewSource(1)))

	_, err := b.CreatePlaylist(context.Background(), "Test", nil, "", nil, nil)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
}

func TestCreatePlaylist_Success(t *testing.T) {
	api := &fakeAPI{}
	b := NewBuilder(api, rand.New(rand.NewSource(1)))

	got, err := b.CreatePlaylist(context.Background(), "Peaceful Moments",
		[]string{"spotify:track:abc", "spotify:track:def"},
		"calm evening", []string{"calm", "peaceful"}, []string{"ambient", "folk"})
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}

	if got.ID != "pl123" {
		t.Errorf("ID = %q, want pl123", got.ID)
	}
	if got.EmbedURL != "https://open.spotify.com/embed/playlist/pl123" {
		t.Errorf("EmbedURL = %q", got.EmbedURL)
	}

	if api.createdName != "Peaceful Moments" {
		t.Errorf("created name = %q", api.createdName)
	}

	wantDescription := `Generated by MoodCanvas 🎨 | Mood: "calm evening" | Emotions: calm, peaceful | Genres: ambient, folk`
	if api.createdDescription != wantDescription {
		t.Errorf("description = %q\nwant %q", api.createdDescription, wantDescription)
	}

	// URIs are converted to bare track IDs for the bulk add
	if len(api.addedTracks) != 2 || api.addedTracks[0] != "abc" || api.addedTracks[1] != "def" {
		t.Errorf("added tracks = %v, want [abc def]", api.addedTracks)
	}
}

func TestCreatePlaylist_DescriptionKeepsRawQuotes(t *testing.T) {
	api := &fakeAPI{}
	b := NewBuilder(api, rand.New(rand.NewSource(1)))

	_, err := b.CreatePlaylist(context.Background(), "Test", nil,
		`feeling "blue" with a back\slash`, nil, nil)
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}

	want := `Generated by MoodCanvas 🎨 | Mood: "feeling "blue" with a back\slash"`
	if api.createdDescription != want {
		t.Errorf("description = %q\nwant %q", api.createdDescription, want)
	}
}

func TestCreatePlaylist_DescriptionOmitsAbsentFields(t *testing.T) {
	api := &fakeAPI{}
	b := NewBuilder(api, rand.New(rand.NewSource(1)))

	_, err := b.CreatePlaylist(context.Background(), "Test", nil, "", nil, nil)
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}

	if api.createdDescription != "Generated by MoodCanvas 🎨" {
		t.Errorf("description = %q", api.createdDescription)
	}
	if strings.Contains(api.createdDescription, " | ") {
		t.Errorf("description should have no delimiter with no context fields: %q", api.createdDescription)
	}
}

func TestCreatePlaylist_CreateFailure(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("boom")}
	b := NewBuilder(api, rand.New(rand.NewSource(1)))

	_, err := b.CreatePlaylist(context.Background(), "Test", []string{"spotify:track:abc"}, "", nil, nil)
	if !errors.Is(err, ErrPlaylistCreate) {
		t.Errorf("error = %v, want ErrPlaylistCreate", err)
	}
}

func TestCreatePlaylist_AddFailureRemovesPlaylist(t *testing.T) {
	api := &fakeAPI{addErr: errors.New("add failed")}
	b := NewBuilder(api, rand.New(rand.NewSource(1)))

	_, err := b.CreatePlaylist(context.Background(), "Test", []string{"spotify:track:abc"}, "", nil, nil)
	if !errors.Is(err, ErrPlaylistCreate) {
		t.Fatalf("error = %v, want ErrPlaylistCreate", err)
	}

	if len(api.removedPlaylists) != 1 || api.removedPlaylists[0] != "pl123" {
		t.Errorf("removed playlists = %v, want the orphaned pl123", api.removedPlaylists)
	}
}

func TestTrackIDFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"spotify:track:6rqhFgbbKwnb9MLmUQDhG6", "6rqhFgbbKwnb9MLmUQDhG6"},
		{"bareid", "bareid"},
	}

	for _, tt := range tests {
		if got := trackIDFromURI(tt.uri); got != tt.want {
			t.Errorf("trackIDFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
