package canvas

import (
	"context"
	"errors"
	"testing"

	"github.com/moodcanvas/moodcanvas/internal/catalog"
	"github.com/moodcanvas/moodcanvas/internal/media"
	"github.com/moodcanvas/moodcanvas/internal/mood"
)

type fakeAnalyzer struct {
	profile mood.Profile
	err     error
	calls   int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, moodText string) (mood.Profile, error) {
	f.calls++
	if f.err != nil {
		return mood.Profile{}, f.err
	}
	return f.profile, nil
}

type fakeBuilder struct {
	tracks    []catalog.Track
	playlist  *catalog.PlaylistResult
	searchErr error
	createErr error

	searchLimit int
	createdURIs []string
	createdName string
}

func (f *fakeBuilder) SearchTracks(ctx context.Context, genres []string, limit int, keywords []string, energyLevel string) ([]catalog.Track, error) {
	f.searchLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.tracks, nil
}

func (f *fakeBuilder) CreatePlaylist(ctx context.Context, name string, trackURIs []string, moodPrompt string, emotionalTags, genres []string) (*catalog.PlaylistResult, error) {
	f.createdName = name
	f.createdURIs = trackURIs
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.playlist, nil
}

type fakeImageGen struct {
	asset media.Asset
	calls int
}

func (f *fakeImageGen) Generate(ctx context.Context, p mood.Profile, moodText string) media.Asset {
	f.calls++
	return f.asset
}

type fakeVideoGen struct {
	asset    media.Asset
	calls    int
	duration int
}

func (f *fakeVideoGen) Generate(ctx context.Context, p mood.Profile, moodText string, duration int) media.Asset {
	f.calls++
	f.duration = duration
	return f.asset
}

func calmProfile() mood.Profile {
	return mood.Profile{
		EmotionalTags:  []string{"calm", "peaceful"},
		Genres:         []string{"ambient", "folk"},
		PlaylistName:   "Peaceful Moments",
		EnergyLevel:    mood.EnergyLow,
		TempoFeeling:   mood.TempoSlow,
		SearchKeywords: []string{"relaxing"},
	}
}

func newFakeService() (*Service, *fakeAnalyzer, *fakeBuilder, *fakeImageGen, *fakeVideoGen) {
	analyzer := &fakeAnalyzer{profile: calmProfile()}
	builder := &fakeBuilder{
		tracks: []catalog.Track{
			{Name: "Track A", Artist: "Artist A", URI: "spotify:track:a", ID: "a"},
			{Name: "Track B", Artist: "Artist B", URI: "spotify:track:b", ID: "b"},
		},
		playlist: &catalog.PlaylistResult{
			ID:       "pl123",
			URL:      "https://open.spotify.com/playlist/pl123",
			EmbedURL: "https://open.spotify.com/embed/playlist/pl123",
		},
	}
	images := &fakeImageGen{asset: media.Asset{Kind: media.KindImage, Status: media.StatusReady}}
	videos := &fakeVideoGen{asset: media.Asset{Kind: media.KindVideo, Status: media.StatusReady}}

	return New(analyzer, builder, images, videos), analyzer, builder, images, videos
}

func TestService_Create(t *testing.T) {
	svc, analyzer, builder, images, videos := newFakeService()

	result, err := svc.Create(context.Background(), "quiet rainy evening", Options{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if result.RequestID == "" {
		t.Error("RequestID is empty")
	}
	if result.MoodText != "quiet rainy evening" {
		t.Errorf("MoodText = %q, want the submitted text", result.MoodText)
	}
	if result.Profile.PlaylistName != "Peaceful Moments" {
		t.Errorf("Profile.PlaylistName = %q, want %q", result.Profile.PlaylistName, "Peaceful Moments")
	}
	if len(result.Tracks) != 2 {
		t.Errorf("Tracks = %d, want 2", len(result.Tracks))
	}
	if result.Playlist == nil || result.Playlist.ID != "pl123" {
		t.Errorf("Playlist = %+v, want pl123", result.Playlist)
	}
	if result.Image == nil || result.Image.Status != media.StatusReady {
		t.Errorf("Image = %+v, want a ready asset", result.Image)
	}
	if result.Video != nil {
		t.Error("Video generated without IncludeVideo")
	}

	if analyzer.calls != 1 {
		t.Errorf("Analyze calls = %d, want 1", analyzer.calls)
	}
	if images.calls != 1 {
		t.Errorf("image Generate calls = %d, want 1", images.calls)
	}
	if videos.calls != 0 {
		t.Errorf("video Generate calls = %d, want 0", videos.calls)
	}
	if builder.searchLimit != DefaultTrackLimit {
		t.Errorf("search limit = %d, want default %d", builder.searchLimit, DefaultTrackLimit)
	}
	if builder.createdName != "Peaceful Moments" {
		t.Errorf("created playlist name = %q, want the profile name", builder.createdName)
	}
	wantURIs := []string{"spotify:track:a", "spotify:track:b"}
	if len(builder.createdURIs) != len(wantURIs) {
		t.Fatalf("created URIs = %v, want %v", builder.createdURIs, wantURIs)
	}
	for i, uri := range wantURIs {
		if builder.createdURIs[i] != uri {
			t.Errorf("created URI[%d] = %q, want %q", i, builder.createdURIs[i], uri)
		}
	}
}

func TestService_CreateWithVideo(t *testing.T) {
	svc, _, _, _, videos := newFakeService()

	result, err := svc.Create(context.Background(), "pumped for the gym", Options{
		IncludeVideo:  true,
		VideoDuration: 6,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if result.Video == nil || result.Video.Status != media.StatusReady {
		t.Errorf("Video = %+v, want a ready asset", result.Video)
	}
	if videos.duration != 6 {
		t.Errorf("video duration = %d, want 6", videos.duration)
	}
}

func TestService_CreateAnalyzeFails(t *testing.T) {
	svc, analyzer, _, images, _ := newFakeService()
	analyzer.err = mood.ErrEmptyMoodText

	_, err := svc.Create(context.Background(), "", Options{})
	if !errors.Is(err, mood.ErrEmptyMoodText) {
		t.Fatalf("Create() error = %v, want ErrEmptyMoodText", err)
	}
	if images.calls != 0 {
		t.Error("image generation should not run after analysis failure")
	}
}

func TestService_CreateSearchFails(t *testing.T) {
	svc, _, builder, images, _ := newFakeService()
	builder.searchErr = catalog.ErrNotAuthenticated

	_, err := svc.Create(context.Background(), "quiet evening", Options{})
	if !errors.Is(err, catalog.ErrNotAuthenticated) {
		t.Fatalf("Create() error = %v, want ErrNotAuthenticated", err)
	}
	if images.calls != 0 {
		t.Error("image generation should not run after search failure")
	}
}

func TestService_CreatePlaylistFails(t *testing.T) {
	svc, _, builder, _, _ := newFakeService()
	builder.createErr = catalog.ErrPlaylistCreate

	_, err := svc.Create(context.Background(), "quiet evening", Options{})
	if !errors.Is(err, catalog.ErrPlaylistCreate) {
		t.Fatalf("Create() error = %v, want ErrPlaylistCreate", err)
	}
}

func TestService_CreateMediaFailureDoesNotAbort(t *testing.T) {
	svc, _, _, images, videos := newFakeService()
	images.asset = media.Asset{Kind: media.KindImage, Status: media.StatusFailed, Diagnostic: "rate limited"}
	videos.asset = media.Asset{Kind: media.KindVideo, Status: media.StatusPending, Diagnostic: "not yet supported"}

	result, err := svc.Create(context.Background(), "quiet evening", Options{IncludeVideo: true})
	if err != nil {
		t.Fatalf("Create() error = %v, want nil despite media failures", err)
	}

	if result.Image == nil || result.Image.Status != media.StatusFailed {
		t.Errorf("Image = %+v, want a failed asset", result.Image)
	}
	if result.Video == nil || result.Video.Status != media.StatusPending {
		t.Errorf("Video = %+v, want a pending asset", result.Video)
	}
	if result.Playlist == nil {
		t.Error("Playlist missing despite successful build")
	}
}

func TestService_BuildPlaylistCustomLimit(t *testing.T) {
	svc, _, builder, _, _ := newFakeService()

	_, _, err := svc.BuildPlaylist(context.Background(), calmProfile(), "quiet evening", 5)
	if err != nil {
		t.Fatalf("BuildPlaylist() error = %v", err)
	}
	if builder.searchLimit != 5 {
		t.Errorf("search limit = %d, want 5", builder.searchLimit)
	}
}
