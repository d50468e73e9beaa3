// Package canvas orchestrates one mood submission end to end: analysis,
// playlist building, and media generation. It holds no state across
// requests; the catalog session is the only process-lifetime resource.
package canvas

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/moodcanvas/moodcanvas/internal/catalog"
	"github.com/moodcanvas/moodcanvas/internal/media"
	"github.com/moodcanvas/moodcanvas/internal/mood"
)

// DefaultTrackLimit is the playlist size requested when the caller does
// not specify one.
const DefaultTrackLimit = 20

// Analyzer turns mood text into a profile.
type Analyzer interface {
	Analyze(ctx context.Context, moodText string) (mood.Profile, error)
}

// PlaylistBuilder searches the catalog and creates playlists.
type PlaylistBuilder interface {
	SearchTracks(ctx context.Context, genres []string, limit int, keywords []string, energyLevel string) ([]catalog.Track, error)
	CreatePlaylist(ctx context.Context, name string, trackURIs []string, moodPrompt string, emotionalTags, genres []string) (*catalog.PlaylistResult, error)
}

// ImageGenerator produces a mood image asset.
type ImageGenerator interface {
	Generate(ctx context.Context, p mood.Profile, moodText string) media.Asset
}

// VideoGenerator produces a mood video asset.
type VideoGenerator interface {
	Generate(ctx context.Context, p mood.Profile, moodText string, duration int) media.Asset
}

// Service is the surface exposed to the presentation layer.
type Service struct {
	analyzer Analyzer
	builder  PlaylistBuilder
	images   ImageGenerator
	videos   VideoGenerator
}

// New creates a canvas Service from its collaborators.
func New(analyzer Analyzer, builder PlaylistBuilder, images ImageGenerator, videos VideoGenerator) *Service {
	return &Service{
		analyzer: analyzer,
		builder:  builder,
		images:   images,
		videos:   videos,
	}
}

// Result is everything one mood submission produced.
type Result struct {
	RequestID string                  `json:"request_id"`
	MoodText  string                  `json:"mood_text"`
	Profile   mood.Profile            `json:"profile"`
	Tracks    []catalog.Track         `json:"tracks"`
	Playlist  *catalog.PlaylistResult `json:"playlist"`
	Image     *media.Asset            `json:"image,omitempty"`
	Video     *media.Asset            `json:"video,omitempty"`
}

// Options control a combined Create run.
type Options struct {
	TrackLimit    int
	IncludeVideo  bool
	VideoDuration int
}

// Analyze produces a mood profile for the given text.
func (s *Service) Analyze(ctx context.Context, moodText string) (mood.Profile, error) {
	return s.analyzer.Analyze(ctx, moodText)
}

// BuildPlaylist searches the catalog for tracks matching the profile and
// creates a playlist holding them.
func (s *Service) BuildPlaylist(ctx context.Context, p mood.Profile, moodText string, limit int) ([]catalog.Track, *catalog.PlaylistResult, error) {
	if limit <= 0 {
		limit = DefaultTrackLimit
	}

	tracks, err := s.builder.SearchTracks(ctx, p.Genres, limit, p.SearchKeywords, p.EnergyLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("searching tracks: %w", err)
	}

	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}

	playlist, err := s.builder.CreatePlaylist(ctx, p.PlaylistName, uris, moodText, p.EmotionalTags, p.Genres)
	if err != nil {
		return nil, nil, err
	}

	return tracks, playlist, nil
}

// GenerateImage produces a mood image; inspect the asset's Status.
func (s *Service) GenerateImage(ctx context.Context, p mood.Profile, moodText string) media.Asset {
	return s.images.Generate(ctx, p, moodText)
}

// GenerateVideo produces a mood video; inspect the asset's Status.
func (s *Service) GenerateVideo(ctx context.Context, p mood.Profile, moodText string, duration int) media.Asset {
	return s.videos.Generate(ctx, p, moodText, duration)
}

// Create runs the full pipeline for one mood submission: analyze, build
// the playlist, and generate media. Analysis and playlist failures abort
// the run; media failures surface as failed-status assets in the result.
func (s *Service) Create(ctx context.Context, moodText string, opts Options) (*Result, error) {
	profile, err := s.Analyze(ctx, moodText)
	if err != nil {
		return nil, err
	}

	tracks, playlist, err := s.BuildPlaylist(ctx, profile, moodText, opts.TrackLimit)
	if err != nil {
		return nil, err
	}

	image := s.GenerateImage(ctx, profile, moodText)

	result := &Result{
		RequestID: uuid.NewString(),
		MoodText:  moodText,
		Profile:   profile,
		Tracks:    tracks,
		Playlist:  playlist,
		Image:     &image,
	}

	if opts.IncludeVideo {
		video := s.GenerateVideo(ctx, profile, moodText, opts.VideoDuration)
		result.Video = &video
	}

	return result, nil
}
