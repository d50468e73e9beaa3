// Package media generates mood-driven images and videos through external
// generation services. Generators fail softly: every outcome is an Asset
// whose Status the caller inspects, never an error.
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/moodcanvas/moodcanvas/internal/mood"
)

// Status describes the lifecycle state of a generated asset.
type Status string

const (
	// StatusReady means the payload was generated and encoded.
	StatusReady Status = "ready"

	// StatusFailed means generation or download failed; Diagnostic says why.
	StatusFailed Status = "failed"

	// StatusPending means the platform cannot yet complete the request;
	// a known incomplete integration, not an error.
	StatusPending Status = "pending"
)

// Kind distinguishes image and video assets.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Metadata echoes the profile fields that drove generation.
type Metadata struct {
	MoodText        string   `json:"mood_text,omitempty"`
	EmotionalTags   []string `json:"emotional_tags"`
	Genres          []string `json:"genres"`
	EnergyLevel     string   `json:"energy_level"`
	TempoFeeling    string   `json:"tempo_feeling"`
	VisualImagery   []string `json:"visual_imagery,omitempty"`
	ColorPalette    []string `json:"color_palette,omitempty"`
	DurationSeconds int      `json:"duration_seconds,omitempty"`
}

// Asset is a generated image or video plus its generation context.
type Asset struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Status      Status    `json:"status"`
	Prompt      string    `json:"prompt"`
	EncodedData string    `json:"encoded_data,omitempty"` // base64 payload
	SourceURL   string    `json:"source_url,omitempty"`
	Diagnostic  string    `json:"diagnostic,omitempty"`
	Metadata    Metadata  `json:"metadata"`
	CreatedAt   time.Time `json:"created_at"`
}

// Decode returns the raw binary payload of a ready asset.
func (a Asset) Decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.EncodedData)
	if err != nil {
		return nil, fmt.Errorf("decoding asset payload: %w", err)
	}
	return data, nil
}

// SaveFile writes the decoded payload to path. When path is empty a
// timestamped filename is generated next to the working directory.
// Returns the filename written.
func (a Asset) SaveFile(path string) (string, error) {
	if path == "" {
		ext := "png"
		if a.Kind == KindVideo {
			ext = "mp4"
		}
		path = fmt.Sprintf("moodcanvas_%s.%s", a.CreatedAt.Format("20060102_150405"), ext)
	}

	data, err := a.Decode()
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing asset file: %w", err)
	}
	return path, nil
}

func newAsset(kind Kind, status Status, prompt string, meta Metadata) Asset {
	return Asset{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    status,
		Prompt:    prompt,
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	}
}

func failedAsset(kind Kind, prompt string, meta Metadata, diagnostic string) Asset {
	a := newAsset(kind, StatusFailed, prompt, meta)
	a.Diagnostic = diagnostic
	return a
}

func metadataFrom(p mood.Profile, moodText string) Metadata {
	return Metadata{
		MoodText:      moodText,
		EmotionalTags: p.EmotionalTags,
		Genres:        p.Genres,
		EnergyLevel:   p.EnergyLevel,
		TempoFeeling:  p.TempoFeeling,
		VisualImagery: p.VisualImagery,
		ColorPalette:  p.ColorPalette,
	}
}
