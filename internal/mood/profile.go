// Package mood turns free-text mood descriptions into structured profiles
// by calling a language model and validating its response, with a
// keyword-based fallback when the remote call fails.
package mood

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Clamp limits applied during normalization.
const (
	maxTags            = 3
	maxGenres          = 3
	maxPlaylistName    = 50
	maxVisualImagery   = 5
	maxMovementQuality = 100
	maxColorPalette    = 3
	maxSearchKeywords  = 5
)

// Energy levels recognized in a profile.
const (
	EnergyLow    = "low"
	EnergyMedium = "medium"
	EnergyHigh   = "high"
)

// Tempo feelings recognized in a profile.
const (
	TempoSlow      = "slow"
	TempoModerate  = "moderate"
	TempoFast      = "fast"
	TempoExplosive = "explosive"
)

// ErrInvalidSchema is returned when the model response is missing required
// fields or has the wrong shape.
var ErrInvalidSchema = errors.New("invalid mood analysis schema")

// Profile is the structured result of mood analysis.
// A Profile is built once per request and never mutated afterwards.
type Profile struct {
	EmotionalTags   []string `json:"emotional_tags"`
	Genres          []string `json:"genres"`
	PlaylistName    string   `json:"playlist_name"`
	EnergyLevel     string   `json:"energy_level"`
	TempoFeeling    string   `json:"tempo_feeling"`
	VisualImagery   []string `json:"visual_imagery"`
	MovementQuality string   `json:"movement_quality"`
	ColorPalette    []string `json:"color_palette"`
	SearchKeywords  []string `json:"search_keywords"`
}

// parseProfile decodes a model response into a Profile.
// The response is parsed as an untyped map first, then validated field by
// field; the remote schema is never trusted.
func parseProfile(data []byte) (Profile, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("parsing mood response: %w", err)
	}

	tags, err := requiredStringList(raw, "emotional_tags")
	if err != nil {
		return Profile{}, err
	}

	genres, err := requiredStringList(raw, "genres")
	if err != nil {
		return Profile{}, err
	}

	name, ok := raw["playlist_name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return Profile{}, fmt.Errorf("%w: playlist_name must be a non-empty string", ErrInvalidSchema)
	}

	p := Profile{
		EmotionalTags:   tags,
		Genres:          genres,
		PlaylistName:    name,
		EnergyLevel:     optionalString(raw, "energy_level"),
		TempoFeeling:    optionalString(raw, "tempo_feeling"),
		VisualImagery:   optionalStringList(raw, "visual_imagery"),
		MovementQuality: optionalString(raw, "movement_quality"),
		ColorPalette:    optionalStringList(raw, "color_palette"),
		SearchKeywords:  optionalStringList(raw, "search_keywords"),
	}
	return normalize(p), nil
}

// normalize applies clamps and defaults so every Profile leaving this
// package satisfies the same bounds, regardless of which path built it.
func normalize(p Profile) Profile {
	p.EmotionalTags = cleanList(p.EmotionalTags, maxTags)
	p.Genres = cleanList(p.Genres, maxGenres)
	p.PlaylistName = clampString(strings.TrimSpace(p.PlaylistName), maxPlaylistName)

	p.EnergyLevel = strings.ToLower(strings.TrimSpace(p.EnergyLevel))
	switch p.EnergyLevel {
	case EnergyLow, EnergyMedium, EnergyHigh:
	default:
		p.EnergyLevel = EnergyMedium
	}

	p.TempoFeeling = strings.ToLower(strings.TrimSpace(p.TempoFeeling))
	switch p.TempoFeeling {
	case TempoSlow, TempoModerate, TempoFast, TempoExplosive:
	default:
		p.TempoFeeling = TempoModerate
	}

	p.VisualImagery = truncateList(p.VisualImagery, maxVisualImagery)
	p.MovementQuality = clampString(strings.TrimSpace(p.MovementQuality), maxMovementQuality)
	p.ColorPalette = truncateList(p.ColorPalette, maxColorPalette)
	p.SearchKeywords = truncateList(p.SearchKeywords, maxSearchKeywords)

	return p
}

// cleanList lowercases, trims, and truncates a list to max entries.
func cleanList(items []string, max int) []string {
	if len(items) > max {
		items = items[:max]
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

func truncateList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// clampString caps s at max bytes on a rune boundary, keeping valid UTF-8.
func clampString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func requiredStringList(raw map[string]any, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing required field %q", ErrInvalidSchema, key)
	}
	list, ok := toStringList(v)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: %s must be a non-empty list of strings", ErrInvalidSchema, key)
	}
	return list, nil
}

func optionalStringList(raw map[string]any, key string) []string {
	list, _ := toStringList(raw[key])
	return list
}

func optionalString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// toStringList converts a decoded JSON value to a string slice.
// Returns false if the value is not a list or contains non-strings.
func toStringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
