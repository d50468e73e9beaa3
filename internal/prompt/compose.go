// Package prompt assembles bounded-length generation prompts from mood
// profiles. Composition is pure and deterministic: fixed lookup tables,
// fixed clause order, hard caps on length.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/moodcanvas/moodcanvas/internal/mood"
)

const (
	// MaxImagePromptLen caps DALL-E prompt length.
	MaxImagePromptLen = 900

	// MaxVideoPromptLen caps Veo prompt length (roughly 1024 tokens).
	MaxVideoPromptLen = 800

	imageMoodTextLimit = 80
	videoMoodTextLimit = 60
)

// ComposeImagePrompt builds a DALL-E prompt from a mood profile.
// moodText may be empty. The result never exceeds MaxImagePromptLen.
func ComposeImagePrompt(p mood.Profile, moodText string) string {
	var parts []string

	// Core subject: concrete imagery beats abstract emotion words.
	switch {
	case len(p.VisualImagery) > 0:
		imagery := strings.Join(head(p.VisualImagery, 3), ", ")
		if moodText != "" && len(moodText) < imageMoodTextLimit {
			parts = append(parts, fmt.Sprintf("Dynamic artwork showing %s, inspired by '%s'", imagery, moodText))
		} else {
			parts = append(parts, fmt.Sprintf("Dynamic artwork featuring %s", imagery))
		}
	case moodText != "" && len(moodText) < imageMoodTextLimit:
		parts = append(parts, fmt.Sprintf("Abstract visual representation of '%s'", moodText))
	default:
		emotions := strings.Join(head(p.EmotionalTags, 3), ", ")
		parts = append(parts, fmt.Sprintf("Abstract artwork expressing %s emotions", emotions))
	}

	// Movement and energy.
	if q, ok := energyQualities[p.EnergyLevel]; ok {
		parts = append(parts, q)
	}
	if p.MovementQuality != "" {
		parts = append(parts, "with "+p.MovementQuality)
	}

	// Color: literal palette wins over emotion fallback.
	if len(p.ColorPalette) > 0 {
		parts = append(parts, fmt.Sprintf("featuring %s color palette", strings.Join(head(p.ColorPalette, 3), ", ")))
	} else if c := lookupFirst(emotionColors, p.EmotionalTags, 2); c != "" {
		parts = append(parts, c)
	}

	// Style from genres and emotions, capped for conciseness.
	styles := lookupAll(genreStyles, p.Genres, 2)
	styles = append(styles, lookupAll(emotionStyles, p.EmotionalTags, 2)...)
	if len(styles) > 0 {
		parts = append(parts, strings.Join(head(styles, 2), ", "))
	}

	parts = append(parts, "digital art, masterpiece quality, highly detailed, artistic composition, no text or words")

	return truncate(strings.Join(parts, ". "), MaxImagePromptLen)
}

// ComposeVideoPrompt builds a Veo prompt from a mood profile.
// duration is stated in the technical clause; the result never exceeds
// MaxVideoPromptLen.
func ComposeVideoPrompt(p mood.Profile, moodText string, duration int) string {
	var parts []string

	switch {
	case len(p.VisualImagery) > 0 && moodText != "" && len(moodText) < videoMoodTextLimit:
		imagery := strings.Join(head(p.VisualImagery, 2), ", ")
		parts = append(parts, fmt.Sprintf("Cinematic video showing %s, embodying the feeling of '%s'", imagery, moodText))
	case len(p.VisualImagery) > 0:
		imagery := strings.Join(head(p.VisualImagery, 2), ", ")
		parts = append(parts, fmt.Sprintf("Cinematic video featuring %s", imagery))
	case moodText != "" && len(moodText) < videoMoodTextLimit:
		parts = append(parts, fmt.Sprintf("Abstract visual representation of '%s' in motion", moodText))
	default:
		emotions := strings.Join(head(p.EmotionalTags, 2), ", ")
		parts = append(parts, fmt.Sprintf("Flowing cinematic video expressing %s emotions", emotions))
	}

	if m, ok := energyMovements[p.EnergyLevel]; ok {
		parts = append(parts, m)
	}
	if p.MovementQuality != "" {
		parts = append(parts, fmt.Sprintf("featuring %s throughout the sequence", p.MovementQuality))
	}

	if len(p.ColorPalette) > 0 {
		parts = append(parts, fmt.Sprintf("with %s color scheme and complementary lighting", strings.Join(head(p.ColorPalette, 3), ", ")))
	} else if c := lookupFirst(emotionLighting, p.EmotionalTags, 2); c != "" {
		parts = append(parts, c)
	}

	parts = append(parts, lookupAll(genreVideoStyles, p.Genres, 2)...)

	parts = append(parts,
		fmt.Sprintf("high quality cinematic video, %d seconds duration, smooth motion, professional cinematography", duration),
		"no text overlays, pure visual storytelling",
	)

	return truncate(strings.Join(parts, ". "), MaxVideoPromptLen)
}

// truncate caps s at max bytes, marking the cut with an ellipsis.
// The cut lands on a rune boundary so the output stays valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
