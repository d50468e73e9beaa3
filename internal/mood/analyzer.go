package mood

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

const (
	analysisModel       = "gpt-4o"
	analysisMaxTokens   = 200
	analysisTemperature = 0.7

	systemInstruction = "You are a mood-to-music assistant. Always respond with valid JSON only, no other text."
)

// ErrEmptyMoodText is returned when the mood description is empty or
// whitespace-only.
var ErrEmptyMoodText = errors.New("mood text cannot be empty")

// Completer sends a single chat completion request to a language model.
type Completer interface {
	ChatCompletion(ctx context.Context, model, system, user string, maxTokens int, temperature float64) (string, error)
}

// Analyzer produces mood profiles from free-text descriptions.
type Analyzer struct {
	completer Completer
}

// NewAnalyzer creates an Analyzer backed by the given completion client.
func NewAnalyzer(completer Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// Analyze turns mood text into a Profile.
// The remote model is tried exactly once; any transport, parse, or schema
// failure switches to the keyword fallback, so a non-empty input always
// yields a usable profile. Returns ErrEmptyMoodText for blank input.
func (a *Analyzer) Analyze(ctx context.Context, moodText string) (Profile, error) {
	if strings.TrimSpace(moodText) == "" {
		return Profile{}, ErrEmptyMoodText
	}

	profile, err := a.analyzeRemote(ctx, moodText)
	if err != nil {
		log.Printf("mood analysis falling back to keywords: %v", err)
		return fallbackProfile(moodText), nil
	}

	return profile, nil
}

// analyzeRemote sends the analysis prompt to the language model and
// validates the response.
func (a *Analyzer) analyzeRemote(ctx context.Context, moodText string) (Profile, error) {
	prompt := analysisPrompt(moodText)

	response, err := a.completer.ChatCompletion(ctx, analysisModel, systemInstruction, prompt, analysisMaxTokens, analysisTemperature)
	if err != nil {
		return Profile{}, fmt.Errorf("requesting mood analysis: %w", err)
	}

	return parseProfile([]byte(stripCodeFence(response)))
}

// stripCodeFence removes a Markdown code fence wrapper if the model added
// one despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// analysisPrompt builds the instruction sent to the model: the mood text,
// the exact output schema, extraction guidelines, and worked examples.
func analysisPrompt(moodText string) string {
	return fmt.Sprintf(`Analyze this mood description and extract rich, colorful details to create a vivid musical and visual experience:

Mood: %q

Return JSON in this exact format:
{
  "emotional_tags": ["tag1", "tag2", "tag3"],
  "genres": ["genre1", "genre2"],
  "playlist_name": "Creative playlist name",
  "energy_level": "low/medium/high",
  "tempo_feeling": "slow/moderate/fast/explosive",
  "visual_imagery": ["image1", "image2", "image3"],
  "movement_quality": "quality description",
  "color_palette": ["color1", "color2", "color3"],
  "search_keywords": ["keyword1", "keyword2", "keyword3"]
}

Extraction Guidelines:
- emotional_tags: Nuanced emotions, not just basic ones (e.g., "triumphant", "graceful", "soaring")
- genres: Match energy and style (electronic for high energy, classical for elegance, etc.)
- energy_level: Physical/emotional intensity
- tempo_feeling: Musical pace that matches the mood
- visual_imagery: Concrete images from the text (e.g., "running", "finish line", "wings")
- movement_quality: How the person moves/feels (e.g., "fluid motion", "explosive power")
- color_palette: Colors that match the emotional tone (e.g., "gold", "electric blue", "sunset orange")
- search_keywords: Extra music search terms beyond genres (e.g., "victory", "motivation", "flow")
- playlist_name: Poetic name incorporating key imagery (15-30 characters)

Examples:
Input: "I feel like I'm floating through fog at dawn"
Output: {"emotional_tags": ["ethereal", "peaceful", "emerging"], "genres": ["ambient", "folk"], "playlist_name": "Dawn Mist Floating", "energy_level": "low", "tempo_feeling": "slow", "visual_imagery": ["mist", "dawn light", "floating"], "movement_quality": "weightless drifting", "color_palette": ["pearl gray", "soft gold", "misty white"], "search_keywords": ["ethereal", "atmospheric", "morning"]}

Input: "Energized and ready to conquer the world"
Output: {"emotional_tags": ["triumphant", "powerful", "unstoppable"], "genres": ["electronic", "rock"], "playlist_name": "World Conqueror Rising", "energy_level": "high", "tempo_feeling": "explosive", "visual_imagery": ["summit", "rising sun", "victory"], "movement_quality": "surging forward", "color_palette": ["electric blue", "gold", "crimson"], "search_keywords": ["victory", "power", "motivation"]}

Respond with ONLY the JSON, no other text.`, moodText)
}
