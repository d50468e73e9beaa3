// Package openai provides a minimal OpenAI REST client for chat completions
// and image generation.
package openai

import (
	"errors"
	"os"
)

// ErrMissingAPIKey is returned when OPENAI_API_KEY is not set.
var ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY environment variable")

// Config holds OpenAI API configuration.
type Config struct {
	APIKey string
}

// LoadConfig reads OpenAI configuration from environment variables.
// Returns ErrMissingAPIKey if OPENAI_API_KEY is not set, so the absence of
// a credential is detectable before any network call is attempted.
func LoadConfig() (*Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Config{APIKey: apiKey}, nil
}
