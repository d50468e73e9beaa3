package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	baseURL   = "https://api.openai.com/v1"
	userAgent = "moodcanvas/1.0"
)

// ErrEmptyCompletion is returned when the API responds without any choices.
var ErrEmptyCompletion = errors.New("empty completion response")

// Client is an OpenAI API client.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new OpenAI client from the provided configuration.
func NewClient(cfg *Config) *Client {
	return &Client{
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
	}
}

// ChatCompletion sends a single chat completion request and returns the
// text of the first choice.
func (c *Client) ChatCompletion(ctx context.Context, model, system, user string, maxTokens int, temperature float64) (string, error) {
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := c.doRequest(ctx, "/chat/completions", req)
	if err != nil {
		return "", fmt.Errorf("requesting chat completion: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing chat completion response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateImage submits a prompt to the image generation endpoint and
// returns the URL of the generated image.
func (c *Client) GenerateImage(ctx context.Context, model, prompt, size, quality string) (string, error) {
	req := imageRequest{
		Model:   model,
		Prompt:  prompt,
		Size:    size,
		Quality: quality,
		N:       1,
	}

	body, err := c.doRequest(ctx, "/images/generations", req)
	if err != nil {
		return "", fmt.Errorf("requesting image generation: %w", err)
	}

	var resp imageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing image generation response: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("image generation response contained no URL")
	}

	return resp.Data[0].URL, nil
}

// doRequest performs a JSON POST against the API and returns the raw body.
func (c *Client) doRequest(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (%s): %s", apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}
