package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/moodcanvas/moodcanvas/internal/mood"
	"github.com/moodcanvas/moodcanvas/internal/prompt"
)

const (
	imageModel   = "dall-e-3"
	imageSize    = "1024x1024"
	imageQuality = "standard"

	downloadTimeout = 30 * time.Second
)

// ImageClient generates an image from a prompt and returns its URL.
type ImageClient interface {
	GenerateImage(ctx context.Context, model, prompt, size, quality string) (string, error)
}

// ImageGenerator produces mood images via an external generation service.
type ImageGenerator struct {
	client     ImageClient // nil when no credential is configured
	httpClient *http.Client
}

// NewImageGenerator creates an ImageGenerator. client may be nil when no
// API credential is available; Generate then returns failed assets.
func NewImageGenerator(client ImageClient) *ImageGenerator {
	return &ImageGenerator{
		client: client,
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
	}
}

// Generate composes an image prompt from the profile, submits it, downloads
// the result, and returns it base64-encoded. Every failure path returns a
// failed-status asset with a diagnostic; Generate never returns an error.
func (g *ImageGenerator) Generate(ctx context.Context, p mood.Profile, moodText string) Asset {
	text := prompt.ComposeImagePrompt(p, moodText)
	meta := metadataFrom(p, moodText)

	if g.client == nil {
		return failedAsset(KindImage, text, meta, "image generation not configured: missing API credential")
	}

	url, err := g.client.GenerateImage(ctx, imageModel, text, imageSize, imageQuality)
	if err != nil {
		log.Printf("image generation failed: %v", err)
		return failedAsset(KindImage, text, meta, fmt.Sprintf("generation request failed: %v", err))
	}

	encoded, err := g.downloadEncoded(ctx, url)
	if err != nil {
		log.Printf("image download failed: %v", err)
		return failedAsset(KindImage, text, meta, fmt.Sprintf("downloading generated image: %v", err))
	}

	asset := newAsset(KindImage, StatusReady, text, meta)
	asset.EncodedData = encoded
	asset.SourceURL = url
	return asset
}

// downloadEncoded fetches a generated asset by URL and base64-encodes it
// for transport.
func (g *ImageGenerator) downloadEncoded(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected download status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading download body: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
