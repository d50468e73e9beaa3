package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/moodcanvas/moodcanvas/internal/mood"
	"github.com/moodcanvas/moodcanvas/internal/prompt"
)

const (
	videoModel = "veo-3.0-generate-001"

	// DefaultVideoDuration is the requested clip length in seconds.
	DefaultVideoDuration = 8

	defaultPollInterval = 10 * time.Second
	defaultPollTimeout  = 360 * time.Second
)

// videoOperations abstracts the long-running video generation API so the
// polling policy is testable without the remote service.
type videoOperations interface {
	Generate(ctx context.Context, model, prompt string) (*genai.GenerateVideosOperation, error)
	Refresh(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

// genaiOperations implements videoOperations against the Google GenAI SDK.
type genaiOperations struct {
	client *genai.Client
}

func (g *genaiOperations) Generate(ctx context.Context, model, prompt string) (*genai.GenerateVideosOperation, error) {
	return g.client.Models.GenerateVideos(ctx, model, prompt, nil, nil)
}

func (g *genaiOperations) Refresh(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return g.client.Operations.GetVideosOperation(ctx, op, nil)
}

// VideoGenerator produces mood videos via a long-running generation
// operation, polling on a fixed interval up to a bounded deadline.
type VideoGenerator struct {
	ops          videoOperations // nil when no credential is configured
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewVideoGenerator creates a VideoGenerator from the GOOGLE_AI_API_KEY
// environment variable. When the key is absent the generator is still
// usable; Generate returns failed assets carrying the diagnostic.
func NewVideoGenerator(ctx context.Context) *VideoGenerator {
	g := &VideoGenerator{
		httpClient:   &http.Client{Timeout: downloadTimeout},
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}

	apiKey := os.Getenv("GOOGLE_AI_API_KEY")
	if apiKey == "" {
		return g
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("creating video generation client: %v", err)
		return g
	}

	g.ops = &genaiOperations{client: client}
	return g
}

// Generate composes a video prompt, submits the generation operation, and
// polls until completion, timeout, or context cancellation. All outcomes
// are expressed through the asset's Status: ready with encoded payload,
// pending when the platform does not support the request yet, failed with
// a diagnostic otherwise. Generate never returns an error.
func (v *VideoGenerator) Generate(ctx context.Context, p mood.Profile, moodText string, duration int) Asset {
	if duration <= 0 {
		duration = DefaultVideoDuration
	}

	text := prompt.ComposeVideoPrompt(p, moodText, duration)
	meta := metadataFrom(p, moodText)
	meta.DurationSeconds = duration

	if v.ops == nil {
		return failedAsset(KindVideo, text, meta, "video generation not configured: missing API credential")
	}

	op, err := v.ops.Generate(ctx, videoModel, text)
	if err != nil {
		if isUnsupported(err) {
			return pendingAsset(text, meta, fmt.Sprintf("video generation not yet supported by the platform: %v", err))
		}
		log.Printf("video generation failed: %v", err)
		return failedAsset(KindVideo, text, meta, fmt.Sprintf("generation request failed: %v", err))
	}

	op, err = v.poll(ctx, op)
	if err != nil {
		log.Printf("video polling failed: %v", err)
		return failedAsset(KindVideo, text, meta, err.Error())
	}

	return v.collect(ctx, op, text, meta)
}

// poll refreshes the operation on a fixed interval until it completes or
// the deadline expires. Caller cancellation propagates through ctx.
func (v *VideoGenerator) poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	ctx, cancel := context.WithTimeout(ctx, v.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()

	started := time.Now()
	for !op.Done {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, fmt.Errorf("video generation timed out after %s", v.pollTimeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}

		refreshed, err := v.ops.Refresh(ctx, op)
		if err != nil {
			// Transient poll errors are retried until the deadline
			log.Printf("video generation poll error (%.0fs elapsed): %v", time.Since(started).Seconds(), err)
			continue
		}
		op = refreshed
		log.Printf("video generation in progress... (%.0fs elapsed)", time.Since(started).Seconds())
	}

	return op, nil
}

// collect extracts the finished video, downloading by URI when the payload
// was not returned inline.
func (v *VideoGenerator) collect(ctx context.Context, op *genai.GenerateVideosOperation, text string, meta Metadata) Asset {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return failedAsset(KindVideo, text, meta, "operation completed without a video result")
	}

	video := op.Response.GeneratedVideos[0].Video

	asset := newAsset(KindVideo, StatusReady, text, meta)
	asset.SourceURL = video.URI

	if len(video.VideoBytes) > 0 {
		asset.EncodedData = base64.StdEncoding.EncodeToString(video.VideoBytes)
		return asset
	}

	if video.URI == "" {
		return failedAsset(KindVideo, text, meta, "operation completed without a video payload or URI")
	}

	encoded, err := v.downloadEncoded(ctx, video.URI)
	if err != nil {
		log.Printf("video download failed: %v", err)
		return failedAsset(KindVideo, text, meta, fmt.Sprintf("downloading generated video: %v", err))
	}

	asset.EncodedData = encoded
	return asset
}

func (v *VideoGenerator) downloadEncoded(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
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

func pendingAsset(text string, meta Metadata, diagnostic string) Asset {
	a := newAsset(KindVideo, StatusPending, text, meta)
	a.Diagnostic = diagnostic
	return a
}

// isUnsupported reports whether the service rejected the request because
// video generation is not available for this account or model yet.
func isUnsupported(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "unsupported") ||
		strings.Contains(msg, "not found")
}
