package media

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moodcanvas/moodcanvas/internal/mood"
)

type fakeImageClient struct {
	url     string
	err     error
	calls   int
	prompts []string
}

func (f *fakeImageClient) GenerateImage(ctx context.Context, model, prompt, size, quality string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func testProfile() mood.Profile {
	return mood.Profile{
		EmotionalTags: []string{"calm", "peaceful"},
		Genres:        []string{"ambient", "folk"},
		PlaylistName:  "Quiet Evening",
		EnergyLevel:   mood.EnergyLow,
		TempoFeeling:  mood.TempoSlow,
		VisualImagery: []string{"misty lake at dawn"},
		ColorPalette:  []string{"soft blue", "grey"},
	}
}

func TestImageGenerator_Generate(t *testing.T) {
	payload := []byte("fake png bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	client := &fakeImageClient{url: server.URL + "/image.png"}
	gen := NewImageGenerator(client)

	asset := gen.Generate(context.Background(), testProfile(), "a quiet evening by the lake")

	if asset.Status != StatusReady {
		t.Fatalf("Status = %q, want %q (diagnostic: %s)", asset.Status, StatusReady, asset.Diagnostic)
	}
	if asset.Kind != KindImage {
		t.Errorf("Kind = %q, want %q", asset.Kind, KindImage)
	}
	if asset.SourceURL != client.url {
		t.Errorf("SourceURL = %q, want %q", asset.SourceURL, client.url)
	}
	if asset.ID == "" {
		t.Error("asset ID is empty")
	}
	if client.calls != 1 {
		t.Errorf("GenerateImage calls = %d, want 1", client.calls)
	}

	decoded, err := asset.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("decoded payload = %q, want %q", decoded, payload)
	}
}

func TestImageGenerator_GenerateNotConfigured(t *testing.T) {
	gen := NewImageGenerator(nil)

	asset := gen.Generate(context.Background(), testProfile(), "quiet evening")

	if asset.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", asset.Status, StatusFailed)
	}
	if !strings.Contains(asset.Diagnostic, "not configured") {
		t.Errorf("Diagnostic = %q, want a not-configured message", asset.Diagnostic)
	}
	if asset.Prompt == "" {
		t.Error("failed asset should still carry the composed prompt")
	}
}

func TestImageGenerator_GenerateRequestFails(t *testing.T) {
	client := &fakeImageClient{err: errors.New("rate limited")}
	gen := NewImageGenerator(client)

	asset := gen.Generate(context.Background(), testProfile(), "quiet evening")

	if asset.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", asset.Status, StatusFailed)
	}
	if !strings.Contains(asset.Diagnostic, "rate limited") {
		t.Errorf("Diagnostic = %q, want the underlying error message", asset.Diagnostic)
	}
}

func TestImageGenerator_GenerateDownloadFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := &fakeImageClient{url: server.URL + "/missing.png"}
	gen := NewImageGenerator(client)

	asset := gen.Generate(context.Background(), testProfile(), "quiet evening")

	if asset.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", asset.Status, StatusFailed)
	}
	if !strings.Contains(asset.Diagnostic, "download") {
		t.Errorf("Diagnostic = %q, want a download failure message", asset.Diagnostic)
	}
	if asset.EncodedData != "" {
		t.Error("failed asset should not carry a payload")
	}
}

func TestImageGenerator_MetadataEchoesProfile(t *testing.T) {
	gen := NewImageGenerator(nil)
	p := testProfile()

	asset := gen.Generate(context.Background(), p, "quiet evening")

	if asset.Metadata.MoodText != "quiet evening" {
		t.Errorf("Metadata.MoodText = %q, want %q", asset.Metadata.MoodText, "quiet evening")
	}
	if asset.Metadata.EnergyLevel != p.EnergyLevel {
		t.Errorf("Metadata.EnergyLevel = %q, want %q", asset.Metadata.EnergyLevel, p.EnergyLevel)
	}
	if len(asset.Metadata.EmotionalTags) != 2 {
		t.Errorf("Metadata.EmotionalTags = %v, want 2 entries", asset.Metadata.EmotionalTags)
	}
}
