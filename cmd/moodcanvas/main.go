// Command moodcanvas runs the MoodCanvas API: mood text in, playlist and
// generated artwork out.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/moodcanvas/moodcanvas/internal/auth"
	"github.com/moodcanvas/moodcanvas/internal/canvas"
	"github.com/moodcanvas/moodcanvas/internal/catalog"
	"github.com/moodcanvas/moodcanvas/internal/media"
	"github.com/moodcanvas/moodcanvas/internal/mood"
	"github.com/moodcanvas/moodcanvas/internal/openai"
	"github.com/moodcanvas/moodcanvas/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Credentials are validated before any network call
	spotifyCfg, err := auth.LoadConfig()
	if err != nil {
		return err
	}

	openaiCfg, err := openai.LoadConfig()
	if err != nil {
		return err
	}

	authenticator, err := auth.New(spotifyCfg)
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}

	// Single catalog session for the process lifetime
	spotifyClient, err := authenticator.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticating with Spotify: %w", err)
	}

	oa := openai.NewClient(openaiCfg)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	builder := catalog.NewBuilder(catalog.New(spotifyClient), rng)

	service := canvas.New(
		mood.NewAnalyzer(oa),
		builder,
		media.NewImageGenerator(oa),
		media.NewVideoGenerator(ctx),
	)

	server := web.NewServer(os.Getenv("MOODCANVAS_ADDR"), service)
	return server.Run()
}
