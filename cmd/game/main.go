package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/sprite2d/internal/application/app"
	"github.com/younwookim/sprite2d/internal/application/game"
	"github.com/younwookim/sprite2d/internal/application/loop"
	"github.com/younwookim/sprite2d/internal/application/replay"
	"github.com/younwookim/sprite2d/internal/infrastructure/assets"
	"github.com/younwookim/sprite2d/internal/infrastructure/config"
	"github.com/younwookim/sprite2d/internal/logging"
)

func main() {
	// Parse command line flags
	configDir := flag.String("config", "", "Read configs from a directory instead of the embedded ones")
	sceneFlag := flag.String("scene", "", "Scene manifest path or URL (overrides assets.json)")
	recordFlag := flag.String("record", "", "Record frame timings to file (e.g., -record replay.json)")
	verbose := flag.Bool("v", false, "Log debug output")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(logger)

	cfg, err := loadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *sceneFlag != "" {
		cfg.Assets.Manifest = *sceneFlag
	}

	files, err := assetFiles(cfg.Assets.BaseDir)
	if err != nil {
		log.Fatalf("Failed to open assets: %v", err)
	}
	fetcher := &assets.Mux{
		HTTP:  &assets.HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}, MaxBytes: cfg.Assets.MaxBytes},
		Files: assets.NewFSFetcher(files),
	}

	bg, err := cfg.Display.BackgroundColor()
	if err != nil {
		log.Fatalf("Invalid background: %v", err)
	}

	// Offscreen surface, presented by the host every Draw
	dc := gg.NewContext(cfg.Display.ScreenWidth, cfg.Display.ScreenHeight)
	defer dc.Close()

	host := game.New(dc, game.WithBackground(bg))
	var src loop.FrameSource = host
	var recorder *replay.Recorder
	if *recordFlag != "" {
		recorder = replay.NewRecorder(host, cfg.Assets.Manifest)
		src = recorder
		log.Printf("Recording enabled: %s", *recordFlag)
	}

	demo := app.New(dc, src, fetcher, cfg.Assets, logger)
	if err := demo.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer demo.Close()

	// Set up ebiten
	ebiten.SetWindowSize(cfg.Display.ScreenWidth*cfg.Display.Scale,
		cfg.Display.ScreenHeight*cfg.Display.Scale)
	ebiten.SetWindowTitle(cfg.Display.Title)
	ebiten.SetTPS(cfg.Display.Framerate)

	// Run game
	if err := ebiten.RunGame(host); err != nil {
		log.Printf("Game stopped: %v", err)
	}

	if recorder != nil {
		if err := recorder.Save(*recordFlag); err != nil {
			log.Printf("Failed to save recording: %v", err)
		} else {
			log.Printf("Recording saved: %s (%d frames)", *recordFlag, recorder.FrameCount())
		}
	}
}

func loadConfig(dir string) (*config.GameConfig, error) {
	if dir != "" {
		return config.NewLoader(dir).LoadAll()
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, err
	}
	return config.NewFSLoader(fsys, "configs").LoadAll()
}

func assetFiles(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(assetsFS, "assets")
}
