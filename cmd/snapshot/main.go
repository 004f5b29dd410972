// Command snapshot renders the demo scene headlessly and writes each frame
// as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"
	"github.com/younwookim/sprite2d/internal/application/app"
	"github.com/younwookim/sprite2d/internal/application/loop"
	"github.com/younwookim/sprite2d/internal/application/replay"
	"github.com/younwookim/sprite2d/internal/infrastructure/assets"
	"github.com/younwookim/sprite2d/internal/infrastructure/config"
	"github.com/younwookim/sprite2d/internal/logging"
)

type options struct {
	configDir string
	assetsDir string
	scene     string
	outDir    string
	replay    string
	frames    int
	step      time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.configDir, "config", "cmd/game/configs", "Config directory")
	flag.StringVar(&opts.assetsDir, "assets", "cmd/game/assets", "Asset directory for relative paths")
	flag.StringVar(&opts.scene, "scene", "", "Scene manifest path or URL (overrides assets.json)")
	flag.StringVar(&opts.outDir, "out", "frames", "Output directory")
	flag.StringVar(&opts.replay, "replay", "", "Render the frame timings of a recording made with game -record")
	flag.IntVar(&opts.frames, "frames", 12, "Number of frames to render (ignored with -replay)")
	flag.DurationVar(&opts.step, "dt", 100*time.Millisecond, "Time between frames")
	flag.Parse()

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	written, err := run(context.Background(), opts)
	if err != nil {
		log.Fatalf("Snapshot failed: %v", err)
	}
	log.Printf("Wrote %d frames to %s", len(written), opts.outDir)
}

// run loads the scene, renders opts.frames frames and returns the written
// file paths.
func run(ctx context.Context, opts options) ([]string, error) {
	cfg, err := config.NewLoader(opts.configDir).LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	timings, err := frameTimings(opts)
	if err != nil {
		return nil, err
	}
	if opts.scene != "" {
		cfg.Assets.Manifest = opts.scene
	} else if timings.Scene() != "" {
		cfg.Assets.Manifest = timings.Scene()
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return nil, err
	}

	remote := assets.NewHTTPFetcher(nil)
	remote.MaxBytes = cfg.Assets.MaxBytes
	fetcher := &assets.Mux{
		HTTP:  remote,
		Files: assets.NewDirFetcher(opts.assetsDir),
	}

	dc := gg.NewContext(cfg.Display.ScreenWidth, cfg.Display.ScreenHeight)
	defer dc.Close()

	src := loop.NewManualSource()
	demo := app.New(dc, src, fetcher, cfg.Assets, logging.Logger())
	if err := demo.Start(ctx); err != nil {
		return nil, err
	}
	defer demo.Close()

	if err := demo.Scene.Wait(ctx); err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}

	// The first frame only establishes the clock.
	if _, err := timings.Step(src); err != nil {
		return nil, err
	}

	written := make([]string, 0, timings.TotalFrames())
	for i := 0; ; i++ {
		ok, err := timings.Step(src)
		if err != nil {
			return written, err
		}
		if !ok {
			break
		}
		path := filepath.Join(opts.outDir, fmt.Sprintf("frame_%03d.png", i))
		if err := dc.SavePNG(path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// frameTimings returns the recording named by opts.replay, or opts.frames+1
// evenly spaced timestamps.
func frameTimings(opts options) (*replay.Replayer, error) {
	if opts.replay == "" {
		return replay.NewReplayer(replay.Uniform(opts.frames+1, opts.step)), nil
	}
	data, err := replay.LoadReplay(opts.replay)
	if err != nil {
		return nil, fmt.Errorf("load replay: %w", err)
	}
	return replay.NewReplayer(*data), nil
}
