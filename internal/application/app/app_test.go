package app

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/sprite2d/internal/application/loop"
	"github.com/younwookim/sprite2d/internal/application/state"
	"github.com/younwookim/sprite2d/internal/infrastructure/assets"
	"github.com/younwookim/sprite2d/internal/infrastructure/config"
)

const demoAssets = "../../../cmd/game/assets"

func demoConfig(t *testing.T) *config.AssetsConfig {
	t.Helper()
	cfg, err := config.NewLoader("../../../cmd/game/configs").LoadAssets()
	require.NoError(t, err)
	return cfg
}

func TestApp_DrawsKnightOnceLoaded(t *testing.T) {
	dc := gg.NewContext(320, 320)
	defer dc.Close()
	src := loop.NewManualSource()

	a := New(dc, src, assets.NewFSFetcher(os.DirFS(demoAssets)), demoConfig(t), nil)
	require.NoError(t, a.Start(context.Background()))
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Scene.Wait(ctx))
	require.Equal(t, state.LoadLoaded, a.Scene.State())

	knightAtlas := a.Scene.GetAtlas("knight")
	require.NotNil(t, knightAtlas)
	assert.True(t, knightAtlas.Drawable())

	require.NoError(t, src.Step(0))
	for i := 0; i < 3; i++ {
		require.NoError(t, src.Step(100*time.Millisecond))
	}
	assert.Equal(t, uint64(3), a.Pipeline.Frames())
	assert.Equal(t, 3, a.Knight.Frame())

	covered := 0
	img := dc.Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, alpha := img.At(x, y).RGBA(); alpha != 0 {
				covered++
			}
		}
	}
	assert.Positive(t, covered, "Knight should be drawn")
}

func TestApp_StopDetaches(t *testing.T) {
	dc := gg.NewContext(64, 64)
	defer dc.Close()
	src := loop.NewManualSource()

	a := New(dc, src, assets.NewFSFetcher(os.DirFS(demoAssets)), demoConfig(t), nil)
	defer a.Close()
	require.NoError(t, a.Start(context.Background()))

	a.Stop()
	assert.Equal(t, state.LoopStopped, a.Scheduler.State())
	assert.False(t, a.Pipeline.Mounted())
	assert.Zero(t, a.draw.Token())
	assert.Zero(t, src.Pending())
}

func TestApp_MissingManifest(t *testing.T) {
	dc := gg.NewContext(64, 64)
	defer dc.Close()
	src := loop.NewManualSource()
	cfg := &config.AssetsConfig{Manifest: "nope.scene.json", TimeoutMs: 1000}

	a := New(dc, src, assets.NewFSFetcher(os.DirFS(demoAssets)), cfg, nil)
	require.NoError(t, a.Start(context.Background()))
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, a.Scene.Wait(ctx))
	assert.Equal(t, state.LoadFailed, a.Scene.State())

	// The loop keeps running with nothing to draw.
	require.NoError(t, src.Step(0))
	require.NoError(t, src.Step(16*time.Millisecond))
	assert.Equal(t, uint64(1), a.Pipeline.Frames())
}

func TestApp_Restart(t *testing.T) {
	dc := gg.NewContext(320, 320)
	defer dc.Close()
	src := loop.NewManualSource()

	a := New(dc, src, assets.NewFSFetcher(os.DirFS(demoAssets)), demoConfig(t), nil)
	defer a.Close()
	require.NoError(t, a.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Scene.Wait(ctx))

	a.Stop()
	require.NoError(t, a.Start(context.Background()), "A stopped app can start again")
	assert.NotZero(t, a.draw.Token())

	require.NoError(t, src.Step(0))
	for i := 0; i < 4; i++ {
		require.NoError(t, src.Step(100*time.Millisecond))
	}
	assert.Equal(t, 4, a.Knight.Frame(), "Knight should animate after a restart")
}

func TestApp_StartAfterClose(t *testing.T) {
	dc := gg.NewContext(64, 64)
	defer dc.Close()

	a := New(dc, loop.NewManualSource(), assets.NewFSFetcher(os.DirFS(demoAssets)), demoConfig(t), nil)
	require.NoError(t, a.Start(context.Background()))
	a.Close()

	assert.ErrorIs(t, a.Start(context.Background()), ErrClosed)
	assert.Equal(t, state.LoopStopped, a.Scheduler.State())
}

func TestApp_PlacesKnightFromScene(t *testing.T) {
	demo := os.DirFS(demoAssets)
	atlasJSON, err := fs.ReadFile(demo, "sprites/knight.json")
	require.NoError(t, err)
	sheet, err := fs.ReadFile(demo, "sprites/knight.png")
	require.NoError(t, err)

	files := fstest.MapFS{
		"main.scene.json": {Data: []byte(`{
			"scene": {"knight": {"transform": {"x": 12, "y": 34, "rotation": 0.5}}},
			"atlas": {"knight": {"src": "knight.json", "map": "knight.png"}}
		}`)},
		"knight.json": {Data: atlasJSON},
		"knight.png":  {Data: sheet},
	}

	dc := gg.NewContext(128, 128)
	defer dc.Close()
	src := loop.NewManualSource()
	cfg := &config.AssetsConfig{Manifest: "main.scene.json"}

	a := New(dc, src, assets.NewFSFetcher(files), cfg, nil)
	defer a.Close()
	require.NoError(t, a.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Scene.Wait(ctx))

	require.NoError(t, src.Step(0))
	require.NoError(t, src.Step(16*time.Millisecond))

	assert.Equal(t, 12.0, a.Knight.X)
	assert.Equal(t, 34.0, a.Knight.Y)
	assert.Equal(t, 0.5, a.Knight.Angle)
}

func TestApp_PartialTransformKeepsDefaults(t *testing.T) {
	files := fstest.MapFS{
		"main.scene.json": {Data: []byte(`{"scene": {"knight": {"transform": {"x": 7}}}}`)},
	}

	dc := gg.NewContext(64, 64)
	defer dc.Close()
	src := loop.NewManualSource()

	a := New(dc, src, assets.NewFSFetcher(files), &config.AssetsConfig{Manifest: "main.scene.json"}, nil)
	defer a.Close()
	require.NoError(t, a.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Scene.Wait(ctx))

	require.NoError(t, src.Step(0))
	require.NoError(t, src.Step(16*time.Millisecond))

	assert.Equal(t, 7.0, a.Knight.X)
	assert.Equal(t, 100.0, a.Knight.Y)
	assert.Equal(t, -0.9, a.Knight.Angle)
}
