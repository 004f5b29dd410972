// Package app wires the demo: a scheduler driving a render pipeline that
// draws the knight from an asynchronously loaded scene.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gogpu/gg"
	"github.com/younwookim/sprite2d/internal/application/knight"
	"github.com/younwookim/sprite2d/internal/application/loop"
	"github.com/younwookim/sprite2d/internal/application/render"
	"github.com/younwookim/sprite2d/internal/application/subscriber"
	"github.com/younwookim/sprite2d/internal/infrastructure/assets"
	"github.com/younwookim/sprite2d/internal/infrastructure/config"
	"github.com/younwookim/sprite2d/internal/infrastructure/scene"
	"github.com/younwookim/sprite2d/internal/logging"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("app: closed")

// TransformComponent is the scene component placing the knight.
const TransformComponent = "transform"

// Transform is the decoded TransformComponent. Missing fields keep the
// knight's defaults.
type Transform struct {
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Rotation *float64 `json:"rotation"` // radians
}

// App owns the demo's runtime pieces.
type App struct {
	Scheduler *loop.Scheduler
	Pipeline  *render.Pipeline[*gg.Context]
	Scene     *scene.Handle
	Knight    *knight.Knight

	assets *config.AssetsConfig
	loader *scene.Loader
	draw   *subscriber.Subscription[render.DrawFunc[*gg.Context]]
	placed bool
	cancel context.CancelFunc
	closed bool
	log    *slog.Logger
}

// New wires the demo onto dc, scheduling frames on src and loading assets
// through fetcher. A nil logger uses logging.Logger().
func New(dc *gg.Context, src loop.FrameSource, fetcher assets.Fetcher, cfg *config.AssetsConfig, log *slog.Logger) *App {
	log = logging.Or(log)

	a := &App{
		Scheduler: loop.NewScheduler(src, loop.WithLogger(log)),
		Pipeline:  render.New(dc),
		Scene:     scene.NewHandle(),
		assets:    cfg,
		loader:    scene.NewLoader(fetcher, scene.WithConcurrency(cfg.Concurrency), scene.WithLogger(log)),
		log:       log,
	}
	a.Knight = knight.New(a.Scene)
	return a
}

// Start loads the scene on first use and runs the frame loop. Frames are
// drawn while the scene loads; the knight appears once its atlas is ready.
// An App stopped with Stop can be started again.
func (a *App) Start(ctx context.Context) error {
	if a.closed {
		return ErrClosed
	}
	if a.cancel == nil {
		a.load(ctx)
	}
	if a.draw == nil || a.draw.Token() == 0 {
		a.draw = subscriber.Bind(a.Pipeline.Draws(), render.DrawFunc[*gg.Context](a.drawKnight))
	}
	a.Pipeline.Mount(a.Scheduler.Updates())
	return a.Scheduler.Start()
}

func (a *App) load(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	if t := a.assets.Timeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		go func() {
			<-a.Scene.Done()
			cancel()
		}()
	}

	a.log.Info("app: loading scene", "manifest", a.assets.Manifest)
	a.Scene.Start(ctx, a.loader, a.assets.Manifest)
}

// drawKnight places the knight from the scene once it has loaded, then
// draws it.
func (a *App) drawKnight(dc *gg.Context, dt time.Duration) error {
	if !a.placed {
		if s, err := a.Scene.Scene(); err == nil {
			a.place(s)
			a.placed = true
		}
	}
	return a.Knight.Draw(dc, dt)
}

func (a *App) place(s *scene.Scene) {
	var tr Transform
	if err := s.Component(knight.AtlasID, TransformComponent, &tr); err != nil {
		a.log.Debug("app: knight keeps default placement", "err", err)
		return
	}
	if tr.X != nil {
		a.Knight.X = *tr.X
	}
	if tr.Y != nil {
		a.Knight.Y = *tr.Y
	}
	if tr.Rotation != nil {
		a.Knight.Angle = *tr.Rotation
	}
}

// Stop halts the frame loop and detaches every subscriber. A load in flight
// keeps running so a later Start can use it.
func (a *App) Stop() {
	a.Scheduler.Stop()
	a.Pipeline.Unmount()
	if a.draw != nil {
		a.draw.Close()
	}
}

// Close stops the app for good and abandons a load still in flight.
func (a *App) Close() {
	a.Stop()
	if a.cancel != nil {
		a.cancel()
	}
	a.closed = true
}
