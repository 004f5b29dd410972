package scene

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gogpu/gg"
	"github.com/younwookim/sprite2d/internal/domain/atlas"
	"github.com/younwookim/sprite2d/internal/infrastructure/assets"
	"github.com/younwookim/sprite2d/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many atlases load at once.
const DefaultConcurrency = 8

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency sets the maximum number of atlases loading at once.
// n <= 0 removes the limit.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		l.concurrency = n
	}
}

// WithLogger sets the logger. Defaults to logging.Logger().
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// Loader resolves scene manifests through a Fetcher.
type Loader struct {
	fetcher     assets.Fetcher
	concurrency int
	log         *slog.Logger
}

// NewLoader creates a loader reading through f.
func NewLoader(f assets.Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:     f,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = logging.Or(l.log)
	return l
}

// atlasResult is the outcome of loading one atlas.
type atlasResult struct {
	id    string
	atlas *atlas.Atlas
	err   error
}

// Load fetches the manifest at manifestURL and every atlas it references.
//
// A manifest that cannot be fetched or parsed fails the whole load. Atlas
// failures never do: the failed id gets atlas.Placeholder and loading
// continues. Load returns after every atlas has settled.
func (l *Loader) Load(ctx context.Context, manifestURL string) (*Scene, error) {
	start := time.Now()

	var m *Manifest
	data, err := l.fetcher.Fetch(ctx, manifestURL)
	if err == nil {
		m, err = ParseManifest(data)
	}
	if err != nil {
		l.log.Error("scene: manifest unavailable", "scene", manifestURL, "err", err)
		return nil, fmt.Errorf("failed to load scene %s: %w", manifestURL, err)
	}

	results := make([]atlasResult, 0, len(m.Atlas))
	for id := range m.Atlas {
		results = append(results, atlasResult{id: id})
	}

	var g errgroup.Group
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}
	for i := range results {
		r := &results[i]
		ref := m.Atlas[r.id]
		g.Go(func() error {
			r.atlas, r.err = l.loadAtlas(ctx, manifestURL, ref)
			return nil
		})
	}
	_ = g.Wait()

	s := &Scene{
		objects: m.Scene,
		atlases: make(map[string]*atlas.Atlas, len(results)),
	}
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			l.log.Warn("scene: atlas unavailable, using placeholder",
				"scene", manifestURL, "atlas", r.id, "err", r.err)
			s.atlases[r.id] = atlas.Placeholder()
			continue
		}
		s.atlases[r.id] = r.atlas
	}

	l.log.Info("scene: loaded", "scene", manifestURL,
		"objects", len(s.objects), "atlases", len(s.atlases), "failed", failed,
		"elapsed", time.Since(start))
	return s, nil
}

// loadAtlas fetches metadata and image concurrently. Either failing cancels
// the other.
func (l *Loader) loadAtlas(ctx context.Context, base string, ref AtlasRef) (*atlas.Atlas, error) {
	srcURL, err := Resolve(base, ref.Src)
	if err != nil {
		return nil, err
	}
	mapURL, err := Resolve(base, ref.Map)
	if err != nil {
		return nil, err
	}

	var (
		md     atlas.Metadata
		img    *gg.ImageBuf
		format string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := l.fetcher.Fetch(gctx, srcURL)
		if err != nil {
			return err
		}
		md, err = atlas.ParseMetadata(data)
		if err != nil {
			return fmt.Errorf("%s: %w", srcURL, err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := l.fetcher.Fetch(gctx, mapURL)
		if err != nil {
			return err
		}
		img, format, err = assets.DecodeImage(data)
		if err != nil {
			return fmt.Errorf("%s: %w", mapURL, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.log.Debug("scene: atlas loaded", "src", srcURL, "map", mapURL,
		"frames", len(md.Frames), "format", format)
	return atlas.New(md, img), nil
}

// Resolve interprets ref relative to the manifest location base. Absolute
// URLs are returned unchanged; relative ones resolve against base's
// directory, for both http URLs and file paths.
func Resolve(base, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty asset reference in %s", base)
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid scene location %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid asset reference %q: %w", ref, err)
	}
	resolved := b.ResolveReference(r)
	if resolved.Scheme == "" && resolved.Host == "" && !strings.HasPrefix(base, "/") {
		// ResolveReference roots relative paths; keep file paths relative.
		resolved.Path = strings.TrimPrefix(resolved.Path, "/")
	}
	return resolved.String(), nil
}
