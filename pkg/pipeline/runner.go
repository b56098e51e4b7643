package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treescape/pkg/cache"
	"github.com/matzehuels/treescape/pkg/errors"
	"github.com/matzehuels/treescape/pkg/observability"
	"github.com/matzehuels/treescape/pkg/placement"
	"github.com/matzehuels/treescape/pkg/scene"
	"github.com/matzehuels/treescape/pkg/starfield"
	"github.com/matzehuels/treescape/pkg/tree"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypePlacement   = "placement"
	keyTypeWalkthrough = "walkthrough"
	keyTypeArtifact    = "artifact"
)

// Runner encapsulates engine execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, hooks and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Hooks   observability.Hooks
	Options Options
}

// NewRunner creates a runner with the given cache and keyer and the
// default engine options.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Hooks log through logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Hooks:   observability.NewLogHooks(logger),
		Options: DefaultOptions(),
	}
}

// Placer returns a placer for the runner's profiles wired to its hooks.
func (r *Runner) Placer() *placement.Placer {
	return placement.New(r.Options.Placement, r.hooks().Placement)
}

func (r *Runner) hooks() observability.Hooks { return r.Hooks.OrNoop() }

// OpenField turns a snapshot into a live starfield. A snapshot whose every
// entry carries a position is opened as is; otherwise all positions are
// recomputed by replay.
func (r *Runner) OpenField(s tree.Snapshot) (*starfield.Field, error) {
	var (
		f   *starfield.Field
		err error
	)
	if fullyPlaced(s) {
		f, err = starfield.Open(s, r.Placer())
	} else {
		f, err = starfield.Replay(s, r.Placer())
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "open tree %q", s.RootID)
	}
	return f, nil
}

func fullyPlaced(s tree.Snapshot) bool {
	for _, e := range s.Entries {
		if !e.Placed {
			return false
		}
	}
	return len(s.Entries) > 0
}

// treeHash identifies a snapshot by its document encoding.
func treeHash(s tree.Snapshot) string {
	return cache.HashJSON(scene.FromSnapshot(s))
}

// =============================================================================
// Place
// =============================================================================

// PlaceWithCacheInfo computes starfield positions with caching and returns
// cache hit info.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, s tree.Snapshot) (scene.Placements, bool, error) {
	if err := s.Validate(); err != nil {
		return scene.Placements{}, false, errors.Wrap(errors.ErrCodeInvalidTree, err, "place")
	}
	h := r.hooks()
	cacheKey := r.Keyer.PlacementKey(treeHash(s), cache.HashJSON(r.Options.Placement))

	if !r.Options.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if p, err := scene.UnmarshalPlacements(data); err == nil {
				h.Cache.OnCacheHit(ctx, keyTypePlacement)
				return p, true, nil
			}
		}
	}
	h.Cache.OnCacheMiss(ctx, keyTypePlacement)

	start := time.Now()
	f, err := r.OpenField(s)
	if err != nil {
		return scene.Placements{}, false, err
	}
	p := scene.PlacementsOf(f.Root(), f.Positions())
	r.Logger.Debug("placed tree", "root", s.RootID, "nodes", f.Len(), "duration", time.Since(start))

	if data, err := scene.MarshalPlacements(p); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, r.Options.ttl(cache.TTLPlacement))
		h.Cache.OnCacheSet(ctx, keyTypePlacement, len(data))
	}
	return p, false, nil
}

// Place is a convenience wrapper that calls PlaceWithCacheInfo and discards the cache hit info.
func (r *Runner) Place(ctx context.Context, s tree.Snapshot) (scene.Placements, error) {
	p, _, err := r.PlaceWithCacheInfo(ctx, s)
	return p, err
}

// =============================================================================
// Walk
// =============================================================================

// Build runs the walkthrough engine without caching and reports layout
// hooks. An empty start means the root.
func (r *Runner) Build(ctx context.Context, s tree.Snapshot, start string) walkthrough.Result {
	if start == "" {
		start = s.RootID
	}
	h := r.hooks()
	h.Layout.OnLayoutStart(ctx, start, s.Len())
	began := time.Now()
	res := walkthrough.Build(s, start, r.Options.Walkthrough)
	h.Layout.OnLayoutComplete(ctx, start, len(res.Rooms), len(res.Walls), time.Since(began), nil)
	return res
}

// WalkWithCacheInfo builds the walkthrough document of the subtree at
// start with caching and returns cache hit info. An unknown start yields
// an empty document.
func (r *Runner) WalkWithCacheInfo(ctx context.Context, s tree.Snapshot, start string) (scene.Walkthrough, bool, error) {
	if err := s.Validate(); err != nil {
		return scene.Walkthrough{}, false, errors.Wrap(errors.ErrCodeInvalidTree, err, "walk")
	}
	if start == "" {
		start = s.RootID
	}
	h := r.hooks()
	cacheKey := r.Keyer.WalkthroughKey(treeHash(s), start, cache.HashJSON(r.Options.Walkthrough))

	if !r.Options.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if wt, err := scene.UnmarshalWalkthrough(data); err == nil {
				h.Cache.OnCacheHit(ctx, keyTypeWalkthrough)
				return wt, true, nil
			}
		}
	}
	h.Cache.OnCacheMiss(ctx, keyTypeWalkthrough)

	wt := scene.WalkthroughOf(r.Build(ctx, s, start))
	if data, err := scene.MarshalWalkthrough(wt); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, r.Options.ttl(cache.TTLWalkthrough))
		h.Cache.OnCacheSet(ctx, keyTypeWalkthrough, len(data))
	}
	return wt, false, nil
}

// Walk is a convenience wrapper that calls WalkWithCacheInfo and discards the cache hit info.
func (r *Runner) Walk(ctx context.Context, s tree.Snapshot, start string) (scene.Walkthrough, error) {
	wt, _, err := r.WalkWithCacheInfo(ctx, s, start)
	return wt, err
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo exports the walkthrough of the subtree at start in
// the requested formats with caching. The hit flag is true only when every
// format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s tree.Snapshot, start string, formats []string) (map[string][]byte, bool, error) {
	if len(formats) == 0 {
		formats = []string{FormatSVG}
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "render")
	}
	if err := s.Validate(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidTree, err, "render")
	}
	if start == "" {
		start = s.RootID
	}
	h := r.hooks()
	sourceHash := cache.HashJSON([]string{
		treeHash(s),
		start,
		cache.HashJSON(r.Options.Walkthrough),
		cache.HashJSON(r.Options.Mesh),
	})

	artifacts := make(map[string][]byte, len(formats))
	if !r.Options.Refresh {
		for _, format := range formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(sourceHash, format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(formats) {
			h.Cache.OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
	}
	h.Cache.OnCacheMiss(ctx, keyTypeArtifact)

	res := r.Build(ctx, s, start)
	rendered, err := renderAll(ctx, s, start, res, formats, r.Options.Mesh)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(sourceHash, format), data, r.Options.ttl(cache.TTLArtifact))
		h.Cache.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	r.Logger.Debug("rendered exports", "start", start, "formats", formats, "rooms", len(res.Rooms))
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s tree.Snapshot, start string, formats []string) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, start, formats)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// marshalIndented encodes a walkthrough document for file output.
func marshalIndented(wt scene.Walkthrough) ([]byte, error) {
	var buf bytes.Buffer
	if err := scene.WriteWalkthrough(wt, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
