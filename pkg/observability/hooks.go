// Package observability provides hooks for engine diagnostics and metrics.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Hooks are injected: the
// placement engine, the walkthrough pipeline and the caches each receive a
// [Hooks] value from whoever constructs them. There is no global registry.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Provide a structured-logging implementation ([LogHooks])
//
// # Usage
//
// Wire hooks at construction time:
//
//	hooks := observability.NewLogHooks(logger)
//	placer := placement.New(profiles, hooks)
//
// Degenerate geometry never fails a placement. It is reported through
// [PlacementHooks.OnFallback] and the engine carries on with its
// deterministic fallback position.
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Placement Hooks
// =============================================================================

// PlacementHooks receives events from starfield placement.
type PlacementHooks interface {
	// OnPlaced records a node receiving its permanent position.
	OnPlaced(nodeID string, sibling int, profile string)

	// OnFallback records a degenerate case handled with a fallback.
	// reason is a stable identifier such as "parent_at_root".
	OnFallback(nodeID string, reason string)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from walkthrough generation.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, root string, nodeCount int)
	OnLayoutComplete(ctx context.Context, root string, rooms, walls int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlacementHooks is a no-op implementation of PlacementHooks.
type NoopPlacementHooks struct{}

func (NoopPlacementHooks) OnPlaced(string, int, string) {}
func (NoopPlacementHooks) OnFallback(string, string)    {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int) {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Bundle
// =============================================================================

// Hooks bundles the hook categories so they can be passed as one value.
// Nil fields fall back to no-op implementations via [Hooks.OrNoop].
type Hooks struct {
	Placement PlacementHooks
	Layout    LayoutHooks
	Cache     CacheHooks
}

// Noop returns a bundle where every category is a no-op.
func Noop() Hooks {
	return Hooks{
		Placement: NoopPlacementHooks{},
		Layout:    NoopLayoutHooks{},
		Cache:     NoopCacheHooks{},
	}
}

// OrNoop replaces nil categories with no-op implementations.
func (h Hooks) OrNoop() Hooks {
	if h.Placement == nil {
		h.Placement = NoopPlacementHooks{}
	}
	if h.Layout == nil {
		h.Layout = NoopLayoutHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	return h
}
