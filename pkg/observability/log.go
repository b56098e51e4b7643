package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every hook category as structured log entries.
// Fallbacks are warnings; everything else is debug output.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns a bundle backed by logger. A nil logger uses log.Default().
func NewLogHooks(logger *log.Logger) Hooks {
	if logger == nil {
		logger = log.Default()
	}
	h := &LogHooks{Logger: logger}
	return Hooks{Placement: h, Layout: h, Cache: h}
}

func (h *LogHooks) OnPlaced(nodeID string, sibling int, profile string) {
	h.Logger.Debug("placed node", "node", nodeID, "sibling", sibling, "profile", profile)
}

func (h *LogHooks) OnFallback(nodeID string, reason string) {
	h.Logger.Warn("degenerate placement, using fallback", "node", nodeID, "reason", reason)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, root string, nodeCount int) {
	h.Logger.Debug("walkthrough start", "root", root, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, root string, rooms, walls int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("walkthrough failed", "root", root, "err", err)
		return
	}
	h.Logger.Debug("walkthrough done", "root", root, "rooms", rooms, "walls", walls, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PlacementHooks = (*LogHooks)(nil)
	_ LayoutHooks    = (*LogHooks)(nil)
	_ CacheHooks     = (*LogHooks)(nil)
)
