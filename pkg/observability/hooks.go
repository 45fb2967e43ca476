// Package observability provides hooks for instrumenting conversions.
//
// Libraries report events through the registered hooks; the defaults do
// nothing. A binary registers real implementations once at startup:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	observability.SetCacheHooks(observability.NewLogHooks(logger))
//
// The pipeline emits:
//
//	observability.Pipeline().OnLoadStart(ctx, auxPath)
//	// ... read the benchmark ...
//	observability.Pipeline().OnLoadComplete(ctx, auxPath, objects, cached, duration, err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, auxPath string)
	OnLoadComplete(ctx context.Context, auxPath string, objects int, cached bool, duration time.Duration, err error)
	OnConvertComplete(ctx context.Context, design string, macros int, duration time.Duration, err error)
	OnRenderComplete(ctx context.Context, formats []string, cached bool, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "design" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, bool, time.Duration, error) {
}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, bool, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Log Implementation
// =============================================================================

// LogHooks reports every event at debug level on a charmbracelet logger.
// It implements both PipelineHooks and CacheHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnLoadStart(_ context.Context, auxPath string) {
	h.Logger.Debug("load start", "aux", auxPath)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, auxPath string, objects int, cached bool, d time.Duration, err error) {
	h.Logger.Debug("load complete", "aux", auxPath, "objects", objects, "cached", cached, "duration", d, "error", err)
}

func (h *LogHooks) OnConvertComplete(_ context.Context, design string, macros int, d time.Duration, err error) {
	h.Logger.Debug("convert complete", "design", design, "macros", macros, "duration", d, "error", err)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, cached bool, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "cached", cached, "duration", d, "error", err)
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

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
