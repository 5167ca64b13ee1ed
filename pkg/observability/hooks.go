// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, translation warnings, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetWarningHooks(&myWarningHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnScanStart(ctx, container)
//	// ... do scanning ...
//	observability.Pipeline().OnScanComplete(ctx, container, blockCount, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the detection and translation pipeline.
type PipelineHooks interface {
	// Scan events
	OnScanStart(ctx context.Context, container string)
	OnScanComplete(ctx context.Context, container string, blockCount int, duration time.Duration)

	// Classification events
	OnClassify(ctx context.Context, dialect string, method string)

	// Translation events
	OnTranslateStart(ctx context.Context, dialect string)
	OnTranslateComplete(ctx context.Context, dialect string, entityCount, edgeCount int, duration time.Duration)

	// Preview render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Warning Hooks
// =============================================================================

// WarningHooks receives non-fatal degradation events. Every event here is
// recoverable: the pipeline continues and still produces output.
type WarningHooks interface {
	// OnUnterminatedBlock records a fence or tag pair that ran to end of input.
	OnUnterminatedBlock(ctx context.Context, container string, position int)

	// OnSkippedStatement records a DSL statement that could not be parsed.
	OnSkippedStatement(ctx context.Context, line int, statement string)

	// OnDroppedRelationship records a relationship whose endpoint was never declared.
	OnDroppedRelationship(ctx context.Context, fromID, toID string)
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

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnScanStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnScanComplete(context.Context, string, int, time.Duration)   {}
func (NoopPipelineHooks) OnClassify(context.Context, string, string)                   {}
func (NoopPipelineHooks) OnTranslateStart(context.Context, string)                     {}
func (NoopPipelineHooks) OnTranslateComplete(context.Context, string, int, int, time.Duration) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                        {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopWarningHooks is a no-op implementation of WarningHooks.
type NoopWarningHooks struct{}

func (NoopWarningHooks) OnUnterminatedBlock(context.Context, string, int)   {}
func (NoopWarningHooks) OnSkippedStatement(context.Context, int, string)    {}
func (NoopWarningHooks) OnDroppedRelationship(context.Context, string, string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	warningHooks  WarningHooks  = NoopWarningHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetWarningHooks registers custom warning hooks.
// This should be called once at application startup before any pipeline operations.
func SetWarningHooks(h WarningHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		warningHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
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

// Warnings returns the registered warning hooks.
func Warnings() WarningHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return warningHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	warningHooks = NoopWarningHooks{}
	cacheHooks = NoopCacheHooks{}
}
