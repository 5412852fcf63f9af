// Package observability lets callers observe tiling, layout, cache and HTTP events.
//
// Each category (layout, cache, HTTP) has an interface, a no-op default and a
// process-wide registration. [NewLogHooks] implements all three on top of a
// charmbracelet logger and backs the CLI's --verbose flag.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnTileStart(ctx, len(items), threshold)
//	// ... tile ...
//	observability.Layout().OnTileComplete(ctx, len(breaks), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives events from tiling and grid layout.
type LayoutHooks interface {
	OnTileStart(ctx context.Context, items int, threshold float64)
	OnTileComplete(ctx context.Context, rows int, duration time.Duration, err error)
	OnLayoutStart(ctx context.Context, items int, width float64)
	OnLayoutComplete(ctx context.Context, rows int, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType is "tile" or "layout".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API server. OnRequest gets the request
// path; OnResponse gets the matched chi pattern, e.g. "/v1/layouts/{id}".
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnTileStart(context.Context, int, float64)                   {}
func (NoopLayoutHooks) OnTileComplete(context.Context, int, time.Duration, error)   {}
func (NoopLayoutHooks) OnLayoutStart(context.Context, int, float64)                 {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds the hooks registered for one event category.
type slot[H any] struct {
	mu    sync.RWMutex
	hooks H
	noop  H
}

func newSlot[H any](noop H) *slot[H] { return &slot[H]{hooks: noop, noop: noop} }

func (s *slot[H]) get() H {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hooks
}

// set replaces the hooks; nil is ignored.
func (s *slot[H]) set(h H) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

func (s *slot[H]) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = s.noop
}

var (
	layoutSlot = newSlot[LayoutHooks](NoopLayoutHooks{})
	cacheSlot  = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot   = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetLayoutHooks registers layout hooks, typically once at startup.
func SetLayoutHooks(h LayoutHooks) { layoutSlot.set(h) }

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers HTTP hooks.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Layout returns the registered layout hooks.
func Layout() LayoutHooks { return layoutSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores the no-op hooks. Tests call it in t.Cleanup.
func Reset() {
	layoutSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
