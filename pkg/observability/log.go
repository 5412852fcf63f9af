package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. The CLI registers
// it when --verbose is set.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to the default logger when l
// is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnTileStart(_ context.Context, items int, threshold float64) {
	h.logger.Debug("tile start", "items", items, "threshold", threshold)
}

func (h *LogHooks) OnTileComplete(_ context.Context, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("tile failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("tile complete", "rows", rows, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, items int, width float64) {
	h.logger.Debug("layout start", "items", items, "width", width)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("layout complete", "rows", rows, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
