package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered 2 files (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability - log-backed hooks
// =============================================================================

// logHooks forwards evaluation and HTTP events to the logger at debug level.
// Failures are logged as warnings so they show without --verbose.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnBuildStart(_ context.Context, policy string, ssps int) {
	h.logger.Debug("building chain", "policy", policy, "ssps", ssps)
}

func (h *logHooks) OnBuildComplete(_ context.Context, policy string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("build failed", "policy", policy, "err", err)
		return
	}
	h.logger.Debug("chain built", "policy", policy, "nodes", nodeCount, "duration", d)
}

func (h *logHooks) OnSelectComplete(_ context.Context, path, total string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("selection failed", "err", err)
		return
	}
	h.logger.Debug("path selected", "path", path, "total", total, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	if len(formats) > 0 {
		h.logger.Debug("rendering", "formats", strings.Join(formats, ","))
	}
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", strings.Join(formats, ","), "err", err)
		return
	}
	if len(formats) > 0 {
		h.logger.Debug("rendered", "formats", strings.Join(formats, ","), "duration", d)
	}
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}
