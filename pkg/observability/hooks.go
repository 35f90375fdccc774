// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about evaluations
// (build, select, render) and HTTP requests served by the API. Libraries
// never depend on a specific backend; they call the registered hooks, which
// default to no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEvaluationHooks(&myHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Evaluation().OnBuildStart(ctx, policy, n)
//	// ... build ...
//	observability.Evaluation().OnBuildComplete(ctx, policy, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Evaluation Hooks
// =============================================================================

// EvaluationHooks receives events from the build → select → render pipeline.
type EvaluationHooks interface {
	// Build events
	OnBuildStart(ctx context.Context, policy string, ssps int)
	OnBuildComplete(ctx context.Context, policy string, nodeCount int, duration time.Duration, err error)

	// Select events; path is the optimal path rendered as text, empty on error
	OnSelectComplete(ctx context.Context, path string, total string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEvaluationHooks is a no-op implementation of EvaluationHooks.
type NoopEvaluationHooks struct{}

func (NoopEvaluationHooks) OnBuildStart(context.Context, string, int) {}
func (NoopEvaluationHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopEvaluationHooks) OnSelectComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopEvaluationHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopEvaluationHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	evaluationHooks EvaluationHooks = NoopEvaluationHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetEvaluationHooks registers custom evaluation hooks.
// This should be called once at application startup before any evaluation.
func SetEvaluationHooks(h EvaluationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		evaluationHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Evaluation returns the registered evaluation hooks.
func Evaluation() EvaluationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return evaluationHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	evaluationHooks = NoopEvaluationHooks{}
	httpHooks = NoopHTTPHooks{}
}
