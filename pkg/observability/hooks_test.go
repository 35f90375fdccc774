package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEvaluationHooks{}
	e.OnBuildStart(ctx, "conversion", 6)
	e.OnBuildComplete(ctx, "conversion", 8, time.Second, nil)
	e.OnSelectComplete(ctx, "DSP → SSP_1 → Publisher", "24", time.Second, nil)
	e.OnRenderStart(ctx, []string{"svg"})
	e.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/chain")
	h.OnResponse(ctx, "GET", "/v1/chain", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Evaluation().(NoopEvaluationHooks); !ok {
		t.Error("Evaluation() should return NoopEvaluationHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	custom := &testEvaluationHooks{}
	SetEvaluationHooks(custom)
	if Evaluation() != custom {
		t.Error("SetEvaluationHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// nil is ignored
	SetEvaluationHooks(nil)
	if Evaluation() != custom {
		t.Error("SetEvaluationHooks(nil) should keep existing hooks")
	}

	Reset()
	if _, ok := Evaluation().(NoopEvaluationHooks); !ok {
		t.Error("Reset should restore NoopEvaluationHooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	h := &testEvaluationHooks{}
	SetEvaluationHooks(h)

	ctx := context.Background()
	Evaluation().OnBuildStart(ctx, "cheapest", 3)
	Evaluation().OnSelectComplete(ctx, "DSP → SSP_3 → Publisher", "7.8", time.Millisecond, nil)

	if h.builds != 1 || h.selects != 1 {
		t.Errorf("builds = %d, selects = %d, want 1/1", h.builds, h.selects)
	}
}

type testEvaluationHooks struct {
	NoopEvaluationHooks
	builds  int
	selects int
}

func (h *testEvaluationHooks) OnBuildStart(context.Context, string, int) { h.builds++ }
func (h *testEvaluationHooks) OnSelectComplete(context.Context, string, string, time.Duration, error) {
	h.selects++
}

type testHTTPHooks struct{ NoopHTTPHooks }
