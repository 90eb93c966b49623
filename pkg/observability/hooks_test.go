package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Engine hooks
	e := NoopEngineHooks{}
	e.OnProject("line", true, time.Millisecond)
	e.OnSnap("", false, time.Millisecond)
	e.OnBoundary("between-functions", 4, time.Millisecond)
	e.OnCompile(false, errors.New("bad expression"))

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/snap")
	h.OnResponse(ctx, "POST", "/v1/snap", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)

	// Setting nil should be ignored
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)

	Engine().OnSnap("curve", true, time.Microsecond)
	Engine().OnSnap("", false, time.Microsecond)

	if custom.snaps != 2 {
		t.Errorf("snaps = %d, want 2", custom.snaps)
	}
}

// Test implementations
type testEngineHooks struct {
	NoopEngineHooks
	snaps int
}

func (h *testEngineHooks) OnSnap(string, bool, time.Duration) { h.snaps++ }

type testHTTPHooks struct{ NoopHTTPHooks }
