package testing

import (
	"errors"
	"testing"
	"time"
)

func TestTestContextSetGet(t *testing.T) {
	tc := NewTestContext(t)
	tc.Set("name", "audit")
	tc.AssertEqual("audit", tc.Get("name"), "component round-trip")
	tc.AssertNil(tc.Get("missing"), "unset component")
}

func TestTestContextMustGetFailsOnMissing(t *testing.T) {
	inner := &testing.T{}
	tc := NewTestContext(inner)
	// Fatalf on inner ends the calling goroutine, so MustGet runs in its own.
	done := make(chan struct{})
	go func() {
		defer close(done)
		tc.MustGet("missing")
	}()
	<-done
	if !inner.Failed() {
		t.Error("MustGet on an unset component should fail the inner test")
	}
}

func TestMockLoggerRecordsEntries(t *testing.T) {
	logger := NewMockLogger()
	logger.Info("starting up")
	logger.Errorf("plugin %s failed", "audit")

	entries := logger.GetEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if logger.CountEntries("error") != 1 {
		t.Errorf("error count = %d, want 1", logger.CountEntries("error"))
	}
	found := logger.FindEntry("plugin audit failed")
	if found == nil {
		t.Fatal("expected to find formatted error entry")
	}

	logger.Clear()
	if len(logger.GetEntries()) != 0 {
		t.Error("Clear should empty the entry log")
	}
}

func TestTestHelperRetrySucceedsEventually(t *testing.T) {
	h := NewTestHelper()
	attempts := 0
	err := h.Retry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond)
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestTestHelperJSONEquals(t *testing.T) {
	h := NewTestHelper()
	if !h.JSONEquals(`{"a":1,"b":2}`, `{"b":2,"a":1}`) {
		t.Error("JSONEquals should ignore key order")
	}
	if h.JSONEquals(`{"a":1}`, `{"a":2}`) {
		t.Error("JSONEquals should detect differing values")
	}
}

func TestTestRunnerRunsSetupAndTeardown(t *testing.T) {
	var setupRan, teardownRan bool
	tr := NewTestRunner().
		Setup(func(tc *TestContext) error { setupRan = true; return nil }).
		Teardown(func(tc *TestContext) error { teardownRan = true; return nil }).
		Add("sub", func(tc *TestContext) { tc.AssertTrue(true, "noop") })

	tr.Run(t)

	if !setupRan || !teardownRan {
		t.Errorf("setupRan=%v teardownRan=%v, want both true", setupRan, teardownRan)
	}
}
