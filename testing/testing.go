// Package testing provides the small set of test-support helpers plugin
// and kernel tests reach for: a scoped context carrying named
// components plus assertion shorthands, a MockLogger that records
// entries instead of writing them, and a table-style TestRunner.
// Trimmed from the teacher's HTTP-client/DB/cache/service mocks, since
// this module has no HTTP, database, or cache surface to fake.
package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"
)

// TestContext carries a *testing.T plus named components shared across
// a test's setup/body/teardown, with assertion shorthands that call
// t.Fatalf/t.Errorf under the hood.
type TestContext struct {
	t          *testing.T
	components map[string]interface{}
	mu         sync.Mutex
}

// NewTestContext creates a TestContext bound to t.
func NewTestContext(t *testing.T) *TestContext {
	return &TestContext{
		t:          t,
		components: make(map[string]interface{}),
	}
}

// Cleanup clears the context's components. Intended for defer.
func (tc *TestContext) Cleanup() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.components = make(map[string]interface{})
}

// Set stores a named component for later retrieval.
func (tc *TestContext) Set(name string, component interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.components[name] = component
}

// Get retrieves a named component, or nil if unset.
func (tc *TestContext) Get(name string) interface{} {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.components[name]
}

// MustGet retrieves a named component, failing the test if unset.
func (tc *TestContext) MustGet(name string) interface{} {
	v := tc.Get(name)
	if v == nil {
		tc.t.Fatalf("component %q not set", name)
	}
	return v
}

func (tc *TestContext) AssertEqual(expected, actual interface{}, msg string) {
	tc.t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		tc.t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func (tc *TestContext) AssertNotEqual(expected, actual interface{}, msg string) {
	tc.t.Helper()
	if reflect.DeepEqual(expected, actual) {
		tc.t.Errorf("%s: expected values to differ, both %v", msg, expected)
	}
}

func (tc *TestContext) AssertNil(value interface{}, msg string) {
	tc.t.Helper()
	if value != nil && !reflect.ValueOf(value).IsZero() {
		tc.t.Errorf("%s: expected nil, got %v", msg, value)
	}
}

func (tc *TestContext) AssertNotNil(value interface{}, msg string) {
	tc.t.Helper()
	if value == nil {
		tc.t.Errorf("%s: expected non-nil value", msg)
	}
}

func (tc *TestContext) AssertTrue(value bool, msg string) {
	tc.t.Helper()
	if !value {
		tc.t.Errorf("%s: expected true", msg)
	}
}

func (tc *TestContext) AssertFalse(value bool, msg string) {
	tc.t.Helper()
	if value {
		tc.t.Errorf("%s: expected false", msg)
	}
}

func (tc *TestContext) AssertError(err error, msg string) {
	tc.t.Helper()
	if err == nil {
		tc.t.Errorf("%s: expected an error", msg)
	}
}

func (tc *TestContext) AssertNoError(err error, msg string) {
	tc.t.Helper()
	if err != nil {
		tc.t.Errorf("%s: unexpected error: %v", msg, err)
	}
}

// MockLogger records every call instead of writing it, so tests can
// assert on what was logged. It has logging.Logger-style level methods
// but does not implement the logging.Logger interface.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry is one recorded MockLogger call.
type LogEntry struct {
	Level  string
	Msg    string
	Fields []interface{}
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{entries: make([]LogEntry, 0)}
}

func (m *MockLogger) Debug(msg string, fields ...interface{}) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...interface{})  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...interface{})  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...interface{}) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...interface{}) { m.log("fatal", msg, fields) }

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.log("debug", fmt.Sprintf(format, args...), nil)
}
func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.log("info", fmt.Sprintf(format, args...), nil)
}
func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.log("warn", fmt.Sprintf(format, args...), nil)
}
func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.log("error", fmt.Sprintf(format, args...), nil)
}
func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.log("fatal", fmt.Sprintf(format, args...), nil)
}

func (m *MockLogger) log(level, msg string, fields []interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Msg: msg, Fields: fields})
}

// Named returns m unchanged; the mock doesn't track logger names beyond
// the root, since assertions key off message content, not namespace.
func (m *MockLogger) Named(name string) *MockLogger { return m }

func (m *MockLogger) GetEntries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.entries...)
}

func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = m.entries[:0]
}

func (m *MockLogger) FindEntry(msg string) *LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].Msg == msg {
			return &m.entries[i]
		}
	}
	return nil
}

func (m *MockLogger) CountEntries(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.entries {
		if e.Level == level {
			count++
		}
	}
	return count
}

// TestHelper bundles file/output/retry helpers used across plugin tests.
type TestHelper struct{}

func NewTestHelper() *TestHelper { return &TestHelper{} }

// TempFile creates a temp file with content, returning it and a cleanup func.
func (h *TestHelper) TempFile(content string) (*os.File, func()) {
	file, err := os.CreateTemp("", "test-*.txt")
	if err != nil {
		panic(err)
	}
	if content != "" {
		if _, err := file.WriteString(content); err != nil {
			file.Close()
			panic(err)
		}
		file.Seek(0, 0)
	}
	return file, func() {
		file.Close()
		os.Remove(file.Name())
	}
}

// TempDir creates a temp directory, returning its path and a cleanup func.
func (h *TestHelper) TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "test-*")
	if err != nil {
		panic(err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

// CaptureOutput redirects stdout/stderr for the duration of fn.
func (h *TestHelper) CaptureOutput(fn func()) (stdout, stderr string) {
	oldStdout, oldStderr := os.Stdout, os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout, os.Stderr = wOut, wErr

	fn()

	wOut.Close()
	wErr.Close()
	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	os.Stdout, os.Stderr = oldStdout, oldStderr

	return string(outBytes), string(errBytes)
}

// Retry calls fn until it succeeds or maxAttempts is reached.
func (h *TestHelper) Retry(fn func() error, maxAttempts int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if i < maxAttempts-1 {
				time.Sleep(delay)
			}
		}
	}
	return lastErr
}

// Eventually polls fn until it returns true or timeout elapses.
func (h *TestHelper) Eventually(fn func() bool, timeout time.Duration, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("condition not met within %v", timeout)
}

// JSONEquals compares two JSON strings structurally.
func (h *TestHelper) JSONEquals(a, b string) bool {
	var aJSON, bJSON interface{}
	if err := json.Unmarshal([]byte(a), &aJSON); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(b), &bJSON); err != nil {
		return false
	}
	return reflect.DeepEqual(aJSON, bJSON)
}

// TestRunner runs named tests sharing one setup/teardown pair.
type TestRunner struct {
	setup    func(*TestContext) error
	teardown func(*TestContext) error
	tests    map[string]func(*TestContext)
	mu       sync.Mutex
}

func NewTestRunner() *TestRunner {
	return &TestRunner{tests: make(map[string]func(*TestContext))}
}

func (tr *TestRunner) Setup(fn func(*TestContext) error) *TestRunner {
	tr.setup = fn
	return tr
}

func (tr *TestRunner) Teardown(fn func(*TestContext) error) *TestRunner {
	tr.teardown = fn
	return tr
}

func (tr *TestRunner) Add(name string, fn func(*TestContext)) *TestRunner {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.tests[name] = fn
	return tr
}

func (tr *TestRunner) Run(t *testing.T) {
	for name, test := range tr.tests {
		t.Run(name, func(t *testing.T) {
			tc := NewTestContext(t)
			defer tc.Cleanup()

			if tr.setup != nil {
				if err := tr.setup(tc); err != nil {
					t.Fatalf("Setup failed: %v", err)
				}
			}
			if tr.teardown != nil {
				defer func() {
					if err := tr.teardown(tc); err != nil {
						t.Errorf("Teardown failed: %v", err)
					}
				}()
			}
			test(tc)
		})
	}
}
