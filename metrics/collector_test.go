package metrics

import "testing"

func TestCounterAccumulates(t *testing.T) {
	c := NewCollector()
	c.IncCounter("requests", nil)
	c.IncCounter("requests", nil)
	c.AddCounter("requests", 3, nil)

	m := c.GetMetric("requests", nil)
	if m == nil || m.Value != 5 {
		t.Fatalf("metric = %+v, want value 5", m)
	}
}

func TestGaugeOverwrites(t *testing.T) {
	c := NewCollector()
	c.SetGauge("queue_size", 10, nil)
	c.SetGauge("queue_size", 3, nil)

	m := c.GetMetric("queue_size", nil)
	if m.Value != 3 {
		t.Fatalf("gauge = %v, want 3", m.Value)
	}
}

func TestHistogramBounded(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 150; i++ {
		c.ObserveHistogram("latency", float64(i), nil)
	}
	m := c.GetMetric("latency", nil)
	if len(m.History) != 100 {
		t.Fatalf("history len = %d, want 100", len(m.History))
	}
}

func TestReset(t *testing.T) {
	c := NewCollector()
	c.IncCounter("x", nil)
	c.Reset()
	if len(c.GetMetrics()) != 0 {
		t.Fatal("expected empty metrics after Reset")
	}
}

func TestKernelRecordsActivationAndErrors(t *testing.T) {
	k := NewKernel()
	k.RecordActivation("audit", 0, true)
	k.RecordActivation("broken", 0, false)
	k.RecordBusError("kernel", "SetupFailed")

	if k.Collector().GetMetric("plugin_activations_total", map[string]string{"plugin": "audit"}) == nil {
		t.Error("expected activation counter for audit")
	}
	if k.Collector().GetMetric("plugin_activation_failures_total", map[string]string{"plugin": "broken"}) == nil {
		t.Error("expected activation failure counter for broken")
	}
	if k.Collector().GetMetric("kernel_errors_total", map[string]string{"family": "kernel", "kind": "SetupFailed"}) == nil {
		t.Error("expected kernel error counter")
	}
}
