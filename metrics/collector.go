// Package metrics provides the kernel's lightweight in-memory counters,
// gauges, and histograms: plugin activation counts/durations and bus
// emit/error counters. Trimmed from the teacher's HTTP/DB/cache metrics
// stack down to the counter/gauge/histogram core, since this module has
// no HTTP surface of its own to instrument.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Collector is a name+label-keyed store of counters, gauges, and
// bounded histograms.
type Collector struct {
	metrics map[string]*Metric
	mu      sync.RWMutex
}

// Metric is one recorded series.
type Metric struct {
	Type      string
	Value     float64
	Labels    map[string]string
	History   []float64
	Timestamp int64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		metrics: make(map[string]*Metric),
	}
}

// IncCounter increments a counter by 1.
func (c *Collector) IncCounter(name string, labels map[string]string) {
	c.AddCounter(name, 1, labels)
}

// AddCounter increments a counter by value.
func (c *Collector) AddCounter(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.buildKey(name, labels)
	if metric, exists := c.metrics[key]; exists {
		metric.Value += value
		metric.Timestamp = time.Now().Unix()
		return
	}
	c.metrics[key] = &Metric{Type: "counter", Value: value, Labels: labels, Timestamp: time.Now().Unix()}
}

// SetGauge sets a gauge's current value.
func (c *Collector) SetGauge(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.buildKey(name, labels)
	c.metrics[key] = &Metric{Type: "gauge", Value: value, Labels: labels, Timestamp: time.Now().Unix()}
}

// ObserveHistogram appends a sample to a bounded (last 100) histogram.
func (c *Collector) ObserveHistogram(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.buildKey(name, labels)
	if metric, exists := c.metrics[key]; exists {
		metric.History = append(metric.History, value)
		if len(metric.History) > 100 {
			metric.History = metric.History[1:]
		}
		metric.Timestamp = time.Now().Unix()
		return
	}
	c.metrics[key] = &Metric{Type: "histogram", Value: value, Labels: labels, History: []float64{value}, Timestamp: time.Now().Unix()}
}

func (c *Collector) buildKey(name string, labels map[string]string) string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	key := name
	for _, k := range names {
		key += ":" + k + "=" + labels[k]
	}
	return key
}

// GetMetrics returns a snapshot of every recorded series.
func (c *Collector) GetMetrics() map[string]*Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]*Metric, len(c.metrics))
	for k, v := range c.metrics {
		result[k] = v
	}
	return result
}

// GetMetric returns one series, or nil if it was never recorded.
func (c *Collector) GetMetric(name string, labels map[string]string) *Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics[c.buildKey(name, labels)]
}

// Reset clears every recorded series.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = make(map[string]*Metric)
}

// Kernel wraps a Collector with the specific series the kernel records
// during Init/Stop: plugin activation outcomes/durations and bus
// emit/error counts.
type Kernel struct {
	collector *Collector
}

// NewKernel creates a Kernel metrics recorder over a fresh Collector.
func NewKernel() *Kernel {
	return &Kernel{collector: NewCollector()}
}

// Collector exposes the underlying Collector for direct inspection
// (tests, a future /metrics-style dump).
func (k *Kernel) Collector() *Collector { return k.collector }

// RecordActivation records a plugin's setup outcome and wall time.
func (k *Kernel) RecordActivation(pluginName string, duration time.Duration, ok bool) {
	labels := map[string]string{"plugin": pluginName}
	if ok {
		k.collector.IncCounter("plugin_activations_total", labels)
	} else {
		k.collector.IncCounter("plugin_activation_failures_total", labels)
	}
	k.collector.ObserveHistogram("plugin_activation_duration_seconds", duration.Seconds(), labels)
}

// RecordTeardown records a plugin's teardown outcome.
func (k *Kernel) RecordTeardown(pluginName string, ok bool) {
	labels := map[string]string{"plugin": pluginName}
	if ok {
		k.collector.IncCounter("plugin_teardowns_total", labels)
	} else {
		k.collector.IncCounter("plugin_teardown_failures_total", labels)
	}
}

// RecordBusEmit records one emission on a namespaced bus ("events" or "hooks").
func (k *Kernel) RecordBusEmit(bus, name string) {
	k.collector.IncCounter(bus+"_emits_total", map[string]string{"name": name})
}

// RecordBusError records one Error Bus emission for a given family/kind.
func (k *Kernel) RecordBusError(family, kind string) {
	k.collector.IncCounter("kernel_errors_total", map[string]string{"family": family, "kind": kind})
}
