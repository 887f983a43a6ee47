package kernel

import (
	"context"
	"errors"
	"testing"

	"github.com/zernjs/kernel-sub004/events"
	"github.com/zernjs/kernel-sub004/plugin"
)

func echoDescriptor(name string, deps ...plugin.Dependency) plugin.Descriptor {
	return plugin.Descriptor{
		Name:      name,
		Version:   "1.0.0",
		DependsOn: deps,
		Setup: func(ctx context.Context, pctx *plugin.Ctx, opts any) (plugin.API, error) {
			return plugin.API{"name": name}, nil
		},
	}
}

func TestBuildTwiceFails(t *testing.T) {
	b := NewBuilder().Use(echoDescriptor("a"))
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestUseAfterBuildFails(t *testing.T) {
	b := NewBuilder().Use(echoDescriptor("a"))
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	pendingBefore := len(b.plugins)
	b.Use(echoDescriptor("b"))
	if len(b.plugins) != pendingBefore {
		t.Fatalf("Use after Build appended a plugin: len = %d, want %d", len(b.plugins), pendingBefore)
	}

	if _, err := b.Build(); err == nil {
		t.Fatal("expected Build to fail after a post-Build Use")
	} else if _, ok := err.(*AlreadyBuiltError); !ok {
		t.Fatalf("expected *AlreadyBuiltError, got %T", err)
	}
}

func TestInitResolvesAndActivates(t *testing.T) {
	b := NewBuilder().
		Use(echoDescriptor("base")).
		Use(echoDescriptor("consumer", plugin.Dependency{Name: "base"}))
	k, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := k.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	api, err := k.Get("consumer")
	if err != nil {
		t.Fatalf("Get(consumer): %v", err)
	}
	if api["name"] != "consumer" {
		t.Errorf("api = %v", api)
	}

	order := k.Order()
	if len(order) != 2 || order[0].Name() != "base" || order[1].Name() != "consumer" {
		t.Fatalf("order = %v, want [base consumer]", order)
	}
}

func TestGetBeforeInitFails(t *testing.T) {
	k, err := NewBuilder().Use(echoDescriptor("a")).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := k.Get("a"); err == nil {
		t.Fatal("expected Get before Init to fail")
	}
}

func TestInitIsIdempotent(t *testing.T) {
	k, err := NewBuilder().Use(echoDescriptor("a")).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := context.Background()
	if err := k.Init(ctx); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := k.Init(ctx); err != nil {
		t.Fatalf("second Init should be a no-op, got: %v", err)
	}
}

func TestStopThenGetFails(t *testing.T) {
	k, err := NewBuilder().Use(echoDescriptor("a")).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := context.Background()
	if err := k.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := k.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if _, err := k.Get("a"); err == nil {
		t.Error("Get after Stop should fail")
	}
	if err := k.Stop(ctx); err != nil {
		t.Fatalf("second Stop should be a no-op, got: %v", err)
	}
}

func TestHealthCheckRunsActivePluginsOnly(t *testing.T) {
	healthy := plugin.Descriptor{
		Name:    "healthy",
		Version: "1.0.0",
		Setup: func(ctx context.Context, pctx *plugin.Ctx, opts any) (plugin.API, error) {
			return plugin.API{"healthCheck": func(ctx context.Context) error { return nil }}, nil
		},
	}
	unhealthy := plugin.Descriptor{
		Name:    "unhealthy",
		Version: "1.0.0",
		Setup: func(ctx context.Context, pctx *plugin.Ctx, opts any) (plugin.API, error) {
			return plugin.API{"healthCheck": func(ctx context.Context) error { return errors.New("degraded") }}, nil
		},
	}

	k, err := NewBuilder().Use(healthy).Use(unhealthy).Use(echoDescriptor("plain")).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := context.Background()
	if err := k.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	results := k.HealthCheck(ctx)
	if len(results) != 2 {
		t.Fatalf("results = %v, want entries for healthy+unhealthy only", results)
	}
	if results["healthy"] != nil {
		t.Errorf("healthy result = %v, want nil", results["healthy"])
	}
	if results["unhealthy"] == nil {
		t.Error("unhealthy result = nil, want an error")
	}
}

func TestEventEmitIsCountedInMetrics(t *testing.T) {
	emitter := plugin.Descriptor{
		Name:    "emitter",
		Version: "1.0.0",
		Events: map[string]events.Definition{
			"ping": {Delivery: events.Sync, Startup: events.Buffer},
		},
		Setup: func(ctx context.Context, pctx *plugin.Ctx, opts any) (plugin.API, error) {
			if err := pctx.Events.Namespace("emitter").Emit("ping", nil); err != nil {
				return nil, err
			}
			return plugin.API{}, nil
		},
	}

	k, err := NewBuilder().Use(emitter).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := k.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	metric := k.Metrics().Collector().GetMetric("events_emits_total", map[string]string{"name": "emitter.ping"})
	if metric == nil || metric.Value != 1 {
		t.Errorf("events_emits_total = %v, want 1", metric)
	}
}
