// Package audit is a reference plugin demonstrating the full descriptor
// shape: an options schema, declared events, and the optional route and
// health-check capabilities.
package audit

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/zernjs/kernel-sub004/events"
	"github.com/zernjs/kernel-sub004/options"
	"github.com/zernjs/kernel-sub004/plugin"
)

// Options is the audit plugin's declared option schema.
type Options struct {
	RetentionDays int `json:"retentionDays" validate:"gte=1" default:"90"`
}

// Service records audit entries in memory, keyed by the originating topic.
type Service struct {
	mu        sync.Mutex
	retention int
	entries   []Entry
}

// Entry is one recorded audit event.
type Entry struct {
	Topic string
	Data  any
}

func newService(retentionDays int) *Service {
	return &Service{retention: retentionDays}
}

// Record appends an entry. Exported so other plugins resolving this
// plugin's API (Kernel.Get("audit")) can record directly.
func (s *Service) Record(topic string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Topic: topic, Data: data})
}

// Entries returns a snapshot of recorded entries.
func (s *Service) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// handler implements the kernel's optional capability interfaces on top
// of a bound Service.
type handler struct {
	service *Service
}

var (
	_ plugin.RouteProvider  = (*handler)(nil)
	_ plugin.HealthReporter = (*handler)(nil)
)

func (h *handler) RegisterRoutes(router chi.Router) {
	router.Route("/audit", func(r chi.Router) {
		r.Get("/logs", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"count":%d}`, len(h.service.Entries()))
		})
	})
}

func (h *handler) HealthCheck(ctx context.Context) error {
	if h.service == nil {
		return fmt.Errorf("audit: service not initialized")
	}
	return nil
}

// Descriptor returns the audit plugin's descriptor, ready for Builder.Use.
func Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		Name:     "audit",
		Version:  "1.0.0",
		Priority: 0,
		OptionsSpec: &options.Spec{
			Validator:    options.NewStructValidator(func() any { return &Options{} }),
			DefaultValue: &Options{RetentionDays: 90},
		},
		Events: map[string]events.Definition{
			"log-recorded": {Delivery: events.Async, Startup: events.Drop},
		},
		Setup: func(ctx context.Context, pctx *plugin.Ctx, opts any) (plugin.API, error) {
			o, _ := opts.(*Options)
			if o == nil {
				o = &Options{RetentionDays: 90}
			}
			svc := newService(o.RetentionDays)
			h := &handler{service: svc}

			if pctx.Router != nil {
				h.RegisterRoutes(pctx.Router)
			}

			return plugin.API{
				"record":      svc.Record,
				"entries":     svc.Entries,
				"healthCheck": h.HealthCheck,
			}, nil
		},
	}
}
