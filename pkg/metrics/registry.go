package metrics

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Sample is one value read during Gather. Label is empty for unlabeled
// callbacks.
type Sample struct {
	Name       string
	Label      string
	LabelValue string
	Value      float64
}

type entry struct {
	name    string
	label   string
	fn      Callback
	labeled LabeledCallback
}

// Registry stores registrations in order and implements Sink with an
// empty prefix.
type Registry struct {
	log *zap.Logger

	mu         sync.Mutex
	collectors []Collector
	entries    []entry
	names      map[string]struct{}

	// serializes whole passes so readers never see a half-run collector
	gatherMu sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report failed collector passes.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:   zap.NewNop(),
		names: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Registry) Subspace(name string) Sink {
	return &space{reg: r, prefix: name}
}

func (r *Registry) RegisterCollector(fn Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors = append(r.collectors, fn)
}

func (r *Registry) RegisterCallback(name string, fn Callback) {
	r.add(entry{name: name, fn: fn})
}

func (r *Registry) RegisterLabeledCallback(name, label string, fn LabeledCallback) {
	r.add(entry{name: name, label: label, labeled: fn})
}

func (r *Registry) add(e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[e.name]; ok {
		panic(fmt.Errorf("%w: %s", ErrDuplicate, e.name))
	}
	r.names[e.name] = struct{}{}
	r.entries = append(r.entries, e)
}

// Names returns the registered metric names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.name)
	}
	return out
}

// Gather runs every collector, then reads every callback.
//
// A failing collector does not stop the pass: callbacks still read
// whatever state the collector left, which is the previous pass's for
// producers that swap state only on success. Callback errors other than
// ErrAbsent drop that metric. All errors are joined into the result.
func (r *Registry) Gather() ([]Sample, error) {
	r.gatherMu.Lock()
	defer r.gatherMu.Unlock()

	r.mu.Lock()
	collectors := append([]Collector(nil), r.collectors...)
	entries := append([]entry(nil), r.entries...)
	r.mu.Unlock()

	var errs []error
	for _, c := range collectors {
		if err := c(); err != nil {
			r.log.Warn("collector pass failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("collect: %w", err))
		}
	}

	samples := make([]Sample, 0, len(entries))
	for _, e := range entries {
		if e.labeled == nil {
			v, err := e.fn()
			if err != nil {
				if !errors.Is(err, ErrAbsent) {
					errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
				}
				continue
			}
			samples = append(samples, Sample{Name: e.name, Value: v})
			continue
		}

		vals, err := e.labeled()
		if err != nil {
			if !errors.Is(err, ErrAbsent) {
				errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
			}
			continue
		}
		keys := make([]string, 0, len(vals))
		for k := range vals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			samples = append(samples, Sample{Name: e.name, Label: e.label, LabelValue: k, Value: vals[k]})
		}
	}
	return samples, errors.Join(errs...)
}

type space struct {
	reg    *Registry
	prefix string
}

func (s *space) name(n string) string { return s.prefix + "_" + n }

func (s *space) Subspace(name string) Sink {
	return &space{reg: s.reg, prefix: s.name(name)}
}

func (s *space) RegisterCollector(fn Collector) { s.reg.RegisterCollector(fn) }

func (s *space) RegisterCallback(name string, fn Callback) {
	s.reg.RegisterCallback(s.name(name), fn)
}

func (s *space) RegisterLabeledCallback(name, label string, fn LabeledCallback) {
	s.reg.RegisterLabeledCallback(s.name(name), label, fn)
}
