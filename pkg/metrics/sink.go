// Package metrics is a small pull-based metrics facility. Producers
// register collectors and value callbacks on a Sink; a consumer calls
// Registry.Gather, which runs every collector once and then reads every
// callback.
package metrics

import "errors"

var (
	// ErrAbsent is returned by a Callback that has no value this pass.
	// Gather drops the sample without reporting an error.
	ErrAbsent = errors.New("metrics: value absent")

	// ErrDuplicate is the panic value when a name is registered twice.
	ErrDuplicate = errors.New("metrics: duplicate metric name")
)

// Collector runs once per Gather before any callback is read.
type Collector func() error

// Callback produces one value.
type Callback func() (float64, error)

// LabeledCallback produces one value per label value of a single label
// dimension.
type LabeledCallback func() (map[string]float64, error)

// Sink is the registration side of the facility.
type Sink interface {
	// Subspace returns a Sink whose names are prefixed with name.
	Subspace(name string) Sink
	RegisterCollector(fn Collector)
	RegisterCallback(name string, fn Callback)
	RegisterLabeledCallback(name, label string, fn LabeledCallback)
}
