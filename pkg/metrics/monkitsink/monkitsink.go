// Package monkitsink exports a metrics.Registry as a monkit StatSource.
package monkitsink

import (
	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap"

	"github.com/ja7ad/procmetrics/pkg/metrics"
)

// Field is the monkit field every sample is reported under.
const Field = "value"

// Source is a monkit.StatSource; each Stats call is one Gather pass.
type Source struct {
	reg *metrics.Registry
	log *zap.Logger
}

// New wraps reg. A nil logger discards errors.
func New(reg *metrics.Registry, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{reg: reg, log: log}
}

// Stats implements monkit.StatSource. monkit has no error channel, so a
// failed pass is logged and the readable samples are still reported.
func (s *Source) Stats(cb func(key monkit.SeriesKey, field string, val float64)) {
	samples, err := s.reg.Gather()
	if err != nil {
		s.log.Warn("monkit stats pass incomplete", zap.Error(err))
	}
	for _, smp := range samples {
		key := monkit.NewSeriesKey(smp.Name)
		if smp.Label != "" {
			key = key.WithTag(smp.Label, smp.LabelValue)
		}
		cb(key, Field, smp.Value)
	}
}

// Register chains the source into the named scope of registry, or of
// monkit.Default when registry is nil.
func Register(registry *monkit.Registry, scope string, src *Source) {
	if registry == nil {
		registry = monkit.Default
	}
	registry.ScopeNamed(scope).Chain(src)
}
