// Package promsink exports a metrics.Registry through the Prometheus
// client library.
package promsink

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ja7ad/procmetrics/pkg/metrics"
)

// Collector adapts a metrics.Registry to prometheus.Collector. Every
// Prometheus scrape is one Gather pass. All values are untyped.
type Collector struct {
	reg      *metrics.Registry
	errDesc  *prometheus.Desc
	helpText string
}

// New wraps reg.
func New(reg *metrics.Registry) *Collector {
	return &Collector{
		reg: reg,
		errDesc: prometheus.NewDesc(
			"procmetrics_gather_error",
			"A collector or callback failed during the pass.",
			nil, nil,
		),
		helpText: "Process metric.",
	}
}

// Describe sends nothing, making this an unchecked collector: the set of
// series depends on what the host exposes.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect runs one Gather pass.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	samples, err := c.reg.Gather()

	descs := make(map[string]*prometheus.Desc)
	for _, s := range samples {
		desc, ok := descs[s.Name]
		if !ok {
			var labels []string
			if s.Label != "" {
				labels = []string{s.Label}
			}
			desc = prometheus.NewDesc(s.Name, c.helpText, labels, nil)
			descs[s.Name] = desc
		}
		if s.Label != "" {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.UntypedValue, s.Value, s.LabelValue)
			continue
		}
		ch <- prometheus.MustNewConstMetric(desc, prometheus.UntypedValue, s.Value)
	}

	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.errDesc, err)
	}
}
