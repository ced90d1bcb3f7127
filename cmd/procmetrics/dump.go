package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/spf13/cobra"

	"github.com/ja7ad/procmetrics/pkg/metrics"
	"github.com/ja7ad/procmetrics/pkg/metrics/monkitsink"
	"github.com/ja7ad/procmetrics/pkg/metrics/promsink"
	"github.com/ja7ad/procmetrics/pkg/process"
)

func newDumpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Run one collection pass and print every metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.dump(a.v.GetString("format"))
		},
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text, prom, monkit)")
	return cmd
}

func (a *app) dump(format string) error {
	reg := metrics.NewRegistry(metrics.WithLogger(a.log.Named("registry")))
	if _, err := process.Register(reg.Subspace("process"), a.samplerOptions()...); err != nil {
		return err
	}

	switch format {
	case "text":
		return a.dumpText(reg)
	case "prom":
		return a.dumpProm(reg)
	case "monkit":
		return a.dumpMonkit(reg)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func (a *app) dumpText(reg *metrics.Registry) error {
	samples, err := reg.Gather()

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABELS\tVALUE")
	for _, s := range samples {
		labels := "-"
		if s.Label != "" {
			labels = s.Label + "=" + s.LabelValue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, labels, strconv.FormatFloat(s.Value, 'f', -1, 64))
	}
	if ferr := tw.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func (a *app) dumpProm(reg *metrics.Registry) error {
	preg := prometheus.NewRegistry()
	if err := preg.Register(promsink.New(reg)); err != nil {
		return err
	}

	fams, err := preg.Gather()
	for _, mf := range fams {
		if _, werr := expfmt.MetricFamilyToText(a.out, mf); werr != nil {
			return werr
		}
	}
	return err
}

func (a *app) dumpMonkit(reg *metrics.Registry) error {
	mreg := monkit.NewRegistry()
	monkitsink.Register(mreg, "procmetrics", monkitsink.New(reg, a.log.Named("monkit")))

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	mreg.Stats(func(key monkit.SeriesKey, field string, val float64) {
		series := key.Measurement
		if key.Tags != nil {
			if tags := key.Tags.String(); tags != "" {
				series += "," + tags
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", series, field, strconv.FormatFloat(val, 'f', -1, 64))
	})
	return tw.Flush()
}
