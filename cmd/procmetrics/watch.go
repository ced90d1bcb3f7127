package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ja7ad/procmetrics/pkg/metrics"
	"github.com/ja7ad/procmetrics/pkg/process"
	"github.com/ja7ad/procmetrics/pkg/types"
)

type watchOpts struct {
	samples  int
	interval time.Duration
}

func newWatchCmd(a *app) *cobra.Command {
	var o watchOpts
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a collection pass every interval and print a table row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.watch(cmd.Context(), o)
		},
	}
	cmd.Flags().IntVarP(&o.samples, "samples", "s", 5, "number of passes (0 = run until Ctrl-C)")
	cmd.Flags().DurationVarP(&o.interval, "interval", "i", time.Second, "collection interval (e.g. 1s, 500ms)")
	return cmd
}

func (a *app) watch(ctx context.Context, o watchOpts) error {
	if o.interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if o.samples < 0 {
		return fmt.Errorf("samples must be >= 0")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reg := metrics.NewRegistry(metrics.WithLogger(a.log.Named("registry")))
	s, err := process.Register(reg.Subspace("process"), a.samplerOptions()...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCPU (s)\tUSER (s)\tSYS (s)\tRSS\tMAXRSS\tVSZ\tFDS\tMAX FDS")
	fmt.Fprintln(tw, "----\t-------\t--------\t-------\t---\t------\t---\t---\t-------")
	_ = tw.Flush()

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			a.log.Info("interrupted", zap.Int("passes", n))
			return nil

		case now := <-ticker.C:
			samples, err := reg.Gather()
			if err != nil {
				a.log.Warn("collection pass failed", zap.Error(err))
			}
			n++
			a.printRow(tw, now, s, index(samples))

			if o.samples > 0 && n >= o.samples {
				return nil
			}
		}
	}
}

func index(samples []metrics.Sample) map[string]float64 {
	out := make(map[string]float64, len(samples))
	for _, s := range samples {
		if s.Label == "" {
			out[s.Name] = s.Value
		}
	}
	return out
}

func (a *app) printRow(tw *tabwriter.Writer, ts time.Time, s *process.Sampler, vals map[string]float64) {
	num := func(name, format string) string {
		v, ok := vals[name]
		if !ok {
			return "-"
		}
		return fmt.Sprintf(format, v)
	}
	bytes := func(name string) string {
		v, ok := vals[name]
		if !ok {
			return "-"
		}
		return types.Bytes(v).Humanized()
	}
	rss := func() string {
		if !s.Capabilities().ProcSelfStat {
			return "-"
		}
		return types.FromPages(s.Stat().RSS, a.v.GetInt("page-size")).Humanized()
	}

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
		ts.Format("2006-01-02 15:04:05"),
		num("process_cpu_seconds_total", "%.2f"),
		num("process_cpu_user_seconds_total", "%.2f"),
		num("process_cpu_system_seconds_total", "%.2f"),
		rss(),
		types.FromKB(s.Usage().MaxRSS).Humanized(),
		bytes("process_virtual_memory_bytes"),
		s.FDCounts().Total(),
		num("process_max_fds", "%.0f"),
	)
	_ = tw.Flush()
}
