package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ja7ad/procmetrics/pkg/process"
	"github.com/ja7ad/procmetrics/pkg/types"
)

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show which process metric sources this host provides",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.probe()
		},
	}
}

func (a *app) probe() error {
	s, err := process.NewSampler(a.samplerOptions()...)
	if err != nil {
		return err
	}

	hostname, kernel, cpus, memTotal := a.systemSummary()
	fmt.Fprintf(a.out, _console, hostname, kernel, cpus, memTotal)

	caps := s.Capabilities()
	fsys := s.FS()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tPRESENT\tGATES")
	fmt.Fprintf(tw, "%s\t%t\t%s\n", fsys.Path("stat"), caps.ProcStat, "process_start_time_seconds (boot time)")
	fmt.Fprintf(tw, "%s\t%t\t%s\n", fsys.SelfPath("stat"), caps.ProcSelfStat, "process_cpu_*, process_*_memory_bytes, process_start_time_seconds")
	fmt.Fprintf(tw, "%s\t%t\t%s\n", fsys.SelfPath("limits"), caps.ProcSelfLimits, "process_max_fds")
	fmt.Fprintf(tw, "%s\t%t\t%s\n", fsys.SelfPath("fd"), caps.ProcSelfFD, "process_open_fds")
	if err := tw.Flush(); err != nil {
		return err
	}

	if bt, ok := s.BootTime(); ok {
		fmt.Fprintf(a.out, "\nBoot time: %s (%d)\n", time.Unix(bt, 0).UTC().Format(time.RFC3339), bt)
	} else {
		fmt.Fprintln(a.out, "\nBoot time: unknown")
	}
	return nil
}

// systemSummary describes the host; fields it cannot read are "unknown".
func (a *app) systemSummary() (hostname, kernel, cpus, memTotal string) {
	hostname, kernel, cpus, memTotal = "unknown", "unknown", "unknown", "unknown"

	if info, err := host.Info(); err == nil {
		hostname = info.Hostname
		kernel = info.KernelVersion
	} else {
		a.log.Debug("host info", zap.Error(err))
	}
	if n, err := cpu.Counts(true); err == nil {
		cpus = fmt.Sprint(n)
	} else {
		a.log.Debug("cpu count", zap.Error(err))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		memTotal = types.Bytes(vm.Total).Humanized()
	} else {
		a.log.Debug("virtual memory", zap.Error(err))
	}
	return
}

const _console = `procmetrics - process resource metrics

       Host: %s
       Kernel: %s
       CPUs: %s
       Mem: %s

`
