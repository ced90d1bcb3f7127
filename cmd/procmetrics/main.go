package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ja7ad/procmetrics/pkg/process"
	"github.com/ja7ad/procmetrics/pkg/system/proc"
)

const envPrefix = "PROCMETRICS"

// app carries what every subcommand needs once the root has parsed flags
// and config.
type app struct {
	v   *viper.Viper
	log *zap.Logger
	out io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop(), out: out}
	var cfgFile string

	root := &cobra.Command{
		Use:   "procmetrics",
		Short: "Process resource metrics for the calling process",
		Long: `procmetrics samples CPU time, memory, file descriptor usage and start
time of its own process from getrusage and /proc, and exposes them through
a pull-based metrics registry (legacy process_resource_* names and the
standard process_* names).

Examples:
  procmetrics dump --format prom
  procmetrics watch -i 500ms -s 10
  PROCMETRICS_PROC_ROOT=/host/proc procmetrics probe`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, cfgFile)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.String("proc-root", proc.DefaultRoot, "procfs mount point")
	pf.Int("clock-ticks", proc.ClockTicks(), "clock ticks per second for /proc/self/stat cpu fields")
	pf.Int("page-size", proc.PageSize(), "bytes per page for the rss field")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")

	root.AddCommand(newDumpCmd(a), newWatchCmd(a), newProbeCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command, cfgFile string) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	log, err := newLogger(a.v.GetString("log-level"), a.v.GetString("log-format"))
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) samplerOptions() []process.Option {
	return []process.Option{
		process.WithFS(proc.NewFS(a.v.GetString("proc-root"))),
		process.WithClockTicks(a.v.GetInt("clock-ticks")),
		process.WithPageSize(a.v.GetInt("page-size")),
		process.WithLogger(a.log.Named("sampler")),
	}
}
