// Package process samples the calling process's resource usage once per
// collection pass and exposes it to a metrics.Sink as lazily read
// callbacks.
package process

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ja7ad/procmetrics/pkg/system/proc"
)

// Sampler owns the state read by every registered callback. Collect
// replaces it wholesale; callbacks never trigger I/O of their own except
// max_fds.
type Sampler struct {
	fs           proc.FS
	caps         proc.Capabilities
	bootTime     int64
	hasBootTime  bool
	ticksPerSec  float64
	bytesPerPage float64
	rusage       func() (proc.Rusage, error)
	log          *zap.Logger

	mu    sync.RWMutex
	state state
}

type state struct {
	usage proc.Rusage
	stat  proc.Stat
	fds   proc.FDCounts
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithFS reads procfs from fs instead of /proc.
func WithFS(fs proc.FS) Option {
	return func(s *Sampler) { s.fs = fs }
}

// WithClockTicks sets ticks per second used to convert stat CPU fields.
func WithClockTicks(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.ticksPerSec = float64(n)
		}
	}
}

// WithPageSize sets bytes per page used to convert the rss field.
func WithPageSize(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.bytesPerPage = float64(n)
		}
	}
}

// WithRusage replaces the getrusage query.
func WithRusage(fn func() (proc.Rusage, error)) Option {
	return func(s *Sampler) {
		if fn != nil {
			s.rusage = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSampler probes capabilities and boot time. Nothing is sampled until
// the first Collect; callbacks read zero values before that.
//
// An I/O error reading an existing /proc/stat is returned.
func NewSampler(opts ...Option) (*Sampler, error) {
	s := &Sampler{
		fs:           proc.NewFS(""),
		ticksPerSec:  float64(proc.ClockTicks()),
		bytesPerPage: float64(proc.PageSize()),
		rusage:       proc.ReadRusage,
		log:          zap.NewNop(),
		state:        state{fds: proc.NewFDCounts()},
	}
	for _, o := range opts {
		o(s)
	}

	s.caps = proc.DetectCapabilities(s.fs)
	if s.caps.ProcStat {
		bt, err := proc.ReadBootTime(s.fs)
		switch {
		case err == nil:
			s.bootTime, s.hasBootTime = bt, true
		case errors.Is(err, proc.ErrNoBootTime):
		default:
			return nil, fmt.Errorf("process: boot time: %w", err)
		}
	}

	s.log.Debug("process sampler ready",
		zap.String("proc_root", s.fs.Root()),
		zap.Bool("proc_stat", s.caps.ProcStat),
		zap.Bool("proc_self_stat", s.caps.ProcSelfStat),
		zap.Bool("proc_self_limits", s.caps.ProcSelfLimits),
		zap.Bool("proc_self_fd", s.caps.ProcSelfFD),
		zap.Int64("boot_time", s.bootTime),
	)
	return s, nil
}

// Capabilities returns what NewSampler detected.
func (s *Sampler) Capabilities() proc.Capabilities { return s.caps }

// BootTime returns the machine boot time in epoch seconds, if known.
func (s *Sampler) BootTime() (int64, bool) { return s.bootTime, s.hasBootTime }

// FS returns the procfs root the sampler reads.
func (s *Sampler) FS() proc.FS { return s.fs }

// Collect runs one sampling pass: getrusage, /proc/self/stat when present,
// then the fd classifier. On error the previous state is kept.
func (s *Sampler) Collect() error {
	var next state

	usage, err := s.rusage()
	if err != nil {
		return fmt.Errorf("process: rusage: %w", err)
	}
	next.usage = usage

	if s.caps.ProcSelfStat {
		st, err := proc.ReadStat(s.fs)
		if err != nil {
			return fmt.Errorf("process: stat: %w", err)
		}
		next.stat = st
	}

	fds, err := proc.ClassifyFDs(s.fs, func(fd string) {
		s.log.Debug("descriptor closed during scan", zap.String("fd", fd))
	})
	if err != nil {
		return fmt.Errorf("process: fds: %w", err)
	}
	next.fds = fds

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.log.Debug("collected process sample",
		zap.Float64("utime", usage.UserTime),
		zap.Float64("stime", usage.SystemTime),
		zap.Int64("rss_pages", next.stat.RSS),
		zap.Int("open_fds", fds.Total()),
	)
	return nil
}

func (s *Sampler) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Usage returns the last getrusage snapshot.
func (s *Sampler) Usage() proc.Rusage { return s.snapshot().usage }

// Stat returns the last /proc/self/stat record.
func (s *Sampler) Stat() proc.Stat { return s.snapshot().stat }

// FDCounts returns a copy of the last descriptor counts.
func (s *Sampler) FDCounts() proc.FDCounts { return s.snapshot().fds.Clone() }
