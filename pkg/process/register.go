package process

import (
	"errors"

	"github.com/ja7ad/procmetrics/pkg/metrics"
	"github.com/ja7ad/procmetrics/pkg/system/proc"
)

// Register binds the sampler to sink, normally the "process" subspace.
//
// Under sink_resource: the Collect hook plus utime and stime in
// milliseconds and maxrss in bytes. Directly under sink: fds by type,
// always; the cpu, memory and start time series when /proc/self/stat
// exists; open_fds when /proc/self/fd exists; max_fds when
// /proc/self/limits exists.
func (s *Sampler) Register(sink metrics.Sink) {
	resource := sink.Subspace("resource")
	resource.RegisterCollector(s.Collect)

	resource.RegisterCallback("utime", func() (float64, error) {
		return s.Usage().UserTime * 1000, nil
	})
	resource.RegisterCallback("stime", func() (float64, error) {
		return s.Usage().SystemTime * 1000, nil
	})
	resource.RegisterCallback("maxrss", func() (float64, error) {
		return float64(s.Usage().MaxRSS) * 1024, nil
	})

	sink.RegisterLabeledCallback("fds", "type", func() (map[string]float64, error) {
		fds := s.snapshot().fds
		out := make(map[string]float64, len(fds))
		for k, v := range fds {
			out[k] = float64(v)
		}
		return out, nil
	})

	if s.caps.ProcSelfStat {
		sink.RegisterCallback("cpu_user_seconds_total", func() (float64, error) {
			return float64(s.Stat().UTime) / s.ticksPerSec, nil
		})
		sink.RegisterCallback("cpu_system_seconds_total", func() (float64, error) {
			return float64(s.Stat().STime) / s.ticksPerSec, nil
		})
		sink.RegisterCallback("cpu_seconds_total", func() (float64, error) {
			st := s.Stat()
			return float64(st.UTime+st.STime) / s.ticksPerSec, nil
		})
		sink.RegisterCallback("virtual_memory_bytes", func() (float64, error) {
			return float64(s.Stat().VSize), nil
		})
		sink.RegisterCallback("resident_memory_bytes", func() (float64, error) {
			return float64(s.Stat().RSS) * s.bytesPerPage, nil
		})
		sink.RegisterCallback("start_time_seconds", func() (float64, error) {
			if !s.hasBootTime {
				return 0, metrics.ErrAbsent
			}
			return float64(s.bootTime) + float64(s.Stat().StartTime)/s.ticksPerSec, nil
		})
	}

	if s.caps.ProcSelfFD {
		sink.RegisterCallback("open_fds", func() (float64, error) {
			return float64(s.snapshot().fds.Total()), nil
		})
	}

	if s.caps.ProcSelfLimits {
		sink.RegisterCallback("max_fds", s.maxFDs)
	}
}

// maxFDs rereads /proc/self/limits on every call instead of using the
// cached pass.
func (s *Sampler) maxFDs() (float64, error) {
	v, err := proc.ReadMaxFDs(s.fs)
	if errors.Is(err, proc.ErrNoOpenFilesLimit) {
		return 0, metrics.ErrAbsent
	}
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

// Register creates a Sampler with opts and registers it on sink.
func Register(sink metrics.Sink, opts ...Option) (*Sampler, error) {
	s, err := NewSampler(opts...)
	if err != nil {
		return nil, err
	}
	s.Register(sink)
	return s, nil
}
