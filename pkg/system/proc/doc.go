// Package proc reads the procfs sources behind the process collector:
// /proc/stat, /proc/self/stat, /proc/self/limits and /proc/self/fd, plus
// getrusage(RUSAGE_SELF).
//
// Overview
//
//   - FS: a procfs mount point. NewFS("") is /proc; tests root it at a
//     fixture directory with the same layout.
//
//   - Probe:
//     DetectCapabilities(fs) Capabilities
//     ReadBootTime(fs) (int64, error)
//
//     Capabilities records which of the four sources exist. Each is
//     optional: non-Linux hosts and sandboxes often lack /proc.
//
//   - Per-pass readers:
//     ReadRusage() (Rusage, error)
//     ReadStat(fs) (Stat, error)
//     ClassifyFDs(fs, skipped) (FDCounts, error)
//
//   - Per-read:
//     ReadMaxFDs(fs) (int64, error)
//
// Units
//
//	Rusage.UserTime/SystemTime : seconds
//	Rusage.MaxRSS              : kilobytes (Linux ru_maxrss)
//	Stat.UTime/STime/StartTime : clock ticks (see ClockTicks)
//	Stat.VSize                 : bytes
//	Stat.RSS                   : pages (see PageSize)
//
// Errors (errs.go):
//
//	ErrNoStat           : stat line missing the ") " separator
//	ErrShortStat        : stat line with fewer fields than position 24
//	ErrNoBootTime       : /proc/stat without a btime line
//	ErrNoOpenFilesLimit : limits without a numeric "Max open files" line
//
// A descriptor closing between the fd listing and its stat is not an
// error. Any other I/O failure is returned to the caller unchanged.
package proc
