//go:build unix

package proc

import "golang.org/x/sys/unix"

// ReadRusage queries resource usage of the calling process.
func ReadRusage() (Rusage, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return Rusage{}, err
	}
	return Rusage{
		UserTime:   timevalSeconds(ru.Utime),
		SystemTime: timevalSeconds(ru.Stime),
		MaxRSS:     int64(ru.Maxrss),
	}, nil
}

func timevalSeconds(tv unix.Timeval) float64 {
	return float64(tv.Sec) + float64(tv.Usec)/1e6
}
