package proc

// Rusage is the subset of getrusage(RUSAGE_SELF) the sampler tracks, in
// OS-native units.
type Rusage struct {
	UserTime   float64 // seconds
	SystemTime float64 // seconds
	MaxRSS     int64   // kilobytes on Linux
}
