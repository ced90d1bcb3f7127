//go:build !unix

package proc

// ReadRusage reports zero usage where getrusage is unavailable.
func ReadRusage() (Rusage, error) {
	return Rusage{}, nil
}
