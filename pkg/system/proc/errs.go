package proc

import "errors"

var (
	// ErrNoStat indicates that /proc/self/stat was empty or had no ") "
	// separator after the command name.
	ErrNoStat = errors.New("proc: malformed or empty stat")

	// ErrShortStat indicates that /proc/self/stat had fewer fields than expected.
	ErrShortStat = errors.New("proc: short stat")

	// ErrNoBootTime indicates that /proc/stat exists but has no btime line.
	ErrNoBootTime = errors.New("proc: no btime line")

	// ErrNoOpenFilesLimit indicates that /proc/self/limits has no
	// "Max open files" line, or its limit is not numeric.
	ErrNoOpenFilesLimit = errors.New("proc: no open files limit")
)
