package proc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Field positions in /proc/<pid>/stat, 1-based as documented in proc(5).
const (
	FieldUTime     = 14
	FieldSTime     = 15
	FieldStartTime = 22
	FieldVSize     = 23
	FieldRSS       = 24
)

// Stat is the subset of /proc/self/stat the sampler tracks.
type Stat struct {
	UTime     int64 // user CPU ticks
	STime     int64 // system CPU ticks
	StartTime int64 // ticks after boot the process started
	VSize     int64 // virtual memory size in bytes
	RSS       int64 // resident pages
}

// ReadStat reads and parses <root>/self/stat.
func ReadStat(fs FS) (Stat, error) {
	b, err := os.ReadFile(fs.SelfPath("stat"))
	if err != nil {
		return Stat{}, err
	}
	return ParseStat(string(b))
}

// ParseStat parses one /proc/<pid>/stat line.
//
// Caveats:
//   - comm (2nd field) is in parens and may itself contain spaces, ")" or
//     ") ". Everything up to the last ") " is pid + comm; the state field
//     that follows never contains that sequence.
//   - Positions are 1-based; the two stripped fields shift every index by 3
//     in the remaining slice.
func ParseStat(line string) (Stat, error) {
	line = strings.TrimRight(line, "\n")
	i := strings.LastIndex(line, ") ")
	if i < 0 {
		return Stat{}, ErrNoStat
	}
	fields := strings.Fields(line[i+2:])

	var s Stat
	for _, f := range []struct {
		pos int
		dst *int64
	}{
		{FieldUTime, &s.UTime},
		{FieldSTime, &s.STime},
		{FieldStartTime, &s.StartTime},
		{FieldVSize, &s.VSize},
		{FieldRSS, &s.RSS},
	} {
		idx := f.pos - 3
		if idx >= len(fields) {
			return Stat{}, ErrShortStat
		}
		v, err := strconv.ParseInt(fields[idx], 10, 64)
		if err != nil {
			return Stat{}, fmt.Errorf("proc: stat field %d: %w", f.pos, err)
		}
		*f.dst = v
	}
	return s, nil
}
