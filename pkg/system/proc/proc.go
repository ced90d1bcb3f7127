package proc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DefaultRoot is where procfs is normally mounted.
	DefaultRoot = "/proc"

	// DefaultClockTicks is the USER_HZ almost every Linux build uses.
	DefaultClockTicks = 100

	// DefaultPageSize is the page size assumed for the rss field of
	// /proc/self/stat.
	DefaultPageSize = 4096
)

// FS is a procfs mount point. Tests point it at a fixture directory laid
// out like /proc (stat, self/stat, self/limits, self/fd).
type FS struct {
	root string
}

// NewFS returns an FS rooted at root. An empty root means DefaultRoot.
func NewFS(root string) FS {
	if root == "" {
		root = DefaultRoot
	}
	return FS{root: root}
}

// Root returns the mount point.
func (fs FS) Root() string { return fs.root }

// Path joins elem onto the mount point.
func (fs FS) Path(elem ...string) string {
	return filepath.Join(append([]string{fs.root}, elem...)...)
}

// SelfPath joins elem onto <root>/self.
func (fs FS) SelfPath(elem ...string) string {
	return filepath.Join(append([]string{fs.root, "self"}, elem...)...)
}

// ClockTicks is the tick rate used to turn the utime, stime and starttime
// fields of self/stat into seconds. A positive CLK_TCK in the environment
// wins; otherwise it is DefaultClockTicks, since the kernel fixes USER_HZ at
// build time and reading it through sysconf needs cgo.
func ClockTicks() int {
	v, _ := strconv.Atoi(os.Getenv("CLK_TCK"))
	if v > 0 {
		return v
	}
	return DefaultClockTicks
}

// PageSize returns the memory page size in bytes used to scale rss.
// Like ClockTicks, it first checks an env override (PAGE_SIZE),
// then falls back to DefaultPageSize.
func PageSize() int {
	if ps := os.Getenv("PAGE_SIZE"); ps != "" {
		if v, _ := strconv.Atoi(ps); v > 0 {
			return v
		}
	}
	return DefaultPageSize
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadBootTime scans <root>/stat for the "btime " line and returns the
// machine boot time in seconds since the epoch.
//
// Returns ErrNoBootTime if the file has no such line. Any I/O error,
// including a missing file, is returned as is.
func ReadBootTime(fs FS) (int64, error) {
	f, err := os.Open(fs.Path("stat"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "btime ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, ErrNoBootTime
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("proc: parse btime %q: %w", fields[1], err)
		}
		return v, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNoBootTime
}

// ReadMaxFDs reads <root>/self/limits and returns the fourth token of the
// "Max open files" line. The line reads
//
//	Max open files            1024                 4096                 files
//
// so the token returned is the first numeric column.
//
// The file is opened on every call; nothing is cached.
func ReadMaxFDs(fs FS) (int64, error) {
	f, err := os.Open(fs.SelfPath("limits"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "Max open files ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return 0, ErrNoOpenFilesLimit
		}
		v, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			// "unlimited"
			return 0, ErrNoOpenFilesLimit
		}
		return v, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNoOpenFilesLimit
}
