package types

import "fmt"

// Bytes is a size in bytes.
type Bytes uint64

var units = []struct {
	size Bytes
	name string
}{
	{1 << 40, "TB"},
	{1 << 30, "GB"},
	{1 << 20, "MB"},
	{1 << 10, "KB"},
}

// FromKB converts a kilobyte count, as reported by ru_maxrss on Linux.
func FromKB(kb int64) Bytes {
	if kb < 0 {
		return 0
	}
	return Bytes(kb) * 1024
}

// FromPages converts a page count using pageSize bytes per page.
func FromPages(pages int64, pageSize int) Bytes {
	if pages < 0 || pageSize <= 0 {
		return 0
	}
	return Bytes(pages) * Bytes(pageSize)
}

// Humanized returns a human-readable string with automatic unit (B, KB, MB, GB, TB).
func (b Bytes) Humanized() string {
	for _, u := range units {
		if b >= u.size {
			return fmt.Sprintf("%.2f %s", float64(b)/float64(u.size), u.name)
		}
	}
	return fmt.Sprintf("%d B", uint64(b))
}

func (b Bytes) String() string { return b.Humanized() }

