package proc

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// File type labels reported per open descriptor.
const (
	FDSocket  = "SOCK"
	FDSymlink = "LNK"
	FDRegular = "REG"
	FDBlock   = "BLK"
	FDDir     = "DIR"
	FDChar    = "CHR"
	FDFIFO    = "FIFO"
	FDOther   = "other"
)

const fdBatchSize = 4096

// FDTypes lists every label ClassifyFDs reports, in display order.
var FDTypes = []string{FDSocket, FDSymlink, FDRegular, FDBlock, FDDir, FDChar, FDFIFO, FDOther}

// FDCounts maps a file type label to the number of open descriptors of
// that type.
type FDCounts map[string]int

// NewFDCounts returns counts with every label present and zero.
func NewFDCounts() FDCounts {
	c := make(FDCounts, len(FDTypes))
	for _, t := range FDTypes {
		c[t] = 0
	}
	return c
}

// Total sums all types.
func (c FDCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Clone returns an independent copy.
func (c FDCounts) Clone() FDCounts {
	out := make(FDCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ClassifyFDs lists <root>/self/fd and counts descriptors by the file type
// of their target. If the directory does not exist all counts are zero.
//
// Every name is read and the listing handle closed before any entry is
// stat'ed, so the handle itself is never counted. A descriptor that
// vanishes between listing and stat is skipped and reported to skipped,
// which may be nil. Other errors are returned.
func ClassifyFDs(fsys FS, skipped func(fd string)) (FDCounts, error) {
	counts := NewFDCounts()

	dir := fsys.SelfPath("fd")
	names, err := listFDs(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return counts, nil
		}
		return counts, err
	}

	for _, name := range names {
		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if skipped != nil {
					skipped(name)
				}
				continue
			}
			return counts, err
		}
		counts[fileType(fi)]++
	}
	return counts, nil
}

func listFDs(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	for {
		batch, err := f.Readdirnames(fdBatchSize)
		names = append(names, batch...)
		if err != nil {
			if err == io.EOF {
				return names, nil
			}
			return nil, err
		}
	}
}
