//go:build unix

package proc

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

var fdTypeBits = map[uint32]string{
	unix.S_IFSOCK: FDSocket,
	unix.S_IFLNK:  FDSymlink,
	unix.S_IFREG:  FDRegular,
	unix.S_IFBLK:  FDBlock,
	unix.S_IFDIR:  FDDir,
	unix.S_IFCHR:  FDChar,
	unix.S_IFIFO:  FDFIFO,
}

// fileType maps the S_IFMT bits of the raw mode. Anonymous inodes
// (eventpoll, eventfd, ...) carry no type bits and land in FDOther.
func fileType(fi fs.FileInfo) string {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return modeType(fi.Mode())
	}
	if t, ok := fdTypeBits[uint32(st.Mode)&unix.S_IFMT]; ok {
		return t
	}
	return FDOther
}
