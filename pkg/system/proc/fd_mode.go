package proc

import "io/fs"

// modeType classifies from the portable FileMode when no raw stat is
// available.
func modeType(m fs.FileMode) string {
	switch {
	case m&fs.ModeSocket != 0:
		return FDSocket
	case m&fs.ModeSymlink != 0:
		return FDSymlink
	case m&fs.ModeCharDevice != 0:
		return FDChar
	case m&fs.ModeDevice != 0:
		return FDBlock
	case m.IsDir():
		return FDDir
	case m&fs.ModeNamedPipe != 0:
		return FDFIFO
	case m.IsRegular():
		return FDRegular
	default:
		return FDOther
	}
}
