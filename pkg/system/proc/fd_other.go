//go:build !unix

package proc

import "io/fs"

func fileType(fi fs.FileInfo) string {
	return modeType(fi.Mode())
}
