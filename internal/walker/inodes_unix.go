//go:build !windows

package walker

import (
	"io/fs"
	"syscall"
)

type inodeKey struct {
	dev uint64
	ino uint64
}

// inodeOf extracts the device+inode identity from info (Unix).
func inodeOf(info fs.FileInfo) (inodeKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return inodeKey{}, false
	}
	return inodeKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
