//go:build windows

package walker

import "io/fs"

type inodeKey struct{}

// Windows exposes no cheap stable directory identity through a stat, so
// every directory counts as unvisited and is descended into.
func inodeOf(_ fs.FileInfo) (inodeKey, bool) {
	return inodeKey{}, false
}
