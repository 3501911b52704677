package walker

import (
	"io/fs"
	"sync"
)

// InodeGuard records the physical directories visited so far in the
// process. It is shared across every root of a run, so a tree reachable
// through two paths (hardlinks, bind mounts) is fully walked only once.
type InodeGuard struct {
	mu   sync.Mutex
	seen map[inodeKey]struct{}
}

func NewInodeGuard() *InodeGuard {
	return &InodeGuard{seen: make(map[inodeKey]struct{})}
}

// Visit reports whether info's physical directory is being presented for
// the first time. On platforms without a stable directory identity it
// always reports true, so every directory is descended into.
func (g *InodeGuard) Visit(info fs.FileInfo) bool {
	key, ok := inodeOf(info)
	if !ok {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, dup := g.seen[key]; dup {
		return false
	}
	g.seen[key] = struct{}{}
	return true
}
