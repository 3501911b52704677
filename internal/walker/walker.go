package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dupdirs/internal/fingerprint"
	"dupdirs/internal/progress"
)

// Walker fingerprints directory trees. One Walker serves every root of a
// run; the inode guard it carries is what suppresses re-walking a physical
// directory reached through a second path, even across roots.
type Walker struct {
	digest   fingerprint.Digest
	guard    *InodeGuard
	logger   *zap.Logger
	exclude  []string
	workers  int
	progress *progress.Counter
}

// Options carries the optional walker settings.
type Options struct {
	// Exclude patterns; matching entries are treated as nonexistent.
	Exclude []string

	// Workers bounds the parallel file metadata reads per directory.
	Workers int

	// Progress, when non-nil, is notified of each directory entered.
	Progress *progress.Counter
}

func New(digest fingerprint.Digest, guard *InodeGuard, logger *zap.Logger, opts Options) *Walker {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	return &Walker{
		digest:   digest,
		guard:    guard,
		logger:   logger,
		exclude:  opts.Exclude,
		workers:  workers,
		progress: opts.Progress,
	}
}

// Walk recursively fingerprints the tree rooted at root, inserting every
// directory's record into ix keyed by its fingerprint. The root itself is
// never inode-guarded. The returned error is fatal: file metadata that
// cannot be read makes a fingerprint impossible to compute, so the whole
// run aborts rather than silently corrupting comparisons up the ancestor
// chain. Listing failures are only logged; the affected directory is
// treated as empty.
func (w *Walker) Walk(root string, ix Index) (*Record, error) {
	if w.progress != nil {
		w.progress.Visit(root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		w.logger.Warn("cannot list directory", zap.String("path", root), zap.Error(err))
		entries = nil
	}

	// Partition one level of entries. Symlinks and other special entries
	// are never followed. os.ReadDir returns entries in name order, so two
	// directories with identical contents fingerprint equal regardless of
	// how the filesystem orders them.
	var subdirs, files []os.DirEntry
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			if w.excluded(entry.Name(), true) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				w.logger.Warn("cannot read directory metadata",
					zap.String("path", filepath.Join(root, entry.Name())), zap.Error(err))
				continue
			}
			if !w.guard.Visit(info) {
				// Already walked through another path; prune before
				// recursion so the subtree contributes nothing here.
				continue
			}
			subdirs = append(subdirs, entry)
		case entry.Type().IsRegular():
			if w.excluded(entry.Name(), false) {
				continue
			}
			files = append(files, entry)
		}
	}

	rec := &Record{Path: root}

	for _, entry := range subdirs {
		child, err := w.Walk(filepath.Join(root, entry.Name()), ix)
		if err != nil {
			return nil, err
		}
		rec.Children = append(rec.Children, child.Sum)
		rec.Descendants += 1 + child.Descendants
		rec.DiskSize += child.DiskSize
	}

	leaves, err := w.fingerprintFiles(root, files)
	if err != nil {
		return nil, err
	}
	for _, l := range leaves {
		rec.Children = append(rec.Children, l.sum)
		rec.Descendants++
		rec.DiskSize += l.size
	}

	rec.Sum = w.digest.Directory(rec.Children)
	ix.add(rec)
	return rec, nil
}

type leaf struct {
	sum  fingerprint.Fingerprint
	size uint64
}

// fingerprintFiles reads metadata and fingerprints the files of one
// directory, fanning out across the worker limit. Results keep the input
// order so the parent's children list stays canonical.
func (w *Walker) fingerprintFiles(dir string, files []os.DirEntry) ([]leaf, error) {
	leaves := make([]leaf, len(files))

	g := new(errgroup.Group)
	g.SetLimit(w.workers)
	for i, entry := range files {
		g.Go(func() error {
			path := filepath.Join(dir, entry.Name())
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("reading metadata for %s: %w", path, err)
			}
			name, ok := fingerprint.FileName(path)
			if !ok {
				w.logger.Warn("no file name", zap.String("path", path))
			}
			size := uint64(info.Size())
			leaves[i] = leaf{sum: w.digest.File(name, size), size: size}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return leaves, nil
}

// excluded checks name against the exclusion patterns. Patterns ending in
// "/" match directory names only.
func (w *Walker) excluded(name string, isDir bool) bool {
	for _, pattern := range w.exclude {
		if strings.HasSuffix(pattern, "/") {
			if !isDir {
				continue
			}
			dirPattern := strings.TrimSuffix(pattern, "/")
			if matched, _ := filepath.Match(dirPattern, name); matched || name == dirPattern {
				return true
			}
			continue
		}
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}
