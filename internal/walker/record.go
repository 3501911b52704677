package walker

import "dupdirs/internal/fingerprint"

// Record describes one directory visited during a walk.
//
// A record is mutated only by its own walk frame and becomes immutable once
// the frame returns it; from then on it is shared read-only between its
// parent's children list and its fingerprint's bucket in the Index.
type Record struct {
	// Path of the directory as walked.
	Path string

	// Sum is the directory's own fingerprint, a digest over Children in
	// order.
	Sum fingerprint.Fingerprint

	// Children holds the fingerprints of the immediate sub-directories and
	// files, sub-directories first, each group in name order.
	Children []fingerprint.Fingerprint

	// Descendants counts the files and directories transitively beneath
	// this one.
	Descendants uint64

	// DiskSize is the sum of file sizes transitively beneath this one.
	// Directory entries themselves contribute nothing.
	DiskSize uint64
}

// Index maps a fingerprint to the records sharing it, in insertion order.
// An index covers a single root's walk and is drained by the reducer.
type Index map[fingerprint.Fingerprint][]*Record

func (ix Index) add(rec *Record) {
	ix[rec.Sum] = append(ix[rec.Sum], rec)
}
