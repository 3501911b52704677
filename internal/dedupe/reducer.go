// Package dedupe collapses a fingerprint index into its maximal duplicate
// groups. When two directories are duplicates, every child of one is
// necessarily duplicated by the matching child of the other; reporting both
// levels would be redundant noise, so child groups fully explained by an
// ancestor group are suppressed.
package dedupe

import (
	"sort"

	"dupdirs/internal/fingerprint"
	"dupdirs/internal/walker"
)

// Group is one set of directories sharing a fingerprint that survived
// reduction: at least two members, not empty, and at least minSize bytes.
type Group struct {
	Records []*walker.Record
}

// Size returns the representative disk size of the group's members.
func (g Group) Size() uint64 {
	return g.Records[0].DiskSize
}

// Wasted returns the space recoverable by keeping a single member.
func (g Group) Wasted() uint64 {
	return uint64(len(g.Records)-1) * g.Records[0].DiskSize
}

// Reduce drains ix into the maximal duplicate groups, largest first.
func Reduce(ix walker.Index, minSize uint64) []Group {
	type bucket struct {
		sum  fingerprint.Fingerprint
		recs []*walker.Record
	}

	buckets := make([]bucket, 0, len(ix))
	for sum, recs := range ix {
		buckets = append(buckets, bucket{sum: sum, recs: recs})
	}

	// Larger directories first, so a parent group primes its children
	// before the children's own buckets come up. Ties break on the
	// fingerprint to keep the order deterministic.
	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i].recs[0], buckets[j].recs[0]
		if a.Descendants != b.Descendants {
			return a.Descendants > b.Descendants
		}
		return buckets[i].sum < buckets[j].sum
	})

	// expected[f] occurrences of fingerprint f are already explained by an
	// ancestor bucket processed earlier.
	expected := make(map[fingerprint.Fingerprint]int)

	var groups []Group
	for _, b := range buckets {
		// Directories existing in a single copy are not duplicates and must
		// not prime either: a lone parent can hold duplicated children
		// (identically-filled sub-directories under different names), and
		// those are real findings no duplicated ancestor explains.
		if len(b.recs) == 1 {
			continue
		}

		rep := b.recs[0]

		accept := true
		if expected[b.sum] == len(b.recs) {
			// Every occurrence is accounted for by an ancestor group of
			// the same cardinality; reporting it again would double-count
			// the same physical duplication.
			accept = false
		}

		// Each occurrence of this directory carries one occurrence of each
		// of its children. All records in a bucket share the same children,
		// so the first record stands for all of them.
		for _, child := range rep.Children {
			expected[child] += len(b.recs)
		}

		if accept && rep.Descendants > 0 && rep.DiskSize >= minSize {
			groups = append(groups, Group{Records: b.recs})
		}
	}

	return groups
}
