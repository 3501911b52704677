package dedupe

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"dupdirs/internal/fingerprint"
	"dupdirs/internal/walker"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
}

func scan(t *testing.T, root string) walker.Index {
	t.Helper()

	digest, err := fingerprint.New(fingerprint.BLAKE3)
	if err != nil {
		t.Fatalf("New digest failed: %v", err)
	}
	w := walker.New(digest, walker.NewInodeGuard(), zap.NewNop(), walker.Options{})

	ix := make(walker.Index)
	if _, err := w.Walk(root, ix); err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	return ix
}

func groupPaths(groups []Group) [][]string {
	var out [][]string
	for _, g := range groups {
		var paths []string
		for _, rec := range g.Records {
			paths = append(paths, filepath.Base(rec.Path))
		}
		out = append(out, paths)
	}
	return out
}

func contains(paths []string, name string) bool {
	for _, p := range paths {
		if p == name {
			return true
		}
	}
	return false
}

func TestReduce_SimpleDuplicate(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "A", "f"), 10)
	writeFile(t, filepath.Join(tmpDir, "B", "f"), 10)

	groups := Reduce(scan(t, tmpDir), 1)

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d: %v", len(groups), groupPaths(groups))
	}
	paths := groupPaths(groups)[0]
	if len(paths) != 2 || !contains(paths, "A") || !contains(paths, "B") {
		t.Errorf("Expected group {A, B}, got %v", paths)
	}
	if groups[0].Wasted() != 10 {
		t.Errorf("Expected 10 bytes wasted, got %d", groups[0].Wasted())
	}
}

func TestReduce_UnrelatedDirectoryExcluded(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "A", "f"), 5)
	writeFile(t, filepath.Join(tmpDir, "B", "f"), 5)
	writeFile(t, filepath.Join(tmpDir, "C", "g"), 3)

	groups := Reduce(scan(t, tmpDir), 1)

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d: %v", len(groups), groupPaths(groups))
	}
	for _, paths := range groupPaths(groups) {
		if contains(paths, "C") {
			t.Errorf("C should not appear in any group: %v", paths)
		}
	}
}

func TestReduce_ParentCollapsesChildren(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "P1", "Q", "h"), 1)
	writeFile(t, filepath.Join(tmpDir, "P2", "Q", "h"), 1)

	groups := Reduce(scan(t, tmpDir), 1)

	if len(groups) != 1 {
		t.Fatalf("Expected only the parent group, got %d: %v", len(groups), groupPaths(groups))
	}
	paths := groupPaths(groups)[0]
	if !contains(paths, "P1") || !contains(paths, "P2") {
		t.Errorf("Expected group {P1, P2}, got %v", paths)
	}
	if contains(paths, "Q") {
		t.Errorf("Child group Q should be collapsed into the parent group: %v", paths)
	}
}

func TestReduce_EmptyDirectoriesNeverReported(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"E1", "E2", "E3"} {
		if err := os.Mkdir(filepath.Join(tmpDir, name), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
	}

	groups := Reduce(scan(t, tmpDir), 1)

	if len(groups) != 0 {
		t.Errorf("Empty directories should never form a group, got %v", groupPaths(groups))
	}
}

func TestReduce_MinSizeThreshold(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "A", "f"), 500)
	writeFile(t, filepath.Join(tmpDir, "B", "f"), 500)

	ix := scan(t, tmpDir)

	if groups := Reduce(ix, 1000); len(groups) != 0 {
		t.Errorf("Group below threshold should be absent, got %v", groupPaths(groups))
	}
	if groups := Reduce(ix, 500); len(groups) != 1 {
		t.Errorf("Group exactly at threshold should be present, got %v", groupPaths(groups))
	}
}

func TestReduce_ExtraOccurrenceStillReported(t *testing.T) {
	// X appears under two duplicated parents and once more on its own. The
	// parent group explains two of the three occurrences, so the X group is
	// only partially accounted for and must still be reported.
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "A1", "X", "f"), 4)
	writeFile(t, filepath.Join(tmpDir, "A2", "X", "f"), 4)
	writeFile(t, filepath.Join(tmpDir, "stray", "X", "f"), 4)
	writeFile(t, filepath.Join(tmpDir, "stray", "extra"), 9)

	groups := Reduce(scan(t, tmpDir), 1)

	if len(groups) != 2 {
		t.Fatalf("Expected parent group and partially-explained X group, got %d: %v",
			len(groups), groupPaths(groups))
	}

	parents := groupPaths(groups)[0]
	if !contains(parents, "A1") || !contains(parents, "A2") {
		t.Errorf("Expected first group {A1, A2}, got %v", parents)
	}
	xs := groupPaths(groups)[1]
	if len(xs) != 3 {
		t.Errorf("Expected all three X occurrences in the second group, got %v", xs)
	}
}

func TestReduce_LargestFirst(t *testing.T) {
	tmpDir := t.TempDir()
	// Deep pair: 3 descendants each.
	writeFile(t, filepath.Join(tmpDir, "big1", "sub", "f"), 2)
	writeFile(t, filepath.Join(tmpDir, "big1", "g"), 2)
	writeFile(t, filepath.Join(tmpDir, "big2", "sub", "f"), 2)
	writeFile(t, filepath.Join(tmpDir, "big2", "g"), 2)
	// Shallow pair: 1 descendant each.
	writeFile(t, filepath.Join(tmpDir, "small1", "h"), 2)
	writeFile(t, filepath.Join(tmpDir, "small2", "h"), 2)

	groups := Reduce(scan(t, tmpDir), 1)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d: %v", len(groups), groupPaths(groups))
	}
	if !contains(groupPaths(groups)[0], "big1") {
		t.Errorf("Larger group should come first, got %v", groupPaths(groups))
	}
}

func TestReduce_TwinChildrenOfLoneParent(t *testing.T) {
	// d1 and d2 carry different names but identical contents; their common
	// parent exists in a single copy, so it explains nothing and must not
	// mask them.
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "parent", "d1", "f"), 8)
	writeFile(t, filepath.Join(tmpDir, "parent", "d2", "f"), 8)

	groups := Reduce(scan(t, tmpDir), 1)

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d: %v", len(groups), groupPaths(groups))
	}
	paths := groupPaths(groups)[0]
	if !contains(paths, "d1") || !contains(paths, "d2") {
		t.Errorf("Expected group {d1, d2}, got %v", paths)
	}
}

func TestReduce_SingletonNeverReported(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "only", "f"), 42)

	groups := Reduce(scan(t, tmpDir), 1)

	if len(groups) != 0 {
		t.Errorf("A directory without a duplicate should not be reported, got %v",
			groupPaths(groups))
	}
}
