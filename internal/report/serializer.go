package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"dupdirs/internal/dedupe"
)

// Report is the JSON envelope written by --output.
type Report struct {
	Generator string       `json:"generator"`
	Created   time.Time    `json:"created"`
	MinSize   uint64       `json:"min_size"`
	Roots     []RootReport `json:"roots"`
}

type RootReport struct {
	Root   string        `json:"root"`
	Groups []GroupReport `json:"groups"`
}

type GroupReport struct {
	Count       int      `json:"count"`
	Size        string   `json:"size"`
	SizeBytes   uint64   `json:"size_bytes"`
	Wasted      string   `json:"wasted"`
	WastedBytes uint64   `json:"wasted_bytes"`
	Paths       []string `json:"paths"`
}

// NewRootReport converts one root's groups into their serialized form,
// preserving the reducer's order.
func NewRootReport(root string, groups []dedupe.Group) RootReport {
	rr := RootReport{Root: root, Groups: make([]GroupReport, 0, len(groups))}
	for _, g := range groups {
		gr := GroupReport{
			Count:       len(g.Records),
			Size:        humanize.IBytes(g.Size()),
			SizeBytes:   g.Size(),
			Wasted:      humanize.IBytes(g.Wasted()),
			WastedBytes: g.Wasted(),
		}
		for _, rec := range g.Records {
			gr.Paths = append(gr.Paths, rec.Path)
		}
		rr.Groups = append(rr.Groups, gr)
	}
	return rr
}

// Save writes the report as indented JSON.
func Save(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
