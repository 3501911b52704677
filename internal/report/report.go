package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"dupdirs/internal/dedupe"
)

// Format renders one root's duplicate groups in the reducer's order.
func Format(root string, groups []dedupe.Group) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Checking %s\n\n", root)

	if len(groups) == 0 {
		b.WriteString("No duplicate directories found.\n")
		return b.String()
	}

	for _, g := range groups {
		fmt.Fprintf(&b, "Duplicate of %d directories\n", len(g.Records))
		fmt.Fprintf(&b, "    Space wasted %s\n", humanize.IBytes(g.Wasted()))
		for _, rec := range g.Records {
			fmt.Fprintf(&b, "%s\n", rec.Path)
		}
		b.WriteString("\n")
	}

	return b.String()
}
