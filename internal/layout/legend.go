package layout

import (
	"fmt"
	"sort"
	"strings"

	"activity-charts/internal/activity"

	"github.com/dustin/go-humanize"
)

// LegendEntry describes one line of the chart legend.
type LegendEntry struct {
	NodeID     activity.NodeID
	Path       []string
	Value      float64
	Percentage float64
	Text       string
}

// Legend lists the emitted segments whose value is their own duration or
// that have no emitted children, largest value first. Equal values keep
// layout order.
func Legend(f *activity.Forest, segments []Segment) []LegendEntry {
	parents := make(map[activity.NodeID]bool, len(segments))
	for _, s := range segments {
		if s.ParentID != "" {
			parents[s.ParentID] = true
		}
	}

	entries := make([]LegendEntry, 0, len(segments))
	for _, s := range segments {
		n, _ := f.Node(s.NodeID)
		if !n.Explicit && parents[s.NodeID] {
			continue
		}
		path := f.Path(s.NodeID)
		entries = append(entries, LegendEntry{
			NodeID:     s.NodeID,
			Path:       path,
			Value:      s.Value,
			Percentage: s.Percentage,
			Text: fmt.Sprintf("%s - %s (%s)",
				strings.Join(path, PathSeparator), FormatValue(s.Value), FormatPercent(s.Percentage)),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// FormatPercent renders a percentage with one decimal place, e.g. "30.0%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatValue renders a value with at most two decimals and no trailing zeros.
func FormatValue(v float64) string {
	return humanize.FtoaWithDigits(v, 2)
}
