// Package layout assigns angular geometry to the nodes of an activity
// forest. Angles are in degrees, counter-clockwise, with the first root
// starting at 0.
package layout

import (
	"activity-charts/internal/activity"
)

// LabelStyle selects how a segment is labelled.
type LabelStyle string

const (
	LabelName LabelStyle = "name" // bare node name
	LabelPath LabelStyle = "path" // names from the root joined by PathSeparator
)

const PathSeparator = " / "

type Options struct {
	LabelStyle LabelStyle
}

// Segment is one ring slice (or pie wedge) to draw.
type Segment struct {
	NodeID     activity.NodeID
	ParentID   activity.NodeID // empty for roots
	Name       string
	Label      string
	Level      int
	StartAngle float64
	AngleWidth float64
	Value      float64
	Percentage float64
	Leaf       bool
}

// EndAngle is StartAngle + AngleWidth.
func (s Segment) EndAngle() float64 {
	return s.StartAngle + s.AngleWidth
}

// MidAngle is the bisector of the segment.
func (s Segment) MidAngle() float64 {
	return s.StartAngle + s.AngleWidth/2
}

type pending struct {
	id     activity.NodeID
	parent activity.NodeID
	start  float64
	width  float64
	level  int
	path   string // parent's joined path, set only for LabelPath
}

// Layout walks the forest top-down and returns segments in pre-order:
// each node precedes its subtree and siblings follow input order.
// Nodes with a zero aggregate are skipped together with their subtree.
func Layout(f *activity.Forest, opts Options) []Segment {
	total := f.Total()
	if total <= 0 {
		return nil
	}

	var roots []pending
	var angle float64
	for _, id := range f.Roots() {
		n, _ := f.Node(id)
		if n.Aggregate <= 0 {
			continue
		}
		width := 360 * (n.Aggregate / total)
		roots = append(roots, pending{id: id, start: angle, width: width, level: 1})
		angle += width
	}

	segments := make([]Segment, 0, f.Len())
	stack := make([]pending, 0, len(roots))
	stack = pushReversed(stack, roots)

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, _ := f.Node(p.id)
		lbl := n.Name
		if opts.LabelStyle == LabelPath {
			if p.path != "" {
				lbl = p.path + PathSeparator + n.Name
			}
			p.path = lbl
		}
		segments = append(segments, Segment{
			NodeID:     n.ID,
			ParentID:   p.parent,
			Name:       n.Name,
			Label:      lbl,
			Level:      p.level,
			StartAngle: p.start,
			AngleWidth: p.width,
			Value:      n.Aggregate,
			Percentage: n.Aggregate / total * 100,
			Leaf:       n.Leaf(),
		})

		stack = pushReversed(stack, subdivide(f, n, p))
	}
	return segments
}

// subdivide splits the parent's span among children with a non-zero
// aggregate, in proportion to their share of the non-zero sum.
func subdivide(f *activity.Forest, n activity.Node, p pending) []pending {
	if n.Leaf() {
		return nil
	}
	children := make([]activity.Node, 0, len(n.Children))
	var sum float64
	for _, id := range n.Children {
		c, _ := f.Node(id)
		if c.Aggregate <= 0 {
			continue
		}
		children = append(children, c)
		sum += c.Aggregate
	}
	if sum <= 0 {
		return nil
	}

	out := make([]pending, 0, len(children))
	start := p.start
	for _, c := range children {
		width := p.width * (c.Aggregate / sum)
		out = append(out, pending{id: c.ID, parent: n.ID, start: start, width: width, level: p.level + 1, path: p.path})
		start += width
	}
	return out
}

func pushReversed(stack, items []pending) []pending {
	for i := len(items) - 1; i >= 0; i-- {
		stack = append(stack, items[i])
	}
	return stack
}
