// Package activity turns a flat list of activity records into a Forest
// with aggregate durations.
package activity

import (
	"math"
	"strings"

	apperr "activity-charts/internal/errors"
)

// Build links records into a forest and aggregates durations bottom-up.
//
// Aggregation walks every node in input order with an explicit stack and
// white/gray/black coloring, so a cycle is reported even when no root can
// reach it and deep chains never grow the goroutine stack.
func Build(records []Record, policy Policy) (*Forest, error) {
	if err := policy.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.CodeConfig, err, "invalid tree policy")
	}
	policy = policy.withDefaults()

	if len(records) == 0 {
		return nil, apperr.Malformed("no nodes to chart")
	}

	f := &Forest{
		nodes: make(map[NodeID]*Node, len(records)),
		order: make([]NodeID, 0, len(records)),
	}
	parents := make(map[NodeID]NodeID, len(records))

	for i, r := range records {
		if r.ID == "" {
			return nil, apperr.InvalidData("node at index %d has an empty id", i)
		}
		if strings.TrimSpace(r.Name) == "" {
			return nil, apperr.InvalidData("node %q has an empty name", r.ID)
		}
		if _, exists := f.nodes[r.ID]; exists {
			return nil, apperr.InvalidData("duplicate node id %q", r.ID)
		}
		n := &Node{ID: r.ID, Name: r.Name}
		if r.Duration != nil {
			d := *r.Duration
			if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				return nil, apperr.InvalidData("node %q has invalid duration %v", r.ID, d)
			}
			n.Duration = d
			n.HasDuration = true
		}
		if r.ParentID != nil {
			parents[r.ID] = *r.ParentID
		}
		f.nodes[r.ID] = n
		f.order = append(f.order, r.ID)
	}

	for _, id := range f.order {
		n := f.nodes[id]
		pid, hasParent := parents[id]
		if !hasParent {
			f.roots = append(f.roots, id)
			continue
		}
		parent, ok := f.nodes[pid]
		if !ok {
			if policy.DanglingParent == DanglingReject {
				return nil, apperr.InvalidData("node %q references unknown parent %q", id, pid)
			}
			f.roots = append(f.roots, id)
			f.dangling = append(f.dangling, id)
			continue
		}
		n.ParentID = pid
		parent.Children = append(parent.Children, id)
	}

	if err := f.aggregate(policy); err != nil {
		return nil, err
	}
	f.assignDepths()

	for _, id := range f.roots {
		f.total += f.nodes[id].Aggregate
	}
	if math.IsInf(f.total, 0) {
		return nil, apperr.InvalidData("total duration overflows")
	}
	if !(f.total > 0) {
		return nil, apperr.EmptyTotal("total duration is %v, nothing to chart", f.total)
	}
	return f, nil
}

const (
	white = iota
	gray
	black
)

type frame struct {
	id   NodeID
	next int
}

func (f *Forest) aggregate(policy Policy) error {
	color := make(map[NodeID]int, len(f.nodes))

	for _, start := range f.order {
		if color[start] != white {
			continue
		}
		color[start] = gray
		stack := []frame{{id: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			n := f.nodes[top.id]

			if top.next < len(n.Children) {
				child := n.Children[top.next]
				top.next++
				switch color[child] {
				case white:
					color[child] = gray
					stack = append(stack, frame{id: child})
				case gray:
					return apperr.Cyclic("parent relation forms a cycle: %s", cyclePath(stack, child))
				}
				continue
			}

			value, explicit, err := f.valueOf(n, policy)
			if err != nil {
				return err
			}
			n.Aggregate = value
			n.Explicit = explicit
			color[n.ID] = black
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// valueOf computes a node's aggregate once all its children are final.
// explicit reports that the aggregate is the node's own duration.
func (f *Forest) valueOf(n *Node, policy Policy) (value float64, explicit bool, err error) {
	if n.Leaf() {
		if n.HasDuration {
			return n.Duration, true, nil
		}
		if policy.EmptyLeaf == EmptyLeafZero {
			return 0, false, nil
		}
		return 0, false, apperr.InvalidData("node %q has neither a duration nor children", n.ID)
	}
	if n.HasDuration && policy.ExplicitDuration == DurationOverride {
		return n.Duration, true, nil
	}
	var sum float64
	for _, c := range n.Children {
		sum += f.nodes[c].Aggregate
	}
	if math.IsInf(sum, 0) {
		return 0, false, apperr.InvalidData("aggregate duration of node %q overflows", n.ID)
	}
	return sum, false, nil
}

// assignDepths runs after aggregate has proven the forest acyclic.
func (f *Forest) assignDepths() {
	queue := make([]NodeID, 0, len(f.nodes))
	for _, id := range f.roots {
		f.nodes[id].Depth = 1
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		n := f.nodes[queue[0]]
		queue = queue[1:]
		if n.Depth > f.maxDepth {
			f.maxDepth = n.Depth
		}
		for _, c := range n.Children {
			f.nodes[c].Depth = n.Depth + 1
			queue = append(queue, c)
		}
	}
}

func cyclePath(stack []frame, back NodeID) string {
	start := 0
	for i, fr := range stack {
		if fr.id == back {
			start = i
			break
		}
	}
	ids := make([]string, 0, len(stack)-start+1)
	for _, fr := range stack[start:] {
		ids = append(ids, string(fr.id))
	}
	ids = append(ids, string(back))
	return strings.Join(ids, " -> ")
}
