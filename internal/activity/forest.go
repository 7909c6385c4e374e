package activity

import "slices"

// Forest is the immutable result of Build: every node with its children
// linked and its aggregate duration computed.
type Forest struct {
	nodes    map[NodeID]*Node
	order    []NodeID
	roots    []NodeID
	dangling []NodeID
	total    float64
	maxDepth int
}

// Roots returns root ids in input order.
func (f *Forest) Roots() []NodeID {
	return slices.Clone(f.roots)
}

// Dangling returns the ids of nodes that became roots because their
// parent_id did not resolve.
func (f *Forest) Dangling() []NodeID {
	return slices.Clone(f.dangling)
}

// Node returns a copy of the node with the given id.
func (f *Forest) Node(id NodeID) (Node, bool) {
	n, ok := f.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

func (f *Forest) Len() int {
	return len(f.order)
}

// Total is the sum of root aggregates, the denominator of every percentage.
func (f *Forest) Total() float64 {
	return f.total
}

// MaxDepth is the level of the deepest node; roots are level 1.
func (f *Forest) MaxDepth() int {
	return f.maxDepth
}

// Path returns node names from the root down to id. It returns nil for an
// unknown id.
func (f *Forest) Path(id NodeID) []string {
	n, ok := f.nodes[id]
	if !ok {
		return nil
	}
	path := make([]string, 0, n.Depth)
	for steps := 0; ok && steps < len(f.nodes); steps++ {
		path = append(path, n.Name)
		if n.ParentID == "" {
			break
		}
		n, ok = f.nodes[n.ParentID]
	}
	slices.Reverse(path)
	return path
}
