package activity

import "slices"

// NodeID is the canonical identifier of an activity. JSON integers and
// strings are both folded into this form by the input decoder.
type NodeID string

// Record is one raw activity as it arrives from the input document.
type Record struct {
	ID       NodeID
	Name     string
	ParentID *NodeID  // nil for a root
	Duration *float64 // nil when absent
}

// Node is an activity inside a built Forest.
type Node struct {
	ID          NodeID
	Name        string
	ParentID    NodeID // empty for roots, including nodes whose parent did not resolve
	Duration    float64
	HasDuration bool
	Children    []NodeID // input order
	Aggregate   float64
	Explicit    bool // Aggregate is the node's own Duration
	Depth       int // root = 1
}

// Leaf reports whether the node has no children.
func (n Node) Leaf() bool {
	return len(n.Children) == 0
}

func (n *Node) clone() Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	return c
}
