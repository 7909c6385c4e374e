package activity

import (
	"fmt"
)

// DanglingParentPolicy decides what happens to a node whose parent_id
// does not match any node.
type DanglingParentPolicy string

const (
	DanglingAsRoot DanglingParentPolicy = "root"
	DanglingReject DanglingParentPolicy = "reject"
)

// ExplicitDurationPolicy decides whether a duration given on a node with
// children replaces the sum of its children.
type ExplicitDurationPolicy string

const (
	DurationOverride ExplicitDurationPolicy = "override"
	DurationSum      ExplicitDurationPolicy = "sum"
)

// EmptyLeafPolicy decides how a childless node without a duration is treated.
type EmptyLeafPolicy string

const (
	EmptyLeafReject EmptyLeafPolicy = "reject"
	EmptyLeafZero   EmptyLeafPolicy = "zero"
)

// Policy bundles the behaviours on which historical chart scripts disagreed.
type Policy struct {
	DanglingParent   DanglingParentPolicy
	ExplicitDuration ExplicitDurationPolicy
	EmptyLeaf        EmptyLeafPolicy
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		DanglingParent:   DanglingAsRoot,
		ExplicitDuration: DurationOverride,
		EmptyLeaf:        EmptyLeafReject,
	}
}

// Validate rejects unknown policy values. Empty fields are allowed and
// resolve to defaults.
func (p Policy) Validate() error {
	switch p.DanglingParent {
	case "", DanglingAsRoot, DanglingReject:
	default:
		return fmt.Errorf("unknown dangling parent policy %q (want root or reject)", p.DanglingParent)
	}
	switch p.ExplicitDuration {
	case "", DurationOverride, DurationSum:
	default:
		return fmt.Errorf("unknown explicit duration policy %q (want override or sum)", p.ExplicitDuration)
	}
	switch p.EmptyLeaf {
	case "", EmptyLeafReject, EmptyLeafZero:
	default:
		return fmt.Errorf("unknown empty leaf policy %q (want reject or zero)", p.EmptyLeaf)
	}
	return nil
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.DanglingParent == "" {
		p.DanglingParent = d.DanglingParent
	}
	if p.ExplicitDuration == "" {
		p.ExplicitDuration = d.ExplicitDuration
	}
	if p.EmptyLeaf == "" {
		p.EmptyLeaf = d.EmptyLeaf
	}
	return p
}
