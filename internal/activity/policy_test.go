package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"zero value", Policy{}, false},
		{"defaults", DefaultPolicy(), false},
		{"all alternates", Policy{DanglingReject, DurationSum, EmptyLeafZero}, false},
		{"bad dangling", Policy{DanglingParent: "drop"}, true},
		{"bad explicit", Policy{ExplicitDuration: "max"}, true},
		{"bad empty leaf", Policy{EmptyLeaf: "skip"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() = %v", err)
		})
	}
}

func TestPolicy_WithDefaults(t *testing.T) {
	p := Policy{EmptyLeaf: EmptyLeafZero}.withDefaults()
	assert.Equal(t, DanglingAsRoot, p.DanglingParent)
	assert.Equal(t, DurationOverride, p.ExplicitDuration)
	assert.Equal(t, EmptyLeafZero, p.EmptyLeaf)
}
