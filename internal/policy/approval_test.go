package policy

import (
	"testing"

	"github.com/orkestra-labs/roster-backend/internal/types"
)

func TestNeedsApprovalSelfEdit(t *testing.T) {
	for _, viewer := range types.ValidMembershipStatuses {
		for _, target := range types.ValidMembershipStatuses {
			if NeedsApproval(viewer, target, true) {
				t.Errorf("self edit (%s -> target %s) must never require approval", viewer, target)
			}
		}
	}
}

func TestNeedsApprovalDecisionTable(t *testing.T) {
	tests := []struct {
		viewer, target string
		want           bool
	}{
		{types.StatusExecutive, types.StatusExecutive, true},
		{types.StatusExecutive, types.StatusAdvisory, true},
		{types.StatusExecutive, types.StatusExtraordinary, true},
		{types.StatusExecutive, types.StatusMember, false},
		{types.StatusAdvisory, types.StatusAdvisory, true},
		{types.StatusAdvisory, types.StatusExtraordinary, true},
		{types.StatusAdvisory, types.StatusExecutive, false},
		{types.StatusAdvisory, types.StatusMember, false},
	}

	for _, tt := range tests {
		if got := NeedsApproval(tt.viewer, tt.target, false); got != tt.want {
			t.Errorf("NeedsApproval(%s, %s) = %v, want %v", tt.viewer, tt.target, got, tt.want)
		}
	}
}

func TestNeedsApprovalUnlistedCombinationsFailClosed(t *testing.T) {
	// Combinations outside the decision table require approval. The role
	// policy blocks most of them already, but the rule holds on its own.
	tests := [][2]string{
		{types.StatusExecutive, types.StatusFounder},
		{types.StatusAdvisory, types.StatusFounder},
		{types.StatusMember, types.StatusMember},
		{types.StatusMember, types.StatusExecutive},
		{types.StatusExtraordinary, types.StatusAdvisory},
		{types.StatusFounder, types.StatusMember},
	}
	for _, tt := range tests {
		if !NeedsApproval(tt[0], tt[1], false) {
			t.Errorf("NeedsApproval(%s, %s) should fail closed", tt[0], tt[1])
		}
	}
}
