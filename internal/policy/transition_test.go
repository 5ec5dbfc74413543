package policy

import (
	"testing"

	"github.com/orkestra-labs/roster-backend/internal/types"
)

func TestAllowedTransitions(t *testing.T) {
	tests := []struct {
		current string
		want    []string
	}{
		{types.StatusMember, []string{types.StatusMember, types.StatusExecutive, types.StatusFounder}},
		{types.StatusExecutive, []string{types.StatusMember, types.StatusExecutive, types.StatusAdvisory, types.StatusExtraordinary}},
		{types.StatusAdvisory, []string{types.StatusAdvisory, types.StatusExtraordinary}},
		{types.StatusExtraordinary, []string{types.StatusExtraordinary, types.StatusAdvisory}},
		{types.StatusFounder, []string{types.StatusFounder}},
	}

	for _, tt := range tests {
		got := AllowedTransitions(tt.current)
		if len(got) != len(tt.want) {
			t.Errorf("%s: expected %d transitions, got %d (%v)", tt.current, len(tt.want), len(got), got)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%s: transition %d: expected %s, got %s", tt.current, i, tt.want[i], got[i])
			}
		}
	}
}

func TestAllowedTransitionsUnknownStatusFallsOpen(t *testing.T) {
	got := AllowedTransitions("legacy-honorary")
	if len(got) != len(types.ValidMembershipStatuses) {
		t.Fatalf("unknown status should offer the full enumeration, got %v", got)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{types.StatusMember, types.StatusExecutive, true},
		{types.StatusMember, types.StatusMember, true},
		{types.StatusMember, types.StatusAdvisory, false},
		{types.StatusMember, types.StatusExtraordinary, false},
		{types.StatusExecutive, types.StatusAdvisory, true},
		{types.StatusExecutive, types.StatusFounder, false},
		{types.StatusAdvisory, types.StatusMember, false},
		{types.StatusAdvisory, types.StatusExecutive, false},
		{types.StatusExtraordinary, types.StatusAdvisory, true},
		{types.StatusFounder, types.StatusFounder, true},
		{types.StatusFounder, types.StatusMember, false},
		{types.StatusFounder, types.StatusExecutive, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	first := AllowedTransitions(types.StatusMember)
	first[0] = "mutated"
	second := AllowedTransitions(types.StatusMember)
	if second[0] != types.StatusMember {
		t.Fatal("callers must not be able to mutate the transition table")
	}
}
