package policy

import "github.com/orkestra-labs/roster-backend/internal/types"

// transitions maps a current membership status to the statuses it may move
// to. The self-loop is included so "no change" is always a legal submission.
// Promotion and demotion paths are asymmetric: advisory members are never
// demoted back to executive duty rosters they left, and founders are fixed.
var transitions = map[string][]string{
	types.StatusMember:        {types.StatusMember, types.StatusExecutive, types.StatusFounder},
	types.StatusExecutive:     {types.StatusMember, types.StatusExecutive, types.StatusAdvisory, types.StatusExtraordinary},
	types.StatusAdvisory:      {types.StatusAdvisory, types.StatusExtraordinary},
	types.StatusExtraordinary: {types.StatusExtraordinary, types.StatusAdvisory},
	types.StatusFounder:       {types.StatusFounder},
}

// AllowedTransitions returns the statuses current may move to. An unknown
// current status falls back to the full enumeration so records with bad
// legacy data can still be repaired, while founder stays terminal because it
// is present in the table.
func AllowedTransitions(current string) []string {
	if next, ok := transitions[current]; ok {
		out := make([]string, len(next))
		copy(out, next)
		return out
	}
	out := make([]string, len(types.ValidMembershipStatuses))
	copy(out, types.ValidMembershipStatuses)
	return out
}

// CanTransition reports whether a member currently at from may be set to to.
func CanTransition(from, to string) bool {
	for _, s := range AllowedTransitions(from) {
		if s == to {
			return true
		}
	}
	return false
}
