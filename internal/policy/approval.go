package policy

import "github.com/orkestra-labs/roster-backend/internal/types"

// directUpdates lists the (viewer status, target status) pairs where a status
// change is administrative and applied immediately. Everything else between
// two distinct members needs the counterparty's consent: peer-level and
// upward-reaching changes are sensitive, so they go through an approval
// request. Pairs absent from this table require approval as well; the role
// policy already blocks most of them, but this rule must hold on its own
// when called out of context.
var directUpdates = map[[2]string]bool{
	{types.StatusExecutive, types.StatusMember}:   true,
	{types.StatusAdvisory, types.StatusExecutive}: true,
	{types.StatusAdvisory, types.StatusMember}:    true,
}

// NeedsApproval decides whether a status change by viewerStatus against a
// member currently at targetStatus must be mediated by an approval request.
// Self-edits never require approval; they cannot change status at all, which
// CanEditField enforces separately.
func NeedsApproval(viewerStatus, targetStatus string, isSelf bool) bool {
	if isSelf {
		return false
	}
	return !directUpdates[[2]string{viewerStatus, targetStatus}]
}
