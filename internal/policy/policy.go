// Package policy holds the pure membership rules: which fields a viewer may
// edit on a member record, which status transitions exist, and when a status
// change must go through an approval request instead of a direct update.
// Nothing in this package touches the database or the network; services call
// into it before every write so the same rules apply on every path.
package policy

import "github.com/orkestra-labs/roster-backend/internal/types"

// Subject is the slice of a member record the rules need: identity plus
// membership status.
type Subject struct {
	ID     string
	Status string
}

// CanEditField decides whether viewer may edit the named field on target.
// Precedence: self-edit, founder target, admin viewer, then read-only.
func CanEditField(viewer, target Subject, field string) bool {
	if viewer.ID == target.ID {
		// Own record: personal fields only. Status and department changes
		// always go through an admin.
		for _, f := range types.PersonalFields {
			if f == field {
				return true
			}
		}
		return false
	}

	if target.Status == types.StatusFounder {
		// Founder records are frozen except for department, and only an
		// admin may move a founder between departments.
		return field == types.FieldDepartment && types.IsAdminStatus(viewer.Status)
	}

	if types.IsAdminStatus(viewer.Status) {
		return field == types.FieldStatus || field == types.FieldDepartment
	}

	return false
}

// EditableFields returns the full field -> editable map for a viewer/target
// pair. Handlers expose this so the dashboard can grey out locked fields
// while still rendering them.
func EditableFields(viewer, target Subject) map[string]bool {
	fields := []string{
		types.FieldName, types.FieldRegistrationNo, types.FieldEmail,
		types.FieldPhone, types.FieldDepartment, types.FieldCohort,
		types.FieldStatus, types.FieldConfirmationDate, types.FieldPhoto,
	}
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f] = CanEditField(viewer, target, f)
	}
	return out
}
