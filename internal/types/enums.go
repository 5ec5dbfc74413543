package types

// Membership status values
const (
	StatusMember        = "member"
	StatusExecutive     = "executive"
	StatusExtraordinary = "extraordinary-member"
	StatusAdvisory      = "advisory"
	StatusFounder       = "founder"
)

// Status change request states
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Member record fields subject to edit policy
const (
	FieldName             = "name"
	FieldRegistrationNo   = "registration_number"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldDepartment       = "department"
	FieldCohort           = "cohort"
	FieldStatus           = "status"
	FieldConfirmationDate = "confirmation_date"
	FieldPhoto            = "photo"
)

// Valid membership statuses for validation
var ValidMembershipStatuses = []string{
	StatusMember, StatusExecutive, StatusExtraordinary,
	StatusAdvisory, StatusFounder,
}

// PersonalFields are the fields a member may edit on their own record.
var PersonalFields = []string{
	FieldName, FieldRegistrationNo, FieldEmail, FieldPhone,
	FieldCohort, FieldConfirmationDate, FieldPhoto,
}

func IsValidMembershipStatus(status string) bool {
	for _, s := range ValidMembershipStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsAdminStatus reports whether a status carries elevated edit permissions.
func IsAdminStatus(status string) bool {
	return status == StatusExecutive || status == StatusAdvisory
}

func IsTerminalRequestState(state string) bool {
	return state == RequestAccepted || state == RequestRejected
}
