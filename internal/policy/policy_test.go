package policy

import (
	"testing"

	"github.com/orkestra-labs/roster-backend/internal/types"
)

func TestCanEditFieldSelf(t *testing.T) {
	self := Subject{ID: "m1", Status: types.StatusMember}

	editable := []string{
		types.FieldName, types.FieldRegistrationNo, types.FieldEmail,
		types.FieldPhone, types.FieldCohort, types.FieldConfirmationDate,
		types.FieldPhoto,
	}
	for _, f := range editable {
		if !CanEditField(self, self, f) {
			t.Errorf("self edit of %q should be allowed", f)
		}
	}

	if CanEditField(self, self, types.FieldStatus) {
		t.Error("self edit of status must never be allowed")
	}
	if CanEditField(self, self, types.FieldDepartment) {
		t.Error("self edit of department must never be allowed")
	}
}

func TestCanEditFieldSelfPrecedesAdminRules(t *testing.T) {
	// An executive editing their own record still gets the self-edit rules:
	// personal fields open, status and department locked.
	self := Subject{ID: "a1", Status: types.StatusExecutive}
	if !CanEditField(self, self, types.FieldEmail) {
		t.Error("admin editing own record should edit personal fields")
	}
	if CanEditField(self, self, types.FieldStatus) {
		t.Error("admin must not edit own status")
	}
}

func TestCanEditFieldFounderTarget(t *testing.T) {
	founder := Subject{ID: "f1", Status: types.StatusFounder}
	viewers := []Subject{
		{ID: "v1", Status: types.StatusMember},
		{ID: "v2", Status: types.StatusExecutive},
		{ID: "v3", Status: types.StatusAdvisory},
		{ID: "v4", Status: types.StatusExtraordinary},
		{ID: "v5", Status: types.StatusFounder},
	}
	for _, v := range viewers {
		if CanEditField(v, founder, types.FieldStatus) {
			t.Errorf("founder status must not be editable by %s viewer", v.Status)
		}
	}

	if !CanEditField(viewers[1], founder, types.FieldDepartment) {
		t.Error("executive should edit founder department")
	}
	if !CanEditField(viewers[2], founder, types.FieldDepartment) {
		t.Error("advisory should edit founder department")
	}
	if CanEditField(viewers[0], founder, types.FieldDepartment) {
		t.Error("plain member must not edit founder department")
	}
	if CanEditField(viewers[1], founder, types.FieldName) {
		t.Error("founder personal fields must stay locked to admins")
	}
}

func TestCanEditFieldAdminViewer(t *testing.T) {
	admin := Subject{ID: "a1", Status: types.StatusAdvisory}
	target := Subject{ID: "m1", Status: types.StatusMember}

	if !CanEditField(admin, target, types.FieldStatus) {
		t.Error("admin should edit status of an ordinary member")
	}
	if !CanEditField(admin, target, types.FieldDepartment) {
		t.Error("admin should edit department of an ordinary member")
	}
	for _, f := range []string{types.FieldName, types.FieldEmail, types.FieldPhone} {
		if CanEditField(admin, target, f) {
			t.Errorf("admin must not edit personal field %q of another member", f)
		}
	}
}

func TestCanEditFieldNonAdminViewerReadOnly(t *testing.T) {
	viewer := Subject{ID: "m1", Status: types.StatusMember}
	target := Subject{ID: "m2", Status: types.StatusExecutive}
	fields := []string{
		types.FieldName, types.FieldRegistrationNo, types.FieldEmail,
		types.FieldPhone, types.FieldDepartment, types.FieldCohort,
		types.FieldStatus, types.FieldConfirmationDate, types.FieldPhoto,
	}
	for _, f := range fields {
		if CanEditField(viewer, target, f) {
			t.Errorf("non-admin viewing another member should be read-only, %q was editable", f)
		}
	}
}

func TestEditableFieldsMatchesCanEditField(t *testing.T) {
	viewer := Subject{ID: "a1", Status: types.StatusExecutive}
	target := Subject{ID: "m1", Status: types.StatusMember}

	m := EditableFields(viewer, target)
	if len(m) != 9 {
		t.Fatalf("expected 9 fields in map, got %d", len(m))
	}
	for field, got := range m {
		if want := CanEditField(viewer, target, field); got != want {
			t.Errorf("field %q: map says %v, CanEditField says %v", field, got, want)
		}
	}
}
