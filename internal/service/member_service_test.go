package service

import (
	"context"
	"errors"
	"testing"

	"github.com/orkestra-labs/roster-backend/internal/types"
)

func strPtr(s string) *string { return &s }

func testMembers() (*fakeMemberRepo, *fakeRequestRepo) {
	members := newFakeMemberRepo(
		member("exec", "Asha", types.StatusExecutive),
		member("adv", "Bern", types.StatusAdvisory),
		member("plain", "Cato", types.StatusMember),
		member("extra", "Dara", types.StatusExtraordinary),
		member("founder", "Erol", types.StatusFounder),
	)
	return members, newFakeRequestRepo(members)
}

func memberSvc(members *fakeMemberRepo, requests *fakeRequestRepo) MemberService {
	reqSvc := NewStatusRequestService(requests, members, nil, nil, nil, nil)
	return NewMemberService(members, reqSvc, nil, nil, nil, nil)
}

func TestUpdateSelfEditsPersonalFields(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	res, err := svc.Update(context.Background(), "plain", "plain", &MemberUpdateInput{
		Name:  strPtr("Cato Renamed"),
		Phone: strPtr("555-0101"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Member.Name != "Cato Renamed" {
		t.Errorf("name = %q; want %q", res.Member.Name, "Cato Renamed")
	}
	if res.Member.Phone == nil || *res.Member.Phone != "555-0101" {
		t.Errorf("phone not applied")
	}
	if res.Request != nil {
		t.Errorf("personal edit created a status request")
	}
}

func TestUpdateSelfCannotEditStatusOrDepartment(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	_, err := svc.Update(context.Background(), "exec", "exec", &MemberUpdateInput{
		Department: strPtr("Finance"),
	})
	if !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("self department edit: err = %v; want ErrFieldNotEditable", err)
	}

	_, err = svc.Update(context.Background(), "exec", "exec", &MemberUpdateInput{
		Status: strPtr(types.StatusAdvisory),
	})
	if !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("self status edit: err = %v; want ErrFieldNotEditable", err)
	}
}

func TestUpdateNonAdminCannotEditOthers(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	_, err := svc.Update(context.Background(), "plain", "extra", &MemberUpdateInput{
		Name: strPtr("Hijacked"),
	})
	if !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("err = %v; want ErrFieldNotEditable", err)
	}
}

func TestUpdateExecutiveDirectOnMember(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	res, err := svc.Update(context.Background(), "exec", "plain", &MemberUpdateInput{
		Status: strPtr(types.StatusExecutive),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Request != nil {
		t.Fatalf("executive on member should apply directly, got request %s", res.Request.ID)
	}
	if res.Member.Status != types.StatusExecutive {
		t.Errorf("status = %q; want %q", res.Member.Status, types.StatusExecutive)
	}
}

func TestUpdateExecutiveOnExecutiveNeedsApproval(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	members.members["peer"] = member("peer", "Peer", types.StatusExecutive)

	res, err := svc.Update(context.Background(), "exec", "peer", &MemberUpdateInput{
		Status: strPtr(types.StatusAdvisory),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Request == nil {
		t.Fatal("expected a status change request, got direct apply")
	}
	if res.Request.Status != types.RequestPending {
		t.Errorf("request status = %q; want pending", res.Request.Status)
	}
	// Target unchanged until the request is accepted.
	if members.members["peer"].Status != types.StatusExecutive {
		t.Errorf("target status changed before approval")
	}
}

func TestUpdateRejectsInvalidTransition(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	// member -> advisory is not in the transition table.
	_, err := svc.Update(context.Background(), "adv", "plain", &MemberUpdateInput{
		Status: strPtr(types.StatusAdvisory),
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v; want ErrInvalidTransition", err)
	}

	// founder is terminal and the role policy locks the field anyway.
	_, err = svc.Update(context.Background(), "adv", "founder", &MemberUpdateInput{
		Status: strPtr(types.StatusMember),
	})
	if !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("founder status edit: err = %v; want ErrFieldNotEditable", err)
	}
}

func TestUpdateFounderTargetOnlyDepartment(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	res, err := svc.Update(context.Background(), "adv", "founder", &MemberUpdateInput{
		Department: strPtr("Board"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Member.Department == nil || *res.Member.Department != "Board" {
		t.Errorf("department not applied")
	}

	_, err = svc.Update(context.Background(), "adv", "founder", &MemberUpdateInput{
		Name: strPtr("Renamed Founder"),
	})
	if !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("founder name edit: err = %v; want ErrFieldNotEditable", err)
	}
}

func TestUpdateUnknownStatusRejected(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	_, err := svc.Update(context.Background(), "exec", "plain", &MemberUpdateInput{
		Status: strPtr("emeritus"),
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("err = %v; want ErrInvalidStatus", err)
	}
}

func TestDeleteRequiresAdminAndSparesFounder(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)
	ctx := context.Background()

	if err := svc.Delete(ctx, "plain", "extra"); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-admin delete: err = %v; want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, "exec", "founder"); !errors.Is(err, ErrForbidden) {
		t.Errorf("founder delete: err = %v; want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, "exec", "extra"); err != nil {
		t.Errorf("admin delete: %v", err)
	}
	if _, ok := members.members["extra"]; ok {
		t.Errorf("member not removed")
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)

	_, err := svc.Create(context.Background(), "plain", member("", "New", types.StatusMember), "password123")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v; want ErrForbidden", err)
	}

	created, err := svc.Create(context.Background(), "exec", member("", "New", types.StatusMember), "password123")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Errorf("created member has no ID")
	}
	if created.Password == "password123" {
		t.Errorf("password stored in plain text")
	}
}

func TestEditableFieldsMatrix(t *testing.T) {
	members, requests := testMembers()
	svc := memberSvc(members, requests)
	ctx := context.Background()

	fields, err := svc.EditableFields(ctx, "plain", "plain")
	if err != nil {
		t.Fatalf("EditableFields: %v", err)
	}
	if !fields[types.FieldName] || fields[types.FieldStatus] || fields[types.FieldDepartment] {
		t.Errorf("self field map wrong: %v", fields)
	}

	fields, err = svc.EditableFields(ctx, "exec", "plain")
	if err != nil {
		t.Fatalf("EditableFields: %v", err)
	}
	if !fields[types.FieldStatus] || !fields[types.FieldDepartment] || fields[types.FieldName] {
		t.Errorf("admin-viewer field map wrong: %v", fields)
	}
}
