package service

import (
	"context"
	"errors"
	"testing"

	"github.com/orkestra-labs/roster-backend/internal/types"
)

func requestSvc() (StatusRequestService, *fakeMemberRepo, *fakeRequestRepo) {
	members, requests := testMembers()
	return NewStatusRequestService(requests, members, nil, nil, nil, nil), members, requests
}

func TestCreateRequestValidations(t *testing.T) {
	svc, _, _ := requestSvc()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "exec", "missing", types.StatusMember); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown target: err = %v; want ErrNotFound", err)
	}
	if _, err := svc.Create(ctx, "exec", "plain", "emeritus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status: err = %v; want ErrInvalidStatus", err)
	}
	// member -> advisory is not a legal transition.
	if _, err := svc.Create(ctx, "exec", "plain", types.StatusAdvisory); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("illegal transition: err = %v; want ErrInvalidTransition", err)
	}

	req, err := svc.Create(ctx, "exec", "plain", types.StatusExecutive)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.Status != types.RequestPending {
		t.Errorf("new request status = %q; want pending", req.Status)
	}
	if req.FromStatus != types.StatusMember {
		t.Errorf("fromStatus = %q; want member", req.FromStatus)
	}

	// Same change again while pending is a duplicate.
	if _, err := svc.Create(ctx, "exec", "plain", types.StatusExecutive); !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("duplicate: err = %v; want ErrDuplicateRequest", err)
	}
}

func TestAcceptAppliesStatusChange(t *testing.T) {
	svc, members, _ := requestSvc()
	ctx := context.Background()

	req, err := svc.Create(ctx, "exec", "plain", types.StatusExecutive)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resolved, err := svc.Accept(ctx, "plain", req.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if resolved.Status != types.RequestAccepted {
		t.Errorf("status = %q; want accepted", resolved.Status)
	}
	if resolved.ResolvedAt == nil {
		t.Errorf("resolvedAt not set")
	}
	if members.members["plain"].Status != types.StatusExecutive {
		t.Errorf("member status = %q; want executive", members.members["plain"].Status)
	}
}

func TestResolutionIsTerminal(t *testing.T) {
	svc, _, _ := requestSvc()
	ctx := context.Background()

	req, err := svc.Create(ctx, "exec", "plain", types.StatusExecutive)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Accept(ctx, "plain", req.ID); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	// A second resolution in either direction is a conflict.
	if _, err := svc.Accept(ctx, "plain", req.ID); !errors.Is(err, ErrRequestResolved) {
		t.Errorf("repeat accept: err = %v; want ErrRequestResolved", err)
	}
	if _, err := svc.Reject(ctx, "plain", req.ID); !errors.Is(err, ErrRequestResolved) {
		t.Errorf("reject after accept: err = %v; want ErrRequestResolved", err)
	}
}

func TestRejectLeavesMemberUntouched(t *testing.T) {
	svc, members, _ := requestSvc()
	ctx := context.Background()

	req, err := svc.Create(ctx, "exec", "plain", types.StatusExecutive)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resolved, err := svc.Reject(ctx, "plain", req.ID)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if resolved.Status != types.RequestRejected {
		t.Errorf("status = %q; want rejected", resolved.Status)
	}
	if members.members["plain"].Status != types.StatusMember {
		t.Errorf("member status changed on reject")
	}
}

func TestResolutionAuthorization(t *testing.T) {
	svc, _, _ := requestSvc()
	ctx := context.Background()

	req, err := svc.Create(ctx, "exec", "plain", types.StatusExecutive)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// An unrelated non-admin member cannot resolve.
	if _, err := svc.Accept(ctx, "extra", req.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("bystander accept: err = %v; want ErrForbidden", err)
	}

	// An admin who is not the target can resolve.
	if _, err := svc.Accept(ctx, "adv", req.ID); err != nil {
		t.Errorf("admin accept: %v", err)
	}
}

func TestRequestViews(t *testing.T) {
	svc, _, _ := requestSvc()
	ctx := context.Background()

	req, err := svc.Create(ctx, "exec", "plain", types.StatusExecutive)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	pending, err := svc.ListPendingForMember(ctx, "plain")
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListPendingForMember = %d, %v; want 1 request", len(pending), err)
	}

	initiated, err := svc.ListInitiatedBy(ctx, "exec")
	if err != nil || len(initiated) != 1 {
		t.Fatalf("ListInitiatedBy = %d, %v; want 1 request", len(initiated), err)
	}

	if _, err := svc.GetByID(ctx, "extra", req.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("bystander view: err = %v; want ErrForbidden", err)
	}
	if _, err := svc.GetByID(ctx, "plain", req.ID); err != nil {
		t.Errorf("target view: %v", err)
	}
}

func TestCreateRequestRequiresEditRights(t *testing.T) {
	svc, _, requests := requestSvc()
	ctx := context.Background()

	// A member cannot open a request on their own record; accepting it
	// themselves would amount to self-promotion.
	if _, err := svc.Create(ctx, "plain", "plain", types.StatusExecutive); !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("self-initiated request: err = %v; want ErrFieldNotEditable", err)
	}
	// Status is never self-editable, admin or not.
	if _, err := svc.Create(ctx, "exec", "exec", types.StatusAdvisory); !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("admin self request: err = %v; want ErrFieldNotEditable", err)
	}
	// Extraordinary members hold no admin role.
	if _, err := svc.Create(ctx, "extra", "plain", types.StatusExecutive); !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("non-admin initiator: err = %v; want ErrFieldNotEditable", err)
	}
	// Founder status is frozen for everyone.
	if _, err := svc.Create(ctx, "exec", "founder", types.StatusFounder); !errors.Is(err, ErrFieldNotEditable) {
		t.Errorf("founder target: err = %v; want ErrFieldNotEditable", err)
	}

	if len(requests.requests) != 0 {
		t.Errorf("%d requests stored despite rejected creates", len(requests.requests))
	}
}

func TestResolutionKeepsMemberNames(t *testing.T) {
	svc, _, _ := requestSvc()
	ctx := context.Background()

	req, err := svc.Create(ctx, "exec", "plain", types.StatusExecutive)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	accepted, err := svc.Accept(ctx, "plain", req.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if accepted.TargetName != "Cato" {
		t.Errorf("accepted.TargetName = %q; want Cato", accepted.TargetName)
	}
	if accepted.InitiatorName != "Asha" {
		t.Errorf("accepted.InitiatorName = %q; want Asha", accepted.InitiatorName)
	}

	req2, err := svc.Create(ctx, "adv", "plain", types.StatusMember)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	rejected, err := svc.Reject(ctx, "plain", req2.ID)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.TargetName != "Cato" || rejected.InitiatorName != "Bern" {
		t.Errorf("rejected names = %q/%q; want Cato/Bern", rejected.TargetName, rejected.InitiatorName)
	}
}
