package service

import (
	"context"
	"fmt"
	"time"

	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/types"
)

// fakeMemberRepo is an in-memory MemberRepository for service tests.
type fakeMemberRepo struct {
	members map[string]*repository.Member
	tokens  map[string]*repository.RefreshToken
	nextID  int
}

func newFakeMemberRepo(members ...*repository.Member) *fakeMemberRepo {
	f := &fakeMemberRepo{
		members: make(map[string]*repository.Member),
		tokens:  make(map[string]*repository.RefreshToken),
	}
	for _, m := range members {
		f.members[m.ID] = m
	}
	return f
}

func (f *fakeMemberRepo) Create(ctx context.Context, m *repository.Member) error {
	f.nextID++
	m.ID = fmt.Sprintf("m-%d", f.nextID)
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	f.members[m.ID] = m
	return nil
}

func (f *fakeMemberRepo) FindByID(ctx context.Context, id string) (*repository.Member, error) {
	return f.members[id], nil
}

func (f *fakeMemberRepo) FindByEmail(ctx context.Context, email string) (*repository.Member, error) {
	for _, m := range f.members {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) FindByRegistrationNo(ctx context.Context, regNo string) (*repository.Member, error) {
	for _, m := range f.members {
		if m.RegistrationNo == regNo {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) FindAll(ctx context.Context) ([]*repository.Member, error) {
	out := make([]*repository.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMemberRepo) FindByStatus(ctx context.Context, status string) ([]*repository.Member, error) {
	var out []*repository.Member
	for _, m := range f.members {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) Update(ctx context.Context, id string, upd *repository.MemberUpdate) (*repository.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.RegistrationNo != nil {
		m.RegistrationNo = *upd.RegistrationNo
	}
	if upd.Email != nil {
		m.Email = *upd.Email
	}
	if upd.Phone != nil {
		m.Phone = upd.Phone
	}
	if upd.Department != nil {
		m.Department = upd.Department
	}
	if upd.Cohort != nil {
		m.Cohort = upd.Cohort
	}
	if upd.Status != nil {
		m.Status = *upd.Status
	}
	if upd.ConfirmationDate != nil {
		m.ConfirmationDate = upd.ConfirmationDate
	}
	if upd.PhotoURL != nil {
		m.PhotoURL = upd.PhotoURL
	}
	m.UpdatedAt = time.Now()
	return m, nil
}

func (f *fakeMemberRepo) Delete(ctx context.Context, id string) error {
	delete(f.members, id)
	return nil
}

func (f *fakeMemberRepo) SaveRefreshToken(ctx context.Context, token *repository.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeMemberRepo) FindRefreshToken(ctx context.Context, token string) (*repository.RefreshToken, error) {
	return f.tokens[token], nil
}

func (f *fakeMemberRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeMemberRepo) DeleteMemberRefreshTokens(ctx context.Context, memberID string) error {
	for t, rt := range f.tokens {
		if rt.MemberID == memberID {
			delete(f.tokens, t)
		}
	}
	return nil
}

// fakeRequestRepo is an in-memory StatusRequestRepository.
type fakeRequestRepo struct {
	requests map[string]*repository.StatusChangeRequest
	members  *fakeMemberRepo
	nextID   int
}

func newFakeRequestRepo(members *fakeMemberRepo) *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[string]*repository.StatusChangeRequest),
		members:  members,
	}
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *repository.StatusChangeRequest) error {
	f.nextID++
	req.ID = fmt.Sprintf("r-%d", f.nextID)
	req.Status = types.RequestPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id string) (*repository.StatusChangeRequest, error) {
	return f.requests[id], nil
}

func (f *fakeRequestRepo) FindPendingByTarget(ctx context.Context, targetID string) ([]*repository.StatusChangeRequest, error) {
	var out []*repository.StatusChangeRequest
	for _, r := range f.requests {
		if r.TargetID == targetID && r.Status == types.RequestPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) FindByInitiator(ctx context.Context, initiatorID string) ([]*repository.StatusChangeRequest, error) {
	var out []*repository.StatusChangeRequest
	for _, r := range f.requests {
		if r.InitiatorID == initiatorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ExistsPending(ctx context.Context, targetID, toStatus string) (bool, error) {
	for _, r := range f.requests {
		if r.TargetID == targetID && r.ToStatus == toStatus && r.Status == types.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) FindPendingOlderThan(ctx context.Context, age time.Duration) ([]*repository.StatusChangeRequest, error) {
	cutoff := time.Now().Add(-age)
	var out []*repository.StatusChangeRequest
	for _, r := range f.requests {
		if r.Status == types.RequestPending && r.CreatedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) Accept(ctx context.Context, id, resolverID string) (*repository.StatusChangeRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	if r.Status != types.RequestPending {
		return nil, repository.ErrRequestAlreadyResolved
	}
	now := time.Now()
	r.Status = types.RequestAccepted
	r.ResolverID = &resolverID
	r.ResolvedAt = &now
	if m, ok := f.members.members[r.TargetID]; ok {
		m.Status = r.ToStatus
	}
	return resolvedRow(r), nil
}

// resolvedRow mimics the UPDATE ... RETURNING scan: a fresh struct without
// the joined member names.
func resolvedRow(r *repository.StatusChangeRequest) *repository.StatusChangeRequest {
	row := *r
	row.TargetName = ""
	row.InitiatorName = ""
	return &row
}

func (f *fakeRequestRepo) Reject(ctx context.Context, id, resolverID string) (*repository.StatusChangeRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	if r.Status != types.RequestPending {
		return nil, repository.ErrRequestAlreadyResolved
	}
	now := time.Now()
	r.Status = types.RequestRejected
	r.ResolverID = &resolverID
	r.ResolvedAt = &now
	return resolvedRow(r), nil
}

// member builds a test member with fields derived from the id.
func member(id, name, status string) *repository.Member {
	return &repository.Member{
		ID:             id,
		Name:           name,
		RegistrationNo: "REG-" + id,
		Email:          id + "@roster.local",
		Password:       "$2a$10$notarealhashnotarealhashnotarealhash",
		Status:         status,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}
