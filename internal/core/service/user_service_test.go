package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamforge/identity-service/internal/core/domain"
	"github.com/teamforge/identity-service/internal/core/ports"
)

type stubUserRepo struct {
	users map[primitive.ObjectID]domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *stubUserRepo) Insert(_ context.Context, user domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, domain.ErrUserExists
		}
	}
	id := primitive.NewObjectID()
	user.ID = id
	r.users[id] = user
	return id, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Replace(_ context.Context, user domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range r.users {
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(u.FullName, filter.Search) && !strings.Contains(u.Email, filter.Search) {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

// stubHasher marks hashes deterministically so tests can assert the
// plaintext never reaches storage.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (stubHasher) Compare(hashed, plaintext string) error {
	if hashed != "hashed:"+plaintext {
		return errors.New("mismatch")
	}
	return nil
}

type recordingAudit struct {
	entries []ports.AuditEntry
}

func (a *recordingAudit) Record(entry ports.AuditEntry) {
	a.entries = append(a.entries, entry)
}

func newTestService(repo *stubUserRepo) (*UserService, *recordingAudit) {
	audit := &recordingAudit{}
	svc := NewUserService(repo, stubHasher{}, nil, audit, zerolog.Nop())
	return svc, audit
}

func registerPayload() map[string]any {
	return map[string]any{
		"full_name": "Jane Doe",
		"email":     "Jane.Doe@Company.com",
		"password":  "Sup3rsecret",
	}
}

func TestUserService_Register(t *testing.T) {
	repo := newStubUserRepo()
	svc, audit := newTestService(repo)
	born := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return born }

	pub, err := svc.Register(context.Background(), registerPayload())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if pub.Email != "jane.doe@company.com" {
		t.Fatalf("email not normalized: %q", pub.Email)
	}
	if pub.Role != domain.RoleIntern || !pub.IsActive {
		t.Fatalf("defaults not applied: %+v", pub)
	}
	if !pub.CreatedAt.Equal(born) || !pub.UpdatedAt.Equal(born) {
		t.Fatalf("timestamps not taken from clock: %+v", pub)
	}

	stored, err := repo.FindByEmail(context.Background(), pub.Email)
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if stored.HashedPassword != "hashed:Sup3rsecret" {
		t.Fatalf("password not routed through hasher: %q", stored.HashedPassword)
	}
	if stored.ID.Hex() != pub.ID {
		t.Fatalf("public id %q does not match stored id %v", pub.ID, stored.ID)
	}

	if len(audit.entries) != 1 || audit.entries[0].Action != ports.AuditUserRegistered {
		t.Fatalf("expected one registration audit entry, got %+v", audit.entries)
	}
}

func TestUserService_Register_ValidationError(t *testing.T) {
	svc, audit := newTestService(newStubUserRepo())

	_, err := svc.Register(context.Background(), map[string]any{"email": "x"})
	var ve domain.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if !ve.Has("full_name") || !ve.Has("password") || !ve.Has("email") {
		t.Fatalf("expected aggregate over all fields, got %v", ve)
	}
	if len(audit.entries) != 0 {
		t.Fatalf("audit must not record failed registrations")
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), registerPayload()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerPayload()); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Get_InvalidIdentifier(t *testing.T) {
	svc, _ := newTestService(newStubUserRepo())

	_, err := svc.Get(context.Background(), "not-a-hex-id")
	var ve domain.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(ve) != 1 || ve[0].Field != "id" || ve[0].Kind != domain.KindInvalidIdentifier {
		t.Fatalf("expected invalid_identifier on id, got %v", ve)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc, _ := newTestService(newStubUserRepo())

	if _, err := svc.Get(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_PartialPatch(t *testing.T) {
	svc, audit := newTestService(newStubUserRepo())
	born := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return born }

	created, err := svc.Register(context.Background(), registerPayload())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	svc.now = func() time.Time { return born.Add(time.Hour) }
	updated, err := svc.Update(context.Background(), created.ID, map[string]any{"role": "admin"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Role != domain.RoleAdmin {
		t.Fatalf("role not updated: %s", updated.Role)
	}
	if updated.FullName != created.FullName || updated.Email != created.Email || updated.IsActive != created.IsActive {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updated_at did not increase")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at must not change on update")
	}
	if last := audit.entries[len(audit.entries)-1]; last.Action != ports.AuditUserUpdated {
		t.Fatalf("expected update audit entry, got %+v", last)
	}
}

func TestUserService_Update_RejectsPassword(t *testing.T) {
	svc, _ := newTestService(newStubUserRepo())

	created, err := svc.Register(context.Background(), registerPayload())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = svc.Update(context.Background(), created.ID, map[string]any{"password": "Newpass1"})
	var ve domain.ValidationErrors
	if !errors.As(err, &ve) || !ve.Has("password") {
		t.Fatalf("expected forbidden password error, got %v", err)
	}
}

func TestUserService_Deactivate(t *testing.T) {
	repo := newStubUserRepo()
	svc, audit := newTestService(repo)

	created, err := svc.Register(context.Background(), registerPayload())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	pub, err := svc.Deactivate(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if pub.IsActive {
		t.Fatalf("user still active after deactivation")
	}

	stored, _ := repo.FindByEmail(context.Background(), created.Email)
	if stored.IsActive {
		t.Fatalf("stored record still active")
	}
	if last := audit.entries[len(audit.entries)-1]; last.Action != ports.AuditUserDeactivated {
		t.Fatalf("expected deactivation audit entry, got %+v", last)
	}
}

func TestUserService_List_Filters(t *testing.T) {
	svc, _ := newTestService(newStubUserRepo())

	for _, u := range []map[string]any{
		{"full_name": "Jane Doe", "email": "jane@company.com", "password": "Sup3rsecret", "role": "admin"},
		{"full_name": "John Roe", "email": "john@company.com", "password": "Sup3rsecret"},
	} {
		if _, err := svc.Register(context.Background(), u); err != nil {
			t.Fatalf("register failed: %v", err)
		}
	}

	res, err := svc.List(context.Background(), ports.ListUsersInput{Role: "admin"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.Total != 1 || len(res.Items) != 1 || res.Items[0].Role != domain.RoleAdmin {
		t.Fatalf("unexpected listing: %+v", res)
	}
	if res.Page != 1 || res.Limit != 20 || res.TotalPages != 1 {
		t.Fatalf("pagination defaults not applied: %+v", res)
	}
}
