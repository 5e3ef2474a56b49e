package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fixmycity/report-system/internal/core/domain"
	"github.com/fixmycity/report-system/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (s *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	return cloneUser(u), nil
}

func (s *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func TestUserService_Update_RejectsUnknownRole(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["u1"] = &domain.User{ID: "u1", Role: domain.RoleCitizen}
	svc := NewUserService(repo, zerolog.Nop())

	bad := "root"
	if _, err := svc.Update(context.Background(), "u1", ports.UserUpdate{Role: &bad}); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_Update_NormalizesEmail(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["u1"] = &domain.User{ID: "u1", Email: "old@example.com", Role: domain.RoleCitizen}
	svc := NewUserService(repo, zerolog.Nop())

	email := "  New@Example.COM "
	user, err := svc.Update(context.Background(), "u1", ports.UserUpdate{Email: &email})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["u1"] = &domain.User{ID: "u1", Role: domain.RoleCitizen}
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "u1"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
