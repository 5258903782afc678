package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"sosy-match/internal/domain"
	"sosy-match/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[user.Email] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return m.GetByID(context.Background(), id)
}

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "  Admin@Example.com ",
		Username: "admin",
		FullName: "Admin One",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-horse" {
		t.Fatalf("expected hashed password")
	}
	if !user.IsActive {
		t.Fatalf("expected new user to be active")
	}

	got, err := svc.Authenticate(ctx, "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestUserService_AuthenticateWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "admin@example.com",
		Username: "admin",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_AuthenticateUnknownEmail(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_RejectsWeakPassword(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "admin@example.com",
		Username: "admin",
		Password: "short",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestUserService_RejectsInvalidEmail(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "not-an-email",
		Username: "admin",
		Password: "correct-horse",
	})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}
