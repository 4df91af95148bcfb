package service

import (
	"context"
	"testing"
	"time"

	usererrors "github.com/djibril1212/EasyBooking/internal/users/errors"
	"github.com/djibril1212/EasyBooking/internal/users/validator"
	"github.com/djibril1212/EasyBooking/pkg/auth"
	"github.com/djibril1212/EasyBooking/pkg/config"
	apperrors "github.com/djibril1212/EasyBooking/pkg/errors"
	"github.com/djibril1212/EasyBooking/pkg/logger"
	"github.com/djibril1212/EasyBooking/pkg/model"
)

type mockUserRepository struct {
	createFunc      func(ctx context.Context, u *model.User) error
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, usererrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, usererrors.ErrNotFound
}

func newTestUserService(repo *mockUserRepository) *userService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return &userService{
		repo:      repo,
		validator: validator.NewUserValidator(log),
		issuer:    auth.NewTokenIssuer("test-secret", time.Hour),
		cfg: &config.Config{
			Log:          log,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		now: time.Now,
	}
}

func TestRegister_Success(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, u *model.User) error {
			created = u
			return nil
		},
	}
	svc := newTestUserService(repo)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "  Alice@Example.COM ",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Token == "" {
		t.Error("expected a token")
	}
	if created == nil {
		t.Fatal("user was not persisted")
	}
	if created.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized lowercase", created.Email)
	}
	if created.PasswordHash == "" || created.PasswordHash == "correct-horse-battery" {
		t.Error("password must be stored hashed")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestUserService(&mockUserRepository{})

	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"bad email", model.RegisterRequest{Email: "not-an-email", Password: "long-enough-pass"}},
		{"short password", model.RegisterRequest{Email: "a@b.com", Password: "short"}},
		{"empty", model.RegisterRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tt.req)
			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeValidation {
				t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeValidation)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, u *model.User) error {
			return usererrors.ErrEmailTaken
		},
	}
	svc := newTestUserService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeConflict)
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stored := &model.User{
		ID:           "u-1",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, usererrors.ErrNotFound
		},
	}
	svc := newTestUserService(repo)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "Alice@Example.com",
			Password: "correct-horse-battery",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Token == "" || resp.User.ID != "u-1" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeUnauthorized {
			t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeUnauthorized)
		}
	})

	t.Run("unknown email matches wrong password", func(t *testing.T) {
		_, errUnknown := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "bob@example.com",
			Password: "whatever1",
		})
		_, errWrongPass := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "alice@example.com",
			Password: "whatever1",
		})
		a, b := apperrors.AsAppError(errUnknown), apperrors.AsAppError(errWrongPass)
		if a.Code != b.Code || a.Message != b.Message {
			t.Error("unknown email and wrong password must be indistinguishable")
		}
	})
}
