package service

import (
	"context"
	"errors"
	"strings"
	"time"

	usererrors "github.com/djibril1212/EasyBooking/internal/users/errors"
	"github.com/djibril1212/EasyBooking/internal/users/repository"
	"github.com/djibril1212/EasyBooking/internal/users/validator"
	"github.com/djibril1212/EasyBooking/pkg/auth"
	"github.com/djibril1212/EasyBooking/pkg/config"
	apperrors "github.com/djibril1212/EasyBooking/pkg/errors"
	"github.com/djibril1212/EasyBooking/pkg/model"
	"github.com/djibril1212/EasyBooking/pkg/sanitizer"
	"github.com/google/uuid"
)

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	issuer    *auth.TokenIssuer
	cfg       *config.Config
	now       func() time.Time
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	issuer *auth.TokenIssuer,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		issuer:    issuer,
		cfg:       cfg,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(sanitizer.TrimAndNormalize(email))
}

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if err := s.validator.ValidateRegister(req); err != nil {
		return nil, apperrors.Validation("User validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, usererrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "email", user.Email)

	return s.withToken(user)
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Validation("User validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) {
			// Same response as a bad password, no account enumeration.
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)

	return s.withToken(user)
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, usererrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to get user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) withToken(user *model.User) (*model.AuthResponse, error) {
	token, err := s.issuer.Issue(user.ID, user.Email, s.now())
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}
