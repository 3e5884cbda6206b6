package service

import (
	"context"
	"errors"
	"fmt"

	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login issues a token and rotates the token version, which signs out any
// other session of the same user.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	version := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, version); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	privileges := user.PrivilegeCodes()
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, roleCode, privileges, version)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Privileges: privileges,
	}, nil
}

// Authenticate validates the token and checks it is still the user's
// current session. Privileges are read from the database, not the token, so
// role changes apply immediately.
func (s *authService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	claims.Privileges = user.PrivilegeCodes()
	return claims, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.UpdateTokenVersion(ctx, userID, uuid.New().String())
}
