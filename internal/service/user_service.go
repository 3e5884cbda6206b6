package service

import (
	"context"
	"errors"
	"fmt"

	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/pkg/logger"

	"github.com/google/uuid"
)

const minPasswordLength = 6

// UserService manages staff accounts from the CLI and the startup seeder.
type UserService interface {
	EnsureUser(ctx context.Context, email, password, fullName, roleCode string) (*model.User, bool, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// EnsureUser creates the account when the email is unknown. It reports
// whether a user was created; existing accounts are left untouched.
func (s *userService) EnsureUser(ctx context.Context, email, password, fullName, roleCode string) (*model.User, bool, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}
	if len(password) < minPasswordLength {
		return nil, false, invalid("password must be at least %d characters", minPasswordLength)
	}

	role, err := s.roleRepo.FindByCode(ctx, roleCode)
	if err != nil {
		return nil, false, fmt.Errorf("role %s: %w", roleCode, err)
	}

	user := &model.User{
		Email:    email,
		FullName: fullName,
		RoleID:   &role.ID,
		IsActive: true,
	}
	user.CreatedBy = System.ID
	user.UpdatedBy = System.ID
	if err := user.SetPassword(password); err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	user.Role = role

	logger.WithCtx(ctx).Info("user created", "email", email, "role", roleCode)
	return user, true, nil
}

// ResetPassword sets a new password and ends the user's current session.
func (s *userService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.New().String())
}
