package service

import (
	"context"
	"fmt"

	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/pkg/logger"
)

// Seeder loads the reference data every deployment needs: categories,
// privileges, roles and the initial store admin.
type Seeder struct {
	Categories repository.CategoryRepository
	Privileges repository.PrivilegeRepository
	Roles      repository.RoleRepository
	Users      UserService
}

func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) error {
	if err := s.Categories.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := s.Privileges.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := s.Roles.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	_, created, err := s.Users.EnsureUser(ctx, adminEmail, adminPassword, "Store Administrator", model.RoleStoreAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logger.WithCtx(ctx).Info("admin user created", "email", adminEmail)
	}
	return nil
}
