package service

import (
	"context"
	"fmt"

	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
)

// AdminRoleService handles role and permission management.
type AdminRoleService struct {
	roleRepo *repository.RoleRepository
}

// NewAdminRoleService creates a new AdminRoleService.
func NewAdminRoleService(roleRepo *repository.RoleRepository) *AdminRoleService {
	return &AdminRoleService{roleRepo: roleRepo}
}

// ListRoles returns all roles with their permissions.
func (s *AdminRoleService) ListRoles(ctx context.Context) ([]model.RoleWithPermissions, error) {
	return s.roleRepo.ListRolesWithPermissions(ctx)
}

// GetRole returns a role with its permissions.
func (s *AdminRoleService) GetRole(ctx context.Context, id int) (*model.RoleWithPermissions, error) {
	return s.roleRepo.GetRoleByID(ctx, id)
}

// ListPermissions returns the full permission catalog.
func (s *AdminRoleService) ListPermissions(ctx context.Context) []model.Permission {
	return model.AllPermissions
}

// CreateRole creates a role and assigns its permissions.
func (s *AdminRoleService) CreateRole(ctx context.Context, req *model.CreateRoleRequest) (*model.RoleWithPermissions, error) {
	id, err := s.roleRepo.CreateRole(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	if err := s.roleRepo.AssignPermissionsToRole(ctx, id, req.Permissions); err != nil {
		return nil, fmt.Errorf("assign permissions: %w", err)
	}

	return s.roleRepo.GetRoleByID(ctx, id)
}

// UpdateRole renames a role and replaces its permission set.
func (s *AdminRoleService) UpdateRole(ctx context.Context, id int, req *model.CreateRoleRequest) (*model.RoleWithPermissions, error) {
	if err := s.roleRepo.UpdateRole(ctx, id, req.Name); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if err := s.roleRepo.DeleteAllPermissionsFromRole(ctx, id); err != nil {
		return nil, fmt.Errorf("clear permissions: %w", err)
	}
	if err := s.roleRepo.AssignPermissionsToRole(ctx, id, req.Permissions); err != nil {
		return nil, fmt.Errorf("assign permissions: %w", err)
	}

	return s.roleRepo.GetRoleByID(ctx, id)
}

// DeleteRole removes a role.
func (s *AdminRoleService) DeleteRole(ctx context.Context, id int) error {
	return s.roleRepo.DeleteRole(ctx, id)
}
