package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
)

// AdminUserService handles admin account login and management.
type AdminUserService struct {
	adminRepo   *repository.AdminRepository
	roleRepo    *repository.RoleRepository
	authService *AuthService
}

// NewAdminUserService creates a new AdminUserService.
func NewAdminUserService(
	adminRepo *repository.AdminRepository,
	roleRepo *repository.RoleRepository,
	authService *AuthService,
) *AdminUserService {
	return &AdminUserService{
		adminRepo:   adminRepo,
		roleRepo:    roleRepo,
		authService: authService,
	}
}

// Login authenticates an admin and issues a token with the role's
// permissions embedded.
func (s *AdminUserService) Login(ctx context.Context, req *model.AdminLoginRequest) (*model.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}

	if err := s.authService.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	permissions, err := s.roleRepo.GetPermissionsByRoleID(ctx, admin.RoleID)
	if err != nil {
		return nil, fmt.Errorf("get permissions: %w", err)
	}

	token, err := s.authService.GenerateAdminToken(admin.ID, admin.RoleID, permissions)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &model.AdminLoginResponse{
		Token:       token,
		Admin:       *admin,
		Permissions: permissions,
	}, nil
}

// GetAdmin returns a single admin.
func (s *AdminUserService) GetAdmin(ctx context.Context, id int) (*model.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// ListAdmins returns admins with pagination and an optional role filter.
func (s *AdminUserService) ListAdmins(ctx context.Context, page, perPage int, roleID *int) ([]model.Admin, int, error) {
	offset := (page - 1) * perPage
	return s.adminRepo.ListPaginated(ctx, roleID, perPage, offset)
}

// CreateAdmin creates an admin account.
func (s *AdminUserService) CreateAdmin(ctx context.Context, req *model.CreateAdminRequest) (*model.Admin, error) {
	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		RoleID:       req.RoleID,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// UpdateAdmin modifies an admin account. An empty password keeps the
// current one.
func (s *AdminUserService) UpdateAdmin(ctx context.Context, id int, req *model.UpdateAdminRequest) error {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get admin: %w", err)
	}

	if req.Email != "" {
		admin.Email = req.Email
	}
	if req.Name != "" {
		admin.Name = req.Name
	}
	if req.RoleID != 0 {
		admin.RoleID = req.RoleID
	}

	admin.PasswordHash = ""
	if req.Password != "" {
		hash, err := s.authService.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		admin.PasswordHash = hash
	}

	return s.adminRepo.Update(ctx, admin)
}

// DeleteAdmin removes an admin account.
func (s *AdminUserService) DeleteAdmin(ctx context.Context, id int) error {
	return s.adminRepo.Delete(ctx, id)
}
