package server

import (
	"context"
	"fmt"

	"github.com/emeka/petrocms/internal/config"
	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/types"
	"github.com/google/uuid"
)

// AdminService provides business logic for admin account operations
type AdminService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
}

// NewAdminService creates a new AdminService with the given dependencies
func NewAdminService(db DBClient, passwordConfig *config.PasswordConfig) *AdminService {
	return &AdminService{
		db:             db,
		passwordConfig: passwordConfig,
	}
}

// convertDBAdmin converts db.AdminUser to types.Admin, excluding the password hash
func convertDBAdmin(dbAdmin *db.AdminUser) *types.Admin {
	if dbAdmin == nil {
		return nil
	}
	return &types.Admin{
		ID:          dbAdmin.ID,
		Name:        dbAdmin.Name,
		Email:       dbAdmin.Email,
		Phone:       dbAdmin.Phone,
		PasswordSet: dbAdmin.PasswordSet,
		CreatedAt:   dbAdmin.CreatedAt,
		UpdatedAt:   dbAdmin.UpdatedAt,
	}
}

// Register creates a new admin account with password authentication
func (s *AdminService) Register(ctx context.Context, req *types.CreateAdminRequest) (*types.Admin, error) {
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Two-step: create the account, then set the password
	adminID, err := s.db.CreateAdmin(ctx, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	if err := s.db.UpdatePassword(ctx, adminID, passwordHash); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	dbAdmin, err := s.db.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created admin: %w", err)
	}
	if dbAdmin == nil {
		return nil, fmt.Errorf("created admin not found: %s", adminID)
	}

	return convertDBAdmin(dbAdmin), nil
}

// Login authenticates an admin and returns the account data
func (s *AdminService) Login(ctx context.Context, req *types.LoginRequest) (*types.Admin, error) {
	dbAdmin, err := s.db.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	// Always return the generic error whether the account is missing or the
	// password is wrong
	if dbAdmin == nil {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.passwordConfig.VerifyPassword(req.Password, dbAdmin.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if !dbAdmin.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}

	return convertDBAdmin(dbAdmin), nil
}

// UpdatePassword updates an admin's password
func (s *AdminService) UpdatePassword(ctx context.Context, adminID uuid.UUID, currentPassword, newPassword string) error {
	dbAdmin, err := s.db.GetAdmin(ctx, adminID)
	if err != nil {
		return fmt.Errorf("failed to get admin: %w", err)
	}
	if dbAdmin == nil {
		return &ErrAdminNotFound{AdminID: adminID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, dbAdmin.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.UpdatePassword(ctx, adminID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// GetProfile returns the admin's own account data
func (s *AdminService) GetProfile(ctx context.Context, adminID uuid.UUID) (*types.Admin, error) {
	dbAdmin, err := s.db.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if dbAdmin == nil {
		return nil, &ErrAdminNotFound{AdminID: adminID}
	}
	return convertDBAdmin(dbAdmin), nil
}

// UpdateProfile applies a partial update to the admin's own row and returns
// the updated account data
func (s *AdminService) UpdateProfile(ctx context.Context, adminID uuid.UUID, req *types.UpdateProfileRequest) (*types.Admin, error) {
	update := &db.ProfileUpdate{Name: req.Name, Phone: req.Phone}
	if err := s.db.UpdateProfile(ctx, adminID, update); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetProfile(ctx, adminID)
}
