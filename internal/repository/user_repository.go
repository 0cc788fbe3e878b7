package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/database"
	"github.com/hospitalms/hospital-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository handles user and role database operations
type UserRepository struct{}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByID retrieves a user with roles by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).
		Preload("Roles").
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByUsername retrieves a user with roles by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).
		Preload("Roles").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %q not found", username)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := database.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update saves an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := database.DB.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UsernameTaken reports whether the username is already registered
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// EmailTaken reports whether the email is already registered
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// GetRoleByName retrieves a role by name
func (r *UserRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := database.DB.WithContext(ctx).
		Where("name = ?", name).
		First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("role %q not found", name)
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &role, nil
}

// EnsureRole fetches a role by name, creating it when missing
func (r *UserRepository) EnsureRole(ctx context.Context, name, description string) (*models.Role, error) {
	role, err := r.GetRoleByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}
	role = &models.Role{Name: name, Description: description}
	if err := database.DB.WithContext(ctx).Create(role).Error; err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// AddRole attaches a role to a user
func (r *UserRepository) AddRole(ctx context.Context, user *models.User, role *models.Role) error {
	if err := database.DB.WithContext(ctx).
		Model(user).
		Association("Roles").
		Append(role); err != nil {
		return fmt.Errorf("failed to add role: %w", err)
	}
	return nil
}

// RemoveRole detaches a role from a user
func (r *UserRepository) RemoveRole(ctx context.Context, user *models.User, role *models.Role) error {
	if err := database.DB.WithContext(ctx).
		Model(user).
		Association("Roles").
		Delete(role); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	return nil
}
