package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role names known to the system.
const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleMedecin = "ROLE_MEDECIN"
	RolePatient = "ROLE_PATIENT"
)

// Role is a named permission group.
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description,omitempty"`
}

// TableName overrides the table name
func (Role) TableName() string {
	return "roles"
}

// User is a credential holder. A user may back exactly one patient or one
// medecin; those rows hold the user foreign key.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Active       bool   `gorm:"default:true" json:"active"`
	Roles        []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool   { return u.HasRole(RoleAdmin) }
func (u *User) IsMedecin() bool { return u.HasRole(RoleMedecin) }
func (u *User) IsPatient() bool { return u.HasRole(RolePatient) }

// RoleNames returns the user's role names.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// JWTClaims represents custom JWT claims
type JWTClaims struct {
	UserID   uint     `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserContext is the authenticated identity carried in the request context.
type UserContext struct {
	UserID   uint
	Username string
	Roles    []string
}

// HasRole reports whether the identity carries the named role.
func (c *UserContext) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// RegistrationRequest is the payload for creating a new account.
type RegistrationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`

	// Patient registration only.
	Nom           string `json:"nom,omitempty"`
	DateNaissance string `json:"date_naissance,omitempty"` // yyyy-mm-dd

	// Medecin registration only: the existing doctor to link.
	MedecinID uint `json:"medecin_id,omitempty"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordChangeRequest is the payload for changing a password.
type PasswordChangeRequest struct {
	NewPassword string `json:"new_password"`
}
