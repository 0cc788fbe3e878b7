package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

// UserService handles accounts, roles and token issuance. Registration
// creates the credential row plus the linked domain record in one flow: a
// patient registration creates the patient, a doctor registration links an
// existing medecin.
type UserService struct {
	users    UserStore
	patients PatientStore
	medecins MedecinStore
	audit    AuditRecorder

	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewUserService(users UserStore, patients PatientStore, medecins MedecinStore, audit AuditRecorder, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		patients:  patients,
		medecins:  medecins,
		audit:     audit,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// RegisterPatient creates a patient account and its patient record.
func (s *UserService) RegisterPatient(ctx context.Context, req *models.RegistrationRequest) (*models.User, error) {
	if strings.TrimSpace(req.Nom) == "" {
		return nil, apperr.InvalidArgument("nom is required for patient registration")
	}
	user, err := s.register(ctx, req, models.RolePatient)
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{
		Nom:    strings.TrimSpace(req.Nom),
		UserID: &user.ID,
	}
	if req.DateNaissance != "" {
		parsed, err := parseDate(req.DateNaissance)
		if err != nil {
			return nil, err
		}
		patient.DateNaissance = *parsed
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterMedecin creates a doctor account linked to an existing medecin.
func (s *UserService) RegisterMedecin(ctx context.Context, req *models.RegistrationRequest) (*models.User, error) {
	if req.MedecinID == 0 {
		return nil, apperr.InvalidArgument("medecin_id is required for medecin registration")
	}
	medecin, err := s.medecins.GetByID(ctx, req.MedecinID)
	if err != nil {
		return nil, err
	}
	if medecin.UserID != nil {
		return nil, apperr.InvalidState("medecin %d already has an account", medecin.ID)
	}

	user, err := s.register(ctx, req, models.RoleMedecin)
	if err != nil {
		return nil, err
	}

	medecin.UserID = &user.ID
	if err := s.medecins.Update(ctx, medecin); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterAdmin creates an administrator account.
func (s *UserService) RegisterAdmin(ctx context.Context, req *models.RegistrationRequest) (*models.User, error) {
	return s.register(ctx, req, models.RoleAdmin)
}

func (s *UserService) register(ctx context.Context, req *models.RegistrationRequest, roleName string) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.InvalidArgument("username is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.InvalidArgument("password must be at least 8 characters")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.InvalidArgument("a valid email is required")
	}

	if taken, err := s.users.UsernameTaken(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.InvalidState("username %s is already taken", username)
	}
	if taken, err := s.users.EmailTaken(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.InvalidState("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := s.users.EnsureRole(ctx, roleName, "")
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Active:       true,
		Roles:        []models.Role{*role},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &models.AuditLog{
		UserID:       user.ID,
		Action:       "user.register",
		ResourceType: "user",
		ResourceID:   user.ID,
		Status:       "ok",
	})
	return user, nil
}

// Login verifies credentials and issues a signed token.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidArgument("invalid credentials")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperr.InvalidState("account %s is disabled", user.Username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.InvalidArgument("invalid credentials")
	}

	expiresAt := s.now().Add(s.tokenTTL)
	claims := models.JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ChangePassword replaces the user's password.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.InvalidArgument("password must be at least 8 characters")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.audit.Record(ctx, &models.AuditLog{
		UserID:       userID,
		Action:       "user.change_password",
		ResourceType: "user",
		ResourceID:   userID,
		Status:       "ok",
	})
	return nil
}

// SetActive enables or disables an account.
func (s *UserService) SetActive(ctx context.Context, userID uint, active bool) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GrantRole adds a role to a user.
func (s *UserService) GrantRole(ctx context.Context, userID uint, roleName string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasRole(roleName) {
		return user, nil
	}
	role, err := s.users.EnsureRole(ctx, roleName, "")
	if err != nil {
		return nil, err
	}
	if err := s.users.AddRole(ctx, user, role); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// RevokeRole removes a role from a user.
func (s *UserService) RevokeRole(ctx context.Context, userID uint, roleName string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(roleName) {
		return user, nil
	}
	role, err := s.users.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if err := s.users.RemoveRole(ctx, user, role); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
