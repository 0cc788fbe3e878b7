package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

const testSecret = "test-secret-not-for-production"

func newUserFixture(t *testing.T) (*UserService, *fakeUserStore, *fakePatientStore, *fakeMedecinStore) {
	t.Helper()
	users := newFakeUserStore()
	patients := newFakePatientStore()
	medecins := newFakeMedecinStore()
	svc := NewUserService(users, patients, medecins, NopAudit(), testSecret, time.Hour)
	return svc, users, patients, medecins
}

func TestRegisterPatientCreatesRecord(t *testing.T) {
	svc, _, patients, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.RegisterPatient(ctx, &models.RegistrationRequest{
		Username:      "jdurand",
		Password:      "longenough1",
		Email:         "j.durand@example.org",
		Nom:           "Durand",
		DateNaissance: "1990-05-20",
	})
	require.NoError(t, err)
	assert.True(t, user.HasRole(models.RolePatient))

	all, err := patients.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].UserID)
	assert.Equal(t, user.ID, *all[0].UserID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.RegisterAdmin(ctx, &models.RegistrationRequest{Username: "", Password: "longenough1", Email: "a@b.c"})
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = svc.RegisterAdmin(ctx, &models.RegistrationRequest{Username: "admin", Password: "short", Email: "a@b.c"})
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = svc.RegisterAdmin(ctx, &models.RegistrationRequest{Username: "admin", Password: "longenough1", Email: "not-an-email"})
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	req := &models.RegistrationRequest{Username: "admin", Password: "longenough1", Email: "a@b.c"}
	_, err := svc.RegisterAdmin(ctx, req)
	require.NoError(t, err)

	req2 := &models.RegistrationRequest{Username: "admin", Password: "longenough1", Email: "other@b.c"}
	_, err = svc.RegisterAdmin(ctx, req2)
	assert.True(t, apperr.IsInvalidState(err))
}

func TestRegisterMedecinLinksExistingDoctor(t *testing.T) {
	svc, _, _, medecins := newUserFixture(t)
	ctx := context.Background()

	medecin := &models.Medecin{Nom: "Moreau", Matricule: "MED-1"}
	require.NoError(t, medecins.Create(ctx, medecin))

	user, err := svc.RegisterMedecin(ctx, &models.RegistrationRequest{
		Username: "cmoreau", Password: "longenough1", Email: "c@h.fr", MedecinID: medecin.ID,
	})
	require.NoError(t, err)

	m, err := medecins.GetByID(ctx, medecin.ID)
	require.NoError(t, err)
	require.NotNil(t, m.UserID)
	assert.Equal(t, user.ID, *m.UserID)

	// The same doctor cannot be linked twice.
	_, err = svc.RegisterMedecin(ctx, &models.RegistrationRequest{
		Username: "other", Password: "longenough1", Email: "o@h.fr", MedecinID: medecin.ID,
	})
	assert.True(t, apperr.IsInvalidState(err))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.RegisterAdmin(ctx, &models.RegistrationRequest{Username: "admin", Password: "longenough1", Email: "a@b.c"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &models.LoginRequest{Username: "admin", Password: "longenough1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "admin", claims.Username)
	assert.Contains(t, claims.Roles, models.RoleAdmin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.RegisterAdmin(ctx, &models.RegistrationRequest{Username: "admin", Password: "longenough1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "admin", Password: "wrong"})
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.True(t, apperr.IsInvalidArgument(err), "unknown user answers like a bad password")
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.RegisterAdmin(ctx, &models.RegistrationRequest{Username: "admin", Password: "longenough1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, user.ID, false)
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "admin", Password: "longenough1"})
	assert.True(t, apperr.IsInvalidState(err))
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.RegisterAdmin(ctx, &models.RegistrationRequest{Username: "admin", Password: "longenough1", Email: "a@b.c"})
	require.NoError(t, err)

	assert.True(t, apperr.IsInvalidArgument(svc.ChangePassword(ctx, user.ID, "short")))
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "evenlonger2"))

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "admin", Password: "longenough1"})
	assert.Error(t, err)
	_, err = svc.Login(ctx, &models.LoginRequest{Username: "admin", Password: "evenlonger2"})
	assert.NoError(t, err)
}

func TestGrantAndRevokeRole(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.RegisterPatient(ctx, &models.RegistrationRequest{
		Username: "jdurand", Password: "longenough1", Email: "j@b.c", Nom: "Durand",
	})
	require.NoError(t, err)

	got, err := svc.GrantRole(ctx, user.ID, models.RoleMedecin)
	require.NoError(t, err)
	assert.True(t, got.HasRole(models.RoleMedecin))

	got, err = svc.RevokeRole(ctx, user.ID, models.RoleMedecin)
	require.NoError(t, err)
	assert.False(t, got.HasRole(models.RoleMedecin))
	assert.True(t, got.HasRole(models.RolePatient))
}
