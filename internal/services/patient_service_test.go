package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

func TestPatientCreateParsesDateNaissance(t *testing.T) {
	ctx := context.Background()
	svc := NewPatientService(newFakePatientStore(), NopAudit())

	patient, err := svc.Create(ctx, &models.PatientRequest{
		Nom:           "  Durand  ",
		DateNaissance: "1990-06-15",
		Malade:        true,
		Score:         110,
	})
	require.NoError(t, err)
	assert.Equal(t, "Durand", patient.Nom)
	assert.Equal(t, time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), patient.DateNaissance)
	assert.True(t, patient.IsHighRisk())
}

func TestPatientCreateNomValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewPatientService(newFakePatientStore(), NopAudit())

	cases := []struct {
		name string
		nom  string
		ok   bool
	}{
		{"blank", "   ", false},
		{"too short", "Ali", false},
		{"minimum length", "Remy", true},
		{"too long", "Dupont de la Rochefoucauld", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &models.PatientRequest{Nom: tc.nom})
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsInvalidArgument(err))
			}
		})
	}
}

func TestPatientCreateRejectsBadDate(t *testing.T) {
	ctx := context.Background()
	svc := NewPatientService(newFakePatientStore(), NopAudit())

	_, err := svc.Create(ctx, &models.PatientRequest{Nom: "Durand", DateNaissance: "15/06/1990"})
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestPatientUpdateUnknown(t *testing.T) {
	ctx := context.Background()
	svc := NewPatientService(newFakePatientStore(), NopAudit())

	_, err := svc.Update(ctx, 42, &models.PatientRequest{Nom: "Durand"})
	assert.True(t, apperr.IsNotFound(err))
}
