package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

func TestAssignChefMovesMedecinIntoDepartement(t *testing.T) {
	ctx := context.Background()
	departements := newFakeDepartementStore()
	medecins := newFakeMedecinStore()
	svc := NewDepartementService(departements, medecins, NopAudit())

	cardio, err := svc.Create(ctx, &models.DepartementRequest{Nom: "Cardiologie", CapaciteLits: 40})
	require.NoError(t, err)
	autre := uint(99)
	medecin := &models.Medecin{Nom: "Moreau", Prenom: "Claire", Matricule: "MED-1", DepartementID: &autre}
	require.NoError(t, medecins.Create(ctx, medecin))

	got, err := svc.AssignChef(ctx, cardio.ID, medecin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ChefDepartementID)
	assert.Equal(t, medecin.ID, *got.ChefDepartementID)

	// The chief was moved into the department they lead.
	m, err := medecins.GetByID(ctx, medecin.ID)
	require.NoError(t, err)
	require.NotNil(t, m.DepartementID)
	assert.Equal(t, cardio.ID, *m.DepartementID)
}

func TestAssignChefUnknownTargets(t *testing.T) {
	ctx := context.Background()
	departements := newFakeDepartementStore()
	medecins := newFakeMedecinStore()
	svc := NewDepartementService(departements, medecins, NopAudit())

	cardio, err := svc.Create(ctx, &models.DepartementRequest{Nom: "Cardiologie"})
	require.NoError(t, err)

	_, err = svc.AssignChef(ctx, 999, 1)
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.AssignChef(ctx, cardio.ID, 999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteDepartementWithMedecinsRefused(t *testing.T) {
	ctx := context.Background()
	departements := newFakeDepartementStore()
	medecins := newFakeMedecinStore()
	svc := NewDepartementService(departements, medecins, NopAudit())

	cardio, err := svc.Create(ctx, &models.DepartementRequest{Nom: "Cardiologie"})
	require.NoError(t, err)
	medecin := &models.Medecin{Nom: "Moreau", Matricule: "MED-1", DepartementID: &cardio.ID}
	require.NoError(t, medecins.Create(ctx, medecin))

	err = svc.Delete(ctx, cardio.ID)
	assert.True(t, apperr.IsInvalidState(err))

	medecin.DepartementID = nil
	require.NoError(t, medecins.Update(ctx, medecin))
	assert.NoError(t, svc.Delete(ctx, cardio.ID))
}

func TestCreateDepartementValidation(t *testing.T) {
	svc := NewDepartementService(newFakeDepartementStore(), newFakeMedecinStore(), NopAudit())

	_, err := svc.Create(context.Background(), &models.DepartementRequest{Nom: "  "})
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = svc.Create(context.Background(), &models.DepartementRequest{Nom: "Cardiologie", CapaciteLits: -1})
	assert.True(t, apperr.IsInvalidArgument(err))

	d, err := svc.Create(context.Background(), &models.DepartementRequest{Nom: "Cardiologie"})
	require.NoError(t, err)
	assert.True(t, d.Actif)
}
