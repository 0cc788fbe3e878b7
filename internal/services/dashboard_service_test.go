package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalms/hospital-api/internal/cache"
	"github.com/hospitalms/hospital-api/internal/models"
)

func TestDashboardStatsComputedAndCached(t *testing.T) {
	ctx := context.Background()
	patients := newFakePatientStore()
	medecins := newFakeMedecinStore()
	departements := newFakeDepartementStore()
	medicaments := newFakeMedicamentStore()
	prescriptions := newFakePrescriptionStore()
	rendezVous := newFakeRendezVousStore()
	mc := cache.NewMemoryCache()
	defer mc.Close()

	require.NoError(t, patients.Create(ctx, &models.Patient{Nom: "Durand", Malade: true}))
	require.NoError(t, patients.Create(ctx, &models.Patient{Nom: "Martin"}))
	require.NoError(t, medecins.Create(ctx, &models.Medecin{Nom: "Moreau", Matricule: "MED-1", Disponible: true}))
	require.NoError(t, medicaments.Create(ctx, &models.Medicament{Nom: "Doliprane", Dci: "Paracetamol", QuantiteStock: 1, SeuilAlerte: 5}))

	svc := NewDashboardService(patients, medecins, departements, medicaments, prescriptions, rendezVous, mc, time.Minute)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPatients)
	assert.Equal(t, int64(1), stats.PatientsMalades)
	assert.Equal(t, int64(1), stats.TotalMedecins)
	assert.Equal(t, int64(1), stats.MedicamentsEnAlerte)

	// A second read inside the TTL serves the cached snapshot.
	require.NoError(t, patients.Create(ctx, &models.Patient{Nom: "Petit"}))
	stats, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPatients)
}
