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

type rendezVousFixture struct {
	svc      *RendezVousService
	medecins *fakeMedecinStore

	patientID uint
	medecinID uint
}

func newRendezVousFixture(t *testing.T, strict bool) *rendezVousFixture {
	t.Helper()
	ctx := context.Background()

	patients := newFakePatientStore()
	medecins := newFakeMedecinStore()
	rendezVous := newFakeRendezVousStore()

	patient := &models.Patient{Nom: "Durand"}
	require.NoError(t, patients.Create(ctx, patient))
	medecin := &models.Medecin{Nom: "Moreau", Prenom: "Claire", Matricule: "MED-1", Disponible: true}
	require.NoError(t, medecins.Create(ctx, medecin))

	svc := NewRendezVousService(rendezVous, patients, medecins, NopAudit(), strict)

	return &rendezVousFixture{
		svc:       svc,
		medecins:  medecins,
		patientID: patient.ID,
		medecinID: medecin.ID,
	}
}

func (f *rendezVousFixture) schedule(t *testing.T, start time.Time, duree int) *models.RendezVous {
	t.Helper()
	rdv, err := f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: start,
		PatientID: f.patientID,
		MedecinID: f.medecinID,
		Duree:     duree,
	})
	require.NoError(t, err)
	return rdv
}

func tomorrowAt(hour, min int) time.Time {
	t := time.Now().AddDate(0, 0, 1)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, time.UTC)
}

func TestScheduleDefaults(t *testing.T) {
	f := newRendezVousFixture(t, false)
	rdv := f.schedule(t, tomorrowAt(9, 0), 0)

	assert.Equal(t, models.RendezVousPlanifie, rdv.Statut)
	assert.Equal(t, 30, rdv.Duree)
}

func TestScheduleUnknownPatient(t *testing.T) {
	f := newRendezVousFixture(t, false)

	_, err := f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: tomorrowAt(9, 0), PatientID: 999, MedecinID: f.medecinID,
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestScheduleUnavailableMedecin(t *testing.T) {
	f := newRendezVousFixture(t, false)

	m, err := f.medecins.GetByID(context.Background(), f.medecinID)
	require.NoError(t, err)
	m.Disponible = false
	require.NoError(t, f.medecins.Update(context.Background(), m))

	_, err = f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: tomorrowAt(9, 0), PatientID: f.patientID, MedecinID: f.medecinID,
	})
	assert.True(t, apperr.IsInvalidState(err))
}

func TestSchedulePastDateRejected(t *testing.T) {
	f := newRendezVousFixture(t, false)

	_, err := f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: time.Now().Add(-time.Hour), PatientID: f.patientID, MedecinID: f.medecinID,
	})
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestScheduleAtExactCurrentInstant(t *testing.T) {
	f := newRendezVousFixture(t, false)
	now := tomorrowAt(9, 0)
	f.svc.now = func() time.Time { return now }

	// A walk-in booked for right now is legitimate; only the past is refused.
	rdv, err := f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: now, PatientID: f.patientID, MedecinID: f.medecinID,
	})
	require.NoError(t, err)
	assert.True(t, rdv.DateHeure.Equal(now))

	_, err = f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: now.Add(-time.Second), PatientID: f.patientID, MedecinID: f.medecinID,
	})
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestScheduleOverlapHalfOpenWindow(t *testing.T) {
	f := newRendezVousFixture(t, false)
	f.schedule(t, tomorrowAt(9, 0), 30)

	// A start inside [09:00, 09:30) is refused.
	_, err := f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: tomorrowAt(9, 15), PatientID: f.patientID, MedecinID: f.medecinID, Duree: 30,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidState(err))

	// A start exactly at the end of the window is fine.
	_, err = f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: tomorrowAt(9, 30), PatientID: f.patientID, MedecinID: f.medecinID, Duree: 30,
	})
	assert.NoError(t, err)
}

func TestScheduleExistingStartInsideNewWindow(t *testing.T) {
	f := newRendezVousFixture(t, false)
	f.schedule(t, tomorrowAt(10, 0), 30)

	// The new window [09:45, 10:45) contains the existing 10:00 start.
	_, err := f.svc.Schedule(context.Background(), &models.RendezVousRequest{
		DateHeure: tomorrowAt(9, 45), PatientID: f.patientID, MedecinID: f.medecinID, Duree: 60,
	})
	assert.True(t, apperr.IsInvalidState(err))
}

func TestUpdateStatutFreeByDefault(t *testing.T) {
	f := newRendezVousFixture(t, false)
	rdv := f.schedule(t, tomorrowAt(9, 0), 30)

	_, err := f.svc.UpdateStatut(context.Background(), rdv.ID, models.RendezVousTermine)
	require.NoError(t, err)

	// Without strict transitions a terminal status can still change.
	got, err := f.svc.UpdateStatut(context.Background(), rdv.ID, models.RendezVousConfirme)
	require.NoError(t, err)
	assert.Equal(t, models.RendezVousConfirme, got.Statut)
}

func TestUpdateStatutStrictTransitions(t *testing.T) {
	f := newRendezVousFixture(t, true)
	rdv := f.schedule(t, tomorrowAt(9, 0), 30)

	got, err := f.svc.UpdateStatut(context.Background(), rdv.ID, models.RendezVousConfirme)
	require.NoError(t, err)
	assert.Equal(t, models.RendezVousConfirme, got.Statut)

	// CONFIRME cannot go back to PLANIFIE.
	_, err = f.svc.UpdateStatut(context.Background(), rdv.ID, models.RendezVousPlanifie)
	assert.True(t, apperr.IsInvalidState(err))

	_, err = f.svc.UpdateStatut(context.Background(), rdv.ID, models.RendezVousTermine)
	require.NoError(t, err)

	// TERMINE is terminal.
	_, err = f.svc.UpdateStatut(context.Background(), rdv.ID, models.RendezVousAnnule)
	assert.True(t, apperr.IsInvalidState(err))
}

func TestUpdateStatutUnknownValue(t *testing.T) {
	f := newRendezVousFixture(t, false)
	rdv := f.schedule(t, tomorrowAt(9, 0), 30)

	_, err := f.svc.UpdateStatut(context.Background(), rdv.ID, "REPORTE")
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestIsMedecinDisponible(t *testing.T) {
	f := newRendezVousFixture(t, false)
	f.schedule(t, tomorrowAt(9, 0), 30)

	free, err := f.svc.IsMedecinDisponible(context.Background(), f.medecinID, tomorrowAt(9, 0), tomorrowAt(9, 30))
	require.NoError(t, err)
	assert.False(t, free)

	free, err = f.svc.IsMedecinDisponible(context.Background(), f.medecinID, tomorrowAt(11, 0), tomorrowAt(11, 30))
	require.NoError(t, err)
	assert.True(t, free)
}

func TestUpdateMoveChecksOverlap(t *testing.T) {
	f := newRendezVousFixture(t, false)
	first := f.schedule(t, tomorrowAt(9, 0), 30)
	second := f.schedule(t, tomorrowAt(10, 0), 30)

	_, err := f.svc.Update(context.Background(), second.ID, &models.RendezVousRequest{
		DateHeure: first.DateHeure,
	})
	assert.True(t, apperr.IsInvalidState(err))
}
