package services

import (
	"context"
	"errors"
	"time"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/repository"
)

// RendezVousService schedules appointments. A slot is granted only when the
// patient and doctor exist, the doctor is taking appointments, the start is
// not in the past, and no other appointment of the doctor starts inside the
// requested half-open window. The final overlap check runs inside a database
// transaction so two concurrent requests cannot both win the same slot.
type RendezVousService struct {
	rendezVous RendezVousStore
	patients   PatientStore
	medecins   MedecinStore
	audit      AuditRecorder

	// strictTransitions enforces the status state machine where ANNULE and
	// TERMINE are terminal. Off by default, any known status is accepted.
	strictTransitions bool

	now func() time.Time
}

func NewRendezVousService(
	rendezVous RendezVousStore,
	patients PatientStore,
	medecins MedecinStore,
	audit AuditRecorder,
	strictTransitions bool,
) *RendezVousService {
	return &RendezVousService{
		rendezVous:        rendezVous,
		patients:          patients,
		medecins:          medecins,
		audit:             audit,
		strictTransitions: strictTransitions,
		now:               time.Now,
	}
}

func (s *RendezVousService) GetAll(ctx context.Context) ([]models.RendezVous, error) {
	return s.rendezVous.GetAll(ctx)
}

func (s *RendezVousService) GetByID(ctx context.Context, id uint) (*models.RendezVous, error) {
	return s.rendezVous.GetByID(ctx, id)
}

// Schedule books a new appointment. Checks run in a fixed order: patient
// found, doctor found, doctor available, start not in the past, slot free.
func (s *RendezVousService) Schedule(ctx context.Context, req *models.RendezVousRequest) (*models.RendezVous, error) {
	duree := req.Duree
	if duree == 0 {
		duree = 30
	}
	if duree < 0 {
		return nil, apperr.InvalidArgument("duree must be positive")
	}

	if exists, err := s.patients.Exists(ctx, req.PatientID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("patient %d not found", req.PatientID)
	}

	medecin, err := s.medecins.GetByID(ctx, req.MedecinID)
	if err != nil {
		return nil, err
	}
	if !medecin.Disponible {
		return nil, apperr.InvalidState("medecin %d is not taking appointments", medecin.ID)
	}

	// Only a strictly past start is refused; starting right now is allowed.
	if req.DateHeure.Before(s.now()) {
		return nil, apperr.InvalidArgument("date_heure cannot be in the past")
	}

	rdv := &models.RendezVous{
		DateHeure: req.DateHeure,
		PatientID: req.PatientID,
		MedecinID: req.MedecinID,
		Motif:     req.Motif,
		Duree:     duree,
		Statut:    models.RendezVousPlanifie,
		Notes:     req.Notes,
	}
	if err := s.rendezVous.CreateIfSlotFree(ctx, rdv); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, apperr.InvalidState(
				"medecin %d already has an appointment in this slot", req.MedecinID)
		}
		return nil, err
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "rendezvous.schedule",
		ResourceType: "rendezvous",
		ResourceID:   rdv.ID,
		Status:       "ok",
	})
	return rdv, nil
}

// Update changes the details of an existing appointment. Moving it to a new
// time re-runs the overlap check against the doctor's other appointments.
func (s *RendezVousService) Update(ctx context.Context, id uint, req *models.RendezVousRequest) (*models.RendezVous, error) {
	rdv, err := s.rendezVous.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	duree := req.Duree
	if duree == 0 {
		duree = rdv.Duree
	}
	if duree < 0 {
		return nil, apperr.InvalidArgument("duree must be positive")
	}

	medecinID := rdv.MedecinID
	if req.MedecinID != 0 {
		medecin, err := s.medecins.GetByID(ctx, req.MedecinID)
		if err != nil {
			return nil, err
		}
		if !medecin.Disponible {
			return nil, apperr.InvalidState("medecin %d is not taking appointments", medecin.ID)
		}
		medecinID = medecin.ID
	}

	dateHeure := rdv.DateHeure
	if !req.DateHeure.IsZero() {
		dateHeure = req.DateHeure
	}

	moved := !dateHeure.Equal(rdv.DateHeure) || medecinID != rdv.MedecinID || duree != rdv.Duree
	if moved {
		fin := dateHeure.Add(time.Duration(duree) * time.Minute)
		taken, err := s.rendezVous.ExistsOverlapping(ctx, medecinID, dateHeure, fin)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.InvalidState(
				"medecin %d already has an appointment in this slot", medecinID)
		}
	}

	rdv.DateHeure = dateHeure
	rdv.MedecinID = medecinID
	rdv.Duree = duree
	if req.PatientID != 0 {
		if exists, err := s.patients.Exists(ctx, req.PatientID); err != nil {
			return nil, err
		} else if !exists {
			return nil, apperr.NotFound("patient %d not found", req.PatientID)
		}
		rdv.PatientID = req.PatientID
	}
	if req.Motif != "" {
		rdv.Motif = req.Motif
	}
	if req.Notes != "" {
		rdv.Notes = req.Notes
	}

	if err := s.rendezVous.Update(ctx, rdv); err != nil {
		return nil, err
	}
	return rdv, nil
}

// UpdateStatut changes the lifecycle status of an appointment. With strict
// transitions enabled, terminal states reject any further change.
func (s *RendezVousService) UpdateStatut(ctx context.Context, id uint, statut models.StatutRendezVous) (*models.RendezVous, error) {
	if !statut.Valid() {
		return nil, apperr.InvalidArgument("unknown rendez-vous status %q", statut)
	}
	rdv, err := s.rendezVous.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.strictTransitions && !rdv.Statut.CanTransitionTo(statut) {
		return nil, apperr.InvalidState(
			"rendez-vous %d cannot go from %s to %s", id, rdv.Statut, statut)
	}
	rdv.Statut = statut
	if err := s.rendezVous.Update(ctx, rdv); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "rendezvous.update_statut",
		ResourceType: "rendezvous",
		ResourceID:   id,
		Status:       "ok",
	})
	return rdv, nil
}

func (s *RendezVousService) Delete(ctx context.Context, id uint) error {
	if _, err := s.rendezVous.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.rendezVous.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "rendezvous.delete",
		ResourceType: "rendezvous",
		ResourceID:   id,
		Status:       "ok",
	})
	return nil
}

// IsMedecinDisponible reports whether the doctor could take an appointment
// over the given window.
func (s *RendezVousService) IsMedecinDisponible(ctx context.Context, medecinID uint, debut, fin time.Time) (bool, error) {
	medecin, err := s.medecins.GetByID(ctx, medecinID)
	if err != nil {
		return false, err
	}
	if !medecin.Disponible {
		return false, nil
	}
	taken, err := s.rendezVous.ExistsOverlapping(ctx, medecinID, debut, fin)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *RendezVousService) GetByPatient(ctx context.Context, patientID uint) ([]models.RendezVous, error) {
	if exists, err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("patient %d not found", patientID)
	}
	return s.rendezVous.GetByPatient(ctx, patientID)
}

func (s *RendezVousService) GetByMedecin(ctx context.Context, medecinID uint) ([]models.RendezVous, error) {
	if exists, err := s.medecins.Exists(ctx, medecinID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("medecin %d not found", medecinID)
	}
	return s.rendezVous.GetByMedecin(ctx, medecinID)
}

func (s *RendezVousService) GetByMedecinAndStatut(ctx context.Context, medecinID uint, statut models.StatutRendezVous) ([]models.RendezVous, error) {
	if !statut.Valid() {
		return nil, apperr.InvalidArgument("unknown rendez-vous status %q", statut)
	}
	return s.rendezVous.GetByMedecinAndStatut(ctx, medecinID, statut)
}

func (s *RendezVousService) GetByPeriode(ctx context.Context, debut, fin time.Time) ([]models.RendezVous, error) {
	if fin.Before(debut) {
		return nil, apperr.InvalidArgument("fin cannot be before debut")
	}
	return s.rendezVous.GetByPeriode(ctx, debut, fin)
}

// GetPlanningMedecin returns the doctor's appointments over a period.
func (s *RendezVousService) GetPlanningMedecin(ctx context.Context, medecinID uint, debut, fin time.Time) ([]models.RendezVous, error) {
	if fin.Before(debut) {
		return nil, apperr.InvalidArgument("fin cannot be before debut")
	}
	if exists, err := s.medecins.Exists(ctx, medecinID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("medecin %d not found", medecinID)
	}
	return s.rendezVous.GetByMedecinAndPeriode(ctx, medecinID, debut, fin)
}

// GetDuJour returns today's non-cancelled appointments.
func (s *RendezVousService) GetDuJour(ctx context.Context) ([]models.RendezVous, error) {
	return s.rendezVous.GetDuJour(ctx, s.now())
}
