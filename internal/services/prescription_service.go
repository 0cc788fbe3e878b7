package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

// StockAdjuster draws down or restores medication stock. Satisfied by
// MedicamentService.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, id uint, delta int) (*models.Medicament, error)
}

// PrescriptionService manages prescriptions and their lines. Lines can only
// be attached to or removed from an ACTIVE prescription, and only for
// medications that are available with enough stock at the time of writing.
type PrescriptionService struct {
	prescriptions PrescriptionStore
	lignes        LigneStore
	patients      PatientStore
	medecins      MedecinStore
	medicaments   MedicamentStore
	stock         StockAdjuster
	audit         AuditRecorder

	// decrementStock draws pharmacy stock down when a line is added and
	// restores it when the line is removed. Off by default: a prescription
	// is a reference document, dispensing happens at the pharmacy counter.
	decrementStock bool

	now func() time.Time
}

func NewPrescriptionService(
	prescriptions PrescriptionStore,
	lignes LigneStore,
	patients PatientStore,
	medecins MedecinStore,
	medicaments MedicamentStore,
	stock StockAdjuster,
	audit AuditRecorder,
	decrementStock bool,
) *PrescriptionService {
	return &PrescriptionService{
		prescriptions:  prescriptions,
		lignes:         lignes,
		patients:       patients,
		medecins:       medecins,
		medicaments:    medicaments,
		stock:          stock,
		audit:          audit,
		decrementStock: decrementStock,
		now:            time.Now,
	}
}

func (s *PrescriptionService) GetAll(ctx context.Context) ([]models.Prescription, error) {
	return s.prescriptions.GetAll(ctx)
}

func (s *PrescriptionService) GetByID(ctx context.Context, id uint) (*models.Prescription, error) {
	return s.prescriptions.GetByID(ctx, id)
}

func (s *PrescriptionService) Create(ctx context.Context, req *models.PrescriptionRequest) (*models.Prescription, error) {
	if exists, err := s.patients.Exists(ctx, req.PatientID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("patient %d not found", req.PatientID)
	}
	if exists, err := s.medecins.Exists(ctx, req.MedecinID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("medecin %d not found", req.MedecinID)
	}

	date := s.today()
	if req.DatePrescription != "" {
		parsed, err := parseDate(req.DatePrescription)
		if err != nil {
			return nil, err
		}
		date = *parsed
	}
	if date.After(s.today()) {
		return nil, apperr.InvalidArgument("date_prescription cannot be in the future")
	}

	duree := req.DureeValidite
	if duree == 0 {
		duree = 30
	}
	if duree < 0 {
		return nil, apperr.InvalidArgument("duree_validite must be positive")
	}

	prescription := &models.Prescription{
		DatePrescription: date,
		PatientID:        req.PatientID,
		MedecinID:        req.MedecinID,
		DureeValidite:    duree,
		Statut:           models.PrescriptionActive,
		Observations:     req.Observations,
	}
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "prescription.create",
		ResourceType: "prescription",
		ResourceID:   prescription.ID,
		Status:       "ok",
	})
	return prescription, nil
}

// Update rewrites the prescription header. Lines are managed through
// AddLigne and RemoveLigne, never here.
func (s *PrescriptionService) Update(ctx context.Context, id uint, req *models.PrescriptionRequest) (*models.Prescription, error) {
	prescription, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if exists, err := s.patients.Exists(ctx, req.PatientID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("patient %d not found", req.PatientID)
	}
	if exists, err := s.medecins.Exists(ctx, req.MedecinID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("medecin %d not found", req.MedecinID)
	}

	if req.DatePrescription != "" {
		parsed, err := parseDate(req.DatePrescription)
		if err != nil {
			return nil, err
		}
		if parsed.After(s.today()) {
			return nil, apperr.InvalidArgument("date_prescription cannot be in the future")
		}
		prescription.DatePrescription = *parsed
	}
	if req.DureeValidite != 0 {
		if req.DureeValidite < 0 {
			return nil, apperr.InvalidArgument("duree_validite must be positive")
		}
		prescription.DureeValidite = req.DureeValidite
	}
	prescription.PatientID = req.PatientID
	prescription.MedecinID = req.MedecinID
	prescription.Observations = req.Observations

	if err := s.prescriptions.Update(ctx, prescription); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "prescription.update",
		ResourceType: "prescription",
		ResourceID:   prescription.ID,
		Status:       "ok",
	})
	return prescription, nil
}

func (s *PrescriptionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.prescriptions.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.prescriptions.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "prescription.delete",
		ResourceType: "prescription",
		ResourceID:   id,
		Status:       "ok",
	})
	return nil
}

// AddLigne attaches a medication line to a prescription. Checks run in a
// fixed order so callers always get the same failure for the same state:
// prescription found, prescription ACTIVE, medication not already on it,
// medication found, medication available, enough stock for the quantity.
func (s *PrescriptionService) AddLigne(ctx context.Context, prescriptionID uint, req *models.LigneRequest) (*models.LignePrescription, error) {
	if err := validateLigneRequest(req); err != nil {
		return nil, err
	}

	prescription, err := s.prescriptions.GetByID(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	if prescription.Statut != models.PrescriptionActive {
		return nil, apperr.InvalidState(
			"prescription %d is %s, lines can only be added to an ACTIVE prescription",
			prescriptionID, prescription.Statut)
	}

	exists, err := s.lignes.ExistsByPrescriptionAndMedicament(ctx, prescriptionID, req.MedicamentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.InvalidState(
			"medicament %d is already on prescription %d", req.MedicamentID, prescriptionID)
	}

	medicament, err := s.medicaments.GetByID(ctx, req.MedicamentID)
	if err != nil {
		return nil, err
	}
	if !medicament.Disponible {
		return nil, apperr.InvalidState("medicament %d is not available", medicament.ID)
	}
	if medicament.QuantiteStock < req.Quantite {
		return nil, apperr.InvalidState(
			"insufficient stock for medicament %d: have %d, need %d",
			medicament.ID, medicament.QuantiteStock, req.Quantite)
	}

	ligne := &models.LignePrescription{
		PrescriptionID:        prescriptionID,
		MedicamentID:          req.MedicamentID,
		Posologie:             strings.TrimSpace(req.Posologie),
		DureeTraitement:       req.DureeTraitement,
		Instructions:          req.Instructions,
		MomentPrise:           req.MomentPrise,
		Quantite:              req.Quantite,
		SubstitutionAutorisee: true,
	}
	if req.SubstitutionAutorisee != nil {
		ligne.SubstitutionAutorisee = *req.SubstitutionAutorisee
	}
	if err := s.lignes.Create(ctx, ligne); err != nil {
		return nil, err
	}

	if s.decrementStock {
		if _, err := s.stock.AdjustStock(ctx, req.MedicamentID, -req.Quantite); err != nil {
			log.Error().Err(err).
				Uint("prescription_id", prescriptionID).
				Uint("medicament_id", req.MedicamentID).
				Msg("failed to decrement stock after adding prescription line")
		}
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "prescription.add_ligne",
		ResourceType: "prescription",
		ResourceID:   prescriptionID,
		Status:       "ok",
	})
	return ligne, nil
}

// RemoveLigne detaches a line from its prescription, only while ACTIVE.
func (s *PrescriptionService) RemoveLigne(ctx context.Context, prescriptionID, ligneID uint) error {
	prescription, err := s.prescriptions.GetByID(ctx, prescriptionID)
	if err != nil {
		return err
	}
	if prescription.Statut != models.PrescriptionActive {
		return apperr.InvalidState(
			"prescription %d is %s, lines can only be removed from an ACTIVE prescription",
			prescriptionID, prescription.Statut)
	}

	ligne, err := s.lignes.GetByID(ctx, ligneID)
	if err != nil {
		return err
	}
	if ligne.PrescriptionID != prescriptionID {
		return apperr.NotFound("ligne %d not found on prescription %d", ligneID, prescriptionID)
	}

	if err := s.lignes.Delete(ctx, ligneID); err != nil {
		return err
	}

	if s.decrementStock {
		if _, err := s.stock.AdjustStock(ctx, ligne.MedicamentID, ligne.Quantite); err != nil {
			log.Error().Err(err).
				Uint("prescription_id", prescriptionID).
				Uint("medicament_id", ligne.MedicamentID).
				Msg("failed to restore stock after removing prescription line")
		}
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "prescription.remove_ligne",
		ResourceType: "prescription",
		ResourceID:   prescriptionID,
		Status:       "ok",
	})
	return nil
}

func (s *PrescriptionService) GetLignes(ctx context.Context, prescriptionID uint) ([]models.LignePrescription, error) {
	if _, err := s.prescriptions.GetByID(ctx, prescriptionID); err != nil {
		return nil, err
	}
	return s.lignes.GetByPrescription(ctx, prescriptionID)
}

// UpdateStatut changes the lifecycle status of a prescription.
func (s *PrescriptionService) UpdateStatut(ctx context.Context, id uint, statut models.StatutPrescription) (*models.Prescription, error) {
	if !statut.Valid() {
		return nil, apperr.InvalidArgument("unknown prescription status %q", statut)
	}
	prescription, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prescription.Statut = statut
	if err := s.prescriptions.Update(ctx, prescription); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "prescription.update_statut",
		ResourceType: "prescription",
		ResourceID:   id,
		Status:       "ok",
	})
	return prescription, nil
}

// IsValide reports whether the prescription can still be dispensed today.
func (s *PrescriptionService) IsValide(ctx context.Context, id uint) (bool, error) {
	prescription, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return prescription.IsValide(s.now()), nil
}

func (s *PrescriptionService) GetByPatient(ctx context.Context, patientID uint) ([]models.Prescription, error) {
	if exists, err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("patient %d not found", patientID)
	}
	return s.prescriptions.GetByPatient(ctx, patientID)
}

func (s *PrescriptionService) GetByMedecin(ctx context.Context, medecinID uint) ([]models.Prescription, error) {
	if exists, err := s.medecins.Exists(ctx, medecinID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperr.NotFound("medecin %d not found", medecinID)
	}
	return s.prescriptions.GetByMedecin(ctx, medecinID)
}

// GetActivesByPatient lists the patient's prescriptions that are still valid
// for dispensing today.
func (s *PrescriptionService) GetActivesByPatient(ctx context.Context, patientID uint) ([]models.Prescription, error) {
	actives, err := s.prescriptions.GetByPatientAndStatut(ctx, patientID, models.PrescriptionActive)
	if err != nil {
		return nil, err
	}
	now := s.now()
	valides := make([]models.Prescription, 0, len(actives))
	for _, p := range actives {
		if p.IsValide(now) {
			valides = append(valides, p)
		}
	}
	return valides, nil
}

func (s *PrescriptionService) GetByPeriode(ctx context.Context, debut, fin time.Time) ([]models.Prescription, error) {
	if fin.Before(debut) {
		return nil, apperr.InvalidArgument("fin cannot be before debut")
	}
	return s.prescriptions.GetByPeriode(ctx, debut, fin)
}

// CountParMedecin tallies prescriptions per doctor over a period.
func (s *PrescriptionService) CountParMedecin(ctx context.Context, debut, fin time.Time) (map[string]int64, error) {
	if fin.Before(debut) {
		return nil, apperr.InvalidArgument("fin cannot be before debut")
	}
	return s.prescriptions.CountParMedecin(ctx, debut, fin)
}

func (s *PrescriptionService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func validateLigneRequest(req *models.LigneRequest) error {
	if req.MedicamentID == 0 {
		return apperr.InvalidArgument("medicament_id is required")
	}
	if strings.TrimSpace(req.Posologie) == "" {
		return apperr.InvalidArgument("posologie is required")
	}
	if req.Quantite < 1 {
		return apperr.InvalidArgument("quantite must be at least 1")
	}
	if req.MomentPrise != "" && !req.MomentPrise.Valid() {
		return apperr.InvalidArgument("unknown moment_prise %q", req.MomentPrise)
	}
	return nil
}
