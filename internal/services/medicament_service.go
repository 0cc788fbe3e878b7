package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

// MedicamentService manages the medication catalogue and guards every stock
// movement so quantities never go negative and availability always reflects
// the actual stock level.
type MedicamentService struct {
	medicaments MedicamentStore
	audit       AuditRecorder
	now         func() time.Time
}

func NewMedicamentService(medicaments MedicamentStore, audit AuditRecorder) *MedicamentService {
	return &MedicamentService{
		medicaments: medicaments,
		audit:       audit,
		now:         time.Now,
	}
}

func (s *MedicamentService) GetAll(ctx context.Context) ([]models.Medicament, error) {
	return s.medicaments.GetAll(ctx)
}

func (s *MedicamentService) GetByID(ctx context.Context, id uint) (*models.Medicament, error) {
	return s.medicaments.GetByID(ctx, id)
}

func (s *MedicamentService) Create(ctx context.Context, req *models.MedicamentRequest) (*models.Medicament, error) {
	if err := validateMedicamentRequest(req); err != nil {
		return nil, err
	}
	expiration, err := parseDate(req.DateExpiration)
	if err != nil {
		return nil, err
	}

	medicament := &models.Medicament{
		Nom:               strings.TrimSpace(req.Nom),
		Dci:               strings.TrimSpace(req.Dci),
		Laboratoire:       req.Laboratoire,
		Dosage:            req.Dosage,
		Forme:             req.Forme,
		DateExpiration:    expiration,
		QuantiteStock:     req.QuantiteStock,
		SeuilAlerte:       req.SeuilAlerte,
		Prix:              req.Prix,
		Disponible:        req.QuantiteStock > 0,
		ContreIndications: req.ContreIndications,
	}
	if err := s.medicaments.Create(ctx, medicament); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "medicament.create",
		ResourceType: "medicament",
		ResourceID:   medicament.ID,
		Status:       "ok",
	})
	return medicament, nil
}

func (s *MedicamentService) Update(ctx context.Context, id uint, req *models.MedicamentRequest) (*models.Medicament, error) {
	if err := validateMedicamentRequest(req); err != nil {
		return nil, err
	}

	expiration, err := parseDate(req.DateExpiration)
	if err != nil {
		return nil, err
	}

	medicament, err := s.medicaments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	medicament.Nom = strings.TrimSpace(req.Nom)
	medicament.Dci = strings.TrimSpace(req.Dci)
	medicament.Laboratoire = req.Laboratoire
	medicament.Dosage = req.Dosage
	medicament.Forme = req.Forme
	medicament.DateExpiration = expiration
	medicament.SeuilAlerte = req.SeuilAlerte
	medicament.Prix = req.Prix
	medicament.ContreIndications = req.ContreIndications

	if err := s.medicaments.Update(ctx, medicament); err != nil {
		return nil, err
	}
	return medicament, nil
}

func (s *MedicamentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.medicaments.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.medicaments.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "medicament.delete",
		ResourceType: "medicament",
		ResourceID:   id,
		Status:       "ok",
	})
	return nil
}

// AdjustStock applies a signed delta to the stock of a medication. The
// movement is refused when it would drive the stock negative; the current
// level is left untouched in that case. Availability follows the stock:
// reaching zero forces the medication unavailable, leaving zero restores it.
func (s *MedicamentService) AdjustStock(ctx context.Context, id uint, delta int) (*models.Medicament, error) {
	medicament, err := s.medicaments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStock := medicament.QuantiteStock + delta
	if newStock < 0 {
		return nil, apperr.InvalidArgument(
			"insufficient stock for medicament %d: current %d, delta %d",
			id, medicament.QuantiteStock, delta)
	}

	previous := medicament.QuantiteStock
	medicament.QuantiteStock = newStock
	if newStock == 0 {
		medicament.Disponible = false
	} else if previous == 0 && newStock > 0 {
		medicament.Disponible = true
	}

	if err := s.medicaments.Update(ctx, medicament); err != nil {
		return nil, err
	}

	if medicament.IsStockAlert() {
		log.Warn().
			Uint("medicament_id", medicament.ID).
			Str("nom", medicament.Nom).
			Int("quantite_stock", medicament.QuantiteStock).
			Int("seuil_alerte", medicament.SeuilAlerte).
			Msg("medicament stock at or below alert threshold")
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "medicament.adjust_stock",
		ResourceType: "medicament",
		ResourceID:   medicament.ID,
		Status:       "ok",
	})
	return medicament, nil
}

// SetAvailability flips the availability flag. A medication with no stock
// cannot be marked available; it has to be restocked first.
func (s *MedicamentService) SetAvailability(ctx context.Context, id uint, disponible bool) (*models.Medicament, error) {
	medicament, err := s.medicaments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if disponible && medicament.QuantiteStock <= 0 {
		return nil, apperr.InvalidState(
			"medicament %d cannot be made available with empty stock", id)
	}

	medicament.Disponible = disponible
	if err := s.medicaments.Update(ctx, medicament); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "medicament.set_availability",
		ResourceType: "medicament",
		ResourceID:   medicament.ID,
		Status:       "ok",
	})
	return medicament, nil
}

func (s *MedicamentService) SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Medicament, error) {
	return s.medicaments.SearchByNom(ctx, keyword, limit, offset)
}

func (s *MedicamentService) GetByDci(ctx context.Context, dci string) ([]models.Medicament, error) {
	return s.medicaments.GetByDci(ctx, dci)
}

func (s *MedicamentService) GetByLaboratoire(ctx context.Context, laboratoire string) ([]models.Medicament, error) {
	return s.medicaments.GetByLaboratoire(ctx, laboratoire)
}

func (s *MedicamentService) GetDisponibles(ctx context.Context) ([]models.Medicament, error) {
	return s.medicaments.GetDisponibles(ctx)
}

func (s *MedicamentService) GetEnAlerte(ctx context.Context) ([]models.Medicament, error) {
	return s.medicaments.GetEnAlerte(ctx)
}

// GetExpiringSoon lists medications expiring within the given number of days.
func (s *MedicamentService) GetExpiringSoon(ctx context.Context, days int) ([]models.Medicament, error) {
	if days <= 0 {
		days = 30
	}
	return s.medicaments.GetExpiringBefore(ctx, s.now().AddDate(0, 0, days))
}

// parseDate parses an optional yyyy-mm-dd value.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid date %q, expected yyyy-mm-dd", value)
	}
	return &t, nil
}

func validateMedicamentRequest(req *models.MedicamentRequest) error {
	if strings.TrimSpace(req.Nom) == "" {
		return apperr.InvalidArgument("medicament nom is required")
	}
	if strings.TrimSpace(req.Dci) == "" {
		return apperr.InvalidArgument("medicament dci is required")
	}
	if req.QuantiteStock < 0 {
		return apperr.InvalidArgument("quantite_stock cannot be negative")
	}
	if req.SeuilAlerte < 0 {
		return apperr.InvalidArgument("seuil_alerte cannot be negative")
	}
	if req.Prix < 0 {
		return apperr.InvalidArgument("prix cannot be negative")
	}
	return nil
}
