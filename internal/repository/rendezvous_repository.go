package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/database"
	"github.com/hospitalms/hospital-api/internal/models"
	"gorm.io/gorm"
)

// ErrSlotTaken is returned by CreateIfSlotFree when the doctor already has an
// appointment starting inside the candidate window.
var ErrSlotTaken = errors.New("slot already taken")

// RendezVousRepository handles appointment database operations
type RendezVousRepository struct{}

// NewRendezVousRepository creates a new appointment repository
func NewRendezVousRepository() *RendezVousRepository {
	return &RendezVousRepository{}
}

// GetAll retrieves all appointments
func (r *RendezVousRepository) GetAll(ctx context.Context) ([]models.RendezVous, error) {
	var rdvs []models.RendezVous
	if err := database.DB.WithContext(ctx).Order("date_heure ASC").Find(&rdvs).Error; err != nil {
		return nil, fmt.Errorf("failed to list rendez-vous: %w", err)
	}
	return rdvs, nil
}

// GetByID retrieves an appointment by ID
func (r *RendezVousRepository) GetByID(ctx context.Context, id uint) (*models.RendezVous, error) {
	var rdv models.RendezVous
	if err := database.DB.WithContext(ctx).First(&rdv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("rendez-vous %d not found", id)
		}
		return nil, fmt.Errorf("failed to get rendez-vous: %w", err)
	}
	return &rdv, nil
}

// ExistsOverlapping reports whether the doctor has an appointment whose start
// falls within [debut, fin). The end boundary is exclusive: an appointment
// starting exactly at fin does not overlap.
func (r *RendezVousRepository) ExistsOverlapping(ctx context.Context, medecinID uint, debut, fin time.Time) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.RendezVous{}).
		Where("medecin_id = ? AND date_heure >= ? AND date_heure < ?", medecinID, debut, fin).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check overlapping rendez-vous: %w", err)
	}
	return count > 0, nil
}

// CreateIfSlotFree re-checks the overlap inside a single transaction and
// inserts the appointment, closing the window between check and insert.
// Returns ErrSlotTaken when the slot is occupied.
func (r *RendezVousRepository) CreateIfSlotFree(ctx context.Context, rdv *models.RendezVous) error {
	fin := rdv.Fin()
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RendezVous{}).
			Where("medecin_id = ? AND date_heure >= ? AND date_heure < ?", rdv.MedecinID, rdv.DateHeure, fin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotTaken
		}
		return tx.Create(rdv).Error
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create rendez-vous: %w", err)
	}
	return nil
}

// Update saves an existing appointment
func (r *RendezVousRepository) Update(ctx context.Context, rdv *models.RendezVous) error {
	if err := database.DB.WithContext(ctx).Save(rdv).Error; err != nil {
		return fmt.Errorf("failed to update rendez-vous: %w", err)
	}
	return nil
}

// Delete soft deletes an appointment
func (r *RendezVousRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.RendezVous{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete rendez-vous: %w", err)
	}
	return nil
}

// GetByPatient retrieves a patient's appointments
func (r *RendezVousRepository) GetByPatient(ctx context.Context, patientID uint) ([]models.RendezVous, error) {
	var rdvs []models.RendezVous
	if err := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date_heure ASC").
		Find(&rdvs).Error; err != nil {
		return nil, fmt.Errorf("failed to get rendez-vous by patient: %w", err)
	}
	return rdvs, nil
}

// GetByMedecin retrieves a doctor's appointments
func (r *RendezVousRepository) GetByMedecin(ctx context.Context, medecinID uint) ([]models.RendezVous, error) {
	var rdvs []models.RendezVous
	if err := database.DB.WithContext(ctx).
		Where("medecin_id = ?", medecinID).
		Order("date_heure ASC").
		Find(&rdvs).Error; err != nil {
		return nil, fmt.Errorf("failed to get rendez-vous by medecin: %w", err)
	}
	return rdvs, nil
}

// GetByMedecinAndStatut retrieves a doctor's appointments in a given status
func (r *RendezVousRepository) GetByMedecinAndStatut(ctx context.Context, medecinID uint, statut models.StatutRendezVous) ([]models.RendezVous, error) {
	var rdvs []models.RendezVous
	if err := database.DB.WithContext(ctx).
		Where("medecin_id = ? AND statut = ?", medecinID, statut).
		Order("date_heure ASC").
		Find(&rdvs).Error; err != nil {
		return nil, fmt.Errorf("failed to get rendez-vous by medecin and statut: %w", err)
	}
	return rdvs, nil
}

// GetByPeriode retrieves appointments within [debut, fin]
func (r *RendezVousRepository) GetByPeriode(ctx context.Context, debut, fin time.Time) ([]models.RendezVous, error) {
	var rdvs []models.RendezVous
	if err := database.DB.WithContext(ctx).
		Where("date_heure BETWEEN ? AND ?", debut, fin).
		Order("date_heure ASC").
		Find(&rdvs).Error; err != nil {
		return nil, fmt.Errorf("failed to get rendez-vous by period: %w", err)
	}
	return rdvs, nil
}

// GetByMedecinAndPeriode retrieves a doctor's appointments within [debut, fin]
func (r *RendezVousRepository) GetByMedecinAndPeriode(ctx context.Context, medecinID uint, debut, fin time.Time) ([]models.RendezVous, error) {
	var rdvs []models.RendezVous
	if err := database.DB.WithContext(ctx).
		Where("medecin_id = ? AND date_heure BETWEEN ? AND ?", medecinID, debut, fin).
		Order("date_heure ASC").
		Find(&rdvs).Error; err != nil {
		return nil, fmt.Errorf("failed to get rendez-vous by medecin and period: %w", err)
	}
	return rdvs, nil
}

// GetDuJour retrieves today's non-cancelled appointments ordered by time
func (r *RendezVousRepository) GetDuJour(ctx context.Context, now time.Time) ([]models.RendezVous, error) {
	debut := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	fin := debut.AddDate(0, 0, 1)

	var rdvs []models.RendezVous
	if err := database.DB.WithContext(ctx).
		Where("date_heure >= ? AND date_heure < ? AND statut <> ?", debut, fin, models.RendezVousAnnule).
		Order("date_heure ASC").
		Find(&rdvs).Error; err != nil {
		return nil, fmt.Errorf("failed to get today's rendez-vous: %w", err)
	}
	return rdvs, nil
}

// CountDuJour returns the number of today's non-cancelled appointments
func (r *RendezVousRepository) CountDuJour(ctx context.Context, now time.Time) (int64, error) {
	debut := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	fin := debut.AddDate(0, 0, 1)

	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.RendezVous{}).
		Where("date_heure >= ? AND date_heure < ? AND statut <> ?", debut, fin, models.RendezVousAnnule).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count today's rendez-vous: %w", err)
	}
	return count, nil
}

// Count returns the total number of appointments
func (r *RendezVousRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.RendezVous{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rendez-vous: %w", err)
	}
	return count, nil
}
