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

// PrescriptionRepository handles prescription database operations
type PrescriptionRepository struct{}

// NewPrescriptionRepository creates a new prescription repository
func NewPrescriptionRepository() *PrescriptionRepository {
	return &PrescriptionRepository{}
}

// GetAll retrieves all prescriptions with their lines
func (r *PrescriptionRepository) GetAll(ctx context.Context) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := database.DB.WithContext(ctx).
		Preload("Lignes").
		Order("date_prescription DESC").
		Find(&prescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

// GetByID retrieves a prescription with its lines
func (r *PrescriptionRepository) GetByID(ctx context.Context, id uint) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := database.DB.WithContext(ctx).
		Preload("Lignes").
		First(&prescription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("prescription %d not found", id)
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

// Create inserts a new prescription
func (r *PrescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	if err := database.DB.WithContext(ctx).Create(prescription).Error; err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

// Update saves an existing prescription
func (r *PrescriptionRepository) Update(ctx context.Context, prescription *models.Prescription) error {
	if err := database.DB.WithContext(ctx).Omit("Lignes").Save(prescription).Error; err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return nil
}

// Delete removes a prescription and its lines in one transaction
func (r *PrescriptionRepository) Delete(ctx context.Context, id uint) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prescription_id = ?", id).
			Delete(&models.LignePrescription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Prescription{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	return nil
}

// GetByPatient retrieves a patient's prescriptions
func (r *PrescriptionRepository) GetByPatient(ctx context.Context, patientID uint) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := database.DB.WithContext(ctx).
		Preload("Lignes").
		Where("patient_id = ?", patientID).
		Order("date_prescription DESC").
		Find(&prescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to get prescriptions by patient: %w", err)
	}
	return prescriptions, nil
}

// GetByMedecin retrieves a doctor's prescriptions
func (r *PrescriptionRepository) GetByMedecin(ctx context.Context, medecinID uint) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := database.DB.WithContext(ctx).
		Preload("Lignes").
		Where("medecin_id = ?", medecinID).
		Order("date_prescription DESC").
		Find(&prescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to get prescriptions by medecin: %w", err)
	}
	return prescriptions, nil
}

// GetByPatientAndStatut retrieves a patient's prescriptions in a given status
func (r *PrescriptionRepository) GetByPatientAndStatut(ctx context.Context, patientID uint, statut models.StatutPrescription) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := database.DB.WithContext(ctx).
		Preload("Lignes").
		Where("patient_id = ? AND statut = ?", patientID, statut).
		Order("date_prescription DESC").
		Find(&prescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to get prescriptions by patient and statut: %w", err)
	}
	return prescriptions, nil
}

// GetByPeriode retrieves prescriptions issued within [debut, fin]
func (r *PrescriptionRepository) GetByPeriode(ctx context.Context, debut, fin time.Time) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := database.DB.WithContext(ctx).
		Preload("Lignes").
		Where("date_prescription BETWEEN ? AND ?", debut, fin).
		Order("date_prescription DESC").
		Find(&prescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to get prescriptions by period: %w", err)
	}
	return prescriptions, nil
}

// CountParMedecin returns the number of prescriptions per doctor over a period,
// keyed by "Prenom Nom"
func (r *PrescriptionRepository) CountParMedecin(ctx context.Context, debut, fin time.Time) (map[string]int64, error) {
	rows, err := database.DB.WithContext(ctx).
		Table("prescriptions").
		Select("medecins.prenom, medecins.nom, count(prescriptions.id)").
		Joins("JOIN medecins ON medecins.id = prescriptions.medecin_id").
		Where("prescriptions.date_prescription BETWEEN ? AND ? AND prescriptions.deleted_at IS NULL", debut, fin).
		Group("medecins.prenom, medecins.nom").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to count prescriptions per medecin: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var prenom, nom string
		var count int64
		if err := rows.Scan(&prenom, &nom, &count); err != nil {
			return nil, fmt.Errorf("failed to scan prescription count: %w", err)
		}
		counts[prenom+" "+nom] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prescription counts: %w", err)
	}
	return counts, nil
}

// Count returns the total number of prescriptions
func (r *PrescriptionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.Prescription{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}
	return count, nil
}

// LignePrescriptionRepository handles prescription line database operations
type LignePrescriptionRepository struct{}

// NewLignePrescriptionRepository creates a new prescription line repository
func NewLignePrescriptionRepository() *LignePrescriptionRepository {
	return &LignePrescriptionRepository{}
}

// GetByID retrieves a prescription line by ID
func (r *LignePrescriptionRepository) GetByID(ctx context.Context, id uint) (*models.LignePrescription, error) {
	var ligne models.LignePrescription
	if err := database.DB.WithContext(ctx).First(&ligne, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ligne de prescription %d not found", id)
		}
		return nil, fmt.Errorf("failed to get ligne de prescription: %w", err)
	}
	return &ligne, nil
}

// Create inserts a new prescription line
func (r *LignePrescriptionRepository) Create(ctx context.Context, ligne *models.LignePrescription) error {
	if err := database.DB.WithContext(ctx).Create(ligne).Error; err != nil {
		return fmt.Errorf("failed to create ligne de prescription: %w", err)
	}
	return nil
}

// Delete removes a prescription line
func (r *LignePrescriptionRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.LignePrescription{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete ligne de prescription: %w", err)
	}
	return nil
}

// GetByPrescription retrieves all lines of a prescription
func (r *LignePrescriptionRepository) GetByPrescription(ctx context.Context, prescriptionID uint) ([]models.LignePrescription, error) {
	var lignes []models.LignePrescription
	if err := database.DB.WithContext(ctx).
		Where("prescription_id = ?", prescriptionID).
		Find(&lignes).Error; err != nil {
		return nil, fmt.Errorf("failed to get lignes by prescription: %w", err)
	}
	return lignes, nil
}

// ExistsByPrescriptionAndMedicament reports whether the prescription already
// carries a line for the medication
func (r *LignePrescriptionRepository) ExistsByPrescriptionAndMedicament(ctx context.Context, prescriptionID, medicamentID uint) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.LignePrescription{}).
		Where("prescription_id = ? AND medicament_id = ?", prescriptionID, medicamentID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ligne existence: %w", err)
	}
	return count > 0, nil
}
