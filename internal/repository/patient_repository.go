package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/database"
	"github.com/hospitalms/hospital-api/internal/models"
	"gorm.io/gorm"
)

// PatientRepository handles patient database operations
type PatientRepository struct{}

// NewPatientRepository creates a new patient repository
func NewPatientRepository() *PatientRepository {
	return &PatientRepository{}
}

// GetAll retrieves all patients
func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := database.DB.WithContext(ctx).Order("nom ASC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// GetByID retrieves a patient by ID
func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := database.DB.WithContext(ctx).First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("patient %d not found", id)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// Exists reports whether a patient with the given ID exists
func (r *PatientRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check patient existence: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new patient
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := database.DB.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

// Update saves an existing patient
func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	if err := database.DB.WithContext(ctx).Save(patient).Error; err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

// Delete soft deletes a patient
func (r *PatientRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.Patient{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// SearchByNom retrieves patients whose name contains the keyword
func (r *PatientRepository) SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Patient, error) {
	var patients []models.Patient
	query := database.DB.WithContext(ctx).
		Where("nom ILIKE ?", "%"+keyword+"%").
		Order("nom ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

// Count returns the total number of patients
func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

// CountMalade returns the number of patients currently flagged sick
func (r *PatientRepository) CountMalade(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Patient{}).
		Where("malade = ?", true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sick patients: %w", err)
	}
	return count, nil
}
