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

// MedicamentRepository handles medication database operations
type MedicamentRepository struct{}

// NewMedicamentRepository creates a new medication repository
func NewMedicamentRepository() *MedicamentRepository {
	return &MedicamentRepository{}
}

// GetAll retrieves all medications
func (r *MedicamentRepository) GetAll(ctx context.Context) ([]models.Medicament, error) {
	var medicaments []models.Medicament
	if err := database.DB.WithContext(ctx).Order("nom ASC").Find(&medicaments).Error; err != nil {
		return nil, fmt.Errorf("failed to list medicaments: %w", err)
	}
	return medicaments, nil
}

// GetByID retrieves a medication by ID
func (r *MedicamentRepository) GetByID(ctx context.Context, id uint) (*models.Medicament, error) {
	var medicament models.Medicament
	if err := database.DB.WithContext(ctx).First(&medicament, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("medicament %d not found", id)
		}
		return nil, fmt.Errorf("failed to get medicament: %w", err)
	}
	return &medicament, nil
}

// Create inserts a new medication
func (r *MedicamentRepository) Create(ctx context.Context, medicament *models.Medicament) error {
	if err := database.DB.WithContext(ctx).Create(medicament).Error; err != nil {
		return fmt.Errorf("failed to create medicament: %w", err)
	}
	return nil
}

// Update saves an existing medication
func (r *MedicamentRepository) Update(ctx context.Context, medicament *models.Medicament) error {
	if err := database.DB.WithContext(ctx).Save(medicament).Error; err != nil {
		return fmt.Errorf("failed to update medicament: %w", err)
	}
	return nil
}

// Delete soft deletes a medication
func (r *MedicamentRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.Medicament{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete medicament: %w", err)
	}
	return nil
}

// SearchByNom retrieves medications whose name contains the keyword
func (r *MedicamentRepository) SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Medicament, error) {
	var medicaments []models.Medicament
	query := database.DB.WithContext(ctx).
		Where("nom ILIKE ?", "%"+keyword+"%").
		Order("nom ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&medicaments).Error; err != nil {
		return nil, fmt.Errorf("failed to search medicaments: %w", err)
	}
	return medicaments, nil
}

// GetByDci retrieves medications whose active substance matches the keyword
func (r *MedicamentRepository) GetByDci(ctx context.Context, dci string) ([]models.Medicament, error) {
	var medicaments []models.Medicament
	if err := database.DB.WithContext(ctx).
		Where("dci ILIKE ?", "%"+dci+"%").
		Order("nom ASC").
		Find(&medicaments).Error; err != nil {
		return nil, fmt.Errorf("failed to get medicaments by dci: %w", err)
	}
	return medicaments, nil
}

// GetByLaboratoire retrieves medications made by the given laboratory
func (r *MedicamentRepository) GetByLaboratoire(ctx context.Context, laboratoire string) ([]models.Medicament, error) {
	var medicaments []models.Medicament
	if err := database.DB.WithContext(ctx).
		Where("laboratoire ILIKE ?", laboratoire).
		Order("nom ASC").
		Find(&medicaments).Error; err != nil {
		return nil, fmt.Errorf("failed to get medicaments by laboratoire: %w", err)
	}
	return medicaments, nil
}

// GetDisponibles retrieves medications flagged available
func (r *MedicamentRepository) GetDisponibles(ctx context.Context) ([]models.Medicament, error) {
	var medicaments []models.Medicament
	if err := database.DB.WithContext(ctx).
		Where("disponible = ?", true).
		Order("nom ASC").
		Find(&medicaments).Error; err != nil {
		return nil, fmt.Errorf("failed to get available medicaments: %w", err)
	}
	return medicaments, nil
}

// GetEnAlerte retrieves medications at or below their alert threshold
func (r *MedicamentRepository) GetEnAlerte(ctx context.Context) ([]models.Medicament, error) {
	var medicaments []models.Medicament
	if err := database.DB.WithContext(ctx).
		Where("quantite_stock <= seuil_alerte").
		Order("quantite_stock ASC").
		Find(&medicaments).Error; err != nil {
		return nil, fmt.Errorf("failed to get medicaments in stock alert: %w", err)
	}
	return medicaments, nil
}

// GetExpiringBefore retrieves in-stock medications expiring before the date
func (r *MedicamentRepository) GetExpiringBefore(ctx context.Context, date time.Time) ([]models.Medicament, error) {
	var medicaments []models.Medicament
	if err := database.DB.WithContext(ctx).
		Where("date_expiration < ? AND quantite_stock > 0", date).
		Order("date_expiration ASC").
		Find(&medicaments).Error; err != nil {
		return nil, fmt.Errorf("failed to get expiring medicaments: %w", err)
	}
	return medicaments, nil
}

// Count returns the total number of medications
func (r *MedicamentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.Medicament{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count medicaments: %w", err)
	}
	return count, nil
}

// CountEnAlerte returns the number of medications at or below threshold
func (r *MedicamentRepository) CountEnAlerte(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Medicament{}).
		Where("quantite_stock <= seuil_alerte").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count medicaments in stock alert: %w", err)
	}
	return count, nil
}

// CountExpiringBefore returns the number of in-stock medications expiring before the date
func (r *MedicamentRepository) CountExpiringBefore(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Medicament{}).
		Where("date_expiration < ? AND quantite_stock > 0", date).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count expiring medicaments: %w", err)
	}
	return count, nil
}
