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

// MedecinRepository handles doctor database operations
type MedecinRepository struct{}

// NewMedecinRepository creates a new doctor repository
func NewMedecinRepository() *MedecinRepository {
	return &MedecinRepository{}
}

// GetAll retrieves all doctors
func (r *MedecinRepository) GetAll(ctx context.Context) ([]models.Medecin, error) {
	var medecins []models.Medecin
	if err := database.DB.WithContext(ctx).Order("nom ASC, prenom ASC").Find(&medecins).Error; err != nil {
		return nil, fmt.Errorf("failed to list medecins: %w", err)
	}
	return medecins, nil
}

// GetByID retrieves a doctor by ID
func (r *MedecinRepository) GetByID(ctx context.Context, id uint) (*models.Medecin, error) {
	var medecin models.Medecin
	if err := database.DB.WithContext(ctx).First(&medecin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("medecin %d not found", id)
		}
		return nil, fmt.Errorf("failed to get medecin: %w", err)
	}
	return &medecin, nil
}

// GetByMatricule retrieves a doctor by unique matricule
func (r *MedecinRepository) GetByMatricule(ctx context.Context, matricule string) (*models.Medecin, error) {
	var medecin models.Medecin
	if err := database.DB.WithContext(ctx).
		Where("matricule = ?", matricule).
		First(&medecin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("medecin with matricule %q not found", matricule)
		}
		return nil, fmt.Errorf("failed to get medecin by matricule: %w", err)
	}
	return &medecin, nil
}

// Exists reports whether a doctor with the given ID exists
func (r *MedecinRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Medecin{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check medecin existence: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new doctor
func (r *MedecinRepository) Create(ctx context.Context, medecin *models.Medecin) error {
	if err := database.DB.WithContext(ctx).Create(medecin).Error; err != nil {
		return fmt.Errorf("failed to create medecin: %w", err)
	}
	return nil
}

// Update saves an existing doctor
func (r *MedecinRepository) Update(ctx context.Context, medecin *models.Medecin) error {
	if err := database.DB.WithContext(ctx).Save(medecin).Error; err != nil {
		return fmt.Errorf("failed to update medecin: %w", err)
	}
	return nil
}

// Delete soft deletes a doctor
func (r *MedecinRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.Medecin{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete medecin: %w", err)
	}
	return nil
}

// SearchByNom retrieves doctors whose name contains the keyword
func (r *MedecinRepository) SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Medecin, error) {
	var medecins []models.Medecin
	query := database.DB.WithContext(ctx).
		Where("nom ILIKE ?", "%"+keyword+"%").
		Order("nom ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&medecins).Error; err != nil {
		return nil, fmt.Errorf("failed to search medecins: %w", err)
	}
	return medecins, nil
}

// GetBySpecialite retrieves doctors with the given specialty
func (r *MedecinRepository) GetBySpecialite(ctx context.Context, specialite string) ([]models.Medecin, error) {
	var medecins []models.Medecin
	if err := database.DB.WithContext(ctx).
		Where("specialite ILIKE ?", specialite).
		Order("nom ASC").
		Find(&medecins).Error; err != nil {
		return nil, fmt.Errorf("failed to get medecins by specialite: %w", err)
	}
	return medecins, nil
}

// GetDisponibles retrieves doctors currently flagged available
func (r *MedecinRepository) GetDisponibles(ctx context.Context) ([]models.Medecin, error) {
	var medecins []models.Medecin
	if err := database.DB.WithContext(ctx).
		Where("disponible = ?", true).
		Order("nom ASC").
		Find(&medecins).Error; err != nil {
		return nil, fmt.Errorf("failed to get available medecins: %w", err)
	}
	return medecins, nil
}

// GetByDepartement retrieves the doctors attached to a department
func (r *MedecinRepository) GetByDepartement(ctx context.Context, departementID uint) ([]models.Medecin, error) {
	var medecins []models.Medecin
	if err := database.DB.WithContext(ctx).
		Where("departement_id = ?", departementID).
		Order("nom ASC").
		Find(&medecins).Error; err != nil {
		return nil, fmt.Errorf("failed to get medecins by departement: %w", err)
	}
	return medecins, nil
}

// Count returns the total number of doctors
func (r *MedecinRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.Medecin{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count medecins: %w", err)
	}
	return count, nil
}

// CountDisponibles returns the number of available doctors
func (r *MedecinRepository) CountDisponibles(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Medecin{}).
		Where("disponible = ?", true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count available medecins: %w", err)
	}
	return count, nil
}
