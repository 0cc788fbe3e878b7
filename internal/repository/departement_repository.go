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

// DepartementRepository handles department database operations
type DepartementRepository struct{}

// NewDepartementRepository creates a new department repository
func NewDepartementRepository() *DepartementRepository {
	return &DepartementRepository{}
}

// GetAll retrieves all departments
func (r *DepartementRepository) GetAll(ctx context.Context) ([]models.Departement, error) {
	var departements []models.Departement
	if err := database.DB.WithContext(ctx).Order("nom ASC").Find(&departements).Error; err != nil {
		return nil, fmt.Errorf("failed to list departements: %w", err)
	}
	return departements, nil
}

// GetByID retrieves a department by ID
func (r *DepartementRepository) GetByID(ctx context.Context, id uint) (*models.Departement, error) {
	var departement models.Departement
	if err := database.DB.WithContext(ctx).First(&departement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("departement %d not found", id)
		}
		return nil, fmt.Errorf("failed to get departement: %w", err)
	}
	return &departement, nil
}

// Exists reports whether a department with the given ID exists
func (r *DepartementRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Departement{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check departement existence: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new department
func (r *DepartementRepository) Create(ctx context.Context, departement *models.Departement) error {
	if err := database.DB.WithContext(ctx).Create(departement).Error; err != nil {
		return fmt.Errorf("failed to create departement: %w", err)
	}
	return nil
}

// Update saves an existing department
func (r *DepartementRepository) Update(ctx context.Context, departement *models.Departement) error {
	if err := database.DB.WithContext(ctx).Save(departement).Error; err != nil {
		return fmt.Errorf("failed to update departement: %w", err)
	}
	return nil
}

// Delete soft deletes a department
func (r *DepartementRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.Departement{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete departement: %w", err)
	}
	return nil
}

// SearchByNom retrieves departments whose name contains the keyword
func (r *DepartementRepository) SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Departement, error) {
	var departements []models.Departement
	query := database.DB.WithContext(ctx).
		Where("nom ILIKE ?", "%"+keyword+"%").
		Order("nom ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&departements).Error; err != nil {
		return nil, fmt.Errorf("failed to search departements: %w", err)
	}
	return departements, nil
}

// GetActifs retrieves active departments
func (r *DepartementRepository) GetActifs(ctx context.Context) ([]models.Departement, error) {
	var departements []models.Departement
	if err := database.DB.WithContext(ctx).
		Where("actif = ?", true).
		Order("nom ASC").
		Find(&departements).Error; err != nil {
		return nil, fmt.Errorf("failed to get active departements: %w", err)
	}
	return departements, nil
}

// GetByCapaciteMin retrieves departments with at least the given bed capacity
func (r *DepartementRepository) GetByCapaciteMin(ctx context.Context, capaciteMin int) ([]models.Departement, error) {
	var departements []models.Departement
	if err := database.DB.WithContext(ctx).
		Where("capacite_lits >= ?", capaciteMin).
		Order("capacite_lits DESC").
		Find(&departements).Error; err != nil {
		return nil, fmt.Errorf("failed to get departements by capacity: %w", err)
	}
	return departements, nil
}

// GetByChef retrieves the department headed by the given doctor
func (r *DepartementRepository) GetByChef(ctx context.Context, medecinID uint) (*models.Departement, error) {
	var departement models.Departement
	if err := database.DB.WithContext(ctx).
		Where("chef_departement_id = ?", medecinID).
		First(&departement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no departement headed by medecin %d", medecinID)
		}
		return nil, fmt.Errorf("failed to get departement by chef: %w", err)
	}
	return &departement, nil
}

// CountMedecinsParDepartement returns the number of doctors per department name
func (r *DepartementRepository) CountMedecinsParDepartement(ctx context.Context) (map[string]int64, error) {
	rows, err := database.DB.WithContext(ctx).
		Table("departements").
		Select("departements.nom, count(medecins.id)").
		Joins("LEFT JOIN medecins ON medecins.departement_id = departements.id AND medecins.deleted_at IS NULL").
		Where("departements.deleted_at IS NULL").
		Group("departements.nom").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to count medecins per departement: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var nom string
		var count int64
		if err := rows.Scan(&nom, &count); err != nil {
			return nil, fmt.Errorf("failed to scan departement count: %w", err)
		}
		counts[nom] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departement counts: %w", err)
	}
	return counts, nil
}

// Count returns the total number of departments
func (r *DepartementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.Departement{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count departements: %w", err)
	}
	return count, nil
}
