package models

import (
	"time"

	"gorm.io/gorm"
)

// Departement represents a hospital department. The chef is referenced by id;
// member doctors hold the foreign key on their side and are fetched by query,
// never kept as an in-memory collection here.
type Departement struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Nom               string `gorm:"type:varchar(100);not null;index" json:"nom"`
	Description       string `gorm:"type:varchar(500)" json:"description,omitempty"`
	Localisation      string `gorm:"type:varchar(255)" json:"localisation,omitempty"`
	CapaciteLits      int    `json:"capacite_lits"`
	Actif             bool   `gorm:"default:true" json:"actif"`
	ChefDepartementID *uint  `gorm:"index" json:"chef_departement_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Departement) TableName() string {
	return "departements"
}

// DepartementRequest is the payload for creating or updating a department.
type DepartementRequest struct {
	Nom          string `json:"nom"`
	Description  string `json:"description,omitempty"`
	Localisation string `json:"localisation,omitempty"`
	CapaciteLits int    `json:"capacite_lits"`
	Actif        *bool  `json:"actif,omitempty"`
}

// ActifRequest is the payload for toggling a department's active status.
type ActifRequest struct {
	Actif bool `json:"actif"`
}
