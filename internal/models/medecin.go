package models

import (
	"time"

	"gorm.io/gorm"
)

// Medecin represents a doctor practicing in the hospital.
type Medecin struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Nom           string `gorm:"type:varchar(50);not null;index" json:"nom"`
	Prenom        string `gorm:"type:varchar(50);not null" json:"prenom"`
	Specialite    string `gorm:"type:varchar(100);not null;index" json:"specialite"`
	Telephone     string `gorm:"type:varchar(20)" json:"telephone,omitempty"`
	Email         string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Matricule     string `gorm:"type:varchar(50);not null;uniqueIndex" json:"matricule"`
	DepartementID *uint  `gorm:"index" json:"departement_id,omitempty"`
	Disponible    bool   `gorm:"default:true" json:"disponible"`
	UserID        *uint  `gorm:"index" json:"user_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Medecin) TableName() string {
	return "medecins"
}

// MedecinRequest is the payload for creating or updating a doctor.
type MedecinRequest struct {
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	Specialite    string `json:"specialite"`
	Telephone     string `json:"telephone,omitempty"`
	Email         string `json:"email,omitempty"`
	Matricule     string `json:"matricule"`
	DepartementID *uint  `json:"departement_id,omitempty"`
	Disponible    *bool  `json:"disponible,omitempty"`
}
