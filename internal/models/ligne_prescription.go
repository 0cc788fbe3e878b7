package models

import (
	"time"
)

// MomentPrise enumerates when a medication is taken relative to meals.
type MomentPrise string

const (
	AvantRepas   MomentPrise = "AVANT_REPAS"
	PendantRepas MomentPrise = "PENDANT_REPAS"
	ApresRepas   MomentPrise = "APRES_REPAS"
	Indifferent  MomentPrise = "INDIFFERENT"
)

// Valid reports whether m is a known timing.
func (m MomentPrise) Valid() bool {
	switch m {
	case AvantRepas, PendantRepas, ApresRepas, Indifferent:
		return true
	}
	return false
}

// LignePrescription is one medication entry within a prescription.
type LignePrescription struct {
	ID                    uint        `gorm:"primaryKey" json:"id"`
	PrescriptionID        uint        `gorm:"not null;index" json:"prescription_id"`
	MedicamentID          uint        `gorm:"not null;index" json:"medicament_id"`
	Posologie             string      `gorm:"type:varchar(255);not null" json:"posologie"`
	DureeTraitement       int         `json:"duree_traitement"`
	Instructions          string      `gorm:"type:varchar(500)" json:"instructions,omitempty"`
	MomentPrise           MomentPrise `gorm:"type:varchar(20)" json:"moment_prise,omitempty"`
	Quantite              int         `gorm:"not null" json:"quantite"`
	SubstitutionAutorisee bool        `gorm:"default:true" json:"substitution_autorisee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (LignePrescription) TableName() string {
	return "ligne_prescriptions"
}

// LigneRequest is the payload for adding a line to a prescription.
type LigneRequest struct {
	MedicamentID          uint        `json:"medicament_id"`
	Posologie             string      `json:"posologie"`
	DureeTraitement       int         `json:"duree_traitement,omitempty"`
	Instructions          string      `json:"instructions,omitempty"`
	MomentPrise           MomentPrise `json:"moment_prise,omitempty"`
	Quantite              int         `json:"quantite"`
	SubstitutionAutorisee *bool       `json:"substitution_autorisee,omitempty"`
}
