package models

import (
	"time"

	"gorm.io/gorm"
)

// StatutPrescription enumerates prescription statuses.
type StatutPrescription string

const (
	PrescriptionActive   StatutPrescription = "ACTIVE"
	PrescriptionTerminee StatutPrescription = "TERMINEE"
	PrescriptionAnnulee  StatutPrescription = "ANNULEE"
)

// Valid reports whether s is a known status.
func (s StatutPrescription) Valid() bool {
	switch s {
	case PrescriptionActive, PrescriptionTerminee, PrescriptionAnnulee:
		return true
	}
	return false
}

// Prescription represents a medical prescription issued by a doctor for a
// patient. Lines live in their own table and hold the foreign key.
type Prescription struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	DatePrescription time.Time          `gorm:"type:date;not null;index" json:"date_prescription"`
	PatientID        uint               `gorm:"not null;index" json:"patient_id"`
	MedecinID        uint               `gorm:"not null;index" json:"medecin_id"`
	DureeValidite    int                `gorm:"not null;default:30" json:"duree_validite"`
	Statut           StatutPrescription `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"statut"`
	Observations     string             `gorm:"type:varchar(1000)" json:"observations,omitempty"`

	Lignes []LignePrescription `gorm:"foreignKey:PrescriptionID" json:"lignes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Prescription) TableName() string {
	return "prescriptions"
}

// IsValide reports whether the prescription can still be dispensed at now.
// Expiry is day-granular: the expiry day itself still counts as valid.
func (p *Prescription) IsValide(now time.Time) bool {
	if p.Statut != PrescriptionActive {
		return false
	}
	expiry := p.DatePrescription.AddDate(0, 0, p.DureeValidite)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expiryDay := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return !today.After(expiryDay)
}

// PrescriptionRequest is the payload for creating or updating a prescription.
type PrescriptionRequest struct {
	DatePrescription string `json:"date_prescription,omitempty"` // yyyy-mm-dd, defaults to today
	PatientID        uint   `json:"patient_id"`
	MedecinID        uint   `json:"medecin_id"`
	DureeValidite    int    `json:"duree_validite,omitempty"`
	Observations     string `json:"observations,omitempty"`
}

// PrescriptionStatusRequest changes a prescription's status.
type PrescriptionStatusRequest struct {
	Statut StatutPrescription `json:"statut"`
}
