package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient represents a patient of the hospital.
type Patient struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Nom           string    `gorm:"type:varchar(20);not null;index" json:"nom"`
	DateNaissance time.Time `gorm:"type:date" json:"date_naissance"`
	Malade        bool      `gorm:"default:false" json:"malade"`
	Score         int       `gorm:"not null" json:"score"`
	UserID        *uint     `gorm:"index" json:"user_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Patient) TableName() string {
	return "patients"
}

// Age derives the patient's age in years from the birth date.
// Day-count arithmetic, no calendar adjustment for leap years.
func (p *Patient) Age(now time.Time) int {
	if p.DateNaissance.IsZero() {
		return 0
	}
	days := int(now.Sub(p.DateNaissance).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 365
}

// IsHighRisk reports whether the patient is sick with a score under 120.
func (p *Patient) IsHighRisk() bool {
	return p.Malade && p.Score < 120
}

// PatientRequest is the payload for creating or updating a patient.
type PatientRequest struct {
	Nom           string `json:"nom"`
	DateNaissance string `json:"date_naissance,omitempty"` // yyyy-mm-dd
	Malade        bool   `json:"malade"`
	Score         int    `json:"score"`
}
