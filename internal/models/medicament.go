package models

import (
	"time"

	"gorm.io/gorm"
)

// Medicament represents a medication held by the hospital pharmacy.
type Medicament struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Nom               string     `gorm:"type:varchar(100);not null;index" json:"nom"`
	Dci               string     `gorm:"type:varchar(255);not null;index" json:"dci"`
	Laboratoire       string     `gorm:"type:varchar(255)" json:"laboratoire,omitempty"`
	Dosage            string     `gorm:"type:varchar(100)" json:"dosage,omitempty"`
	Forme             string     `gorm:"type:varchar(100)" json:"forme,omitempty"`
	DateExpiration    *time.Time `gorm:"type:date" json:"date_expiration,omitempty"`
	QuantiteStock     int        `gorm:"not null" json:"quantite_stock"`
	SeuilAlerte       int        `gorm:"not null;default:1" json:"seuil_alerte"`
	Prix              float64    `gorm:"type:numeric(10,2);not null" json:"prix"`
	Disponible        bool       `gorm:"default:true" json:"disponible"`
	ContreIndications string     `gorm:"type:varchar(1000)" json:"contre_indications,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Medicament) TableName() string {
	return "medicaments"
}

// IsStockAlert reports whether the stock sits at or below the alert threshold.
func (m *Medicament) IsStockAlert() bool {
	return m.QuantiteStock <= m.SeuilAlerte
}

// IsExpired reports whether the current lot is past its expiration date.
func (m *Medicament) IsExpired(now time.Time) bool {
	if m.DateExpiration == nil {
		return false
	}
	return now.After(*m.DateExpiration)
}

// MedicamentRequest is the payload for creating or updating a medication.
// Availability is not part of it: on create it follows the stock level, and
// later changes go through the dedicated availability endpoint so the
// empty-stock rule always applies.
type MedicamentRequest struct {
	Nom               string  `json:"nom"`
	Dci               string  `json:"dci"`
	Laboratoire       string  `json:"laboratoire,omitempty"`
	Dosage            string  `json:"dosage,omitempty"`
	Forme             string  `json:"forme,omitempty"`
	DateExpiration    string  `json:"date_expiration,omitempty"` // yyyy-mm-dd
	QuantiteStock     int     `json:"quantite_stock"`
	SeuilAlerte       int     `json:"seuil_alerte"`
	Prix              float64 `json:"prix"`
	ContreIndications string  `json:"contre_indications,omitempty"`
}

// StockUpdateRequest is the payload for a stock adjustment. Quantite is a
// delta, negative values draw the stock down.
type StockUpdateRequest struct {
	Quantite int `json:"quantite"`
}

// AvailabilityRequest toggles the disponible flag.
type AvailabilityRequest struct {
	Disponible bool `json:"disponible"`
}
