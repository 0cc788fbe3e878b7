package models

import (
	"time"

	"gorm.io/gorm"
)

// StatutRendezVous enumerates appointment statuses.
type StatutRendezVous string

const (
	RendezVousPlanifie StatutRendezVous = "PLANIFIE"
	RendezVousConfirme StatutRendezVous = "CONFIRME"
	RendezVousAnnule   StatutRendezVous = "ANNULE"
	RendezVousTermine  StatutRendezVous = "TERMINE"
)

// Valid reports whether s is a known status.
func (s StatutRendezVous) Valid() bool {
	switch s {
	case RendezVousPlanifie, RendezVousConfirme, RendezVousAnnule, RendezVousTermine:
		return true
	}
	return false
}

// CanTransitionTo implements the strict state machine used when the
// scheduling rules are hardened: ANNULE and TERMINE are terminal, CONFIRME
// can no longer go back to PLANIFIE.
func (s StatutRendezVous) CanTransitionTo(next StatutRendezVous) bool {
	switch s {
	case RendezVousPlanifie:
		return next == RendezVousConfirme || next == RendezVousAnnule || next == RendezVousTermine
	case RendezVousConfirme:
		return next == RendezVousAnnule || next == RendezVousTermine
	default:
		return false
	}
}

// RendezVous represents an appointment between a patient and a doctor. The
// occupied time window is [DateHeure, DateHeure+Duree minutes), half-open.
type RendezVous struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	DateHeure time.Time        `gorm:"not null;index" json:"date_heure"`
	PatientID uint             `gorm:"not null;index" json:"patient_id"`
	MedecinID uint             `gorm:"not null;index" json:"medecin_id"`
	Motif     string           `gorm:"type:varchar(255)" json:"motif,omitempty"`
	Duree     int              `gorm:"not null;default:30" json:"duree"`
	Statut    StatutRendezVous `gorm:"type:varchar(20);not null;default:'PLANIFIE';index" json:"statut"`
	Notes     string           `gorm:"type:varchar(1000)" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (RendezVous) TableName() string {
	return "rendez_vous"
}

// Fin returns the exclusive end of the appointment window.
func (r *RendezVous) Fin() time.Time {
	return r.DateHeure.Add(time.Duration(r.Duree) * time.Minute)
}

// RendezVousRequest is the payload for scheduling or updating an appointment.
type RendezVousRequest struct {
	DateHeure time.Time `json:"date_heure"`
	PatientID uint      `json:"patient_id"`
	MedecinID uint      `json:"medecin_id"`
	Motif     string    `json:"motif,omitempty"`
	Duree     int       `json:"duree,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// RendezVousStatusRequest changes an appointment's status.
type RendezVousStatusRequest struct {
	Statut StatutRendezVous `json:"statut"`
}
