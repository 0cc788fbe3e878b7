// Package services holds the business rules of the hospital system. Every
// service is constructed once at startup with its store dependencies and
// performs its guard checks synchronously before any write.
package services

import (
	"context"
	"time"

	"github.com/hospitalms/hospital-api/internal/models"
)

// PatientStore is the persistence surface the services need for patients.
type PatientStore interface {
	GetAll(ctx context.Context) ([]models.Patient, error)
	GetByID(ctx context.Context, id uint) (*models.Patient, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, patient *models.Patient) error
	Update(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, id uint) error
	SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Patient, error)
	Count(ctx context.Context) (int64, error)
	CountMalade(ctx context.Context) (int64, error)
}

// MedecinStore is the persistence surface for doctors.
type MedecinStore interface {
	GetAll(ctx context.Context) ([]models.Medecin, error)
	GetByID(ctx context.Context, id uint) (*models.Medecin, error)
	GetByMatricule(ctx context.Context, matricule string) (*models.Medecin, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, medecin *models.Medecin) error
	Update(ctx context.Context, medecin *models.Medecin) error
	Delete(ctx context.Context, id uint) error
	SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Medecin, error)
	GetBySpecialite(ctx context.Context, specialite string) ([]models.Medecin, error)
	GetDisponibles(ctx context.Context) ([]models.Medecin, error)
	GetByDepartement(ctx context.Context, departementID uint) ([]models.Medecin, error)
	Count(ctx context.Context) (int64, error)
	CountDisponibles(ctx context.Context) (int64, error)
}

// DepartementStore is the persistence surface for departments.
type DepartementStore interface {
	GetAll(ctx context.Context) ([]models.Departement, error)
	GetByID(ctx context.Context, id uint) (*models.Departement, error)
	Create(ctx context.Context, departement *models.Departement) error
	Update(ctx context.Context, departement *models.Departement) error
	Delete(ctx context.Context, id uint) error
	SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Departement, error)
	GetActifs(ctx context.Context) ([]models.Departement, error)
	GetByCapaciteMin(ctx context.Context, capaciteMin int) ([]models.Departement, error)
	GetByChef(ctx context.Context, medecinID uint) (*models.Departement, error)
	CountMedecinsParDepartement(ctx context.Context) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
}

// MedicamentStore is the persistence surface for medications.
type MedicamentStore interface {
	GetAll(ctx context.Context) ([]models.Medicament, error)
	GetByID(ctx context.Context, id uint) (*models.Medicament, error)
	Create(ctx context.Context, medicament *models.Medicament) error
	Update(ctx context.Context, medicament *models.Medicament) error
	Delete(ctx context.Context, id uint) error
	SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Medicament, error)
	GetByDci(ctx context.Context, dci string) ([]models.Medicament, error)
	GetByLaboratoire(ctx context.Context, laboratoire string) ([]models.Medicament, error)
	GetDisponibles(ctx context.Context) ([]models.Medicament, error)
	GetEnAlerte(ctx context.Context) ([]models.Medicament, error)
	GetExpiringBefore(ctx context.Context, date time.Time) ([]models.Medicament, error)
	Count(ctx context.Context) (int64, error)
	CountEnAlerte(ctx context.Context) (int64, error)
	CountExpiringBefore(ctx context.Context, date time.Time) (int64, error)
}

// PrescriptionStore is the persistence surface for prescriptions.
type PrescriptionStore interface {
	GetAll(ctx context.Context) ([]models.Prescription, error)
	GetByID(ctx context.Context, id uint) (*models.Prescription, error)
	Create(ctx context.Context, prescription *models.Prescription) error
	Update(ctx context.Context, prescription *models.Prescription) error
	Delete(ctx context.Context, id uint) error
	GetByPatient(ctx context.Context, patientID uint) ([]models.Prescription, error)
	GetByMedecin(ctx context.Context, medecinID uint) ([]models.Prescription, error)
	GetByPatientAndStatut(ctx context.Context, patientID uint, statut models.StatutPrescription) ([]models.Prescription, error)
	GetByPeriode(ctx context.Context, debut, fin time.Time) ([]models.Prescription, error)
	CountParMedecin(ctx context.Context, debut, fin time.Time) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
}

// LigneStore is the persistence surface for prescription lines.
type LigneStore interface {
	GetByID(ctx context.Context, id uint) (*models.LignePrescription, error)
	Create(ctx context.Context, ligne *models.LignePrescription) error
	Delete(ctx context.Context, id uint) error
	GetByPrescription(ctx context.Context, prescriptionID uint) ([]models.LignePrescription, error)
	ExistsByPrescriptionAndMedicament(ctx context.Context, prescriptionID, medicamentID uint) (bool, error)
}

// RendezVousStore is the persistence surface for appointments.
type RendezVousStore interface {
	GetAll(ctx context.Context) ([]models.RendezVous, error)
	GetByID(ctx context.Context, id uint) (*models.RendezVous, error)
	ExistsOverlapping(ctx context.Context, medecinID uint, debut, fin time.Time) (bool, error)
	CreateIfSlotFree(ctx context.Context, rdv *models.RendezVous) error
	Update(ctx context.Context, rdv *models.RendezVous) error
	Delete(ctx context.Context, id uint) error
	GetByPatient(ctx context.Context, patientID uint) ([]models.RendezVous, error)
	GetByMedecin(ctx context.Context, medecinID uint) ([]models.RendezVous, error)
	GetByMedecinAndStatut(ctx context.Context, medecinID uint, statut models.StatutRendezVous) ([]models.RendezVous, error)
	GetByPeriode(ctx context.Context, debut, fin time.Time) ([]models.RendezVous, error)
	GetByMedecinAndPeriode(ctx context.Context, medecinID uint, debut, fin time.Time) ([]models.RendezVous, error)
	GetDuJour(ctx context.Context, now time.Time) ([]models.RendezVous, error)
	CountDuJour(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// UserStore is the persistence surface for users and roles.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	EnsureRole(ctx context.Context, name, description string) (*models.Role, error)
	AddRole(ctx context.Context, user *models.User, role *models.Role) error
	RemoveRole(ctx context.Context, user *models.User, role *models.Role) error
}

// AuditRecorder records mutating operations best-effort.
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog)
}

// nopAudit drops audit entries; used when auditing is not wired.
type nopAudit struct{}

func (nopAudit) Record(context.Context, *models.AuditLog) {}

// NopAudit returns a recorder that discards entries.
func NopAudit() AuditRecorder {
	return nopAudit{}
}
