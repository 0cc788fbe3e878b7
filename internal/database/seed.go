package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalms/hospital-api/internal/models"
)

// Seed inserts the baseline reference data: roles, a default admin account
// and a starter catalogue. Idempotent, existing rows are left alone.
func Seed(adminPassword string) error {
	roles := map[string]*models.Role{}
	for name, desc := range map[string]string{
		models.RoleAdmin:   "Administrator",
		models.RoleMedecin: "Doctor",
		models.RolePatient: "Patient",
	} {
		role := &models.Role{Name: name, Description: desc}
		if err := DB.Where(models.Role{Name: name}).FirstOrCreate(role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
		roles[name] = role
	}

	if adminPassword == "" {
		adminPassword = "admin123!"
	}
	var adminCount int64
	if err := DB.Model(&models.User{}).Where("username = ?", "admin").Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := &models.User{
			Username:     "admin",
			PasswordHash: string(hash),
			Email:        "admin@hopital.local",
			Active:       true,
			Roles:        []models.Role{*roles[models.RoleAdmin]},
		}
		if err := DB.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		log.Warn().Msg("Seeded default admin account, change its password")
	}

	departements := []models.Departement{
		{Nom: "Cardiologie", Description: "Pathologies cardiaques", Localisation: "Batiment A", CapaciteLits: 40, Actif: true},
		{Nom: "Pediatrie", Description: "Soins aux enfants", Localisation: "Batiment B", CapaciteLits: 30, Actif: true},
		{Nom: "Urgences", Description: "Accueil des urgences", Localisation: "Rez-de-chaussee", CapaciteLits: 20, Actif: true},
	}
	for i := range departements {
		d := &departements[i]
		if err := DB.Where(models.Departement{Nom: d.Nom}).FirstOrCreate(d).Error; err != nil {
			return fmt.Errorf("failed to seed departement %s: %w", d.Nom, err)
		}
	}

	expiry := time.Now().AddDate(2, 0, 0)
	medicaments := []models.Medicament{
		{Nom: "Doliprane 1000mg", Dci: "Paracetamol", Laboratoire: "Sanofi", Dosage: "1000mg", Forme: "Comprime", DateExpiration: &expiry, QuantiteStock: 500, SeuilAlerte: 50, Prix: 2.18, Disponible: true},
		{Nom: "Advil 400mg", Dci: "Ibuprofene", Laboratoire: "Pfizer", Dosage: "400mg", Forme: "Comprime", DateExpiration: &expiry, QuantiteStock: 300, SeuilAlerte: 30, Prix: 3.50, Disponible: true},
		{Nom: "Amoxicilline 500mg", Dci: "Amoxicilline", Laboratoire: "Biogaran", Dosage: "500mg", Forme: "Gelule", DateExpiration: &expiry, QuantiteStock: 200, SeuilAlerte: 20, Prix: 4.90, Disponible: true},
	}
	for i := range medicaments {
		m := &medicaments[i]
		if err := DB.Where(models.Medicament{Nom: m.Nom}).FirstOrCreate(m).Error; err != nil {
			return fmt.Errorf("failed to seed medicament %s: %w", m.Nom, err)
		}
	}

	log.Info().Msg("Seed data ensured")
	return nil
}
