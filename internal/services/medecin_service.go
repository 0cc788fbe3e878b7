package services

import (
	"context"
	"strings"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

// MedecinService manages doctor records.
type MedecinService struct {
	medecins     MedecinStore
	departements DepartementStore
	audit        AuditRecorder
}

func NewMedecinService(medecins MedecinStore, departements DepartementStore, audit AuditRecorder) *MedecinService {
	return &MedecinService{medecins: medecins, departements: departements, audit: audit}
}

func (s *MedecinService) GetAll(ctx context.Context) ([]models.Medecin, error) {
	return s.medecins.GetAll(ctx)
}

func (s *MedecinService) GetByID(ctx context.Context, id uint) (*models.Medecin, error) {
	return s.medecins.GetByID(ctx, id)
}

func (s *MedecinService) GetByMatricule(ctx context.Context, matricule string) (*models.Medecin, error) {
	return s.medecins.GetByMatricule(ctx, matricule)
}

func (s *MedecinService) Create(ctx context.Context, req *models.MedecinRequest) (*models.Medecin, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	if existing, err := s.medecins.GetByMatricule(ctx, req.Matricule); err == nil && existing != nil {
		return nil, apperr.InvalidState("matricule %s is already in use", req.Matricule)
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	medecin := &models.Medecin{
		Nom:           strings.TrimSpace(req.Nom),
		Prenom:        strings.TrimSpace(req.Prenom),
		Specialite:    strings.TrimSpace(req.Specialite),
		Telephone:     req.Telephone,
		Email:         req.Email,
		Matricule:     strings.TrimSpace(req.Matricule),
		DepartementID: req.DepartementID,
		Disponible:    true,
	}
	if req.Disponible != nil {
		medecin.Disponible = *req.Disponible
	}
	if err := s.medecins.Create(ctx, medecin); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "medecin.create",
		ResourceType: "medecin",
		ResourceID:   medecin.ID,
		Status:       "ok",
	})
	return medecin, nil
}

func (s *MedecinService) Update(ctx context.Context, id uint, req *models.MedecinRequest) (*models.Medecin, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	medecin, err := s.medecins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing, err := s.medecins.GetByMatricule(ctx, req.Matricule); err == nil && existing.ID != id {
		return nil, apperr.InvalidState("matricule %s is already in use", req.Matricule)
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	medecin.Nom = strings.TrimSpace(req.Nom)
	medecin.Prenom = strings.TrimSpace(req.Prenom)
	medecin.Specialite = strings.TrimSpace(req.Specialite)
	medecin.Telephone = req.Telephone
	medecin.Email = req.Email
	medecin.Matricule = strings.TrimSpace(req.Matricule)
	medecin.DepartementID = req.DepartementID
	if req.Disponible != nil {
		medecin.Disponible = *req.Disponible
	}

	if err := s.medecins.Update(ctx, medecin); err != nil {
		return nil, err
	}
	return medecin, nil
}

func (s *MedecinService) Delete(ctx context.Context, id uint) error {
	if _, err := s.medecins.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.medecins.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "medecin.delete",
		ResourceType: "medecin",
		ResourceID:   id,
		Status:       "ok",
	})
	return nil
}

// SetDisponibilite toggles whether the doctor accepts new appointments.
func (s *MedecinService) SetDisponibilite(ctx context.Context, id uint, disponible bool) (*models.Medecin, error) {
	medecin, err := s.medecins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	medecin.Disponible = disponible
	if err := s.medecins.Update(ctx, medecin); err != nil {
		return nil, err
	}
	return medecin, nil
}

func (s *MedecinService) SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Medecin, error) {
	return s.medecins.SearchByNom(ctx, keyword, limit, offset)
}

func (s *MedecinService) GetBySpecialite(ctx context.Context, specialite string) ([]models.Medecin, error) {
	return s.medecins.GetBySpecialite(ctx, specialite)
}

func (s *MedecinService) GetDisponibles(ctx context.Context) ([]models.Medecin, error) {
	return s.medecins.GetDisponibles(ctx)
}

func (s *MedecinService) GetByDepartement(ctx context.Context, departementID uint) ([]models.Medecin, error) {
	if _, err := s.departements.GetByID(ctx, departementID); err != nil {
		return nil, err
	}
	return s.medecins.GetByDepartement(ctx, departementID)
}

func (s *MedecinService) validateRequest(ctx context.Context, req *models.MedecinRequest) error {
	if strings.TrimSpace(req.Nom) == "" {
		return apperr.InvalidArgument("medecin nom is required")
	}
	if strings.TrimSpace(req.Prenom) == "" {
		return apperr.InvalidArgument("medecin prenom is required")
	}
	if strings.TrimSpace(req.Specialite) == "" {
		return apperr.InvalidArgument("medecin specialite is required")
	}
	if strings.TrimSpace(req.Matricule) == "" {
		return apperr.InvalidArgument("medecin matricule is required")
	}
	if req.DepartementID != nil {
		if _, err := s.departements.GetByID(ctx, *req.DepartementID); err != nil {
			return err
		}
	}
	return nil
}
