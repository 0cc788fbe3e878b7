package services

import (
	"context"
	"strings"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

// DepartementService manages hospital departments and the assignment of a
// chief doctor. Assigning a chief keeps the invariant that the chief belongs
// to the department they lead.
type DepartementService struct {
	departements DepartementStore
	medecins     MedecinStore
	audit        AuditRecorder
}

func NewDepartementService(departements DepartementStore, medecins MedecinStore, audit AuditRecorder) *DepartementService {
	return &DepartementService{departements: departements, medecins: medecins, audit: audit}
}

func (s *DepartementService) GetAll(ctx context.Context) ([]models.Departement, error) {
	return s.departements.GetAll(ctx)
}

func (s *DepartementService) GetByID(ctx context.Context, id uint) (*models.Departement, error) {
	return s.departements.GetByID(ctx, id)
}

func (s *DepartementService) Create(ctx context.Context, req *models.DepartementRequest) (*models.Departement, error) {
	if err := validateDepartementRequest(req); err != nil {
		return nil, err
	}
	departement := &models.Departement{
		Nom:          strings.TrimSpace(req.Nom),
		Description:  req.Description,
		Localisation: req.Localisation,
		CapaciteLits: req.CapaciteLits,
		Actif:        true,
	}
	if req.Actif != nil {
		departement.Actif = *req.Actif
	}
	if err := s.departements.Create(ctx, departement); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "departement.create",
		ResourceType: "departement",
		ResourceID:   departement.ID,
		Status:       "ok",
	})
	return departement, nil
}

func (s *DepartementService) Update(ctx context.Context, id uint, req *models.DepartementRequest) (*models.Departement, error) {
	if err := validateDepartementRequest(req); err != nil {
		return nil, err
	}
	departement, err := s.departements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	departement.Nom = strings.TrimSpace(req.Nom)
	departement.Description = req.Description
	departement.Localisation = req.Localisation
	departement.CapaciteLits = req.CapaciteLits
	if req.Actif != nil {
		departement.Actif = *req.Actif
	}
	if err := s.departements.Update(ctx, departement); err != nil {
		return nil, err
	}
	return departement, nil
}

func (s *DepartementService) Delete(ctx context.Context, id uint) error {
	if _, err := s.departements.GetByID(ctx, id); err != nil {
		return err
	}
	medecins, err := s.medecins.GetByDepartement(ctx, id)
	if err != nil {
		return err
	}
	if len(medecins) > 0 {
		return apperr.InvalidState("departement %d still has %d medecins assigned", id, len(medecins))
	}
	if err := s.departements.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "departement.delete",
		ResourceType: "departement",
		ResourceID:   id,
		Status:       "ok",
	})
	return nil
}

// AssignChef makes the given doctor the chief of the department. A doctor
// from another department is moved into this one first so chiefs always lead
// their own department.
func (s *DepartementService) AssignChef(ctx context.Context, departementID, medecinID uint) (*models.Departement, error) {
	departement, err := s.departements.GetByID(ctx, departementID)
	if err != nil {
		return nil, err
	}
	medecin, err := s.medecins.GetByID(ctx, medecinID)
	if err != nil {
		return nil, err
	}

	if medecin.DepartementID == nil || *medecin.DepartementID != departementID {
		medecin.DepartementID = &departementID
		if err := s.medecins.Update(ctx, medecin); err != nil {
			return nil, err
		}
	}

	departement.ChefDepartementID = &medecinID
	if err := s.departements.Update(ctx, departement); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "departement.assign_chef",
		ResourceType: "departement",
		ResourceID:   departementID,
		Status:       "ok",
	})
	return departement, nil
}

// SetActif toggles whether the department is operating.
func (s *DepartementService) SetActif(ctx context.Context, id uint, actif bool) (*models.Departement, error) {
	departement, err := s.departements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	departement.Actif = actif
	if err := s.departements.Update(ctx, departement); err != nil {
		return nil, err
	}
	return departement, nil
}

func (s *DepartementService) SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Departement, error) {
	return s.departements.SearchByNom(ctx, keyword, limit, offset)
}

func (s *DepartementService) GetActifs(ctx context.Context) ([]models.Departement, error) {
	return s.departements.GetActifs(ctx)
}

func (s *DepartementService) GetByCapaciteMin(ctx context.Context, capaciteMin int) ([]models.Departement, error) {
	return s.departements.GetByCapaciteMin(ctx, capaciteMin)
}

// CountMedecins returns the number of doctors assigned to the department.
func (s *DepartementService) CountMedecins(ctx context.Context, id uint) (int, error) {
	if _, err := s.departements.GetByID(ctx, id); err != nil {
		return 0, err
	}
	medecins, err := s.medecins.GetByDepartement(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(medecins), nil
}

func validateDepartementRequest(req *models.DepartementRequest) error {
	if strings.TrimSpace(req.Nom) == "" {
		return apperr.InvalidArgument("departement nom is required")
	}
	if req.CapaciteLits < 0 {
		return apperr.InvalidArgument("capacite_lits cannot be negative")
	}
	return nil
}
