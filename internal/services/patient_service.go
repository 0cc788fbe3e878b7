package services

import (
	"context"
	"strings"
	"time"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
)

// PatientService manages patient records.
type PatientService struct {
	patients PatientStore
	audit    AuditRecorder
}

func NewPatientService(patients PatientStore, audit AuditRecorder) *PatientService {
	return &PatientService{patients: patients, audit: audit}
}

func (s *PatientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	return s.patients.GetAll(ctx)
}

func (s *PatientService) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *PatientService) Create(ctx context.Context, req *models.PatientRequest) (*models.Patient, error) {
	patient, err := patientFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "patient.create",
		ResourceType: "patient",
		ResourceID:   patient.ID,
		Status:       "ok",
	})
	return patient, nil
}

func (s *PatientService) Update(ctx context.Context, id uint, req *models.PatientRequest) (*models.Patient, error) {
	incoming, err := patientFromRequest(req)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patient.Nom = incoming.Nom
	patient.DateNaissance = incoming.DateNaissance
	patient.Malade = incoming.Malade
	patient.Score = incoming.Score

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Delete(ctx context.Context, id uint) error {
	if _, err := s.patients.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:       "patient.delete",
		ResourceType: "patient",
		ResourceID:   id,
		Status:       "ok",
	})
	return nil
}

func (s *PatientService) SearchByNom(ctx context.Context, keyword string, limit, offset int) ([]models.Patient, error) {
	return s.patients.SearchByNom(ctx, keyword, limit, offset)
}

func patientFromRequest(req *models.PatientRequest) (*models.Patient, error) {
	nom := strings.TrimSpace(req.Nom)
	if nom == "" {
		return nil, apperr.InvalidArgument("patient nom is required")
	}
	if len(nom) < 4 || len(nom) > 20 {
		return nil, apperr.InvalidArgument("patient nom must be between 4 and 20 characters")
	}

	var naissance time.Time
	if req.DateNaissance != "" {
		parsed, err := parseDate(req.DateNaissance)
		if err != nil {
			return nil, err
		}
		naissance = *parsed
	}

	return &models.Patient{
		Nom:           nom,
		DateNaissance: naissance,
		Malade:        req.Malade,
		Score:         req.Score,
	}, nil
}
