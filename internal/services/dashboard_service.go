package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hospitalms/hospital-api/internal/cache"
	"github.com/hospitalms/hospital-api/internal/models"
)

// DashboardStats is the aggregate snapshot shown on the admin dashboard.
type DashboardStats struct {
	TotalPatients        int64 `json:"total_patients"`
	PatientsMalades      int64 `json:"patients_malades"`
	TotalMedecins        int64 `json:"total_medecins"`
	MedecinsDisponibles  int64 `json:"medecins_disponibles"`
	TotalDepartements    int64 `json:"total_departements"`
	TotalMedicaments     int64 `json:"total_medicaments"`
	MedicamentsEnAlerte  int64 `json:"medicaments_en_alerte"`
	TotalPrescriptions   int64 `json:"total_prescriptions"`
	TotalRendezVous      int64 `json:"total_rendez_vous"`
	RendezVousAujourdhui int64 `json:"rendez_vous_aujourdhui"`
}

// DashboardService aggregates counts across the domain. Results are cached
// for a short window since the dashboard is read far more often than the
// counts change.
type DashboardService struct {
	patients      PatientStore
	medecins      MedecinStore
	departements  DepartementStore
	medicaments   MedicamentStore
	prescriptions PrescriptionStore
	rendezVous    RendezVousStore
	cache         cache.Cache
	ttl           time.Duration
	now           func() time.Time
}

func NewDashboardService(
	patients PatientStore,
	medecins MedecinStore,
	departements DepartementStore,
	medicaments MedicamentStore,
	prescriptions PrescriptionStore,
	rendezVous RendezVousStore,
	c cache.Cache,
	ttl time.Duration,
) *DashboardService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DashboardService{
		patients:      patients,
		medecins:      medecins,
		departements:  departements,
		medicaments:   medicaments,
		prescriptions: prescriptions,
		rendezVous:    rendezVous,
		cache:         c,
		ttl:           ttl,
		now:           time.Now,
	}
}

// GetStats returns the dashboard snapshot, served from cache when fresh.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	key := cache.CacheKey("dashboard", "stats")
	if data, err := s.cache.Get(ctx, key); err == nil && data != nil {
		var stats DashboardStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			log.Debug().Err(err).Msg("failed to cache dashboard stats")
		}
	}
	return stats, nil
}

// GetMedicamentsEnAlerte lists medications at or below their alert threshold.
func (s *DashboardService) GetMedicamentsEnAlerte(ctx context.Context) ([]models.Medicament, error) {
	return s.medicaments.GetEnAlerte(ctx)
}

// GetMedicamentsExpirant lists medications expiring within the window.
func (s *DashboardService) GetMedicamentsExpirant(ctx context.Context, days int) ([]models.Medicament, error) {
	if days <= 0 {
		days = 30
	}
	return s.medicaments.GetExpiringBefore(ctx, s.now().AddDate(0, 0, days))
}

// GetRendezVousDuJour lists today's non-cancelled appointments.
func (s *DashboardService) GetRendezVousDuJour(ctx context.Context) ([]models.RendezVous, error) {
	return s.rendezVous.GetDuJour(ctx, s.now())
}

// GetMedecinsParDepartement tallies doctors per department.
func (s *DashboardService) GetMedecinsParDepartement(ctx context.Context) (map[string]int64, error) {
	return s.departements.CountMedecinsParDepartement(ctx)
}

func (s *DashboardService) computeStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalPatients, err = s.patients.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PatientsMalades, err = s.patients.CountMalade(ctx); err != nil {
		return nil, err
	}
	if stats.TotalMedecins, err = s.medecins.Count(ctx); err != nil {
		return nil, err
	}
	if stats.MedecinsDisponibles, err = s.medecins.CountDisponibles(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDepartements, err = s.departements.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalMedicaments, err = s.medicaments.Count(ctx); err != nil {
		return nil, err
	}
	if stats.MedicamentsEnAlerte, err = s.medicaments.CountEnAlerte(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPrescriptions, err = s.prescriptions.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRendezVous, err = s.rendezVous.Count(ctx); err != nil {
		return nil, err
	}
	if stats.RendezVousAujourdhui, err = s.rendezVous.CountDuJour(ctx, s.now()); err != nil {
		return nil, err
	}
	return &stats, nil
}
