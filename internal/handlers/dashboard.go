package handlers

import (
	"net/http"

	"github.com/hospitalms/hospital-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the aggregate dashboard snapshot
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MedicamentsEnAlerte lists medications at or below their alert threshold
func (h *DashboardHandler) MedicamentsEnAlerte(w http.ResponseWriter, r *http.Request) {
	medicaments, err := h.dashboardService.GetMedicamentsEnAlerte(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medicaments)
}

// MedicamentsExpirant lists medications expiring within ?jours= days
func (h *DashboardHandler) MedicamentsExpirant(w http.ResponseWriter, r *http.Request) {
	medicaments, err := h.dashboardService.GetMedicamentsExpirant(r.Context(), queryInt(r, "jours", 30))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medicaments)
}

// RendezVousDuJour lists today's non-cancelled appointments
func (h *DashboardHandler) RendezVousDuJour(w http.ResponseWriter, r *http.Request) {
	rendezVous, err := h.dashboardService.GetRendezVousDuJour(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rendezVous)
}

// MedecinsParDepartement tallies doctors per department
func (h *DashboardHandler) MedecinsParDepartement(w http.ResponseWriter, r *http.Request) {
	counts, err := h.dashboardService.GetMedecinsParDepartement(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
