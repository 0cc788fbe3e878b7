package handlers

import (
	"net/http"

	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/services"
)

type DepartementHandler struct {
	departementService *services.DepartementService
	medecinService     *services.MedecinService
}

func NewDepartementHandler(departementService *services.DepartementService, medecinService *services.MedecinService) *DepartementHandler {
	return &DepartementHandler{
		departementService: departementService,
		medecinService:     medecinService,
	}
}

// List returns all departments, filtered by ?nom=, ?actif=true or ?capacite_min=
func (h *DepartementHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		departements []models.Departement
		err          error
	)
	switch {
	case q.Get("nom") != "":
		departements, err = h.departementService.SearchByNom(ctx, q.Get("nom"), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	case q.Get("actif") == "true":
		departements, err = h.departementService.GetActifs(ctx)
	case q.Get("capacite_min") != "":
		departements, err = h.departementService.GetByCapaciteMin(ctx, queryInt(r, "capacite_min", 0))
	default:
		departements, err = h.departementService.GetAll(ctx)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departements)
}

func (h *DepartementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	departement, err := h.departementService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departement)
}

// GetMedecins lists the doctors assigned to the department
func (h *DepartementHandler) GetMedecins(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	medecins, err := h.medecinService.GetByDepartement(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medecins)
}

func (h *DepartementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.DepartementRequest
	if !decodeBody(w, r, &req) {
		return
	}
	departement, err := h.departementService.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, departement)
}

func (h *DepartementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.DepartementRequest
	if !decodeBody(w, r, &req) {
		return
	}
	departement, err := h.departementService.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departement)
}

// SetActif toggles whether the department is operating
func (h *DepartementHandler) SetActif(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.ActifRequest
	if !decodeBody(w, r, &req) {
		return
	}
	departement, err := h.departementService.SetActif(r.Context(), id, req.Actif)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departement)
}

// AssignChef names a doctor chief of the department
func (h *DepartementHandler) AssignChef(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	medecinID, err := idParam(r, "medecinId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	departement, err := h.departementService.AssignChef(r.Context(), id, medecinID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departement)
}

func (h *DepartementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.departementService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
