package handlers

import (
	"net/http"

	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/services"
)

type MedecinHandler struct {
	medecinService *services.MedecinService
}

func NewMedecinHandler(medecinService *services.MedecinService) *MedecinHandler {
	return &MedecinHandler{medecinService: medecinService}
}

// List returns all doctors, filtered by ?nom=, ?specialite= or ?disponible=true
func (h *MedecinHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		medecins []models.Medecin
		err      error
	)
	switch {
	case q.Get("nom") != "":
		medecins, err = h.medecinService.SearchByNom(ctx, q.Get("nom"), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	case q.Get("specialite") != "":
		medecins, err = h.medecinService.GetBySpecialite(ctx, q.Get("specialite"))
	case q.Get("disponible") == "true":
		medecins, err = h.medecinService.GetDisponibles(ctx)
	default:
		medecins, err = h.medecinService.GetAll(ctx)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medecins)
}

func (h *MedecinHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	medecin, err := h.medecinService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medecin)
}

func (h *MedecinHandler) GetByMatricule(w http.ResponseWriter, r *http.Request) {
	matricule := r.URL.Query().Get("matricule")
	if matricule == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "matricule query parameter is required"})
		return
	}
	medecin, err := h.medecinService.GetByMatricule(r.Context(), matricule)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medecin)
}

func (h *MedecinHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MedecinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	medecin, err := h.medecinService.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, medecin)
}

func (h *MedecinHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.MedecinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	medecin, err := h.medecinService.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medecin)
}

// SetDisponibilite toggles whether the doctor takes appointments
func (h *MedecinHandler) SetDisponibilite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.AvailabilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	medecin, err := h.medecinService.SetDisponibilite(r.Context(), id, req.Disponible)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medecin)
}

func (h *MedecinHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.medecinService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
