package handlers

import (
	"net/http"
	"time"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/services"
)

type RendezVousHandler struct {
	rendezVousService *services.RendezVousService
}

func NewRendezVousHandler(rendezVousService *services.RendezVousService) *RendezVousHandler {
	return &RendezVousHandler{rendezVousService: rendezVousService}
}

// List returns appointments, filtered by ?patient_id=, ?medecin_id=
// (optionally with ?statut= or a ?debut=/?fin= period) or ?jour=true
func (h *RendezVousHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		rendezVous []models.RendezVous
		err        error
	)
	switch {
	case q.Get("patient_id") != "":
		rendezVous, err = h.rendezVousService.GetByPatient(ctx, uint(queryInt(r, "patient_id", 0)))
	case q.Get("medecin_id") != "":
		medecinID := uint(queryInt(r, "medecin_id", 0))
		switch {
		case q.Get("statut") != "":
			rendezVous, err = h.rendezVousService.GetByMedecinAndStatut(ctx, medecinID, models.StatutRendezVous(q.Get("statut")))
		case q.Get("debut") != "" && q.Get("fin") != "":
			var debut, fin time.Time
			debut, fin, err = periodParams(q.Get("debut"), q.Get("fin"))
			if err == nil {
				rendezVous, err = h.rendezVousService.GetPlanningMedecin(ctx, medecinID, debut, fin)
			}
		default:
			rendezVous, err = h.rendezVousService.GetByMedecin(ctx, medecinID)
		}
	case q.Get("debut") != "" && q.Get("fin") != "":
		var debut, fin time.Time
		debut, fin, err = periodParams(q.Get("debut"), q.Get("fin"))
		if err == nil {
			rendezVous, err = h.rendezVousService.GetByPeriode(ctx, debut, fin)
		}
	case q.Get("jour") == "true":
		rendezVous, err = h.rendezVousService.GetDuJour(ctx)
	default:
		rendezVous, err = h.rendezVousService.GetAll(ctx)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rendezVous)
}

func (h *RendezVousHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rdv, err := h.rendezVousService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rdv)
}

// Schedule books a new appointment
func (h *RendezVousHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req models.RendezVousRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rdv, err := h.rendezVousService.Schedule(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rdv)
}

func (h *RendezVousHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.RendezVousRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rdv, err := h.rendezVousService.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rdv)
}

// UpdateStatut changes the appointment lifecycle status
func (h *RendezVousHandler) UpdateStatut(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.RendezVousStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rdv, err := h.rendezVousService.UpdateStatut(r.Context(), id, req.Statut)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rdv)
}

// Disponibilite checks whether a doctor is free over a window
func (h *RendezVousHandler) Disponibilite(w http.ResponseWriter, r *http.Request) {
	medecinID, err := idParam(r, "medecinId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	debut, err := time.Parse(time.RFC3339, r.URL.Query().Get("debut"))
	if err != nil {
		writeError(w, r, apperr.InvalidArgument("invalid debut, expected RFC 3339 timestamp"))
		return
	}
	fin, err := time.Parse(time.RFC3339, r.URL.Query().Get("fin"))
	if err != nil {
		writeError(w, r, apperr.InvalidArgument("invalid fin, expected RFC 3339 timestamp"))
		return
	}
	disponible, err := h.rendezVousService.IsMedecinDisponible(r.Context(), medecinID, debut, fin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"disponible": disponible})
}

func (h *RendezVousHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.rendezVousService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
