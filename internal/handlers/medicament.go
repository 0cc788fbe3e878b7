package handlers

import (
	"net/http"

	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/services"
)

type MedicamentHandler struct {
	medicamentService *services.MedicamentService
}

func NewMedicamentHandler(medicamentService *services.MedicamentService) *MedicamentHandler {
	return &MedicamentHandler{medicamentService: medicamentService}
}

// List returns the catalogue, filtered by ?nom=, ?dci=, ?laboratoire=,
// ?disponible=true, ?alerte=true or ?expire_avant_jours=
func (h *MedicamentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		medicaments []models.Medicament
		err         error
	)
	switch {
	case q.Get("nom") != "":
		medicaments, err = h.medicamentService.SearchByNom(ctx, q.Get("nom"), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	case q.Get("dci") != "":
		medicaments, err = h.medicamentService.GetByDci(ctx, q.Get("dci"))
	case q.Get("laboratoire") != "":
		medicaments, err = h.medicamentService.GetByLaboratoire(ctx, q.Get("laboratoire"))
	case q.Get("disponible") == "true":
		medicaments, err = h.medicamentService.GetDisponibles(ctx)
	case q.Get("alerte") == "true":
		medicaments, err = h.medicamentService.GetEnAlerte(ctx)
	case q.Get("expire_avant_jours") != "":
		medicaments, err = h.medicamentService.GetExpiringSoon(ctx, queryInt(r, "expire_avant_jours", 30))
	default:
		medicaments, err = h.medicamentService.GetAll(ctx)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medicaments)
}

func (h *MedicamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	medicament, err := h.medicamentService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medicament)
}

func (h *MedicamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MedicamentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	medicament, err := h.medicamentService.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, medicament)
}

func (h *MedicamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.MedicamentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	medicament, err := h.medicamentService.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medicament)
}

// AdjustStock applies a signed quantity delta to the stock
func (h *MedicamentHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.StockUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	medicament, err := h.medicamentService.AdjustStock(r.Context(), id, req.Quantite)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medicament)
}

// SetAvailability flips the disponible flag
func (h *MedicamentHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.AvailabilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	medicament, err := h.medicamentService.SetAvailability(r.Context(), id, req.Disponible)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, medicament)
}

func (h *MedicamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.medicamentService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
