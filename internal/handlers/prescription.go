package handlers

import (
	"net/http"
	"time"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/services"
)

type PrescriptionHandler struct {
	prescriptionService *services.PrescriptionService
}

func NewPrescriptionHandler(prescriptionService *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptionService: prescriptionService}
}

// List returns prescriptions, filtered by ?patient_id=, ?medecin_id= or a
// ?debut=/?fin= period
func (h *PrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		prescriptions []models.Prescription
		err           error
	)
	switch {
	case q.Get("patient_id") != "":
		patientID := uint(queryInt(r, "patient_id", 0))
		if q.Get("actives") == "true" {
			prescriptions, err = h.prescriptionService.GetActivesByPatient(ctx, patientID)
		} else {
			prescriptions, err = h.prescriptionService.GetByPatient(ctx, patientID)
		}
	case q.Get("medecin_id") != "":
		prescriptions, err = h.prescriptionService.GetByMedecin(ctx, uint(queryInt(r, "medecin_id", 0)))
	case q.Get("debut") != "" && q.Get("fin") != "":
		var debut, fin time.Time
		debut, fin, err = periodParams(q.Get("debut"), q.Get("fin"))
		if err == nil {
			prescriptions, err = h.prescriptionService.GetByPeriode(ctx, debut, fin)
		}
	default:
		prescriptions, err = h.prescriptionService.GetAll(ctx)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescriptions)
}

func (h *PrescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	prescription, err := h.prescriptionService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescription)
}

func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PrescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prescription, err := h.prescriptionService.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prescription)
}

func (h *PrescriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.PrescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prescription, err := h.prescriptionService.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescription)
}

// CountParMedecin tallies prescriptions per doctor over a ?debut=/?fin= period
func (h *PrescriptionHandler) CountParMedecin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	debut, fin, err := periodParams(q.Get("debut"), q.Get("fin"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	counts, err := h.prescriptionService.CountParMedecin(r.Context(), debut, fin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *PrescriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.prescriptionService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatut changes the prescription lifecycle status
func (h *PrescriptionHandler) UpdateStatut(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.PrescriptionStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prescription, err := h.prescriptionService.UpdateStatut(r.Context(), id, req.Statut)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescription)
}

// IsValide reports whether the prescription can still be dispensed today
func (h *PrescriptionHandler) IsValide(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	valide, err := h.prescriptionService.IsValide(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valide": valide})
}

// GetLignes lists the lines of a prescription
func (h *PrescriptionHandler) GetLignes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lignes, err := h.prescriptionService.GetLignes(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lignes)
}

// AddLigne attaches a medication line to a prescription
func (h *PrescriptionHandler) AddLigne(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.LigneRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ligne, err := h.prescriptionService.AddLigne(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ligne)
}

// RemoveLigne detaches a line from a prescription
func (h *PrescriptionHandler) RemoveLigne(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ligneID, err := idParam(r, "ligneId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.prescriptionService.RemoveLigne(r.Context(), id, ligneID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// periodParams parses debut/fin yyyy-mm-dd query values into a day-aligned
// window, fin inclusive of its whole day.
func periodParams(debutRaw, finRaw string) (time.Time, time.Time, error) {
	debut, err := time.Parse("2006-01-02", debutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.InvalidArgument("invalid debut %q, expected yyyy-mm-dd", debutRaw)
	}
	fin, err := time.Parse("2006-01-02", finRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.InvalidArgument("invalid fin %q, expected yyyy-mm-dd", finRaw)
	}
	return debut, fin.AddDate(0, 0, 1), nil
}
