package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/repository"
)

type AuditHandler struct {
	auditRepo *repository.AuditRepository
}

func NewAuditHandler(auditRepo *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// ByResource lists audit entries for one resource, newest first.
// Requires ?type= and ?id=.
func (h *AuditHandler) ByResource(w http.ResponseWriter, r *http.Request) {
	resourceType := strings.TrimSpace(r.URL.Query().Get("type"))
	if resourceType == "" {
		writeError(w, r, apperr.InvalidArgument("query parameter type is required"))
		return
	}
	resourceID := queryInt(r, "id", 0)
	if resourceID <= 0 {
		writeError(w, r, apperr.InvalidArgument("query parameter id must be a positive integer"))
		return
	}

	entries, err := h.auditRepo.GetByResource(r.Context(), resourceType, uint(resourceID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Recent lists audit entries from the last ?heures= hours (default 24),
// newest first, paginated with ?limit= and ?offset=.
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	heures := queryInt(r, "heures", 24)
	if heures <= 0 {
		writeError(w, r, apperr.InvalidArgument("query parameter heures must be a positive integer"))
		return
	}
	since := time.Now().Add(-time.Duration(heures) * time.Hour)

	entries, err := h.auditRepo.GetRecent(r.Context(), since, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
