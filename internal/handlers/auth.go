package handlers

import (
	"net/http"

	"github.com/hospitalms/hospital-api/internal/middleware"
	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/services"
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterPatient creates a patient account and its patient record
func (h *AuthHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.userService.RegisterPatient(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// RegisterMedecin creates a doctor account linked to an existing medecin
func (h *AuthHandler) RegisterMedecin(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.userService.RegisterMedecin(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// RegisterAdmin creates an administrator account
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.userService.RegisterAdmin(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a signed token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		// Bad credentials answer 401 regardless of the underlying kind so
		// usernames cannot be probed.
		if !apperrIsInternal(err) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// Me returns the authenticated user's account
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.UserFromContext(r.Context())
	if identity == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := h.userService.GetByID(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword replaces the authenticated user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := middleware.UserFromContext(r.Context())
	if identity == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.PasswordChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.userService.ChangePassword(r.Context(), identity.UserID, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetActive enables or disables an account
func (h *AuthHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.userService.SetActive(r.Context(), id, req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GrantRole adds a role to an account
func (h *AuthHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.userService.GrantRole(r.Context(), id, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RevokeRole removes a role from an account
func (h *AuthHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.userService.RevokeRole(r.Context(), id, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
