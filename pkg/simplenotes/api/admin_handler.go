package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Authenticator verifies an admin password
type Authenticator interface {
	Authenticate(password string) bool
}

// AdminHandler serves the /api/admin endpoints
type AdminHandler struct {
	auth   Authenticator
	logger *slog.Logger
}

func NewAdminHandler(auth Authenticator, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{auth: auth, logger: logger}
}

// Routes returns the router for admin endpoints
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/auth", h.Authenticate)
	return r
}

// AuthRequest is the body of POST /api/admin/auth
type AuthRequest struct {
	Password string `json:"password"`
}

// AuthResponse reports the outcome of an authentication attempt
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Authenticate answers 200 for both outcomes; the result is in the body.
func (h *AdminHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.auth.Authenticate(req.Password) {
		render.JSON(w, r, AuthResponse{Success: true, Message: "Authentication successful"})
		return
	}

	h.logger.InfoContext(r.Context(), "admin authentication failed", "remote_addr", r.RemoteAddr)
	render.JSON(w, r, AuthResponse{Success: false, Message: "Invalid password"})
}
