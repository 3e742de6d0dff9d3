package web

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/catalog-console/internal/auth/domain"
	"github.com/tair/catalog-console/internal/session"
	"github.com/tair/catalog-console/internal/validation"
)

// ValidateRequest is the body of POST /api/validate
type ValidateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ValidateResponse carries the field error; empty when the value is valid
type ValidateResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// SessionResponse describes the caller's session
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

func (s *Server) registerAPIRoutes(api *mux.Router) {
	api.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost, http.MethodOptions).Name("api-validate")
	api.HandleFunc("/session", s.handleSession).Methods(http.MethodGet, http.MethodOptions).Name("api-session")
}

// handleValidate godoc
// @Summary Validate a product form field
// @Description Applies the product form rule for one field, used on blur by the modal form
// @Tags Validation
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Field and raw value"
// @Success 200 {object} ValidateResponse
// @Failure 400 {object} object{error=string}
// @Router /api/validate [post]
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.Field == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "field is required"})
		return
	}

	respondJSON(w, http.StatusOK, ValidateResponse{
		Field: req.Field,
		Error: validation.Validate(req.Field, req.Value),
	})
}

// handleSession godoc
// @Summary Current session
// @Description Reports whether the session cookie belongs to a signed-in user
// @Tags Session
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /api/session [get]
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	respondJSON(w, http.StatusOK, SessionResponse{
		Authenticated: sc.Authenticated(),
		User:          sc.User,
	})
}
