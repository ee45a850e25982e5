package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-reports-map/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/profile", func(pr chi.Router) {
		pr.Get("/", getProfileHandler(svc))
		pr.Put("/", updateProfileHandler(svc))
	})
}

type profileResponse struct {
	UserID       string       `json:"user_id"`
	DisplayName  string       `json:"display_name"`
	Phone        string       `json:"phone,omitempty"`
	DeclaredRole DeclaredRole `json:"declared_role"`
	SoundEnabled bool         `json:"sound_enabled"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
}

type updateProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	Phone        *string `json:"phone"`
	DeclaredRole *string `json:"declared_role"`
	SoundEnabled *bool   `json:"sound_enabled"`
}

// getProfileHandler godoc
// @Summary Mi perfil
// @Description Sin perfil guardado devuelve los valores por defecto (owner, sonido activado).
// @Tags profiles
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// updateProfileHandler godoc
// @Summary Actualizar mi perfil
// @Tags profiles
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body updateProfileRequest true "Campos a modificar"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /me/profile [put]
func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), claims.UserID, UpdateInput{
			DisplayName:  req.DisplayName,
			Phone:        req.Phone,
			DeclaredRole: req.DeclaredRole,
			SoundEnabled: req.SoundEnabled,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func toProfileResponse(p Profile) profileResponse {
	out := profileResponse{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		Phone:        p.Phone,
		DeclaredRole: p.DeclaredRole,
		SoundEnabled: p.SoundEnabled,
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
