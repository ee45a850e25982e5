package roles

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
	r.Route("/admin/roles", func(ar chi.Router) {
		ar.Post("/", grantRoleHandler(svc))
		ar.Post("/{assignmentID}/revoke", revokeRoleHandler(svc))
	})
	r.Get("/admin/users/{userID}/roles", listUserRolesHandler(svc))
	r.Get("/me/roles", listMyRolesHandler(svc))
}

type grantRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type assignmentResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Role      Role       `json:"role"`
	GrantedBy string     `json:"granted_by"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// grantRoleHandler godoc
// @Summary Otorgar rol de plataforma
// @Description Solo admin. Si el usuario ya tiene el rol activo devuelve la asignación existente.
// @Tags roles
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body grantRoleRequest true "Usuario y rol (admin | moderator)"
// @Success 201 {object} assignmentResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/roles [post]
func grantRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req grantRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Grant(r.Context(), GrantInput{
			ActorUserID:  claims.UserID,
			TargetUserID: req.UserID,
			Role:         req.Role,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAssignmentResponse(a))
	}
}

// revokeRoleHandler godoc
// @Summary Revocar rol
// @Tags roles
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param assignmentID path string true "ID de la asignación"
// @Success 200 {object} assignmentResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /admin/roles/{assignmentID}/revoke [post]
func revokeRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Revoke(r.Context(), claims.UserID, chi.URLParam(r, "assignmentID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAssignmentResponse(a))
	}
}

// listUserRolesHandler godoc
// @Summary Roles de un usuario
// @Description Solo admin.
// @Tags roles
// @Produce json
// @Param userID path string true "ID del usuario"
// @Success 200 {array} assignmentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/users/{userID}/roles [get]
func listUserRolesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		items, err := svc.ListByUser(r.Context(), claims.UserID, chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAssignmentResponses(items))
	}
}

// listMyRolesHandler godoc
// @Summary Mis roles
// @Tags roles
// @Produce json
// @Success 200 {array} assignmentResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/roles [get]
func listMyRolesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		items, err := svc.ListByUser(r.Context(), claims.UserID, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAssignmentResponses(items))
	}
}

func toAssignmentResponse(a Assignment) assignmentResponse {
	return assignmentResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Role:      a.Role,
		GrantedBy: a.GrantedBy,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		RevokedAt: a.RevokedAt,
	}
}

func toAssignmentResponses(items []Assignment) []assignmentResponse {
	out := make([]assignmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAssignmentResponse(a))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
