package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-reports-map/internal/domain/visibility"
	"pet-reports-map/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/stats", statsHandler(svc))

		rr.Route("/missing", func(mr chi.Router) {
			mr.Post("/", createMissingHandler(svc))
			mr.Get("/{reportID}", getMissingHandler(svc))
			mr.Post("/{reportID}/found", markFoundHandler(svc))
			mr.Post("/{reportID}/close", closeMissingHandler(svc))

			mr.Get("/{reportID}/sightings", listSightingsHandler(svc))
			mr.Post("/{reportID}/sightings", submitSightingHandler(svc))
			mr.Get("/{reportID}/track", trackHandler(svc))
		})

		rr.Route("/stray", func(sr chi.Router) {
			sr.Post("/", createStrayHandler(svc))
			sr.Get("/{reportID}", getStrayHandler(svc))
			sr.Post("/{reportID}/rescue", rescueHandler(svc))
			sr.Patch("/{reportID}/status", strayStatusHandler(svc))
		})
	})
}

// ViewerFrom arma el Viewer explícito a partir de las claims del request.
// Sin claims => invitado.
func ViewerFrom(r *http.Request) visibility.Viewer {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return visibility.Guest()
	}
	return visibility.Viewer{UserID: claims.UserID, DeclaredRole: claims.DeclaredRole}
}

// -------------------------
// DTOs
// -------------------------

type resolutionResponse struct {
	Type       ResolutionType `json:"type"`
	Notes      string         `json:"notes"`
	ResolvedAt time.Time      `json:"resolved_at"`
	ResolvedBy string         `json:"resolved_by,omitempty"`
}

// MissingResponse nunca lleva contact_phone; el contacto va aparte en el detalle.
type MissingResponse struct {
	ID               string              `json:"id"`
	OwnerUserID      string              `json:"owner_user_id,omitempty"`
	PetID            string              `json:"pet_id"`
	Pet              *PetRef             `json:"pet,omitempty"`
	LastSeenLocation string              `json:"last_seen_location"`
	Lat              *float64            `json:"lat"`
	Lon              *float64            `json:"lon"`
	LastSeenAt       *time.Time          `json:"last_seen_at,omitempty"`
	Description      string              `json:"description"`
	Status           MissingStatus       `json:"status"`
	Resolution       *resolutionResponse `json:"resolution,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

type rescueResponse struct {
	TakenToClinic bool       `json:"taken_to_clinic"`
	ClinicName    string     `json:"clinic_name,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	RescueDate    *time.Time `json:"rescue_date,omitempty"`
}

type StrayResponse struct {
	ID             string         `json:"id"`
	ReporterUserID string         `json:"reporter_user_id,omitempty"`
	AnimalType     string         `json:"animal_type"`
	DangerLevel    DangerLevel    `json:"danger_level"`
	Location       string         `json:"location"`
	Lat            *float64       `json:"lat"`
	Lon            *float64       `json:"lon"`
	Description    string         `json:"description"`
	PhotoURL       string         `json:"photo_url,omitempty"`
	Status         StrayStatus    `json:"status"`
	Resolved       bool           `json:"resolved"`
	Rescue         rescueResponse `json:"rescue"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type SightingResponse struct {
	ID           string    `json:"id"`
	ReportID     string    `json:"report_id"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	LocationText string    `json:"location_text"`
	Description  string    `json:"description,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	ReporterID   string    `json:"reporter_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type missingDetailResponse struct {
	Report     MissingResponse              `json:"report"`
	Contact    visibility.ContactDisclosure `json:"contact"`
	CanResolve bool                         `json:"can_resolve"`
}

type strayDetailResponse struct {
	Report    StrayResponse                `json:"report"`
	Contact   visibility.ContactDisclosure `json:"contact"`
	CanManage bool                         `json:"can_manage"`
}

type trackResponse struct {
	ReportID  string             `json:"report_id"`
	Origin    *Coord             `json:"origin,omitempty"`
	Sightings []SightingResponse `json:"sightings"`
	Path      []Coord            `json:"path"`
}

type sightingCreatedResponse struct {
	Sighting SightingResponse `json:"sighting"`
	Sound    bool             `json:"sound"`
}

type createMissingRequest struct {
	PetID            string   `json:"pet_id"`
	LastSeenLocation string   `json:"last_seen_location"`
	Lat              *float64 `json:"lat"`
	Lon              *float64 `json:"lon"`
	LastSeenAt       string   `json:"last_seen_at"` // RFC3339 opcional
	Description      string   `json:"description"`
	ContactPhone     string   `json:"contact_phone"`
}

type markFoundRequest struct {
	ResolutionType ResolutionType `json:"resolution_type"`
	Notes          string         `json:"notes"`
}

type submitSightingRequest struct {
	LocationText string   `json:"location_text"`
	Description  string   `json:"description"`
	PhotoURL     string   `json:"photo_url"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	DeviceLat    *float64 `json:"device_lat"`
	DeviceLon    *float64 `json:"device_lon"`
}

type createStrayRequest struct {
	AnimalType   string      `json:"animal_type"`
	DangerLevel  DangerLevel `json:"danger_level"`
	Location     string      `json:"location"`
	Lat          *float64    `json:"lat"`
	Lon          *float64    `json:"lon"`
	Description  string      `json:"description"`
	PhotoURL     string      `json:"photo_url"`
	ContactPhone string      `json:"contact_phone"`
}

type rescueRequest struct {
	ClinicName string `json:"clinic_name"`
	Notes      string `json:"notes"`
	RescueDate string `json:"rescue_date"` // YYYY-MM-DD opcional
}

type strayStatusRequest struct {
	Status StrayStatus `json:"status"`
}

// -------------------------
// Handlers
// -------------------------

// createMissingHandler godoc
// @Summary Crear reporte de mascota perdida
// @Tags reports
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createMissingRequest true "Datos del reporte"
// @Success 201 {object} MissingResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {object} errorResponse "sign_in_required"
// @Failure 403 {string} string "forbidden"
// @Router /reports/missing [post]
func createMissingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMissingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		coord, err := coordFrom(req.Lat, req.Lon)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var lastSeen *time.Time
		if strings.TrimSpace(req.LastSeenAt) != "" {
			t, err := time.Parse(time.RFC3339, req.LastSeenAt)
			if err != nil {
				http.Error(w, "last_seen_at must be RFC3339", http.StatusBadRequest)
				return
			}
			lastSeen = &t
		}

		rep, err := svc.CreateMissing(r.Context(), ViewerFrom(r), CreateMissingInput{
			PetID:            req.PetID,
			LastSeenLocation: req.LastSeenLocation,
			Coord:            coord,
			LastSeenAt:       lastSeen,
			Description:      req.Description,
			ContactPhone:     req.ContactPhone,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ToMissingResponse(rep))
	}
}

// getMissingHandler godoc
// @Summary Detalle de reporte de pérdida
// @Description Invitados leen desde missing_reports_map. El teléfono solo viaja en contact cuando mode=call.
// @Tags reports
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {object} missingDetailResponse
// @Failure 404 {string} string "report not found"
// @Router /reports/missing/{reportID} [get]
func getMissingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetMissingDetail(r.Context(), ViewerFrom(r), chi.URLParam(r, "reportID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, missingDetailResponse{
			Report:     ToMissingResponse(d.Report),
			Contact:    d.Contact,
			CanResolve: d.CanResolve,
		})
	}
}

// markFoundHandler godoc
// @Summary Marcar mascota como encontrada
// @Tags reports
// @Accept json
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Param payload body markFoundRequest true "Tipo de resolución y notas"
// @Success 200 {object} MissingResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {object} errorResponse "sign_in_required"
// @Failure 403 {string} string "forbidden"
// @Failure 409 {string} string "invalid state / operation already in progress"
// @Router /reports/missing/{reportID}/found [post]
func markFoundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markFoundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rep, err := svc.MarkFound(r.Context(), ViewerFrom(r), chi.URLParam(r, "reportID"), req.ResolutionType, req.Notes)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToMissingResponse(rep))
	}
}

// closeMissingHandler godoc
// @Summary Cerrar reporte de pérdida
// @Description Un reporte cerrado ya no se puede modificar.
// @Tags reports
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {object} MissingResponse
// @Failure 401 {object} errorResponse "sign_in_required"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "report not found"
// @Failure 409 {string} string "invalid state / operation already in progress"
// @Router /reports/missing/{reportID}/close [post]
func closeMissingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.Close(r.Context(), ViewerFrom(r), chi.URLParam(r, "reportID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToMissingResponse(rep))
	}
}

// listSightingsHandler godoc
// @Summary Avistamientos de un reporte
// @Tags reports
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {array} SightingResponse
// @Failure 404 {string} string "report not found"
// @Router /reports/missing/{reportID}/sightings [get]
func listSightingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListSightings(r.Context(), ViewerFrom(r), chi.URLParam(r, "reportID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]SightingResponse, 0, len(items))
		for _, s := range items {
			out = append(out, ToSightingResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// submitSightingHandler godoc
// @Summary Reportar avistamiento
// @Description Coordenadas: lat/lon explícitas, luego device_lat/device_lon, luego las del reporte. Si no hay ninguna responde 422.
// @Tags reports
// @Accept json
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Param payload body submitSightingRequest true "Avistamiento"
// @Success 201 {object} sightingCreatedResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {object} errorResponse "sign_in_required"
// @Failure 404 {string} string "report not found"
// @Failure 422 {string} string "no coordinates available"
// @Router /reports/missing/{reportID}/sightings [post]
func submitSightingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitSightingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		explicit, err := coordFrom(req.Lat, req.Lon)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		device, err := coordFrom(req.DeviceLat, req.DeviceLon)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		v := ViewerFrom(r)
		sg, err := svc.SubmitSighting(r.Context(), v, chi.URLParam(r, "reportID"), SightingInput{
			LocationText: req.LocationText,
			Description:  req.Description,
			PhotoURL:     req.PhotoURL,
			Coord:        explicit,
			DeviceCoord:  device,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, sightingCreatedResponse{
			Sighting: ToSightingResponse(sg),
			Sound:    svc.SoundFor(r.Context(), v),
		})
	}
}

// trackHandler godoc
// @Summary Rastro de una mascota perdida
// @Description Punto original (si existe) seguido de los avistamientos en orden de creación.
// @Tags reports
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {object} trackResponse
// @Failure 404 {string} string "report not found"
// @Router /reports/missing/{reportID}/track [get]
func trackHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.TrackingPath(r.Context(), ViewerFrom(r), chi.URLParam(r, "reportID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := trackResponse{
			ReportID:  t.ReportID,
			Origin:    t.Origin,
			Sightings: make([]SightingResponse, 0, len(t.Sightings)),
			Path:      t.Path,
		}
		for _, s := range t.Sightings {
			out.Sightings = append(out.Sightings, ToSightingResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createStrayHandler godoc
// @Summary Reportar animal en la calle
// @Tags reports
// @Accept json
// @Produce json
// @Param payload body createStrayRequest true "Datos del reporte"
// @Success 201 {object} StrayResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {object} errorResponse "sign_in_required"
// @Router /reports/stray [post]
func createStrayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createStrayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		coord, err := coordFrom(req.Lat, req.Lon)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rep, err := svc.CreateStray(r.Context(), ViewerFrom(r), CreateStrayInput{
			AnimalType:   req.AnimalType,
			DangerLevel:  req.DangerLevel,
			Location:     req.Location,
			Coord:        coord,
			Description:  req.Description,
			PhotoURL:     req.PhotoURL,
			ContactPhone: req.ContactPhone,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ToStrayResponse(rep))
	}
}

// getStrayHandler godoc
// @Summary Detalle de reporte de callejero
// @Tags reports
// @Produce json
// @Param reportID path string true "ID del reporte de callejero"
// @Success 200 {object} strayDetailResponse
// @Failure 404 {string} string "report not found"
// @Router /reports/stray/{reportID} [get]
func getStrayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetStrayDetail(r.Context(), ViewerFrom(r), chi.URLParam(r, "reportID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, strayDetailResponse{
			Report:    ToStrayResponse(d.Report),
			Contact:   d.Contact,
			CanManage: d.CanManage,
		})
	}
}

// rescueHandler godoc
// @Summary Registrar rescate en clínica
// @Tags reports
// @Accept json
// @Produce json
// @Param reportID path string true "ID del reporte de callejero"
// @Param payload body rescueRequest true "Datos del rescate"
// @Success 200 {object} StrayResponse
// @Failure 409 {string} string "invalid state"
// @Router /reports/stray/{reportID}/rescue [post]
func rescueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rescueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var date *time.Time
		if strings.TrimSpace(req.RescueDate) != "" {
			t, err := time.Parse("2006-01-02", req.RescueDate)
			if err != nil {
				http.Error(w, "rescue_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = &t
		}

		rep, err := svc.MarkRescued(r.Context(), ViewerFrom(r), chi.URLParam(r, "reportID"), RescueInput{
			ClinicName: req.ClinicName,
			Notes:      req.Notes,
			RescueDate: date,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToStrayResponse(rep))
	}
}

// strayStatusHandler godoc
// @Summary Cambiar estado de un callejero
// @Description Solo roles privilegiados. new -> in_progress -> closed.
// @Tags reports
// @Accept json
// @Produce json
// @Param reportID path string true "ID del reporte de callejero"
// @Param payload body strayStatusRequest true "Nuevo estado"
// @Success 200 {object} StrayResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Failure 409 {string} string "invalid state / operation already in progress"
// @Router /reports/stray/{reportID}/status [patch]
func strayStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req strayStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		rep, err := svc.UpdateStrayStatus(r.Context(), ViewerFrom(r), chi.URLParam(r, "reportID"), req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToStrayResponse(rep))
	}
}

// statsHandler godoc
// @Summary Contadores del mapa
// @Tags reports
// @Produce json
// @Success 200 {object} Stats
// @Router /reports/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// -------------------------
// helpers
// -------------------------

func ToMissingResponse(r MissingReport) MissingResponse {
	out := MissingResponse{
		ID:               r.ID,
		OwnerUserID:      r.OwnerUserID,
		PetID:            r.PetID,
		Pet:              r.Pet,
		LastSeenLocation: r.LastSeenLocation,
		LastSeenAt:       r.LastSeenAt,
		Description:      r.Description,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Coord != nil {
		lat, lon := r.Coord.Lat, r.Coord.Lon
		out.Lat, out.Lon = &lat, &lon
	}
	if r.Resolution != nil {
		out.Resolution = &resolutionResponse{
			Type:       r.Resolution.Type,
			Notes:      r.Resolution.Notes,
			ResolvedAt: r.Resolution.ResolvedAt,
			ResolvedBy: r.Resolution.ResolvedBy,
		}
	}
	return out
}

func ToStrayResponse(r StrayReport) StrayResponse {
	out := StrayResponse{
		ID:             r.ID,
		ReporterUserID: r.ReporterUserID,
		AnimalType:     r.AnimalType,
		DangerLevel:    r.DangerLevel,
		Location:       r.Location,
		Description:    r.Description,
		PhotoURL:       r.PhotoURL,
		Status:         r.Status,
		Resolved:       r.Resolved(),
		Rescue: rescueResponse{
			TakenToClinic: r.Rescue.TakenToClinic,
			ClinicName:    r.Rescue.ClinicName,
			Notes:         r.Rescue.Notes,
			RescueDate:    r.Rescue.RescueDate,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Coord != nil {
		lat, lon := r.Coord.Lat, r.Coord.Lon
		out.Lat, out.Lon = &lat, &lon
	}
	return out
}

func ToSightingResponse(s Sighting) SightingResponse {
	return SightingResponse{
		ID:           s.ID,
		ReportID:     s.ReportID,
		Lat:          s.Coord.Lat,
		Lon:          s.Coord.Lon,
		LocationText: s.LocationText,
		Description:  s.Description,
		PhotoURL:     s.PhotoURL,
		ReporterID:   s.ReporterID,
		CreatedAt:    s.CreatedAt,
	}
}

func coordFrom(lat, lon *float64) (*Coord, error) {
	if lat == nil && lon == nil {
		return nil, nil
	}
	if lat == nil || lon == nil {
		return nil, errors.New("lat and lon must be sent together")
	}
	c := Coord{Lat: *lat, Lon: *lon}
	if !c.Valid() {
		return nil, errors.New("coordinates out of range")
	}
	return &c, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeServiceError traduce los errores del servicio a status HTTP.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAuthRequired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "sign_in_required"})
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrBadState), errors.Is(err, ErrBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNoCoordinates):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ParseBool acepta "1", "true", "yes". Vacío => def.
func ParseBool(s string, def bool) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if s == "yes" {
		return true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
