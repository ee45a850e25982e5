package geocode

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/geocode/reverse", reverseHandler(svc))
}

// reverseHandler godoc
// @Summary Geocodificación inversa
// @Description Traduce lat/lon a una dirección. Si el proveedor falla devuelve "lat, lon" con fallback=true.
// @Tags geocode
// @Produce json
// @Param lat query number true "Latitud"
// @Param lon query number true "Longitud"
// @Success 200 {object} Result
// @Failure 400 {string} string "invalid coordinates"
// @Router /geocode/reverse [get]
func reverseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
		lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "lat and lon are required numbers", http.StatusBadRequest)
			return
		}

		res, err := svc.Lookup(r.Context(), lat, lon)
		if err != nil {
			if errors.Is(err, ErrInvalidCoordinates) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
