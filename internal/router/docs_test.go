package router_test

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"pet-reports-map/internal/config"
	"pet-reports-map/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag"
)

// Cada ruta montada tiene que figurar en /swagger/doc.json y viceversa.
func TestSwagger_DocumentsEveryRoute(t *testing.T) {
	app := router.New(router.Options{
		RateLimit: config.RateLimitConfig{Requests: 1000, Window: time.Minute},
	})
	routes, ok := app.Handler.(chi.Routes)
	if !ok {
		t.Fatalf("handler is %T, want chi.Routes", app.Handler)
	}

	mounted := map[string]bool{}
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route == "/health" || strings.HasPrefix(route, "/swagger") {
			return nil
		}
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		mounted[strings.ToLower(method)+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("doc is not valid json: %v", err)
	}
	documented := map[string]bool{}
	for p, ops := range doc.Paths {
		for m := range ops {
			documented[m+" "+p] = true
		}
	}

	var missing, stale []string
	for k := range mounted {
		if !documented[k] {
			missing = append(missing, k)
		}
	}
	for k := range documented {
		if !mounted[k] {
			stale = append(stale, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(stale)
	if len(missing) > 0 {
		t.Errorf("routes without swagger docs: %v", missing)
	}
	if len(stale) > 0 {
		t.Errorf("documented routes not mounted: %v", stale)
	}
}
