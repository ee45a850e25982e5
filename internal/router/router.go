package router

import (
	"net/http"

	mem "pet-reports-map/internal/adapters/storage/memory"
	pg "pet-reports-map/internal/adapters/storage/postgres"
	"pet-reports-map/internal/config"
	"pet-reports-map/internal/domain/geocode"
	"pet-reports-map/internal/domain/mapview"
	"pet-reports-map/internal/domain/pets"
	"pet-reports-map/internal/domain/profiles"
	"pet-reports-map/internal/domain/realtime"
	"pet-reports-map/internal/domain/reports"
	"pet-reports-map/internal/domain/roles"
	"pet-reports-map/internal/domain/visibility"
	"pet-reports-map/internal/middleware"
	"pet-reports-map/internal/platform/logger"
	"pet-reports-map/internal/ports/auth"
	"pet-reports-map/internal/ports/geocoding"
	rolesport "pet-reports-map/internal/ports/roles"

	_ "pet-reports-map/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	Pool *pgxpool.Pool

	// Broker del canal realtime. nil => se crea uno; quien llama debe correr Broker.Run.
	Broker *realtime.Broker

	// Geocoder nil => las direcciones caen siempre al texto "lat, lon".
	Geocoder geocoding.ReverseGeocoder

	// RoleChecker nil => se usa el módulo roles local (tabla user_roles).
	RoleChecker rolesport.Checker

	Reports         reports.Options
	BootstrapAdmins []string
	RateLimit       config.RateLimitConfig

	// Origins permitidos para el WebSocket de /map/live.
	AllowedOrigins []string

	Logger logger.Logger
}

// App expone lo que main necesita además del handler.
type App struct {
	Handler     http.Handler
	Broker      *realtime.Broker
	Ingestor    *realtime.Ingestor
	RateLimiter *middleware.RateLimiter
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var (
		petRepo     pets.Repository
		reportRepo  reports.Repository
		profileRepo profiles.Repository
		roleRepo    roles.Repository
	)
	if opts.Pool != nil {
		petRepo = pg.NewPetsRepo(opts.Pool)
		reportRepo = pg.NewReportsRepo(opts.Pool)
		profileRepo = pg.NewProfilesRepo(opts.Pool)
		roleRepo = pg.NewRolesRepo(opts.Pool)
	} else {
		petRepo = mem.NewPetRepo()
		reportRepo = mem.NewReportsRepo()
		profileRepo = mem.NewProfilesRepo()
		roleRepo = mem.NewRolesRepo()
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	profilesSvc := profiles.NewService(profileRepo)
	rolesSvc := roles.NewService(roleRepo, opts.BootstrapAdmins...)

	var checker rolesport.Checker = rolesSvc
	if opts.RoleChecker != nil {
		checker = opts.RoleChecker
	}
	policy := visibility.NewPolicy(checker, log.With(map[string]any{"module": "visibility"}))

	broker := opts.Broker
	if broker == nil {
		broker = realtime.NewBroker(realtime.DefaultBuffer, log)
	}
	ingestor := realtime.NewIngestor(broker, petsSvc, log)

	ropts := opts.Reports
	if ropts.ResolvePolicy == "" {
		ropts = reports.DefaultOptions()
	}
	reportsSvc := reports.NewService(reportRepo, policy, ropts)
	reportsSvc.SetPetLookup(petsSvc)
	reportsSvc.SetPreferences(profilesSvc)
	reportsSvc.SetLogger(log.With(map[string]any{"module": "reports"}))
	if opts.Pool == nil {
		// Con Postgres los inserts llegan por LISTEN/NOTIFY; publicar acá duplicaría.
		reportsSvc.SetPublisher(ingestor)
	}

	geoSvc := geocode.NewService(opts.Geocoder, log.With(map[string]any{"module": "geocode"}))
	limiter := middleware.NewRateLimiter(opts.RateLimit.Requests, opts.RateLimit.Window)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, profilesSvc))
	r.Use(limiter.Middleware())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	profiles.RegisterRoutes(r, profilesSvc)
	roles.RegisterRoutes(r, rolesSvc)
	reports.RegisterRoutes(r, reportsSvc)
	geocode.RegisterRoutes(r, geoSvc)
	mapview.RegisterRoutes(r, reportsSvc, broker, geoSvc, opts.AllowedOrigins, log.With(map[string]any{"module": "mapview"}))

	return &App{
		Handler:     r,
		Broker:      broker,
		Ingestor:    ingestor,
		RateLimiter: limiter,
	}
}
