package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pet-reports-map/internal/adapters/auth/baas"
	"pet-reports-map/internal/adapters/auth/jwtverify"
	"pet-reports-map/internal/adapters/geocoding/nominatim"
	"pet-reports-map/internal/adapters/realtime/pgnotify"
	"pet-reports-map/internal/adapters/roles/baasrpc"
	pg "pet-reports-map/internal/adapters/storage/postgres"
	"pet-reports-map/internal/config"
	"pet-reports-map/internal/domain/realtime"
	"pet-reports-map/internal/domain/reports"
	"pet-reports-map/internal/platform/logger"
	"pet-reports-map/internal/ports/auth"
	rolesport "pet-reports-map/internal/ports/roles"
	"pet-reports-map/internal/router"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const limiterIdle = 10 * time.Minute

// @title Pet Reports Map API
// @version 1.0
// @description Mapa en vivo de mascotas perdidas y animales en la calle.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}
	if verifier == nil {
		log.Warn("auth disabled, X-Debug-User-ID accepted", nil)
	}

	var checker rolesport.Checker
	if cfg.BaaS.RoleRPC {
		c, err := baasrpc.NewChecker(baasrpc.Config{
			BaseURL: cfg.BaaS.URL,
			APIKey:  cfg.BaaS.APIKey,
			Timeout: cfg.BaaS.Timeout,
		})
		if err != nil {
			return fmt.Errorf("role checker: %w", err)
		}
		checker = c
	}

	geocoder, err := nominatim.NewClient(nominatim.Config{
		BaseURL:   cfg.Geocoding.BaseURL,
		UserAgent: cfg.Geocoding.UserAgent,
		Language:  cfg.Geocoding.Language,
		Timeout:   cfg.Geocoding.Timeout,
	})
	if err != nil {
		return fmt.Errorf("geocoder: %w", err)
	}

	var pool *pgxpool.Pool
	if strings.TrimSpace(cfg.Database.DSN) != "" {
		if cfg.Database.AutoMigrate {
			if err := pg.Migrate(ctx, cfg.Database.DSN, log.With(map[string]any{"module": "migrations"})); err != nil {
				return err
			}
		}
		pool, err = pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
	} else {
		log.Warn("DB_DSN empty, using in-memory storage", nil)
	}

	ropts := reports.DefaultOptions()
	ropts.ResolvePolicy = reports.ResolvePolicy(cfg.Reports.ResolvePolicy)
	ropts.AllowSightingsOnResolved = cfg.Reports.AllowSightingsOnResolved

	app := router.New(router.Options{
		AuthVerifier:    verifier,
		Pool:            pool,
		Broker:          realtime.NewBroker(cfg.Realtime.SubscriberBuffer, log.With(map[string]any{"module": "realtime"})),
		Geocoder:        geocoder,
		RoleChecker:     checker,
		Reports:         ropts,
		BootstrapAdmins: cfg.Roles.BootstrapAdmins,
		RateLimit:       cfg.RateLimit,
		AllowedOrigins:  cfg.Realtime.AllowedOrigins,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Broker.Run(gctx)
		return nil
	})

	if pool != nil {
		l := pgnotify.NewListener(pool, cfg.Realtime.Channel, app.Ingestor, log.With(map[string]any{
			"module":  "pgnotify",
			"channel": cfg.Realtime.Channel,
		}))
		g.Go(func() error { return l.Run(gctx) })
	}

	g.Go(func() error {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
				if n := app.RateLimiter.Prune(limiterIdle); n > 0 {
					log.Debug("rate limiter pruned", map[string]any{"entries": n})
				}
			}
		}
	})

	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Server.Environment})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newVerifier: JWT local si hay secret, si no BaaS, si no nil (modo dev).
func newVerifier(cfg *config.Config) (auth.AuthVerifier, error) {
	if strings.TrimSpace(cfg.Auth.JWTSecret) != "" {
		return jwtverify.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer), nil
	}
	if strings.TrimSpace(cfg.BaaS.URL) == "" {
		return nil, nil
	}
	client, err := baas.NewClient(baas.Config{
		BaseURL: cfg.BaaS.URL,
		APIKey:  cfg.BaaS.APIKey,
		Timeout: cfg.BaaS.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("baas client: %w", err)
	}
	if !client.IsConfigured() {
		return nil, nil
	}
	return baas.NewVerifier(client), nil
}
