package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vetclinic-dashboard/internal/adapters/assistant/gemini"
	"vetclinic-dashboard/internal/adapters/auth/local"
	"vetclinic-dashboard/internal/adapters/backend/supabase"
	mem "vetclinic-dashboard/internal/adapters/storage/memory"
	pg "vetclinic-dashboard/internal/adapters/storage/postgres"
	"vetclinic-dashboard/internal/config"
	"vetclinic-dashboard/internal/domain/appointments"
	"vetclinic-dashboard/internal/domain/assistant"
	"vetclinic-dashboard/internal/domain/catalog"
	"vetclinic-dashboard/internal/domain/dashboard"
	"vetclinic-dashboard/internal/domain/finance"
	"vetclinic-dashboard/internal/domain/inventory"
	"vetclinic-dashboard/internal/domain/owners"
	"vetclinic-dashboard/internal/domain/patients"
	"vetclinic-dashboard/internal/loader"
	"vetclinic-dashboard/internal/middleware"
	"vetclinic-dashboard/internal/platform/logger"
	assistantport "vetclinic-dashboard/internal/ports/assistant"
	"vetclinic-dashboard/internal/ports/backend"
	"vetclinic-dashboard/internal/session"

	_ "vetclinic-dashboard/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config config.Config
	Logger logger.Logger // nil => nop

	// Opcionales (tests): si vienen, reemplazan lo que saldría de Config.
	Gateway   backend.Gateway
	Auth      backend.Auth
	Completer assistantport.Completer

	Now func() time.Time
}

// NewRouter arma el proceso completo. El cleanup cierra el gate y la DB.
func NewRouter(ctx context.Context, opts Options) (http.Handler, func(), error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	gw, auth, closeBackend, err := openBackend(ctx, opts, log, now)
	if err != nil {
		return nil, nil, err
	}
	if closeBackend != nil {
		closers = append(closers, closeBackend)
	}

	completer := opts.Completer
	assistantEnabled := completer != nil
	if completer == nil {
		gc, err := gemini.NewClient(ctx, gemini.Config{
			APIKey: opts.Config.Assistant.APIKey,
			Model:  opts.Config.Assistant.Model,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("router: assistant: %w", err)
		}
		if !gc.IsConfigured() {
			log.Warn("assistant api key missing; replies will fall back", nil)
		}
		completer = gc
		assistantEnabled = gc.IsConfigured()
	}

	gate := session.NewGate(auth, log)
	if err := gate.Start(ctx); err != nil {
		log.Error("session lookup failed", map[string]any{"error": err})
	}
	closers = append(closers, gate.Close)

	// Loaders por vista
	ownersView := loader.New("owners", loader.FromQuery[owners.Owner](gw, owners.ListQuery()), log)
	patientsView := loader.New("patients", loader.FromQuery[patients.Patient](gw, patients.ListQuery()), log)
	agendaView := loader.New("agenda", loader.FromQuery[appointments.Appointment](gw, appointments.ListQuery()), log)
	inventoryView := loader.New("inventory", loader.FromQuery[inventory.Item](gw, inventory.ListQuery()), log)
	financeView := loader.New("finance", loader.FromQuery[finance.Transaction](gw, finance.ListQuery()), log)
	servicesView := loader.New("services", loader.FromQuery[catalog.Service](gw, catalog.ListQuery()), log)
	upcoming := loader.New("dashboard.appointments", loader.FromQuery[appointments.Appointment](gw, appointments.UpcomingQuery()), log)
	alerts := loader.New("dashboard.inventory", loader.FromQuery[inventory.Item](gw, inventory.AlertsQuery()), log)

	registrar := patients.NewRegistrar(gw, func(ctx context.Context) {
		patientsView.Reload(ctx)
		ownersView.Reload(ctx)
	}, log)
	dashboardSvc := dashboard.NewService(upcoming, alerts)
	assistantSession := assistant.NewSession(completer, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	limiter := middleware.NewRateLimiter(1, 5)
	session.RegisterRoutes(r, gate, session.Options{
		AssistantEnabled: assistantEnabled,
		AuthLimiter:      limiter.Middleware,
	})

	// Rutas del shell: solo con sesión
	r.Group(func(sr chi.Router) {
		sr.Use(middleware.RequireSession(gate))

		dashboard.RegisterRoutes(sr, dashboardSvc)
		appointments.RegisterRoutes(sr, agendaView, now)
		patients.RegisterRoutes(sr, patientsView, registrar)
		owners.RegisterRoutes(sr, ownersView)
		inventory.RegisterRoutes(sr, inventoryView)
		finance.RegisterRoutes(sr, financeView)
		catalog.RegisterRoutes(sr, servicesView)
		assistant.RegisterRoutes(sr, assistantSession)
	})

	return r, cleanup, nil
}

// openBackend elige gateway + auth según el driver.
func openBackend(ctx context.Context, opts Options, log logger.Logger, now func() time.Time) (backend.Gateway, backend.Auth, func(), error) {
	cfg := opts.Config
	localAuth := local.Config{Secret: cfg.Auth.JWTSecret, SessionTTL: cfg.Auth.SessionTTL}

	if opts.Gateway != nil && opts.Auth != nil {
		return opts.Gateway, opts.Auth, nil, nil
	}

	switch cfg.Backend.Driver {
	case config.DriverMemory:
		g := mem.NewGateway()
		if cfg.Backend.Seed {
			if err := mem.Seed(ctx, g, now()); err != nil {
				return nil, nil, nil, fmt.Errorf("router: seed: %w", err)
			}
		}
		return pick(opts.Gateway, g), pickAuth(opts.Auth, local.NewProvider(mem.NewUserStore(), localAuth)), nil, nil

	case config.DriverPostgres:
		db, err := pg.Open(cfg.Backend.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("router: postgres: %w", err)
		}
		if err := pg.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("router: postgres schema: %w", err)
		}
		closeDB := func() { _ = db.Close() }
		return pick(opts.Gateway, pg.NewGateway(db)), pickAuth(opts.Auth, local.NewProvider(pg.NewUserStore(db), localAuth)), closeDB, nil

	default:
		client, err := supabase.NewClient(supabase.Config{
			URL:     cfg.Backend.URL,
			AnonKey: cfg.Backend.AnonKey,
			Timeout: cfg.Backend.Timeout,
		})
		if err != nil {
			log.Error("invalid backend url; running unconfigured", map[string]any{"error": err})
			client, _ = supabase.NewClient(supabase.Config{Timeout: cfg.Backend.Timeout})
		}
		if !client.IsConfigured() {
			log.Warn("backend url/key missing; backend calls will fail", nil)
		}
		return pick(opts.Gateway, client), pickAuth(opts.Auth, client), nil, nil
	}
}

func pick(override backend.Gateway, def backend.Gateway) backend.Gateway {
	if override != nil {
		return override
	}
	return def
}

func pickAuth(override backend.Auth, def backend.Auth) backend.Auth {
	if override != nil {
		return override
	}
	return def
}
