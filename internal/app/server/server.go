package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/performance"
	"hrms/internal/domain/timesheet"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	authhandler "hrms/internal/transport/http/handlers/auth"
	employeehandler "hrms/internal/transport/http/handlers/employee"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	notificationshandler "hrms/internal/transport/http/handlers/notifications"
	performancehandler "hrms/internal/transport/http/handlers/performance"
	timesheethandler "hrms/internal/transport/http/handlers/timesheet"
	"hrms/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler
}

// New connects, migrates and seeds, then assembles the router. The caller
// owns the pool and closes it through Close.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	app := &App{Config: cfg, Pool: pool}
	app.Router = buildRouter(cfg, pool)
	return app, nil
}

func (a *App) Start() error {
	return http.ListenAndServe(a.Config.Addr, a.Router)
}

func (a *App) Close() {
	a.Pool.Close()
}

func buildRouter(cfg config.Config, pool *pgxpool.Pool) http.Handler {
	isProd := cfg.Environment == "production"

	leaveService := leave.NewService(leave.NewStore(pool), leave.NewEngine(leave.DefaultPolicy()))
	timesheetService := timesheet.NewService(timesheet.NewStore(pool))
	performanceService := performance.NewService(performance.NewStore(pool))
	employeeService := employee.NewService(employee.NewStore(pool))
	notificationService := notifications.New(notifications.NewStore(pool), notifications.LogRelay{})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.SecureHeaders(isProd))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api", func(r chi.Router) {
		authhandler.NewHandler(employeeService, cfg.JWTSecret, cfg.TokenTTL, isProd, cfg.AuthRatePerMinute).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, notificationService).RegisterRoutes(r)
		timesheethandler.NewHandler(timesheetService, notificationService).RegisterRoutes(r)
		performancehandler.NewHandler(performanceService, notificationService).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationService).RegisterRoutes(r)
		employeehandler.NewHandler(employeeService).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return router
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
