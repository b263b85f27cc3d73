package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"intranet/internal/domain/activity"
	"intranet/internal/domain/announce"
	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/document"
	"intranet/internal/domain/ledger"
	"intranet/internal/domain/medleave"
	"intranet/internal/domain/notify"
	"intranet/internal/domain/report"
	"intranet/internal/domain/request"
	"intranet/internal/platform/config"
	"intranet/internal/platform/db"
	"intranet/internal/platform/email"
	"intranet/internal/platform/metrics"
	"intranet/internal/transport/http/api"
	activityhandler "intranet/internal/transport/http/handlers/activity"
	announcehandler "intranet/internal/transport/http/handlers/announce"
	audithandler "intranet/internal/transport/http/handlers/audit"
	authhandler "intranet/internal/transport/http/handlers/auth"
	directoryhandler "intranet/internal/transport/http/handlers/directory"
	documenthandler "intranet/internal/transport/http/handlers/document"
	ledgerhandler "intranet/internal/transport/http/handlers/ledger"
	medleavehandler "intranet/internal/transport/http/handlers/medleave"
	notifyhandler "intranet/internal/transport/http/handlers/notify"
	reporthandler "intranet/internal/transport/http/handlers/report"
	requesthandler "intranet/internal/transport/http/handlers/request"
	"intranet/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	collector := metrics.New()
	mailer := email.New(cfg)

	directorySvc := directory.NewService(directory.NewStore(pool))
	ledgerSvc := ledger.New()
	requestSvc := request.NewService(request.NewStore(pool), directorySvc, ledgerSvc)
	medleaveSvc := medleave.NewService(medleave.NewStore(pool), requestSvc)
	announceSvc := announce.NewService(pool)
	activitySvc := activity.NewService(pool)
	documentSvc := document.NewService(pool)
	notifySvc := notify.NewService(pool, mailer)
	auditSvc := audit.New(pool)
	reportSvc := report.NewService(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

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

	if cfg.MetricsEnabled {
		router.With(middleware.RequireLevel(auth.LevelDirection)).Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(directorySvc, auditSvc, cfg.JWTSecret).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			directoryhandler.NewHandler(directorySvc, auditSvc).RegisterRoutes(r)
			requesthandler.NewHandler(requestSvc, directorySvc, notifySvc, auditSvc, collector, cfg.StorageDir).RegisterRoutes(r)
			medleavehandler.NewHandler(medleaveSvc, directorySvc, notifySvc, auditSvc, collector).RegisterRoutes(r)
			ledgerhandler.NewHandler(pool, ledgerSvc, auditSvc).RegisterRoutes(r)
			announcehandler.NewHandler(announceSvc, directorySvc, notifySvc, auditSvc).RegisterRoutes(r)
			activityhandler.NewHandler(activitySvc, directorySvc, auditSvc).RegisterRoutes(r)
			documenthandler.NewHandler(documentSvc, directorySvc, notifySvc, auditSvc).RegisterRoutes(r)
			notifyhandler.NewHandler(notifySvc).RegisterRoutes(r)
			audithandler.NewHandler(auditSvc).RegisterRoutes(r)
			reporthandler.NewHandler(reportSvc, directorySvc).RegisterRoutes(r)
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	log.Printf("intranet server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
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
