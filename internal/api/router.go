package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/credgraph/credgraph/internal/api/handlers"
	mw "github.com/credgraph/credgraph/internal/api/middleware"
	"github.com/credgraph/credgraph/internal/config"
	"github.com/credgraph/credgraph/internal/domain"
	"github.com/credgraph/credgraph/internal/service"
	"github.com/credgraph/credgraph/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and request counters for lifecycle management.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	stores := service.Stores{
		Sources:        store.NewSourceStore(db),
		Events:         store.NewEventStore(db),
		Claims:         store.NewClaimStore(db),
		Entities:       store.NewEntityStore(db),
		Artifacts:      store.NewArtifactStore(db),
		Refutations:    store.NewRefutationStore(db),
		Investigations: store.NewInvestigationStore(db),
	}

	repo := service.NewRepository(stores, config.Scoring(), logger)
	graphSvc := service.NewGraphService(repo, logger)
	transferSvc := service.NewTransferService(stores, logger)

	sourceHandler := handlers.NewSourceHandler(repo)
	eventHandler := handlers.NewEventHandler(repo, graphSvc)
	claimHandler := handlers.NewClaimHandler(repo, graphSvc)
	refutationHandler := handlers.NewRefutationHandler(repo)
	investigationHandler := handlers.NewInvestigationHandler(repo)
	transferHandler := handlers.NewTransferHandler(transferSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/sources", func(r chi.Router) {
			r.Post("/", sourceHandler.Create)
			r.Get("/trending", sourceHandler.Trending)
			r.Get("/reputation", sourceHandler.Reputation)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sourceHandler.GetByID)
				r.Get("/statistics", sourceHandler.Statistics)
				r.Post("/score", sourceHandler.AdjustScore)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetByID)
				r.Patch("/status", eventHandler.UpdateStatus)
				r.Get("/credibility", eventHandler.Credibility)
				r.Get("/graph", eventHandler.Graph)
				r.Get("/timeline", eventHandler.Timeline)
			})
		})

		r.Route("/claims", func(r chi.Router) {
			r.Post("/", claimHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", claimHandler.GetByID)
				r.Patch("/status", claimHandler.UpdateStatus)
				r.Get("/refutation-chain", claimHandler.RefutationChain)
			})
		})

		r.Post("/refutations", refutationHandler.Create)

		r.Route("/investigations", func(r chi.Router) {
			r.Post("/", investigationHandler.Create)
			r.Get("/{id}", investigationHandler.GetByID)
		})

		r.Get("/export", transferHandler.Export)
		r.Post("/import", transferHandler.Import)
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.SourceStore        = (*store.SourceStore)(nil)
	_ domain.EventStore         = (*store.EventStore)(nil)
	_ domain.ClaimStore         = (*store.ClaimStore)(nil)
	_ domain.EntityStore        = (*store.EntityStore)(nil)
	_ domain.ArtifactStore      = (*store.ArtifactStore)(nil)
	_ domain.RefutationStore    = (*store.RefutationStore)(nil)
	_ domain.InvestigationStore = (*store.InvestigationStore)(nil)
)
