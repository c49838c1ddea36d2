package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/propfolio/listing-engine/internal/comparables"
	"github.com/propfolio/listing-engine/internal/config"
	"github.com/propfolio/listing-engine/internal/listing"
	"github.com/propfolio/listing-engine/internal/metrics"
	"github.com/propfolio/listing-engine/internal/mortgage"
	"github.com/propfolio/listing-engine/internal/store"
	"github.com/propfolio/listing-engine/internal/valuation"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	// --- Initialize store ---
	var st store.Store
	var cleanup []func()

	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
		if err != nil {
			slog.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		cleanup = append(cleanup, pool.Close)
		st = store.NewPostgresStore(pool)
		slog.Info("connected to PostgreSQL")

		// Wrap with Redis read-through cache if configured.
		if cfg.Redis.URL != "" {
			opt, err := redis.ParseURL(cfg.Redis.URL)
			if err != nil {
				slog.Error("invalid redis URL", "err", err)
				os.Exit(1)
			}
			rdb := redis.NewClient(opt)
			cleanup = append(cleanup, func() { rdb.Close() })
			st = store.NewCachedStore(st, rdb, cfg.Redis.CacheTTL)
			slog.Info("Redis cache enabled", "ttl", cfg.Redis.CacheTTL)
		}
	} else {
		slog.Warn("database.url not set, using in-memory store (data will not persist)")
		st = store.NewMemoryStore()
	}

	defer func() {
		for _, fn := range cleanup {
			fn()
		}
	}()

	// --- Valuation engine ---
	var source valuation.ComparableSource
	if cfg.Valuation.UseSyntheticComparables {
		source = comparables.NewSyntheticSource()
		slog.Info("using synthetic comparable source")
	} else {
		source = comparables.NewStoreSource(st, cfg.Valuation.ComparableLimit)
	}
	valuer := valuation.NewEngine(source, valuation.NewReferenceAnalyzer())

	// --- Mortgage engine ---
	mtg := mortgage.NewEngine(mortgage.NewTableRateProvider())

	// --- WebSocket hub ---
	wsHub := listing.NewWSHub()
	go wsHub.Run()

	// --- Listing service ---
	svc := listing.NewService(st, valuer, mtg, wsHub)
	svc.SetMortgageDefaults(cfg.Mortgage.DefaultCountry, cfg.Mortgage.DefaultLoanType)

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(metrics.Middleware)

	// CORS middleware for frontend cross-origin requests.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"listing-engine"}`))
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket endpoint for real-time listing and valuation events.
		r.Get("/ws", wsHub.HandleWS)

		// Listing management.
		r.Post("/properties", svc.CreateProperty)
		r.Get("/properties", svc.SearchProperties)
		r.Get("/properties/{propertyID}", svc.GetProperty)
		r.Put("/properties/{propertyID}", svc.UpdateProperty)
		r.Delete("/properties/{propertyID}", svc.DeleteProperty)

		// Valuations.
		r.Post("/properties/{propertyID}/valuations", svc.ValueStoredProperty)
		r.Get("/properties/{propertyID}/valuations", svc.ListValuations)
		r.Post("/valuation", svc.ValueSubject)

		// Mortgage tools.
		r.Post("/mortgage/calculate", svc.CalculateMortgage)
		r.Post("/mortgage/eligibility", svc.CheckEligibility)
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("listing-engine listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down listing-engine...")
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	fmt.Println("listing-engine stopped")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
