package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"paykey/internal/db"
	"paykey/internal/domain/payroll"
	"paykey/internal/domain/tax"
	"paykey/internal/domain/timetracking"
	"paykey/internal/domain/workers"
	"paykey/internal/platform/config"
	"paykey/internal/platform/metrics"
	"paykey/internal/platform/payments/intasend"
	"paykey/internal/transport/http/api"
	paymentshandler "paykey/internal/transport/http/handlers/payments"
	payrollhandler "paykey/internal/transport/http/handlers/payroll"
	taxhandler "paykey/internal/transport/http/handlers/tax"
	workershandler "paykey/internal/transport/http/handlers/workers"
	"paykey/internal/transport/http/middleware"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	taxStore := tax.NewStore(pool)
	taxService := tax.NewService(taxStore)
	engine := tax.NewEngine(taxStore)

	workerStore := workers.NewStore(pool)
	workerService := workers.NewService(workerStore, engine, collector)

	hours := timetracking.NewStore(pool)
	calculator := payroll.NewCalculator(engine, hours)

	payrollStore := payroll.NewStore(pool)
	periodService := payroll.NewService(payrollStore)
	gateway := intasend.NewClient(cfg.IntaSendBaseURL, cfg.IntaSendSecretKey, cfg.IntaSendTimeout, cfg.IntaSendSimulate)
	processor := payroll.NewProcessor(payrollStore, workerStore, calculator, gateway, taxStore, collector)
	payslips := payroll.NewPayslipGenerator(payrollStore, cfg.PayslipDir, cfg.Currency)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimw.Recoverer)

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
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		// The webhook authenticates by signature, not by employer identity.
		paymentsHandler := paymentshandler.NewHandler(periodService, cfg.IntaSendWebhookSecret)
		paymentsHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity)

			payrollHandler := payrollhandler.NewHandler(periodService, processor, payslips)
			payrollHandler.RegisterRoutes(r)

			workersHandler := workershandler.NewHandler(workerService)
			workersHandler.RegisterRoutes(r)

			taxHandler := taxhandler.NewHandler(taxService)
			taxHandler.RegisterRoutes(r)
		})
	})

	slog.Info("paykey server listening", "addr", cfg.Addr, "env", cfg.Environment, "simulate", cfg.IntaSendSimulate)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
