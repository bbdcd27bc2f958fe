package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ja-alumni/erp/docs"
	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/internal/config"
	"github.com/ja-alumni/erp/internal/dashboard"
	"github.com/ja-alumni/erp/internal/database"
	"github.com/ja-alumni/erp/internal/event"
	"github.com/ja-alumni/erp/internal/logger"
	"github.com/ja-alumni/erp/internal/member"
	"github.com/ja-alumni/erp/internal/participation"
	mw "github.com/ja-alumni/erp/pkg/middleware"
)

// @title        Alumni network API
// @version      1.0
// @description  Member directory, events and regional dashboards of the alumni network.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg)
	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	log.Info("connected to database")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	authz := access.NewAuthorizer(log, registry)

	// Member feature
	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo, authz, member.Options{
		DeletionGracePeriod: cfg.DeletionGracePeriod,
		ConsentValidity:     cfg.ConsentValidity,
	})
	memberHandler := member.NewHandler(memberService, log)

	// Event feature
	eventRepo := event.NewRepository(db)
	eventService := event.NewService(eventRepo, authz)
	eventHandler := event.NewHandler(eventService, log)

	// Participation feature (resolves events through the event service)
	participationService := participation.NewService(participation.NewRepository(db), eventService, authz)
	participationHandler := participation.NewHandler(participationService, log)

	// Dashboard feature
	dashboardService := dashboard.NewService(dashboard.NewRepository(db), memberRepo, eventRepo, authz)
	dashboardHandler := dashboard.NewHandler(dashboardService, log)

	authenticate := mw.TestUserMiddleware
	if cfg.Auth.DevMode {
		log.Warn("development authentication enabled, X-Test-User-ID is trusted")
	} else {
		authenticate = mw.AuthMiddleware(mw.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience))
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		// Registration is the only route open to users without a profile
		r.Post("/register", memberHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(mw.ViewerMiddleware(memberService))

			r.Mount("/members", memberHandler.Routes())
			r.Route("/events", func(r chi.Router) {
				r.Mount("/{eventId}/participation", participationHandler.Routes())
				r.Mount("/", eventHandler.Routes())
			})
			r.Mount("/dashboard", dashboardHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
