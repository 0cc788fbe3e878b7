package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/hospitalms/hospital-api/internal/cache"
	"github.com/hospitalms/hospital-api/internal/config"
	"github.com/hospitalms/hospital-api/internal/database"
	"github.com/hospitalms/hospital-api/internal/handlers"
	"github.com/hospitalms/hospital-api/internal/middleware"
	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/repository"
	"github.com/hospitalms/hospital-api/internal/services"
	"github.com/hospitalms/hospital-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Hospital API")

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if cfg.Seed.Enabled {
		if err := database.Seed(cfg.Seed.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed database")
		}
	}

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}

	// Initialize repositories
	patientRepo := repository.NewPatientRepository()
	medecinRepo := repository.NewMedecinRepository()
	departementRepo := repository.NewDepartementRepository()
	medicamentRepo := repository.NewMedicamentRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	ligneRepo := repository.NewLignePrescriptionRepository()
	rendezVousRepo := repository.NewRendezVousRepository()
	userRepo := repository.NewUserRepository()
	auditRepo := repository.NewAuditRepository()

	// Initialize services
	patientService := services.NewPatientService(patientRepo, auditRepo)
	medecinService := services.NewMedecinService(medecinRepo, departementRepo, auditRepo)
	departementService := services.NewDepartementService(departementRepo, medecinRepo, auditRepo)
	medicamentService := services.NewMedicamentService(medicamentRepo, auditRepo)
	prescriptionService := services.NewPrescriptionService(
		prescriptionRepo, ligneRepo, patientRepo, medecinRepo, medicamentRepo,
		medicamentService, auditRepo, cfg.Rules.DecrementStockOnPrescribe)
	rendezVousService := services.NewRendezVousService(
		rendezVousRepo, patientRepo, medecinRepo, auditRepo,
		cfg.Rules.StrictRendezVousTransitions)
	dashboardService := services.NewDashboardService(
		patientRepo, medecinRepo, departementRepo, medicamentRepo,
		prescriptionRepo, rendezVousRepo, cacheImpl, cfg.Cache.TTL)
	userService := services.NewUserService(
		userRepo, patientRepo, medecinRepo, auditRepo,
		cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cacheImpl)
	authHandler := handlers.NewAuthHandler(userService)
	patientHandler := handlers.NewPatientHandler(patientService)
	medecinHandler := handlers.NewMedecinHandler(medecinService)
	departementHandler := handlers.NewDepartementHandler(departementService, medecinService)
	medicamentHandler := handlers.NewMedicamentHandler(medicamentService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService)
	rendezVousHandler := handlers.NewRendezVousHandler(rendezVousService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	authenticate := middleware.Authenticator(cfg.Auth.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleMedecin)

	// Public authentication endpoints
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register/patient", authHandler.RegisterPatient)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", authHandler.Me)
			r.Post("/password", authHandler.ChangePassword)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/register/medecin", authHandler.RegisterMedecin)
				r.Post("/register/admin", authHandler.RegisterAdmin)
				r.Put("/users/{id}/active", authHandler.SetActive)
				r.Post("/users/{id}/roles", authHandler.GrantRole)
				r.Delete("/users/{id}/roles", authHandler.RevokeRole)
			})
		})
	})

	// Domain API
	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/patients", func(r chi.Router) {
			r.Get("/", patientHandler.List)
			r.Get("/{id}", patientHandler.Get)
			r.Get("/{id}/age", patientHandler.GetAge)
			r.With(staffOnly).Post("/", patientHandler.Create)
			r.With(staffOnly).Put("/{id}", patientHandler.Update)
			r.With(adminOnly).Delete("/{id}", patientHandler.Delete)
		})

		r.Route("/medecins", func(r chi.Router) {
			r.Get("/", medecinHandler.List)
			r.Get("/matricule", medecinHandler.GetByMatricule)
			r.Get("/{id}", medecinHandler.Get)
			r.With(adminOnly).Post("/", medecinHandler.Create)
			r.With(adminOnly).Put("/{id}", medecinHandler.Update)
			r.With(staffOnly).Put("/{id}/disponibilite", medecinHandler.SetDisponibilite)
			r.With(adminOnly).Delete("/{id}", medecinHandler.Delete)
		})

		r.Route("/departements", func(r chi.Router) {
			r.Get("/", departementHandler.List)
			r.Get("/{id}", departementHandler.Get)
			r.Get("/{id}/medecins", departementHandler.GetMedecins)
			r.With(adminOnly).Post("/", departementHandler.Create)
			r.With(adminOnly).Put("/{id}", departementHandler.Update)
			r.With(adminOnly).Put("/{id}/actif", departementHandler.SetActif)
			r.With(adminOnly).Put("/{id}/chef/{medecinId}", departementHandler.AssignChef)
			r.With(adminOnly).Delete("/{id}", departementHandler.Delete)
		})

		r.Route("/medicaments", func(r chi.Router) {
			r.Get("/", medicamentHandler.List)
			r.Get("/{id}", medicamentHandler.Get)
			r.With(staffOnly).Post("/", medicamentHandler.Create)
			r.With(staffOnly).Put("/{id}", medicamentHandler.Update)
			r.With(staffOnly).Put("/{id}/stock", medicamentHandler.AdjustStock)
			r.With(staffOnly).Put("/{id}/disponibilite", medicamentHandler.SetAvailability)
			r.With(adminOnly).Delete("/{id}", medicamentHandler.Delete)
		})

		r.Route("/prescriptions", func(r chi.Router) {
			r.Get("/", prescriptionHandler.List)
			r.Get("/{id}", prescriptionHandler.Get)
			r.Get("/{id}/valide", prescriptionHandler.IsValide)
			r.Get("/{id}/lignes", prescriptionHandler.GetLignes)
			r.With(staffOnly).Get("/stats/medecins", prescriptionHandler.CountParMedecin)
			r.With(staffOnly).Post("/", prescriptionHandler.Create)
			r.With(staffOnly).Put("/{id}", prescriptionHandler.Update)
			r.With(staffOnly).Put("/{id}/statut", prescriptionHandler.UpdateStatut)
			r.With(staffOnly).Post("/{id}/lignes", prescriptionHandler.AddLigne)
			r.With(staffOnly).Delete("/{id}/lignes/{ligneId}", prescriptionHandler.RemoveLigne)
			r.With(adminOnly).Delete("/{id}", prescriptionHandler.Delete)
		})

		r.Route("/rendez-vous", func(r chi.Router) {
			r.Get("/", rendezVousHandler.List)
			r.Get("/{id}", rendezVousHandler.Get)
			r.Get("/disponibilite/{medecinId}", rendezVousHandler.Disponibilite)
			r.Post("/", rendezVousHandler.Schedule)
			r.Put("/{id}", rendezVousHandler.Update)
			r.Put("/{id}/statut", rendezVousHandler.UpdateStatut)
			r.With(adminOnly).Delete("/{id}", rendezVousHandler.Delete)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(staffOnly)
			r.Get("/stats", dashboardHandler.Stats)
			r.Get("/medicaments/alerte", dashboardHandler.MedicamentsEnAlerte)
			r.Get("/medicaments/expirant", dashboardHandler.MedicamentsExpirant)
			r.Get("/rendez-vous/jour", dashboardHandler.RendezVousDuJour)
			r.Get("/departements/medecins", dashboardHandler.MedecinsParDepartement)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", auditHandler.ByResource)
			r.Get("/recent", auditHandler.Recent)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
