package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"lexio/internal/audio"
	"lexio/internal/config"
	"lexio/internal/database"
	"lexio/internal/handlers"
	"lexio/internal/repository"
	"lexio/internal/security"
	"lexio/internal/service"
	"lexio/internal/statestore"
)

func main() {
	// Load .env if present; real environment wins
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Live session state: Redis when configured, in-memory otherwise
	var live statestore.Store
	if cfg.RedisAddr != "" {
		redisStore, err := statestore.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		live = redisStore
		log.Printf("Live session state in Redis at %s", cfg.RedisAddr)
	} else {
		live = statestore.NewMemoryStore()
		log.Println("Live session state in memory (REDIS_ADDR not set)")
	}

	// Initialize repositories
	professionalRepo := repository.NewProfessionalRepository(db)
	childRepo := repository.NewChildRepository(db)
	gameRepo := repository.NewGameRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	trialRepo := repository.NewTrialRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromAddress, "Lexio", cfg.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	ttsService := audio.NewTTSService(cfg.AudioFilesPath)
	gameService := service.NewGameService(gameRepo, cfg.GameConfigsPath, ttsService)
	authService := service.NewAuthService(professionalRepo, cfg.JWTSecret, cfg.TokenDuration)
	sessionService := service.NewSessionService(sessionRepo, evaluationRepo, gameRepo,
		childRepo, professionalRepo, trialRepo, reportRepo, gameService, live, emailService)

	// Seed the minigame catalog
	if err := gameService.SeedCatalog(); err != nil {
		log.Fatalf("Failed to seed game catalog: %v", err)
	}

	// Generate any missing audio for the listening game
	if err := gameService.GenerateMissingAudio(); err != nil {
		log.Printf("Warning: Failed to generate missing audio files: %v", err)
	}

	var googleOAuth *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.JWTSecret)
	limiter := security.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	middleware := handlers.NewMiddleware(cfg.JWTSecret, limiter)
	authHandler := handlers.NewAuthHandler(authService, googleOAuth)
	apiHandler := handlers.NewAPIHandler(sessionService, gameService, csrf)
	dashboardHandler := handlers.NewDashboardHandler(sessionService, childRepo)

	// Setup routes
	mux := http.NewServeMux()

	// Static files (game images and audio)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)

	// Play routes used by game clients
	mux.HandleFunc("GET /api/games", apiHandler.ListGames)
	mux.HandleFunc("GET /api/sessions/{sessionURL}/bootstrap", apiHandler.Bootstrap)
	mux.HandleFunc("POST /api/sessions/question-response", apiHandler.QuestionResponse)
	mux.HandleFunc("POST /api/sessions/level-complete", apiHandler.LevelComplete)
	mux.HandleFunc("POST /api/sessions/{sessionURL}/finish", apiHandler.FinishGame)

	// Professional routes
	mux.HandleFunc("GET /api/sessions/{sessionURL}/live", middleware.RequireAuth(apiHandler.LiveState))
	mux.HandleFunc("POST /api/children", middleware.RequireAuth(dashboardHandler.CreateChild))
	mux.HandleFunc("GET /api/children", middleware.RequireAuth(dashboardHandler.ListChildren))
	mux.HandleFunc("POST /api/evaluations", middleware.RequireAuth(dashboardHandler.CreateEvaluation))
	mux.HandleFunc("GET /api/evaluations/{id}/results", middleware.RequireAuth(dashboardHandler.EvaluationResults))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
