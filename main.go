package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"habitshare/engine"
	"habitshare/handlers"
	"habitshare/middleware"
	"habitshare/repository"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// scanDebounce is how long the rule engine waits after a toggle before
// scanning, so a burst of edits triggers one pass.
const scanDebounce = 3 * time.Second

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Create data directory if it doesn't exist
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}

	dbPath := fmt.Sprintf("%s/habits.db", dataDir)
	logger.Info("using database", "path", dbPath)

	// Initialize database
	db, err := repository.Open(dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	// Initialize repositories
	habitRepo, err := repository.NewHabitRepository(db)
	if err != nil {
		log.Fatal("Failed to initialize habit repository:", err)
	}
	userRepo, err := repository.NewUserRepository(db)
	if err != nil {
		log.Fatal("Failed to initialize user repository:", err)
	}
	groupRepo, err := repository.NewGroupRepository(db)
	if err != nil {
		log.Fatal("Failed to initialize group repository:", err)
	}
	notifRepo, err := repository.NewNotificationRepository(db)
	if err != nil {
		log.Fatal("Failed to initialize notification repository:", err)
	}
	achRepo, err := repository.NewAchievementRepository(db)
	if err != nil {
		log.Fatal("Failed to initialize achievement repository:", err)
	}

	logger.Info("database initialized successfully")

	// Initialize the rule-engine scanner
	riskCutoffHour := engine.DefaultRiskCutoffHour
	if v := os.Getenv("RISK_CUTOFF_HOUR"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil || hour < 0 || hour > 23 {
			log.Fatal("RISK_CUTOFF_HOUR must be an hour between 0 and 23")
		}
		riskCutoffHour = hour
	}
	scanner := engine.NewScanner(&repository.ScanStore{
		Habits:        habitRepo,
		Notifications: notifRepo,
		Achievements:  achRepo,
	}, logger, riskCutoffHour, scanDebounce)

	// Initialize handlers
	habitHandler := handlers.NewHabitHandler(habitRepo, groupRepo, notifRepo, userRepo, scanner, logger)
	authHandler := handlers.NewAuthHandler(userRepo, logger)
	userHandler := handlers.NewUserHandler(userRepo, logger)
	groupHandler := handlers.NewGroupHandler(groupRepo, habitRepo, userRepo, logger)
	notifHandler := handlers.NewNotificationHandler(notifRepo, achRepo, logger)
	scanHandler := handlers.NewScanHandler(userRepo, scanner, logger)
	reportHandler := handlers.NewReportHandler(habitRepo, groupRepo, userRepo, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // Allow all origins for Docker
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Public routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(logger))

		r.Put("/api/users/me/settings", userHandler.UpdateSettings)

		r.Route("/api/habits", func(r chi.Router) {
			r.Get("/", habitHandler.GetAllHabits)
			r.Post("/", habitHandler.CreateHabit)
			r.Get("/{id}", habitHandler.GetHabit)
			r.Put("/{id}", habitHandler.UpdateHabit)
			r.Delete("/{id}", habitHandler.DeleteHabit)
			r.Post("/{id}/toggle", habitHandler.ToggleLog)
			r.Post("/{id}/archive", habitHandler.Archive)
			r.Get("/{id}/streak", habitHandler.GetStreak)
			r.Get("/{id}/actionable", habitHandler.GetActionability)
		})

		r.Route("/api/groups", func(r chi.Router) {
			r.Get("/", groupHandler.ListGroups)
			r.Post("/", groupHandler.CreateGroup)
			r.Get("/{id}", groupHandler.GetGroup)
			r.Post("/{id}/join", groupHandler.Join)
			r.Post("/{id}/leave", groupHandler.Leave)
			r.Post("/{id}/promote", groupHandler.Promote)
			r.Post("/{id}/demote", groupHandler.Demote)
			r.Delete("/{id}/members/{userID}", groupHandler.RemoveMember)
			r.Get("/{id}/leaderboard", groupHandler.Leaderboard)
		})

		r.Get("/api/notifications", notifHandler.ListNotifications)
		r.Post("/api/notifications/{id}/read", notifHandler.MarkRead)
		r.Get("/api/achievements", notifHandler.ListAchievements)
		r.Post("/api/scan", scanHandler.Run)
		r.Get("/api/reports", reportHandler.Get)
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("server starting", "port", port)
	fmt.Printf("🚀 Server running at http://localhost:%s\n", port)

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
