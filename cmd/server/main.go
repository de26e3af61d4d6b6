package main

import (
	"log"
	"net/http"
	"os"

	"github.com/americano/backend/internal/assessment"
	"github.com/americano/backend/internal/auth"
	"github.com/americano/backend/internal/database"
	"github.com/americano/backend/internal/insights"
	"github.com/americano/backend/internal/middleware"
	"github.com/americano/backend/internal/progress"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	progressService := progress.NewService(progress.NewStore(db))

	assessmentService := assessment.NewService(assessment.NewStore(db))
	assessmentService.SetProgressService(progressService)

	insightsService := insights.NewService(insights.NewStore(db), assessmentService, insights.NewGenerator())

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	assessmentHandler := assessment.NewHandler(assessmentService)
	progressHandler := progress.NewHandler(progressService)
	insightsHandler := insights.NewHandler(insightsService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	assessmentHandler.RegisterRoutes(protected)
	progressHandler.RegisterRoutes(protected)
	insightsHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
