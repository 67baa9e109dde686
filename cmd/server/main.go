package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"quiz-live/internal/auth"
	"quiz-live/internal/config"
	"quiz-live/internal/game"
	"quiz-live/internal/models"
	"quiz-live/internal/quiz"
	"quiz-live/pkg/cache"
	"quiz-live/pkg/database"
	"quiz-live/pkg/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}
	cfg := config.Load()

	rand.Seed(time.Now().UnixNano())

	dbConfig := &database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	}
	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr)

	// Session engine. Finished games get their standings persisted so they
	// survive pin release.
	registry := game.NewRegistry()
	registry.OnFinished = func(pin string, final []game.RankEntry) {
		if err := redisCache.SetFinalStandings(pin, final); err != nil {
			log.Printf("Failed to persist standings for game %s: %v", pin, err)
		}
	}
	gameServer := game.NewServer(registry, cfg.GameSettings())
	wsRouter := websocket.NewRouter(gameServer)

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	quizRepo := quiz.NewRepository(db)
	quizService := quiz.NewService(quizRepo, redisCache)
	quizHandler := quiz.NewHandler(quizService)

	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Quiz store routes - JWT required
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(cfg.JWTSecret))
	apiRouter.HandleFunc("/quiz", quizHandler.SaveQuiz).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/mine", quizHandler.GetMyQuizzes).Methods("GET")
	apiRouter.HandleFunc("/quiz/{title}", quizHandler.GetQuiz).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{title}", quizHandler.DeleteQuiz).Methods("DELETE", "OPTIONS")

	// Standings lookup - works after the game's pin is released
	router.HandleFunc("/api/game/{pin}/standings", func(w http.ResponseWriter, r *http.Request) {
		pin := mux.Vars(r)["pin"]
		final, err := redisCache.GetFinalStandings(pin)
		if err != nil || len(final) == 0 {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(final)
	}).Methods("GET")

	// Game endpoint - one persistent connection per participant
	router.HandleFunc("/ws", wsRouter.ServeWS)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (advance mode: %s)", cfg.ServerPort, cfg.AdvanceMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
