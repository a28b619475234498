package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/math-practice/backend/internal/config"
	"github.com/math-practice/backend/internal/database"
	"github.com/math-practice/backend/internal/generator"
	"github.com/math-practice/backend/internal/problems"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	gen, err := generator.NewGenerator(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize generator: %v", err)
	}

	// Initialize handlers
	store := problems.NewStore(db)
	service := problems.NewService(store, gen, cfg.AITimeout)
	handler := problems.NewHandler(service)

	// Setup router
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	r.HandleFunc("/health", problems.Health).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	// Logging → CORS → router
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           problems.Logging(c.Handler(r)),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AITimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Println("Shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Server starting on :%s (db=%s, llm=%s)", cfg.Port, db.Dialect.Name(), gen.ModelName())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
