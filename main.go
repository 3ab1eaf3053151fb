// Main entry point of the townhall backend.
// It initializes configuration, the database pool, the object-storage client,
// services and handlers, sets up the HTTP router and middleware, and starts
// the server with graceful shutdown. Dependency injection is done by hand,
// constructor by constructor.
//
// @title Townhall API
// @version 1.0
// @description Role-gated content publishing backend: events, media ingestion and account provisioning.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/townhall-go/accounts"
	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/auth"
	"github.com/user/townhall-go/config"
	"github.com/user/townhall-go/db"
	_ "github.com/user/townhall-go/docs" // Generated Swagger docs
	"github.com/user/townhall-go/events"
	"github.com/user/townhall-go/media"
)

func main() {
	// .env loading is a development convenience; in production the
	// variables are set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Object-storage client for the media pipeline.
	uploader, err := media.NewS3Uploader(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create object-storage client: %v", err)
	}

	// Manual dependency injection: every service receives its collaborators
	// explicitly, so tests can substitute deterministic doubles.
	userStore := auth.NewPostgresUserStore(pool)
	eventStore := events.NewPostgresStore(pool)

	authService := auth.NewService(userStore, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	accountService := accounts.NewService(userStore, *cfg.Provision)
	accountHandlers := accounts.NewHandlers(accountService)

	eventService := events.NewService(eventStore)
	eventHandlers := events.NewHandlers(eventService)

	mediaService := media.NewService(uploader, nil, cfg.Storage)
	mediaHandlers := media.NewHandlers(mediaService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that keeps the apperror response shape.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					auth.WriteError(ww, r, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Session endpoints: public.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandlers.HandleLogin())
		r.Post("/refresh", authHandlers.HandleRefreshToken())
	})

	// Public read skips the gate entirely; admin writes go through the
	// session resolver and are gated per operation.
	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandlers.HandleListPublic())

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(cfg.Auth))
			r.Post("/", eventHandlers.HandleCreateEvent())
			r.Put("/{id}/publish", eventHandlers.HandleSetPublished())
		})
	})

	r.Route("/media", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg.Auth))
		r.Post("/", mediaHandlers.HandleIngest())
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg.Auth))
		r.Post("/", accountHandlers.HandleProvision())
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
