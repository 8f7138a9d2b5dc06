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
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"eventflow/internal/config"
	"eventflow/internal/database"
	"eventflow/internal/handlers"
	"eventflow/internal/middleware"
	"eventflow/internal/repositories"
	"eventflow/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	handlers.Development = cfg.IsDevelopment()

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,

		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)

	// Object storage: S3-compatible store when credentials are configured,
	// local disk otherwise.
	var storage services.StorageService
	if s3Storage, err := services.NewS3StorageService(cfg.Storage); err == nil {
		storage = s3Storage
		log.Println("Using S3-compatible object storage")
	} else {
		log.Printf("Object storage unavailable (%v), using local storage", err)
		storage = services.NewLocalStorageService("./uploads", "/uploads")
	}

	var mailer services.EmailService
	if cfg.Mailer.APIKey != "" {
		mailer = services.NewHTTPEmailService(cfg.Mailer)
	} else {
		log.Println("No mailer API key configured, emails will be logged")
		mailer = services.NewLogEmailService()
	}

	// Services
	imageService := services.NewImageService(storage)
	authService := services.NewAuthService(userRepo, mailer, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Mailer.BaseURL)
	eventService := services.NewEventService(eventRepo, imageService)
	ticketService := services.NewTicketService(ticketRepo, eventRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, imageService)
	eventHandler := handlers.NewEventHandler(eventService, ticketService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	adminHandler := handlers.NewAdminHandler(eventService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := buildRouter(authMiddleware, authHandler, eventHandler, ticketHandler, adminHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background sweeper rejects pending events whose date has passed
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper := services.NewSweeper(eventService, cfg.Sweeper.Interval)
	go sweeper.Start(sweepCtx)

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func buildRouter(
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	eventHandler *handlers.EventHandler,
	ticketHandler *handlers.TicketHandler,
	adminHandler *handlers.AdminHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(authMiddleware.LoadUser)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password/{token}", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/me", authHandler.Me)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Put("/change-password", authHandler.ChangePassword)
				r.Post("/upload-avatar", authHandler.UploadAvatar)
			})
		})

		// Public browsing
		r.Get("/events", eventHandler.ListApproved)
		r.Get("/events/{id}", eventHandler.GetByID)

		r.Route("/user", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Post("/events", eventHandler.Create)
			r.Get("/events", eventHandler.ListMine)
			r.Put("/events/{id}", eventHandler.Update)
			r.Get("/events/{id}/attendees", eventHandler.Attendees)

			r.Get("/stats/approved-last-5-months", eventHandler.ApprovedLastFiveMonths)
			r.Get("/stats/approved-next-3-months", eventHandler.ApprovedNextThreeMonths)
			r.Get("/stats/attendees-last-3-months", eventHandler.AttendeesLastThreeMonths)
			r.Get("/stats/revenue-last-3-months", eventHandler.RevenueLastThreeMonths)

			r.Post("/tickets", ticketHandler.Book)
			r.Get("/tickets", ticketHandler.ListMine)
			r.Get("/tickets/{id}", ticketHandler.GetByID)
			r.Put("/tickets/{id}/cancel", ticketHandler.Cancel)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)

			r.Get("/events", adminHandler.ListEvents)
			r.Put("/events/{id}/approve", adminHandler.ApproveEvent)
			r.Put("/events/{id}/reject", adminHandler.RejectEvent)
		})
	})

	return r
}
