package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/falak-club/apiserver/config"
	"github.com/falak-club/apiserver/internal/access"
	"github.com/falak-club/apiserver/internal/db"
	"github.com/falak-club/apiserver/internal/handlers"
	"github.com/falak-club/apiserver/internal/identity"
	"github.com/falak-club/apiserver/internal/mq"
	"github.com/falak-club/apiserver/internal/services"
	"github.com/falak-club/apiserver/internal/storage"
	"github.com/falak-club/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and its long-lived dependencies.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a fully wired Server.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.Default()

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	objectStore, err := newStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("ensure bucket failed: %w", err)
	}

	broker, err := NewBroker(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	identityRepo := store.NewIdentityRepository(dbConn)
	userRepo := store.NewUserRepository(dbConn)
	adminRepo := store.NewAdminRepository(dbConn)
	projectRepo := store.NewProjectRepository(dbConn)
	eventRepo := store.NewEventRepository(dbConn)
	rsvpRepo := store.NewRSVPRepository(dbConn)
	achievementRepo := store.NewAchievementRepository(dbConn)
	profileRepo := store.NewProfileRepository(dbConn)

	identities := identity.NewPasswordProvider(identityRepo)
	resolver := access.NewResolver(userRepo, adminRepo, cfg.Auth.SuperadminEmails, logger)

	var notifier *services.Notifier
	if broker != nil {
		notifier = services.NewNotifier(broker, cfg.MQ.Channel, logger)
	}

	userService := services.NewUserService(userRepo, notifier)
	projectService := services.NewProjectService(projectRepo, notifier)
	eventService := services.NewEventService(eventRepo)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo)
	achievementService := services.NewAchievementService(achievementRepo, userRepo)
	adminService := services.NewAdminService(adminRepo, identities)
	profileService := services.NewProfileService(profileRepo, userRepo, achievementRepo, projectRepo)

	gate := handlers.NewGate(identities, resolver, jwtSecret)
	uploads := handlers.NewUploader(objectStore, logger)

	profileHandler := handlers.NewProfileHandler(userService, profileService, projectService, rsvpService, uploads)
	adminHandler := handlers.NewAdminHandler(userService, projectService, eventService, achievementService, adminService, uploads)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, identities, gate, jwtSecret, cfg.Auth.AdminGateSecret)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, profileHandler)
	})
	router.Route("/me", func(r chi.Router) {
		handlers.MeRouter(r, profileHandler, gate)
	})
	router.Route("/projects", func(r chi.Router) {
		handlers.ProjectRouter(r, projectService, gate, uploads)
	})
	router.Route("/events", func(r chi.Router) {
		handlers.EventRouter(r, eventService, rsvpService, gate)
	})
	router.Route("/admin", func(r chi.Router) {
		handlers.AdminRouter(r, adminHandler, gate)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

func newStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "minio":
		client, err := storage.NewMinioClient(cfg.Storage.Minio)
		if err != nil {
			return nil, fmt.Errorf("minio init failed: %w", err)
		}
		return storage.NewStorage(client), nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.Storage.GCS)
		if err != nil {
			return nil, fmt.Errorf("gcs init failed: %w", err)
		}
		return storage.NewStorage(client), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// NewBroker connects the configured mq backend. It is shared between the
// server (publish side) and the notifications command (consume side), and
// returns nil when the backend is "none"; notifications are then simply
// skipped.
func NewBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch strings.ToLower(cfg.MQ.Backend) {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq init failed: %w", err)
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.MQ.PubSub)
		if err != nil {
			return nil, fmt.Errorf("pubsub init failed: %w", err)
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.broker != nil {
		_ = s.broker.Close()
	}
	return s.httpServer.Close()
}
