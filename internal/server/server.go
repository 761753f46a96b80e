// Package server wires storage, services and handlers into one chi router
// and runs the HTTP server.
//
//	main.go → server.New: sqlite.DB → services → handlers → routes
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/event-forum/internal/handler"
	"github.com/sakif/event-forum/internal/middleware"
	sqliteRepo "github.com/sakif/event-forum/internal/repository/sqlite"
	"github.com/sakif/event-forum/internal/service"
	"github.com/sakif/event-forum/internal/session"
)

type Config struct {
	Port      int
	DBPath    string
	Templates fs.FS
	Static    fs.FS
	Sessions  *session.Manager // nil disables the viewer cookie
}

// Server owns the database connection and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers:
//
//	GET    /                     feed page
//	GET    /event/{id}           event detail page
//	POST   /events               host an event (form)
//	POST   /event/{id}/replies   reply (form)
//	POST   /event/{id}/join      toggle join (form)
//	GET    /static/*             assets
//	GET    /healthz              liveness + database ping
//	GET    /api/likes            like exists
//	POST   /api/likes            like
//	DELETE /api/likes            unlike
//	POST   /api/tweets           create event or reply
//	GET    /api/events           feed
//	GET    /api/events/{id}      event with replies
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(session.LoadViewer(s.config.Sessions))

	userService := service.NewUserService(s.db, s.logger)
	eventService := service.NewEventService(s.db, s.db, s.db, s.logger)
	likeService := service.NewLikeService(s.db, s.logger)
	feedService := service.NewFeedService(s.db, s.logger)

	if s.config.Static != nil {
		s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.config.Static))))
	}

	s.router.Get("/healthz", s.handleHealth)

	if s.config.Templates != nil {
		pages, err := handler.NewPageHandler(s.config.Templates, handler.PageServices{
			Users:  userService,
			Events: eventService,
			Likes:  likeService,
			Feed:   feedService,
		}, s.config.Sessions, s.logger)
		if err != nil {
			return fmt.Errorf("creating page handler: %w", err)
		}

		s.router.Get("/", pages.HandleFeed)
		s.router.Post("/events", pages.HandleCreateEvent)
		s.router.Route("/event/{id}", func(r chi.Router) {
			r.Get("/", pages.HandleEvent)
			r.Post("/replies", pages.HandleReply)
			r.Post("/join", pages.HandleJoin)
		})
	}

	likeHandler := handler.NewLikeHandler(likeService, s.logger)
	eventHandler := handler.NewEventHandler(eventService, feedService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/likes", likeHandler.HandleExists)
		r.Post("/likes", likeHandler.HandleCreate)
		r.Delete("/likes", likeHandler.HandleDelete)

		r.Post("/tweets", eventHandler.HandleCreate)
		r.Get("/events", eventHandler.HandleList)
		r.Get("/events/{id}", eventHandler.HandleGet)
	})

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Close releases the database. Start calls it on shutdown.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for
// up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("sessions", s.config.Sessions != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
