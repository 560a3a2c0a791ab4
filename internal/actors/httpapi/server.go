package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rbroggi/oneclick/internal/core/usecase"
)

// Server is the HTTP actor exposing the public API.
type Server struct {
	engine        *gin.Engine
	addr          string
	auth          *Authenticator
	users         *usecase.UserService
	events        *usecase.EventService
	registrations *usecase.RegistrationService
}

// ServerArgs are the mandatory arguments for the creation of a Server.
type ServerArgs struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Auth issues and verifies bearer tokens.
	Auth *Authenticator

	// Users is the user use-case.
	Users *usecase.UserService

	// Events is the event catalog use-case.
	Events *usecase.EventService

	// Registrations is the registration use-case.
	Registrations *usecase.RegistrationService
}

// NewServer creates a new Server with its routes registered.
func NewServer(args ServerArgs) (*Server, error) {
	if args.Auth == nil || args.Users == nil || args.Events == nil || args.Registrations == nil {
		return nil, errors.New("missing mandatory arguments to NewServer")
	}

	server := &Server{
		engine:        gin.New(),
		addr:          args.Addr,
		auth:          args.Auth,
		users:         args.Users,
		events:        args.Events,
		registrations: args.Registrations,
	}
	server.engine.Use(gin.Recovery())
	server.routes()
	return server, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.healthz)

	api := s.engine.Group("/api")
	{
		api.POST("/signup", s.signup)
		api.POST("/login", s.login)
		api.POST("/forgot-password", s.forgotPassword)

		api.GET("/me", s.auth.Optional(), s.me)
		api.GET("/events", s.listEvents)
		api.POST("/events/:eid/register", s.auth.Optional(), s.register)
		api.GET("/events/:eid/register", s.auth.Optional(), s.registrationStatus)

		authed := api.Group("", s.auth.Required())
		{
			authed.GET("/users/network", s.network)
			authed.POST("/events", s.createEvent)
			authed.GET("/events/mine", s.ownedEvents)
			authed.GET("/events/search", s.searchEvents)
			authed.GET("/events/:eid/attendees", s.listAttendees)
		}
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve starts the HTTP server and blocks until the context is canceled,
// after which it drains in-flight requests.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown error: %w", err)
	}
	return nil
}
