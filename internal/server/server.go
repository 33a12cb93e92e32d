// Package server exposes the JSON API for relay browsing, tunnel control,
// device setup and operator settings.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wg-relay-webui/internal/auth"
	"wg-relay-webui/internal/autostart"
	"wg-relay-webui/internal/diaglog"
	"wg-relay-webui/internal/enroll"
	"wg-relay-webui/internal/events"
	"wg-relay-webui/internal/profiles"
	"wg-relay-webui/internal/relays"
	"wg-relay-webui/internal/settings"
	"wg-relay-webui/internal/tunnel"
)

// Server handles HTTP requests for the web interface.
type Server struct {
	tunnel    *tunnel.Controller
	profiles  *profiles.Store
	autostart *autostart.Registry
	directory *relays.Client
	cache     *relays.Store
	enroller  *enroll.Enroller
	events    *events.Log
	settings  *settings.Manager
	auth      *auth.Manager
	log       *diaglog.Logger
}

// Deps bundles the collaborators the server routes requests to.
type Deps struct {
	Tunnel    *tunnel.Controller
	Profiles  *profiles.Store
	Autostart *autostart.Registry
	Directory *relays.Client
	Cache     *relays.Store
	Enroller  *enroll.Enroller
	Events    *events.Log
	Settings  *settings.Manager
	Auth      *auth.Manager
	Log       *diaglog.Logger
}

// New creates an HTTP server.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = diaglog.New("")
	}
	return &Server{
		tunnel:    deps.Tunnel,
		profiles:  deps.Profiles,
		autostart: deps.Autostart,
		directory: deps.Directory,
		cache:     deps.Cache,
		enroller:  deps.Enroller,
		events:    deps.Events,
		settings:  deps.Settings,
		auth:      deps.Auth,
		log:       deps.Log,
	}
}

// Router constructs the http.Handler with all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.auth != nil {
		r.Use(s.auth.Middleware)
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", s.handleLogin)
		api.Post("/auth/password", s.handleChangePassword)

		api.Get("/status", s.handleStatus)
		api.Post("/connect/{code}", s.handleConnect)
		api.Post("/disconnect", s.handleDisconnect)

		api.Get("/relays", s.handleListRelays)
		api.Post("/relays/refresh", s.handleRefreshRelays)

		api.Get("/profiles", s.handleListProfiles)
		api.Post("/setup", s.handleSetup)

		api.Get("/autostart", s.handleGetAutostart)
		api.Post("/autostart/{code}", s.handleEnableAutostart)
		api.Delete("/autostart", s.handleDisableAutostart)

		api.Get("/events", s.handleListEvents)
		api.Get("/settings", s.handleGetSettings)
		api.Put("/settings", s.handleSaveSettings)
		api.Get("/version", s.handleVersion)
	})

	return r
}
