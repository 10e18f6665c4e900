package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/mcoot/lfg/internal/api/handler"
	"github.com/mcoot/lfg/internal/api/middleware"
	"github.com/mcoot/lfg/internal/api/sse"
	"github.com/mcoot/lfg/internal/metrics"
	basemiddleware "github.com/mcoot/lfg/internal/middleware"
	"github.com/mcoot/lfg/internal/services/advisor"
	"github.com/mcoot/lfg/internal/services/auth"
	"github.com/mcoot/lfg/internal/services/directory"
	"github.com/mcoot/lfg/internal/services/lobby"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Directory       *directory.Service
	AuthService     *auth.Service
	LobbyController lobby.ControllerInterface
	AdvisorService  *advisor.Service
	EventHub        *sse.Hub
	Metrics         *metrics.Metrics
	AllowedOrigins  []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	accountHandler := handler.NewAccountHandler(cfg.Directory, cfg.AuthService)
	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyController)
	advisorHandler := handler.NewAdvisorHandler(cfg.AdvisorService)
	eventsHandler := handler.NewEventsHandler(cfg.EventHub)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := basemiddleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Account routes (no auth required to register or log in)
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/accounts/logout", accountHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/accounts/me", accountHandler.GetMe).Methods(http.MethodGet)

	protected.HandleFunc("/lobbies", lobbyHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/lobbies", lobbyHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/{name}", lobbyHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/lobbies/{name}", lobbyHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/lobbies/{name}/join", lobbyHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/{name}/leave", lobbyHandler.Leave).Methods(http.MethodPost)

	protected.HandleFunc("/suggestions", advisorHandler.Suggest).Methods(http.MethodGet)
	protected.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Outside the router so preflight requests never need a matching route
	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", basemiddleware.RequestIDHeader},
		ExposedHeaders:   []string{basemiddleware.RequestIDHeader},
		AllowCredentials: false,
	})
	return basemiddleware.RequestID(corsMiddleware(r))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
