package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nertsleague-go/internal/api/handler"
	"github.com/mcoot/nertsleague-go/internal/api/middleware"
	"github.com/mcoot/nertsleague-go/internal/services/auth"
	"github.com/mcoot/nertsleague-go/internal/services/game"
	"github.com/mcoot/nertsleague-go/internal/services/league"
	"github.com/mcoot/nertsleague-go/internal/services/roster"
	"github.com/mcoot/nertsleague-go/internal/services/session"
	"github.com/mcoot/nertsleague-go/internal/services/stats"
	"github.com/mcoot/nertsleague-go/internal/services/transfer"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	LeagueService     *league.Service
	RosterService     *roster.Service
	SessionController *session.Controller
	GameController    *game.Controller
	StatsService      *stats.Service
	TransferService   *transfer.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	userHandler := handler.NewUserHandler(cfg.RosterService)
	leagueHandler := handler.NewLeagueHandler(cfg.LeagueService)
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.GameController, cfg.StatsService)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)
	transferHandler := handler.NewTransferHandler(cfg.TransferService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no auth required to create an account or log in)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)

	// Everything else requires auth
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	// Roster routes
	protected.HandleFunc("/users", userHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", userHandler.Update).Methods(http.MethodPatch)

	// League settings
	protected.HandleFunc("/settings", leagueHandler.GetSettings).Methods(http.MethodGet)
	protected.HandleFunc("/settings", leagueHandler.UpdateSettings).Methods(http.MethodPut)

	// Session routes
	protected.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{id}/players", sessionHandler.AddPlayer).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}/end", sessionHandler.End).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}/games", sessionHandler.RecordGame).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}/stats", sessionHandler.Stats).Methods(http.MethodGet)

	// Game history routes
	protected.HandleFunc("/games", gameHandler.Record).Methods(http.MethodPost)
	protected.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/games/{id}", gameHandler.Update).Methods(http.MethodPatch)

	// Stats routes
	protected.HandleFunc("/stats/career", statsHandler.Career).Methods(http.MethodGet)
	protected.HandleFunc("/stats/career/me", statsHandler.CareerMe).Methods(http.MethodGet)
	protected.HandleFunc("/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)

	// Bulk transfer routes
	protected.HandleFunc("/export", transferHandler.Export).Methods(http.MethodGet)
	protected.HandleFunc("/import", transferHandler.Import).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
