package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/judgecore/internal/api/handler"
	"github.com/mcoot/judgecore/internal/api/middleware"
	"github.com/mcoot/judgecore/internal/broadcast"
	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/services/auth"
	"github.com/mcoot/judgecore/internal/services/chat"
	"github.com/mcoot/judgecore/internal/services/contest"
	"github.com/mcoot/judgecore/internal/services/judge"
	"github.com/mcoot/judgecore/internal/services/problem"
	"github.com/mcoot/judgecore/internal/services/team"
	"github.com/mcoot/judgecore/internal/services/user"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Clock          clock.Clock
	AuthService    *auth.Service
	UserService    *user.Service
	TeamService    *team.Service
	ProblemService *problem.Service
	ContestService *contest.Service
	JudgeService   *judge.Service
	ChatService    *chat.Service
	Hub            *broadcast.Hub
	Transport      *broadcast.Transport
	// StoragePinger is optional; when set, /health reports storage reachability
	StoragePinger handler.Pinger
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	userHandler := handler.NewUserHandler(cfg.UserService, cfg.ChatService)
	teamHandler := handler.NewTeamHandler(cfg.TeamService, cfg.ProblemService, cfg.ContestService, cfg.Clock)
	problemHandler := handler.NewProblemHandler(cfg.ProblemService, cfg.JudgeService)
	contestHandler := handler.NewContestHandler(cfg.ContestService, cfg.Clock)
	recordHandler := handler.NewRecordHandler(cfg.JudgeService)
	chatHandler := handler.NewChatHandler(cfg.ChatService)
	eventsHandler := handler.NewEventsHandler(cfg.Transport)
	healthHandler := handler.NewHealthHandler(cfg.Hub, cfg.StoragePinger, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for registering/logging in)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.Handle("/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me))).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Everything else is evaluated against the requester, who may be anonymous.
	// Policy decides what anonymous requesters can see.
	public := api.NewRoute().Subrouter()
	public.Use(optionalAuthMiddleware)

	public.HandleFunc("/users/{userID}", userHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/users/{userID}", userHandler.Update).Methods(http.MethodPatch)
	public.HandleFunc("/users/{userID}/role", userHandler.SetRole).Methods(http.MethodPut)
	public.HandleFunc("/users/{userID}/messages", userHandler.SendMessage).Methods(http.MethodPost)
	public.HandleFunc("/users/{userID}/messages", userHandler.Messages).Methods(http.MethodGet)

	public.HandleFunc("/teams", teamHandler.Create).Methods(http.MethodPost)
	public.HandleFunc("/teams/{teamID}", teamHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/teams/{teamID}/members", teamHandler.Members).Methods(http.MethodGet)
	public.HandleFunc("/teams/{teamID}/members/{userID}", teamHandler.SetMember).Methods(http.MethodPut)
	public.HandleFunc("/teams/{teamID}/problems", teamHandler.CreateProblem).Methods(http.MethodPost)
	public.HandleFunc("/teams/{teamID}/contests", teamHandler.CreateContest).Methods(http.MethodPost)

	public.HandleFunc("/problems/{problemID}", problemHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/problems/{problemID}/submissions", problemHandler.Submit).Methods(http.MethodPost)

	public.HandleFunc("/contests/{contestID}", contestHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/contests/{contestID}", contestHandler.Update).Methods(http.MethodPatch)
	public.HandleFunc("/contests/{contestID}/register", contestHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/contests/{contestID}/participants", contestHandler.Participants).Methods(http.MethodGet)
	public.HandleFunc("/contests/{contestID}/participants/{userID}", contestHandler.SetParticipant).Methods(http.MethodPut)
	public.HandleFunc("/contests/{contestID}/permissions", contestHandler.Permissions).Methods(http.MethodGet)
	public.HandleFunc("/contests/{contestID}/standings", contestHandler.Standings).Methods(http.MethodGet)

	public.HandleFunc("/records/{recordID}", recordHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/records/{recordID}/verdict", recordHandler.UpdateVerdict).Methods(http.MethodPut)

	public.HandleFunc("/rooms", chatHandler.CreateRoom).Methods(http.MethodPost)
	public.HandleFunc("/rooms/{roomID}/join", chatHandler.Join).Methods(http.MethodPost)
	public.HandleFunc("/rooms/{roomID}/messages", chatHandler.Send).Methods(http.MethodPost)
	public.HandleFunc("/rooms/{roomID}/messages", chatHandler.History).Methods(http.MethodGet)

	public.HandleFunc("/ws", eventsHandler.Connect).Methods(http.MethodGet)

	return r
}
