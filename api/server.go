package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/service"
	"github.com/wricardo/quickplay/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service   service.GameService
	hub       *websocket.Hub
	router    *mux.Router
	logger    *zap.Logger
	staticDir string
}

// Option configures the server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStaticDir serves files from dir for paths outside /api and /ws
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Registry
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}/vote", s.handleVote).Methods("POST")
	api.HandleFunc("/highscores", s.handleHighScores).Methods("GET")
	api.HandleFunc("/quizzes", s.handleListQuizzes).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/restart", s.handleRestart).Methods("POST")

	// Game operations
	api.HandleFunc("/sessions/{id}/memory/flip", s.handleMemoryFlip).Methods("POST")
	api.HandleFunc("/sessions/{id}/memory/difficulty", s.handleMemoryDifficulty).Methods("POST")
	api.HandleFunc("/sessions/{id}/tictactoe/move", s.handleTicTacToeMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/tictactoe/reset-scores", s.handleTicTacToeResetScores).Methods("POST")
	api.HandleFunc("/sessions/{id}/quiz/select", s.handleQuizSelect).Methods("POST")
	api.HandleFunc("/sessions/{id}/quiz/submit", s.handleQuizSubmit).Methods("POST")
	api.HandleFunc("/sessions/{id}/quiz/next", s.handleQuizNext).Methods("POST")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	if s.staticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUnknownGame),
		errors.Is(err, config.ErrBankNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrWrongGame):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidDifficulty),
		errors.Is(err, config.ErrInvalidBank):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	respondError(w, status, err.Error())
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Registry Handlers

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
	})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	games, err := s.service.VoteGame(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
	})
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.service.HighScores(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, scores)
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.service.ListQuizzes(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"quizzes": quizzes,
	})
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSessionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Game == "" {
		respondError(w, http.StatusBadRequest, "game is required")
		return
	}

	session, err := s.service.CreateSession(r.Context(), req)
	if err != nil {
		// an unknown game in the body is a bad request, not a missing resource
		if errors.Is(err, service.ErrUnknownGame) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return
	game := query.Get("game")      // only sessions playing this game

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	if game != "" {
		filtered := sessions[:0]
		for _, sess := range sessions {
			if string(sess.Game) == game {
				filtered = append(filtered, sess)
			}
		}
		sessions = filtered
	}
	total := len(sessions)

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	limit := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	s.respondAction(w, r)(s.service.RestartSession(r.Context(), sessionID))
}

// Game Operation Handlers

func (s *Server) handleMemoryFlip(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Index *int `json:"index"`
	}
	if err := decodeBody(r, &req); err != nil || req.Index == nil {
		respondError(w, http.StatusBadRequest, "index is required")
		return
	}

	s.respondAction(w, r)(s.service.MemoryFlip(r.Context(), sessionID, *req.Index))
}

func (s *Server) handleMemoryDifficulty(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if err := decodeBody(r, &req); err != nil || req.Difficulty == "" {
		respondError(w, http.StatusBadRequest, "difficulty is required")
		return
	}

	s.respondAction(w, r)(s.service.MemorySetDifficulty(r.Context(), sessionID, req.Difficulty))
}

func (s *Server) handleTicTacToeMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Index *int `json:"index"`
	}
	if err := decodeBody(r, &req); err != nil || req.Index == nil {
		respondError(w, http.StatusBadRequest, "index is required")
		return
	}

	s.respondAction(w, r)(s.service.TicTacToeMove(r.Context(), sessionID, *req.Index))
}

func (s *Server) handleTicTacToeResetScores(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	s.respondAction(w, r)(s.service.TicTacToeResetScores(r.Context(), sessionID))
}

func (s *Server) handleQuizSelect(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Option string `json:"option"`
	}
	if err := decodeBody(r, &req); err != nil || req.Option == "" {
		respondError(w, http.StatusBadRequest, "option is required")
		return
	}

	s.respondAction(w, r)(s.service.QuizSelect(r.Context(), sessionID, req.Option))
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	s.respondAction(w, r)(s.service.QuizSubmit(r.Context(), sessionID))
}

func (s *Server) handleQuizNext(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	s.respondAction(w, r)(s.service.QuizNext(r.Context(), sessionID))
}

// respondAction writes an action result. Rejected actions are still 200.
func (s *Server) respondAction(w http.ResponseWriter, r *http.Request) func(*service.ActionResult, error) {
	return func(result *service.ActionResult, err error) {
		if err != nil {
			s.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, session.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
