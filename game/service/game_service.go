package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/quiz"
	"github.com/wricardo/quickplay/game/registry"
	"github.com/wricardo/quickplay/game/tictactoe"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownGame       = errors.New("unknown game")
	ErrWrongGame         = errors.New("operation does not apply to this game")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// GameService defines all game-related operations
type GameService interface {
	// Registry
	ListGames(ctx context.Context) ([]registry.Descriptor, error)
	VoteGame(ctx context.Context, gameID string) ([]registry.Descriptor, error)
	HighScores(ctx context.Context) (map[memory.Difficulty]memory.HighScore, error)
	ListQuizzes(ctx context.Context) ([]config.BankInfo, error)

	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	RestartSession(ctx context.Context, sessionID string) (*ActionResult, error)

	// Memory
	MemoryFlip(ctx context.Context, sessionID string, index int) (*ActionResult, error)
	MemorySetDifficulty(ctx context.Context, sessionID, difficulty string) (*ActionResult, error)

	// Tic-tac-toe
	TicTacToeMove(ctx context.Context, sessionID string, index int) (*ActionResult, error)
	TicTacToeResetScores(ctx context.Context, sessionID string) (*ActionResult, error)

	// Quiz
	QuizSelect(ctx context.Context, sessionID, option string) (*ActionResult, error)
	QuizSubmit(ctx context.Context, sessionID string) (*ActionResult, error)
	QuizNext(ctx context.Context, sessionID string) (*ActionResult, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	// Create registers a new session. init attaches the engines before the
	// session becomes visible.
	Create(id string, init func(*Session) error) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// BankLoader provides quiz question banks
type BankLoader interface {
	LoadBank(name string) (*config.Bank, error)
	ListBanks() ([]config.BankInfo, error)
}

// Notifier receives session state changes
type Notifier interface {
	BroadcastToSession(sessionID string, data any)
	CloseSession(sessionID string)
}

// Kind names the game a session plays. Kinds match registry ids.
type Kind string

const (
	KindMemory    Kind = "memory"
	KindTicTacToe Kind = "tictactoe"
	KindQuiz      Kind = "quiz"
)

// ParseKind returns the kind named s
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindMemory, KindTicTacToe, KindQuiz:
		return k, true
	}
	return "", false
}

// Session represents an active game session. Exactly one engine is set,
// matching Game.
type Session struct {
	ID        string
	Game      Kind
	QuizBank  string
	Memory    *memory.Engine
	TicTacToe *tictactoe.Engine
	Quiz      *quiz.Engine
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
}

// Touch marks the session as accessed now
func (s *Session) Touch() {
	s.TouchAt(time.Now())
}

// TouchAt marks the session as accessed at t
func (s *Session) TouchAt(t time.Time) {
	s.mu.Lock()
	s.lastAccessedAt = t
	s.mu.Unlock()
}

// LastAccessedAt returns the time of the last access
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

// Close stops any deferred work owned by the session's engine
func (s *Session) Close() {
	if s.Memory != nil {
		s.Memory.Close()
	}
}
