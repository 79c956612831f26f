package service

import (
	"time"

	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/quiz"
	"github.com/wricardo/quickplay/game/tictactoe"
)

// CreateSessionRequest selects the game and its options
type CreateSessionRequest struct {
	Game       string `json:"game"`
	Difficulty string `json:"difficulty,omitempty"` // memory only
	Quiz       string `json:"quiz,omitempty"`       // quiz bank id
}

// SessionInfo provides information about a game session. Only the state of
// the session's game is set.
type SessionInfo struct {
	ID             string           `json:"id"`
	Game           Kind             `json:"game"`
	QuizBank       string           `json:"quiz_bank,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Memory         *memory.State    `json:"memory,omitempty"`
	TicTacToe      *tictactoe.State `json:"tictactoe,omitempty"`
	Quiz           *quiz.State      `json:"quiz,omitempty"`
}

// ActionResult is the outcome of a game operation. A rejected operation
// changes nothing and is not an error.
type ActionResult struct {
	Accepted bool         `json:"accepted"`
	Session  *SessionInfo `json:"session"`
}
