// Package tictactoe implements a two-player tic-tac-toe round with a running
// scoreboard. X always opens a round.
package tictactoe

import (
	"sync"

	"go.uber.org/zap"
)

// Engine owns the board, turn order and scoreboard. It is safe for
// concurrent use; every operation is atomic.
type Engine struct {
	mu          sync.Mutex
	board       Board
	next        Mark
	status      Status
	winner      Mark
	winningLine []int
	moves       int
	scores      Scoreboard

	logger   *zap.Logger
	onChange func(State)
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOnChange registers a callback invoked with a snapshot after every
// accepted operation.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// New creates an engine with an empty board and a zero scoreboard
func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.reset()
	return e
}

// Move places the next mark at index. It returns false, changing nothing,
// when index is out of range, the cell is taken or the round is over.
func (e *Engine) Move(index int) bool {
	e.mu.Lock()
	if index < 0 || index >= BoardSize || e.board[index] != Empty || e.status != Playing {
		e.mu.Unlock()
		return false
	}

	mark := e.next
	e.board[index] = mark
	e.next = mark.other()
	e.moves++
	e.evaluate()

	if e.status != Playing {
		e.logger.Debug("tictactoe round finished",
			zap.String("status", string(e.status)),
			zap.String("winner", string(e.winner)),
			zap.Int("moves", e.moves),
		)
	}

	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
	return true
}

// Restart clears the board for a new round and keeps the scoreboard
func (e *Engine) Restart() {
	e.mu.Lock()
	e.reset()
	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
}

// ResetScores zeroes the scoreboard and restarts the round
func (e *Engine) ResetScores() {
	e.mu.Lock()
	e.scores = Scoreboard{}
	e.reset()
	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
}

// State returns a snapshot of the engine
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Scoreboard returns the running scoreboard
func (e *Engine) Scoreboard() Scoreboard {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scores
}

// evaluate applies win and draw detection after a move
func (e *Engine) evaluate() {
	if mark, line, ok := Winner(e.board); ok {
		e.status = Won
		e.winner = mark
		e.winningLine = line
		if mark == X {
			e.scores.XWins++
		} else {
			e.scores.OWins++
		}
		return
	}

	if Full(e.board) {
		e.status = Draw
		e.scores.Draws++
	}
}

func (e *Engine) reset() {
	e.board = Board{}
	e.next = X
	e.status = Playing
	e.winner = Empty
	e.winningLine = nil
	e.moves = 0
}

func (e *Engine) snapshot() State {
	var line []int
	if e.winningLine != nil {
		line = append([]int(nil), e.winningLine...)
	}
	return State{
		Board:       e.board,
		NextMark:    e.next,
		Status:      e.status,
		Winner:      e.winner,
		WinningLine: line,
		Moves:       e.moves,
		Scoreboard:  e.scores,
	}
}

func (e *Engine) notify(state State) {
	if e.onChange != nil {
		e.onChange(state)
	}
}

// Winner returns the mark and line of the first completed triple, in Lines
// order.
func Winner(b Board) (Mark, []int, bool) {
	for _, line := range Lines {
		a := b[line[0]]
		if a != Empty && a == b[line[1]] && a == b[line[2]] {
			return a, []int{line[0], line[1], line[2]}, true
		}
	}
	return Empty, nil, false
}

// Full reports whether no empty cell remains
func Full(b Board) bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}
