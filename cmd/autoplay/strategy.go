package main

import (
	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/quiz"
	"github.com/wricardo/quickplay/game/tictactoe"
)

// MemoryStrategy plays with perfect recall. It only looks at symbols of cards
// that are, or have been, face up.
type MemoryStrategy struct {
	seen map[int]string
}

func NewMemoryStrategy() *MemoryStrategy {
	return &MemoryStrategy{seen: make(map[int]string)}
}

// Observe records every face-up card in state
func (s *MemoryStrategy) Observe(state memory.State) {
	for i, card := range state.Cards {
		if card.IsMatched {
			delete(s.seen, i)
			continue
		}
		if card.IsFlipped {
			s.seen[i] = card.Symbol
		}
	}
}

// NextFlip returns the card to flip next, or -1 when nothing can be flipped.
// The caller waits for a pending pair to resolve before asking.
func (s *MemoryStrategy) NextFlip(state memory.State) int {
	s.Observe(state)
	if state.Status != memory.Playing || len(state.FlippedIndexes) >= 2 {
		return -1
	}

	if len(state.FlippedIndexes) == 1 {
		first := state.FlippedIndexes[0]
		if partner := s.partnerOf(first, state); partner >= 0 {
			return partner
		}
		return s.unseen(state, first)
	}

	// a pair we already know about
	bySymbol := make(map[string]int)
	for i := range state.Cards {
		sym, ok := s.seen[i]
		if !ok || state.Cards[i].IsMatched {
			continue
		}
		if _, dup := bySymbol[sym]; dup {
			return bySymbol[sym]
		}
		bySymbol[sym] = i
	}
	return s.unseen(state, -1)
}

// Reset forgets every card, for a new deal
func (s *MemoryStrategy) Reset() {
	s.seen = make(map[int]string)
}

func (s *MemoryStrategy) partnerOf(index int, state memory.State) int {
	sym := s.seen[index]
	for i, other := range s.seen {
		if i != index && other == sym && !state.Cards[i].IsMatched && !state.Cards[i].IsFlipped {
			return i
		}
	}
	return -1
}

func (s *MemoryStrategy) unseen(state memory.State, skip int) int {
	for i, card := range state.Cards {
		if i == skip || card.IsMatched || card.IsFlipped {
			continue
		}
		if _, ok := s.seen[i]; !ok {
			return i
		}
	}
	// everything is known; any face-down card will do
	for i, card := range state.Cards {
		if i != skip && !card.IsMatched && !card.IsFlipped {
			return i
		}
	}
	return -1
}

// BestMove returns the minimax move for the mark to play, preferring the
// lowest index among equally good moves. It returns -1 on a finished board.
func BestMove(board tictactoe.Board, mark tictactoe.Mark) int {
	if _, _, won := tictactoe.Winner(board); won || tictactoe.Full(board) {
		return -1
	}

	best, bestScore := -1, -2
	for i := range board {
		if board[i] != tictactoe.Empty {
			continue
		}
		board[i] = mark
		score := -negamax(board, opponent(mark))
		board[i] = tictactoe.Empty
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// negamax scores board for the mark to play: 1 win, 0 draw, -1 loss
func negamax(board tictactoe.Board, mark tictactoe.Mark) int {
	if winner, _, won := tictactoe.Winner(board); won {
		if winner == mark {
			return 1
		}
		return -1
	}
	if tictactoe.Full(board) {
		return 0
	}

	best := -2
	for i := range board {
		if board[i] != tictactoe.Empty {
			continue
		}
		board[i] = mark
		score := -negamax(board, opponent(mark))
		board[i] = tictactoe.Empty
		if score > best {
			best = score
		}
	}
	return best
}

func opponent(m tictactoe.Mark) tictactoe.Mark {
	if m == tictactoe.X {
		return tictactoe.O
	}
	return tictactoe.X
}

// QuizStrategy learns answers as they are revealed and reuses them on the
// next attempt
type QuizStrategy struct {
	answers map[string]string
	wrong   map[string]map[string]bool
}

func NewQuizStrategy() *QuizStrategy {
	return &QuizStrategy{
		answers: make(map[string]string),
		wrong:   make(map[string]map[string]bool),
	}
}

// Choose returns the known answer, or the first option not already known
// to be wrong
func (s *QuizStrategy) Choose(q quiz.QuestionView) string {
	if answer, ok := s.answers[q.Text]; ok {
		return answer
	}
	for _, opt := range q.Options {
		if !s.wrong[q.Text][opt] {
			return opt
		}
	}
	if len(q.Options) > 0 {
		return q.Options[0]
	}
	return ""
}

// Learn records the outcome of an answered question
func (s *QuizStrategy) Learn(state quiz.State) {
	if !state.Answered || state.CorrectAnswer == "" {
		return
	}
	text := state.Question.Text
	s.answers[text] = state.CorrectAnswer
	if state.SelectedOption != nil && *state.SelectedOption != state.CorrectAnswer {
		if s.wrong[text] == nil {
			s.wrong[text] = make(map[string]bool)
		}
		s.wrong[text][*state.SelectedOption] = true
	}
}

// Known returns how many answers have been learned
func (s *QuizStrategy) Known() int {
	return len(s.answers)
}
