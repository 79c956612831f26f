package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/quiz"
	"github.com/wricardo/quickplay/game/tictactoe"
)

func boardState(symbols []string, flipped ...int) memory.State {
	s := memory.State{Status: memory.Playing, FlippedIndexes: []int{}}
	for i, sym := range symbols {
		s.Cards = append(s.Cards, memory.Card{ID: i, Symbol: sym})
	}
	for _, i := range flipped {
		s.Cards[i].IsFlipped = true
		s.FlippedIndexes = append(s.FlippedIndexes, i)
	}
	return s
}

func TestMemoryStrategy_RemembersSeenCards(t *testing.T) {
	symbols := []string{"A", "B", "A", "B"}
	s := NewMemoryStrategy()

	assert.Equal(t, 0, s.NextFlip(boardState(symbols)))
	assert.Equal(t, 1, s.NextFlip(boardState(symbols, 0)), "partner of A is still unknown")
	s.Observe(boardState(symbols, 0, 1))

	// mismatch resolved, both face down again
	assert.Equal(t, 2, s.NextFlip(boardState(symbols)))
	assert.Equal(t, 0, s.NextFlip(boardState(symbols, 2)), "second A was seen at 0")
}

func TestMemoryStrategy_PlaysKnownPairFirst(t *testing.T) {
	symbols := []string{"A", "B", "C", "B"}
	s := NewMemoryStrategy()
	s.Observe(boardState(symbols, 1, 3))

	first := s.NextFlip(boardState(symbols))
	assert.Equal(t, 1, first)
	assert.Equal(t, 3, s.NextFlip(boardState(symbols, 1)))
}

func TestMemoryStrategy_SkipsMatchedCards(t *testing.T) {
	state := boardState([]string{"A", "A", "B", "B"})
	state.Cards[0].IsMatched = true
	state.Cards[1].IsMatched = true

	s := NewMemoryStrategy()
	assert.Equal(t, 2, s.NextFlip(state))
}

func TestMemoryStrategy_NothingToFlip(t *testing.T) {
	s := NewMemoryStrategy()

	pending := boardState([]string{"A", "B", "A", "B"}, 0, 1)
	assert.Equal(t, -1, s.NextFlip(pending))

	won := boardState([]string{"A", "A"})
	won.Status = memory.Won
	assert.Equal(t, -1, s.NextFlip(won))
}

func TestMemoryStrategy_Reset(t *testing.T) {
	symbols := []string{"A", "B", "A", "B"}
	s := NewMemoryStrategy()
	s.Observe(boardState(symbols, 0, 2))
	s.Reset()

	assert.Equal(t, 0, s.NextFlip(boardState(symbols)))
	assert.Equal(t, 1, s.NextFlip(boardState(symbols, 0)))
}

func board(cells string) tictactoe.Board {
	var b tictactoe.Board
	for i, c := range cells {
		switch c {
		case 'X':
			b[i] = tictactoe.X
		case 'O':
			b[i] = tictactoe.O
		}
	}
	return b
}

func TestBestMove(t *testing.T) {
	tests := []struct {
		name  string
		board string
		mark  tictactoe.Mark
		want  int
	}{
		{"takes the win", "XX.OO....", tictactoe.X, 2},
		{"O takes the win", "XX.OO.X..", tictactoe.O, 5},
		{"blocks", "XX..O....", tictactoe.O, 2},
		{"finished board", "XXXOO....", tictactoe.O, -1},
		{"full board", "XOXXOOOXX", tictactoe.X, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestMove(board(tt.board), tt.mark))
		})
	}
}

func TestBestMove_SelfPlayDraws(t *testing.T) {
	var b tictactoe.Board
	mark := tictactoe.X
	for !tictactoe.Full(b) {
		i := BestMove(b, mark)
		if i < 0 {
			break
		}
		b[i] = mark
		mark = opponent(mark)
	}

	_, _, won := tictactoe.Winner(b)
	assert.False(t, won)
	assert.True(t, tictactoe.Full(b))
}

func TestQuizStrategy(t *testing.T) {
	q := quiz.QuestionView{Text: "Capital of France?", Options: []string{"London", "Berlin", "Paris", "Madrid"}}
	s := NewQuizStrategy()

	assert.Equal(t, "London", s.Choose(q))

	selected := "London"
	s.Learn(quiz.State{Question: q, SelectedOption: &selected, Answered: true, CorrectAnswer: "Paris"})
	assert.Equal(t, "Paris", s.Choose(q))
	assert.Equal(t, 1, s.Known())

	// unanswered states teach nothing
	other := quiz.QuestionView{Text: "2+2?", Options: []string{"3", "4", "5", "6"}}
	s.Learn(quiz.State{Question: other})
	assert.Equal(t, "3", s.Choose(other))
	assert.Equal(t, 1, s.Known())
}
