package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, e *Engine, moves ...int) {
	t.Helper()
	for _, m := range moves {
		require.True(t, e.Move(m), "move %d rejected", m)
	}
}

func TestNew(t *testing.T) {
	e := New()
	s := e.State()

	assert.Equal(t, Board{}, s.Board)
	assert.Equal(t, X, s.NextMark)
	assert.Equal(t, Playing, s.Status)
	assert.Equal(t, Empty, s.Winner)
	assert.Equal(t, Scoreboard{}, s.Scoreboard)
}

func TestMove_Alternates(t *testing.T) {
	e := New()
	play(t, e, 4)
	assert.Equal(t, X, e.State().Board[4])
	assert.Equal(t, O, e.State().NextMark)

	play(t, e, 0)
	assert.Equal(t, O, e.State().Board[0])
	assert.Equal(t, X, e.State().NextMark)
}

func TestMove_Rejected(t *testing.T) {
	e := New()
	play(t, e, 4)

	before := e.State()
	assert.False(t, e.Move(4), "occupied cell")
	assert.False(t, e.Move(-1), "negative index")
	assert.False(t, e.Move(9), "index past the board")
	assert.Equal(t, before, e.State())
}

func TestTopRowScenario(t *testing.T) {
	e := New()
	play(t, e, 0, 4, 1, 3, 2)

	s := e.State()
	assert.Equal(t, Won, s.Status)
	assert.Equal(t, X, s.Winner)
	assert.Equal(t, []int{0, 1, 2}, s.WinningLine)
	assert.Equal(t, 1, s.Scoreboard.XWins)

	// no moves after a win
	assert.False(t, e.Move(8))
}

func formsLine(cells []int) bool {
	set := map[int]bool{}
	for _, c := range cells {
		set[c] = true
	}
	for _, l := range Lines {
		if set[l[0]] && set[l[1]] && set[l[2]] {
			return true
		}
	}
	return false
}

func outside(line [3]int) []int {
	var rest []int
	for i := 0; i < BoardSize; i++ {
		if i != line[0] && i != line[1] && i != line[2] {
			rest = append(rest, i)
		}
	}
	return rest
}

func TestEveryLineWinsForX(t *testing.T) {
	for _, line := range Lines {
		e := New()
		rest := outside(line)
		play(t, e, line[0], rest[0], line[1], rest[1], line[2])

		s := e.State()
		assert.Equal(t, Won, s.Status, "line %v", line)
		assert.Equal(t, X, s.Winner, "line %v", line)
		assert.Equal(t, line[:], s.WinningLine, "line %v", line)
		assert.Equal(t, 1, s.Scoreboard.XWins)
	}
}

func TestEveryLineWinsForO(t *testing.T) {
	for _, line := range Lines {
		e := New()

		// pick three cells for X that do not form a line themselves
		rest := outside(line)
		var xs []int
		for i := 0; i < len(rest) && len(xs) < 3; i++ {
			if !formsLine(append(append([]int{}, xs...), rest[i])) {
				xs = append(xs, rest[i])
			}
		}
		require.Len(t, xs, 3)

		play(t, e, xs[0], line[0], xs[1], line[1], xs[2], line[2])

		s := e.State()
		assert.Equal(t, Won, s.Status, "line %v", line)
		assert.Equal(t, O, s.Winner, "line %v", line)
		assert.Equal(t, 1, s.Scoreboard.OWins)
		assert.Equal(t, 0, s.Scoreboard.XWins)
	}
}

func TestDraw(t *testing.T) {
	e := New()
	play(t, e, 0, 1, 2, 4, 3, 5, 7, 6, 8)

	s := e.State()
	assert.Equal(t, Draw, s.Status)
	assert.Equal(t, Empty, s.Winner)
	assert.Equal(t, Scoreboard{Draws: 1}, s.Scoreboard)
	assert.True(t, Full(s.Board))
}

func TestWinOnLastCellIsNotDraw(t *testing.T) {
	e := New()
	// X completes the 0-4-8 diagonal with the ninth mark
	play(t, e, 0, 1, 2, 6, 4, 3, 7, 5)
	require.Equal(t, Playing, e.State().Status)
	play(t, e, 8)

	s := e.State()
	assert.Equal(t, Won, s.Status)
	assert.Equal(t, X, s.Winner)
	assert.Equal(t, []int{0, 4, 8}, s.WinningLine)
	assert.Equal(t, 0, s.Scoreboard.Draws)
}

func TestRestartKeepsScores(t *testing.T) {
	e := New()
	play(t, e, 0, 4, 1, 3, 2)

	e.Restart()
	s := e.State()
	assert.Equal(t, Board{}, s.Board)
	assert.Equal(t, Playing, s.Status)
	assert.Equal(t, X, s.NextMark)
	assert.Empty(t, s.WinningLine)
	assert.Equal(t, 1, s.Scoreboard.XWins)
}

func TestResetScores(t *testing.T) {
	e := New()
	play(t, e, 0, 4, 1, 3, 2)
	e.Restart()
	play(t, e, 4)

	e.ResetScores()
	s := e.State()
	assert.Equal(t, Scoreboard{}, s.Scoreboard)
	assert.Equal(t, Board{}, s.Board)
	assert.Equal(t, Playing, s.Status)
}

func TestOnChange(t *testing.T) {
	var seen []State
	e := New(WithOnChange(func(s State) { seen = append(seen, s) }))

	e.Move(0)
	e.Move(0) // rejected, no notification
	e.Restart()

	require.Len(t, seen, 2)
	assert.Equal(t, X, seen[0].Board[0])
	assert.Equal(t, Board{}, seen[1].Board)
}
