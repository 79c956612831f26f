package tictactoe

// Mark is a player mark. The empty Mark is an empty cell.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Status is the state of the current round
type Status string

const (
	Playing Status = "playing"
	Won     Status = "won"
	Draw    Status = "draw"
)

// BoardSize is the number of cells on the board
const BoardSize = 9

// Board is the 3x3 grid in row-major order
type Board [BoardSize]Mark

// Lines are the winning triples, checked in this order
var Lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Scoreboard counts finished rounds for the lifetime of the engine
type Scoreboard struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

// State is a snapshot of the engine
type State struct {
	Board       Board      `json:"board"`
	NextMark    Mark       `json:"next_mark"`
	Status      Status     `json:"status"`
	Winner      Mark       `json:"winner,omitempty"`
	WinningLine []int      `json:"winning_line,omitempty"`
	Moves       int        `json:"moves"`
	Scoreboard  Scoreboard `json:"scoreboard"`
}

func (m Mark) other() Mark {
	if m == X {
		return O
	}
	return X
}
