package memory

// Difficulty selects the symbol set and grid width
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every difficulty, easiest first
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty returns the difficulty named s
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(s)
	_, ok := symbolSets[d]
	return d, ok
}

// Status is the state of the current session
type Status string

const (
	Playing Status = "playing"
	Won     Status = "won"
)

// Card is one card on the board. ID is stable across shuffles.
type Card struct {
	ID        int    `json:"id"`
	Symbol    string `json:"symbol"`
	IsFlipped bool   `json:"is_flipped"`
	IsMatched bool   `json:"is_matched"`
}

// HighScore is the best result for one difficulty. The zero value is the
// placeholder stored before any game is won.
type HighScore struct {
	Score       int `json:"score"`
	Moves       int `json:"moves"`
	TimeSeconds int `json:"timeSeconds"`
}

// BetterThan reports whether h beats o: higher score first, then fewer moves,
// then less time.
func (h HighScore) BetterThan(o HighScore) bool {
	if h.Score != o.Score {
		return h.Score > o.Score
	}
	if h.Moves != o.Moves {
		return h.Moves < o.Moves
	}
	return h.TimeSeconds < o.TimeSeconds
}

// State is a snapshot of the engine
type State struct {
	Difficulty     Difficulty `json:"difficulty"`
	Columns        int        `json:"columns"`
	Cards          []Card     `json:"cards"`
	FlippedIndexes []int      `json:"flipped_indexes"`
	MatchedSymbols []string   `json:"matched_symbols"`
	PairCount      int        `json:"pair_count"`
	Moves          int        `json:"moves"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	TimerRunning   bool       `json:"timer_running"`
	Status         Status     `json:"status"`
	Score          int        `json:"score,omitempty"` // set once won
	NewHighScore   bool       `json:"new_high_score"`
	HighScore      HighScore  `json:"high_score"`
}
