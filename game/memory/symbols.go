package memory

var symbolSets = map[Difficulty][]string{
	Easy:   {"🚀", "🌟", "🎈", "🍕", "🐱", "🌈"},
	Medium: {"🚀", "🌟", "🎈", "🍕", "🐱", "🌈", "🎸", "⚽"},
	Hard:   {"🚀", "🌟", "🎈", "🍕", "🐱", "🌈", "🎸", "⚽", "🍦", "🦄"},
}

var columns = map[Difficulty]int{
	Easy:   4,
	Medium: 4,
	Hard:   5,
}

var deductionFactor = map[Difficulty]int{
	Easy:   5,
	Medium: 3,
	Hard:   2,
}

// Symbols returns a copy of the symbol set for d
func Symbols(d Difficulty) []string {
	return append([]string(nil), symbolSets[d]...)
}

// PairCount is the number of pairs on a board of difficulty d
func PairCount(d Difficulty) int {
	return len(symbolSets[d])
}

// Columns is the grid width for d
func Columns(d Difficulty) int {
	return columns[d]
}
