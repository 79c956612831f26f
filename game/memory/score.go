package memory

const (
	maxScore     = 100
	minScore     = 30
	maxDeduction = 70
)

// Score rates a won game. A perfect game, one move per pair, scores 100;
// every extra move costs the difficulty's deduction factor, and the score
// never drops below 30.
func Score(d Difficulty, moves int) int {
	deduction := clamp(0, maxDeduction, (moves-PairCount(d))*deductionFactor[d])
	return clamp(minScore, maxScore, maxScore-deduction)
}

func clamp(lo, hi, v int) int {
	return max(lo, min(hi, v))
}
