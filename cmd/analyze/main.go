// Command analyze prints quick, human-readable heuristics about the games'
// tuning: how memory scores fall off with extra moves at each difficulty, and
// which quiz scores land in which result tier for every bank in
// configs/quizzes.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/quiz"
)

// ScorePoint is the score awarded for winning in Moves moves
type ScorePoint struct {
	Moves int
	Score int
}

// MemoryAnalysis summarizes the board and scoring curve for one difficulty
type MemoryAnalysis struct {
	Difficulty memory.Difficulty
	Pairs      int
	Columns    int
	Rows       int
	// FloorMoves is the fewest moves that already score the minimum
	FloorMoves int
	Samples    []ScorePoint
}

// QuizAnalysis lists the result for every possible score in a bank
type QuizAnalysis struct {
	File    string
	Name    string
	Results []quiz.Result
}

func main() {
	for _, d := range memory.Difficulties {
		printMemory(os.Stdout, analyzeMemory(d))
	}

	files, err := filepath.Glob(filepath.Join("configs", "quizzes", "*.json"))
	if err != nil {
		fmt.Printf("Error finding quiz files: %v\n", err)
		os.Exit(1)
	}
	for _, file := range files {
		a, err := analyzeQuiz(file)
		if err != nil {
			fmt.Printf("\n=== Analyzing %s ===\nError: %v\n", filepath.Base(file), err)
			continue
		}
		printQuiz(os.Stdout, a)
	}
}

func analyzeMemory(d memory.Difficulty) MemoryAnalysis {
	pairs := memory.PairCount(d)
	cols := memory.Columns(d)
	a := MemoryAnalysis{
		Difficulty: d,
		Pairs:      pairs,
		Columns:    cols,
		Rows:       (2*pairs + cols - 1) / cols,
	}

	floor := memory.Score(d, 1<<20)
	for moves := pairs; ; moves++ {
		if memory.Score(d, moves) == floor {
			a.FloorMoves = moves
			break
		}
	}

	for _, moves := range []int{pairs, pairs + 2, pairs * 3 / 2, pairs * 2, pairs * 3} {
		a.Samples = append(a.Samples, ScorePoint{Moves: moves, Score: memory.Score(d, moves)})
	}
	return a
}

func printMemory(w io.Writer, a MemoryAnalysis) {
	fmt.Fprintf(w, "\n=== Memory: %s ===\n", a.Difficulty)
	fmt.Fprintf(w, "Pairs: %d\n", a.Pairs)
	fmt.Fprintf(w, "Grid: %d x %d\n", a.Columns, a.Rows)
	fmt.Fprintf(w, "Perfect game: %d moves\n", a.Pairs)
	fmt.Fprintf(w, "Score floor reached at: %d moves\n", a.FloorMoves)
	for _, p := range a.Samples {
		fmt.Fprintf(w, "  %3d moves -> %3d points\n", p.Moves, p.Score)
	}
}

func analyzeQuiz(path string) (QuizAnalysis, error) {
	bank, err := config.ReadBankFile(path)
	if err != nil {
		return QuizAnalysis{}, err
	}

	a := QuizAnalysis{File: filepath.Base(path), Name: bank.Name}
	total := len(bank.Questions)
	for score := 0; score <= total; score++ {
		a.Results = append(a.Results, quiz.ComputeResult(score, total))
	}
	return a, nil
}

func printQuiz(w io.Writer, a QuizAnalysis) {
	fmt.Fprintf(w, "\n=== Quiz: %s (%s) ===\n", a.Name, a.File)
	if len(a.Results) > 0 {
		fmt.Fprintf(w, "Questions: %d\n", a.Results[0].Total)
	}
	for _, r := range a.Results {
		bar := strings.Repeat("#", r.Percentage/10)
		fmt.Fprintf(w, "  %2d/%-2d %3d%% %-7s %s\n", r.Score, r.Total, r.Percentage, r.Tier, bar)
	}
}
