// Command validate provides a small CLI that validates quiz bank JSON files
// in the ../configs/quizzes directory (or the directory given as the first
// argument). For every question it checks:
//   - the question has text
//   - there are exactly four distinct, non-empty options
//   - the correct answer is one of the options
//
// It also warns about repeated questions and about banks whose correct
// answers always sit in the same option slot.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/quiz"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateBank loads a bank file and checks every question, collecting all
// problems instead of stopping at the first one.
func validateBank(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var bank config.Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if strings.TrimSpace(bank.Name) == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Name is empty")
	}
	if len(bank.Questions) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Bank has no questions")
		return result
	}

	seenText := make(map[string]int)
	slots := make(map[int]int)
	for i, q := range bank.Questions {
		if err := quiz.Validate([]quiz.Question{q}); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Question %d: %s", i+1, questionProblem(err)))
			continue
		}

		key := strings.ToLower(strings.TrimSpace(q.Text))
		if first, ok := seenText[key]; ok {
			result.Errors = append(result.Errors, fmt.Sprintf("⚠ Question %d repeats question %d", i+1, first))
		} else {
			seenText[key] = i + 1
		}

		for slot, opt := range q.Options {
			if opt == q.CorrectAnswer {
				slots[slot]++
			}
		}
	}

	if !result.Valid {
		return result
	}

	// Full check through the same path the server uses to load banks
	if err := config.ValidateBank(&bank); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ %d questions", len(bank.Questions)))
	if len(bank.Questions) > 1 && len(slots) == 1 {
		for slot := range slots {
			result.Errors = append(result.Errors, fmt.Sprintf("⚠ Every correct answer is option %d", slot+1))
		}
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Correct answers spread over %d option slots", len(slots)))
	}

	return result
}

// questionProblem strips the shared "invalid quiz bank: question 1" prefix
// from a single-question validation error
func questionProblem(err error) string {
	msg := strings.TrimPrefix(err.Error(), quiz.ErrInvalidBank.Error()+": ")
	return strings.TrimPrefix(msg, "question 1 ")
}

// main scans the quiz directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	quizDir := "../configs/quizzes"
	if len(os.Args) > 1 {
		quizDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(quizDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding quiz files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No quiz files found in %s\n", quizDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateBank(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All quiz banks are valid!")
	} else {
		fmt.Println("❌ Some quiz banks have errors")
		os.Exit(1)
	}
}
