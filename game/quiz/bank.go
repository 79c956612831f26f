package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidBank = errors.New("invalid question bank")

var defaultQuestions = []Question{
	{
		Text:          "What is the capital of France?",
		Options:       []string{"London", "Berlin", "Paris", "Madrid"},
		CorrectAnswer: "Paris",
	},
	{
		Text:          "Which planet is known as the Red Planet?",
		Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
		CorrectAnswer: "Mars",
	},
	{
		Text:          "What is the largest ocean on Earth?",
		Options:       []string{"Atlantic Ocean", "Indian Ocean", "Arctic Ocean", "Pacific Ocean"},
		CorrectAnswer: "Pacific Ocean",
	},
	{
		Text:          "Who painted the Mona Lisa?",
		Options:       []string{"Vincent van Gogh", "Leonardo da Vinci", "Pablo Picasso", "Claude Monet"},
		CorrectAnswer: "Leonardo da Vinci",
	},
	{
		Text:          "What is the chemical symbol for gold?",
		Options:       []string{"Go", "Gd", "Au", "Ag"},
		CorrectAnswer: "Au",
	},
}

// DefaultQuestions returns a copy of the built-in bank
func DefaultQuestions() []Question {
	return cloneQuestions(defaultQuestions)
}

// Validate checks that a bank has at least one question and that every
// question has a text, exactly OptionCount distinct non-empty options, and a
// correct answer that is one of them.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidBank)
	}

	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidBank, i+1)
		}
		if len(q.Options) != OptionCount {
			return fmt.Errorf("%w: question %d has %d options, want %d", ErrInvalidBank, i+1, len(q.Options), OptionCount)
		}

		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("%w: question %d has an empty option", ErrInvalidBank, i+1)
			}
			if seen[opt] {
				return fmt.Errorf("%w: question %d repeats option %q", ErrInvalidBank, i+1, opt)
			}
			seen[opt] = true
		}

		if !seen[q.CorrectAnswer] {
			return fmt.Errorf("%w: question %d answer %q is not an option", ErrInvalidBank, i+1, q.CorrectAnswer)
		}
	}

	return nil
}

func cloneQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		out[i] = Question{
			Text:          q.Text,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
		}
	}
	return out
}
