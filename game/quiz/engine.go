// Package quiz implements a multiple-choice quiz session over a fixed,
// ordered question bank.
//
// A question goes through select, submit and next. Selecting only records the
// choice; submitting scores it and locks the question; next advances, or
// finishes the session after the last question.
package quiz

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/tier"
)

// Engine owns the question sequence and the answer state. It is safe for
// concurrent use.
type Engine struct {
	mu        sync.Mutex
	bank      string
	questions []Question

	index    int
	selected *string
	answered bool
	score    int
	log      []AnsweredQuestion
	finished bool

	logger   *zap.Logger
	onChange func(State)
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOnChange registers a callback invoked with a snapshot after every
// accepted operation.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// WithBankName labels the engine with the name of its bank
func WithBankName(name string) Option {
	return func(e *Engine) {
		e.bank = name
	}
}

// New creates an engine over questions. The bank must pass Validate.
func New(questions []Question, opts ...Option) (*Engine, error) {
	if err := Validate(questions); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	e := &Engine{
		questions: cloneQuestions(questions),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reset()
	return e, nil
}

// SelectOption records option as the pending choice. It is rejected once the
// question is answered, or when option is not one of the question's options.
func (e *Engine) SelectOption(option string) bool {
	e.mu.Lock()
	if e.answered || !slices.Contains(e.questions[e.index].Options, option) {
		e.mu.Unlock()
		return false
	}

	e.selected = &option
	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
	return true
}

// SubmitAnswer scores the selected option. It is rejected when nothing is
// selected or the question was already answered.
func (e *Engine) SubmitAnswer() bool {
	e.mu.Lock()
	if e.selected == nil || e.answered {
		e.mu.Unlock()
		return false
	}

	q := e.questions[e.index]
	correct := *e.selected == q.CorrectAnswer
	if correct {
		e.score++
	}
	e.log = append(e.log, AnsweredQuestion{
		Question:       q.Text,
		SelectedOption: *e.selected,
		CorrectAnswer:  q.CorrectAnswer,
		IsCorrect:      correct,
	})
	e.answered = true

	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
	return true
}

// NextQuestion advances past an answered question. On the last question it
// finishes the session instead.
func (e *Engine) NextQuestion() bool {
	e.mu.Lock()
	if !e.answered || e.finished {
		e.mu.Unlock()
		return false
	}

	if e.index < len(e.questions)-1 {
		e.index++
		e.selected = nil
		e.answered = false
	} else {
		e.finished = true
		e.logger.Debug("quiz finished",
			zap.String("bank", e.bank),
			zap.Int("score", e.score),
			zap.Int("total", len(e.questions)),
		)
	}

	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
	return true
}

// Restart returns to the first question with a zero score
func (e *Engine) Restart() {
	e.mu.Lock()
	e.reset()
	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
}

// State returns a snapshot of the engine
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Result returns the current result and whether the session is finished
func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ComputeResult(e.score, len(e.questions)), e.finished
}

// ComputeResult rounds score/total to a whole percentage and tiers it
func ComputeResult(score, total int) Result {
	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(score) / float64(total)))
	}
	return Result{
		Score:      score,
		Total:      total,
		Percentage: pct,
		Tier:       tier.For(pct),
	}
}

func (e *Engine) reset() {
	e.index = 0
	e.selected = nil
	e.answered = false
	e.score = 0
	e.log = []AnsweredQuestion{}
	e.finished = false
}

func (e *Engine) snapshot() State {
	q := e.questions[e.index]
	s := State{
		Bank:          e.bank,
		QuestionIndex: e.index,
		QuestionCount: len(e.questions),
		Question: QuestionView{
			Text:    q.Text,
			Options: append([]string(nil), q.Options...),
		},
		Answered:  e.answered,
		Score:     e.score,
		AnswerLog: append([]AnsweredQuestion{}, e.log...),
		Finished:  e.finished,
	}
	if e.selected != nil {
		sel := *e.selected
		s.SelectedOption = &sel
	}
	if e.answered {
		s.CorrectAnswer = q.CorrectAnswer
	}
	if e.finished {
		r := ComputeResult(e.score, len(e.questions))
		s.Result = &r
	}
	return s
}

func (e *Engine) notify(state State) {
	if e.onChange != nil {
		e.onChange(state)
	}
}
