package quiz

import "github.com/wricardo/quickplay/game/tier"

// OptionCount is the number of options every question carries
const OptionCount = 4

// Question is a multiple-choice question
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuestionView is a question without its answer
type QuestionView struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// AnsweredQuestion records one submitted answer
type AnsweredQuestion struct {
	Question       string `json:"question"`
	SelectedOption string `json:"selected_option"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
}

// Result is the final score of a finished quiz
type Result struct {
	Score      int        `json:"score"`
	Total      int        `json:"total"`
	Percentage int        `json:"percentage"`
	Tier       tier.Level `json:"tier"`
}

// State is a snapshot of the engine
type State struct {
	Bank           string             `json:"bank,omitempty"`
	QuestionIndex  int                `json:"question_index"`
	QuestionCount  int                `json:"question_count"`
	Question       QuestionView       `json:"question"`
	SelectedOption *string            `json:"selected_option"`
	Answered       bool               `json:"answered"`
	CorrectAnswer  string             `json:"correct_answer,omitempty"` // set once answered
	Score          int                `json:"score"`
	AnswerLog      []AnsweredQuestion `json:"answer_log"`
	Finished       bool               `json:"finished"`
	Result         *Result            `json:"result,omitempty"`
}
