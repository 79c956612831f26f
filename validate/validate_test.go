package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBank(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateBank_Valid(t *testing.T) {
	path := writeBank(t, `{
		"name": "Test",
		"questions": [
			{"text": "1+1?", "options": ["1", "2", "3", "4"], "correct_answer": "2"},
			{"text": "2+2?", "options": ["4", "5", "6", "7"], "correct_answer": "4"}
		]
	}`)

	result := validateBank(path)
	assert.True(t, result.Valid, result.Errors)
	assert.Equal(t, "bank.json", result.File)
	assert.Contains(t, result.Errors, "✓ 2 questions")
	assert.Contains(t, result.Errors, "✓ Correct answers spread over 2 option slots")
}

func TestValidateBank_MissingFile(t *testing.T) {
	result := validateBank(filepath.Join(t.TempDir(), "missing.json"))
	assert.False(t, result.Valid)
	assert.True(t, hasMessage(result.Errors, "Failed to read file"))
}

func TestValidateBank_InvalidJSON(t *testing.T) {
	result := validateBank(writeBank(t, `{"name": "Broken", "questions": [`))
	assert.False(t, result.Valid)
	assert.True(t, hasMessage(result.Errors, "Invalid JSON"))
}

func TestValidateBank_NoQuestions(t *testing.T) {
	result := validateBank(writeBank(t, `{"name": "Empty", "questions": []}`))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Bank has no questions")
}

func TestValidateBank_CollectsEveryProblem(t *testing.T) {
	path := writeBank(t, `{
		"questions": [
			{"text": "", "options": ["a", "b", "c", "d"], "correct_answer": "a"},
			{"text": "Three options?", "options": ["a", "b", "c"], "correct_answer": "a"},
			{"text": "Repeated?", "options": ["a", "a", "c", "d"], "correct_answer": "a"},
			{"text": "Missing answer?", "options": ["a", "b", "c", "d"], "correct_answer": "e"},
			{"text": "Fine?", "options": ["a", "b", "c", "d"], "correct_answer": "b"}
		]
	}`)

	result := validateBank(path)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{
		"Name is empty",
		"Question 1: has no text",
		"Question 2: has 3 options, want 4",
		`Question 3: repeats option "a"`,
		`Question 4: answer "e" is not an option`,
	}, result.Errors)
}

func TestValidateBank_Warnings(t *testing.T) {
	path := writeBank(t, `{
		"name": "Lazy",
		"questions": [
			{"text": "Pick A", "options": ["A", "B", "C", "D"], "correct_answer": "A"},
			{"text": "pick a", "options": ["A", "B", "C", "D"], "correct_answer": "A"}
		]
	}`)

	result := validateBank(path)
	assert.True(t, result.Valid, "warnings do not invalidate a bank")
	assert.Contains(t, result.Errors, "⚠ Question 2 repeats question 1")
	assert.Contains(t, result.Errors, "⚠ Every correct answer is option 1")
}

func TestShippedBanks(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "configs", "quizzes", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		result := validateBank(file)
		assert.True(t, result.Valid, "%s: %v", file, result.Errors)
	}
}
