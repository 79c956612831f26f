// Package config provides process settings and quiz bank management.
//
// Settings are read from the environment (QUICKPLAY_* variables) with
// defaults for every field. The CLI layers its flags on top.
//
// Quiz banks are JSON files in a directory, one bank per file:
//
//	{
//	  "name": "Science",
//	  "description": "Physics, chemistry and biology",
//	  "questions": [
//	    {"text": "...", "options": ["a", "b", "c", "d"], "correct_answer": "b"}
//	  ]
//	}
//
// The file name without .json is the bank id used when creating a quiz
// session. A built-in "general" bank is always available and a general.json
// file replaces it.
//
// Usage:
//
//	manager, err := config.NewBankManager("configs/quizzes")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	bank, err := manager.LoadBank("science")
//	banks, err := manager.ListBanks()
package config
