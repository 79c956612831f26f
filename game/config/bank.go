package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/quickplay/game/quiz"
)

var (
	ErrBankNotFound = errors.New("quiz bank not found")
	ErrInvalidBank  = errors.New("invalid quiz bank")
)

// DefaultBankName is the name of the built-in bank
const DefaultBankName = "general"

// Bank is a named question bank stored as <name>.json
type Bank struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Questions   []quiz.Question `json:"questions"`
}

// BankInfo summarizes a bank for listing
type BankInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	QuestionCount int    `json:"question_count"`
}

// BuiltinBank returns the bank used when no file provides one
func BuiltinBank() *Bank {
	return &Bank{
		Name:        "General Knowledge",
		Description: "Five questions about geography, science and art",
		Questions:   quiz.DefaultQuestions(),
	}
}

// BankManager loads and caches quiz banks from a directory
type BankManager struct {
	dir   string
	banks map[string]*Bank
	mu    sync.RWMutex
}

// NewBankManager creates a manager over dir. An empty dir serves only the
// built-in bank.
func NewBankManager(dir string) (*BankManager, error) {
	if dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("quiz directory does not exist: %s", dir)
		}
	}

	return &BankManager{
		dir:   dir,
		banks: make(map[string]*Bank),
	}, nil
}

// LoadBank returns the bank called name. A file named after the built-in
// bank overrides it.
func (m *BankManager) LoadBank(name string) (*Bank, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" {
		name = DefaultBankName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, ErrBankNotFound
	}

	m.mu.RLock()
	if bank, ok := m.banks[name]; ok {
		m.mu.RUnlock()
		return bank, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if bank, ok := m.banks[name]; ok {
		return bank, nil
	}

	bank, err := m.readBank(name)
	if errors.Is(err, ErrBankNotFound) && name == DefaultBankName {
		bank, err = BuiltinBank(), nil
	}
	if err != nil {
		return nil, err
	}

	m.banks[name] = bank
	return bank, nil
}

// Default returns the general bank
func (m *BankManager) Default() *Bank {
	bank, err := m.LoadBank(DefaultBankName)
	if err != nil {
		// an invalid general.json falls back to the built-in questions
		return BuiltinBank()
	}
	return bank
}

// ListBanks returns every valid bank, sorted by id. Invalid files are
// skipped.
func (m *BankManager) ListBanks() ([]BankInfo, error) {
	names := map[string]bool{DefaultBankName: true}

	if m.dir != "" {
		entries, err := os.ReadDir(m.dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read quiz directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			names[strings.TrimSuffix(entry.Name(), ".json")] = true
		}
	}

	ids := make([]string, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	banks := make([]BankInfo, 0, len(ids))
	for _, id := range ids {
		bank, err := m.LoadBank(id)
		if err != nil {
			continue
		}
		banks = append(banks, BankInfo{
			ID:            id,
			Name:          bank.Name,
			Description:   bank.Description,
			QuestionCount: len(bank.Questions),
		})
	}
	return banks, nil
}

// SaveBank validates bank and writes it to <name>.json
func (m *BankManager) SaveBank(name string, bank *Bank) error {
	if m.dir == "" {
		return fmt.Errorf("no quiz directory configured")
	}
	if err := ValidateBank(bank); err != nil {
		return err
	}

	name = strings.TrimSuffix(name, ".json")
	data, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bank: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write bank file: %w", err)
	}

	m.mu.Lock()
	m.banks[name] = bank
	m.mu.Unlock()
	return nil
}

// RefreshCache drops every cached bank so the next load reads from disk
func (m *BankManager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banks = make(map[string]*Bank)
}

// ValidateBank checks the bank name and its questions
func ValidateBank(bank *Bank) error {
	if bank == nil || strings.TrimSpace(bank.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidBank)
	}
	if err := quiz.Validate(bank.Questions); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	return nil
}

// ReadBankFile parses and validates a bank file
func ReadBankFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank file: %w", err)
	}

	var bank Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	if err := ValidateBank(&bank); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (m *BankManager) readBank(name string) (*Bank, error) {
	if m.dir == "" {
		return nil, ErrBankNotFound
	}

	path := filepath.Join(m.dir, name+".json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrBankNotFound
	}
	return ReadBankFile(path)
}
