// Package registry keeps the list of available games and their votes.
//
// The list is persisted under storage.KeyGames and re-ranked by votes after
// every vote. Games with the same number of votes keep their previous
// relative order.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/storage"
)

// Descriptor describes one game
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Route       string `json:"route"`
	Votes       int    `json:"votes"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// Defaults is the list used when nothing usable is stored
func Defaults() []Descriptor {
	return []Descriptor{
		{
			ID:          "memory",
			Name:        "Memory Game",
			Route:       "/memory",
			Icon:        "🃏",
			Description: "Test your memory by matching pairs of cards",
		},
		{
			ID:          "quiz",
			Name:        "Quiz Game",
			Route:       "/quiz",
			Icon:        "❓",
			Description: "Challenge yourself with fun trivia questions",
		},
		{
			ID:          "tictactoe",
			Name:        "Tic-Tac-Toe",
			Route:       "/tictactoe",
			Icon:        "⭕",
			Description: "Classic game of X's and O's",
		},
	}
}

// Registry is the ordered, persisted list of games. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	store  storage.Store
	logger *zap.Logger
	games  []Descriptor
}

// New creates a registry and loads it from store. A nil store keeps the
// registry in memory only.
func New(store storage.Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{store: store, logger: logger}
	r.Load()
	return r
}

// Load replaces the in-memory list with the stored one. Absent, malformed or
// empty data yields Defaults.
func (r *Registry) Load() {
	games := r.read()

	r.mu.Lock()
	r.games = games
	r.mu.Unlock()
}

// Vote adds one vote to id and re-ranks the list. It returns false for an
// unknown id.
func (r *Registry) Vote(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return false
	}

	r.games[i].Votes++
	sort.SliceStable(r.games, func(a, b int) bool {
		return r.games[a].Votes > r.games[b].Votes
	})

	r.logger.Debug("game voted", zap.String("game", id), zap.Int("votes", r.games[r.index(id)].Votes))
	r.save()
	return true
}

// Games returns a copy of the ranked list
func (r *Registry) Games() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Descriptor(nil), r.games...)
}

// Get returns the descriptor for id
func (r *Registry) Get(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		return r.games[i], true
	}
	return Descriptor{}, false
}

func (r *Registry) index(id string) int {
	for i, g := range r.games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) read() []Descriptor {
	if r.store == nil {
		return Defaults()
	}

	var stored []Descriptor
	found, err := storage.LoadJSON(r.store, storage.KeyGames, &stored)
	if err != nil {
		r.logger.Warn("ignoring stored games", zap.Error(err))
		return Defaults()
	}
	if !found {
		return Defaults()
	}

	games := make([]Descriptor, 0, len(stored))
	for _, g := range stored {
		if g.ID == "" {
			continue
		}
		if g.Votes < 0 {
			g.Votes = 0
		}
		games = append(games, g)
	}
	if len(games) == 0 {
		r.logger.Warn("stored games list is empty, using defaults")
		return Defaults()
	}
	return games
}

// save must be called with the lock held
func (r *Registry) save() {
	if r.store == nil {
		return
	}
	if err := storage.SaveJSON(r.store, storage.KeyGames, r.games); err != nil {
		r.logger.Error("failed to persist games", zap.Error(err))
	}
}
