package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/storage"
)

// HighScoreBook holds the best result per difficulty. It is the only writer
// of storage.KeyMemoryHighScore and is shared by every engine in a process.
type HighScoreBook struct {
	mu      sync.Mutex
	store   storage.Store
	logger  *zap.Logger
	loaded  bool
	records map[Difficulty]HighScore
}

// NewHighScoreBook creates a book backed by store. A nil store keeps records
// in memory only.
func NewHighScoreBook(store storage.Store, logger *zap.Logger) *HighScoreBook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HighScoreBook{
		store:  store,
		logger: logger,
	}
}

// Get returns the record for d, the zero record when none was set
func (b *HighScoreBook) Get(d Difficulty) HighScore {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.load()
	return b.records[d]
}

// All returns a copy of every record
func (b *HighScoreBook) All() map[Difficulty]HighScore {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.load()
	out := make(map[Difficulty]HighScore, len(b.records))
	for d, r := range b.records {
		out[d] = r
	}
	return out
}

// Submit records rec for d when it is strictly better than the current
// record, and reports whether it was. A failed write is logged and the new
// record is kept in memory.
func (b *HighScoreBook) Submit(d Difficulty, rec HighScore) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.load()
	if !rec.BetterThan(b.records[d]) {
		return false
	}

	b.records[d] = rec
	b.save()
	return true
}

func (b *HighScoreBook) load() {
	if b.loaded {
		return
	}
	b.loaded = true
	b.records = make(map[Difficulty]HighScore, len(Difficulties))

	if b.store != nil {
		stored := map[string]HighScore{}
		found, err := storage.LoadJSON(b.store, storage.KeyMemoryHighScore, &stored)
		switch {
		case err != nil:
			b.logger.Warn("ignoring stored high scores", zap.Error(err))
		case found:
			for name, rec := range stored {
				if d, ok := ParseDifficulty(name); ok {
					b.records[d] = rec
				}
			}
		}
	}

	for _, d := range Difficulties {
		if _, ok := b.records[d]; !ok {
			b.records[d] = HighScore{}
		}
	}
}

func (b *HighScoreBook) save() {
	if b.store == nil {
		return
	}
	out := make(map[string]HighScore, len(b.records))
	for d, r := range b.records {
		out[string(d)] = r
	}
	if err := storage.SaveJSON(b.store, storage.KeyMemoryHighScore, out); err != nil {
		b.logger.Error("failed to persist high scores", zap.Error(err))
	}
}
