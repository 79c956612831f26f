package memory

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/schedule"
)

// Default resolution delays
const (
	DefaultMatchDelay    = 500 * time.Millisecond
	DefaultMismatchDelay = 1000 * time.Millisecond
)

const tickInterval = time.Second

// Engine owns one memory board and its session. It is safe for concurrent
// use; deferred resolutions and timer ticks take the same lock as the public
// operations.
type Engine struct {
	mu sync.Mutex

	book          *HighScoreBook
	sched         schedule.Scheduler
	intn          func(n int) int
	matchDelay    time.Duration
	mismatchDelay time.Duration
	logger        *zap.Logger
	onChange      func(State)

	difficulty   Difficulty
	cards        []Card
	flipped      []int
	matched      map[string]bool
	moves        int
	elapsed      int
	started      bool
	timerRunning bool
	status       Status
	score        int
	newHighScore bool

	// gen identifies the current session. Deferred actions carry the
	// generation they were scheduled for and do nothing once it changes.
	gen     uint64
	resolve schedule.Handle
	tick    schedule.Handle
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
// accepted operation, resolution and tick.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// WithScheduler replaces the runtime timers
func WithScheduler(s schedule.Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithRand sets the source of uniform integers in [0,n) used by the shuffle
func WithRand(intn func(n int) int) Option {
	return func(e *Engine) {
		if intn != nil {
			e.intn = intn
		}
	}
}

// WithDelays sets the match and mismatch resolution delays
func WithDelays(match, mismatch time.Duration) Option {
	return func(e *Engine) {
		if match > 0 {
			e.matchDelay = match
		}
		if mismatch > 0 {
			e.mismatchDelay = mismatch
		}
	}
}

// WithDifficulty sets the starting difficulty. Unknown values are ignored.
func WithDifficulty(d Difficulty) Option {
	return func(e *Engine) {
		if _, ok := symbolSets[d]; ok {
			e.difficulty = d
		}
	}
}

// New creates an engine with a freshly shuffled board. A nil book gives the
// engine its own in-memory records.
func New(book *HighScoreBook, opts ...Option) *Engine {
	e := &Engine{
		sched:         schedule.Timers{},
		intn:          rand.IntN,
		matchDelay:    DefaultMatchDelay,
		mismatchDelay: DefaultMismatchDelay,
		logger:        zap.NewNop(),
		difficulty:    Easy,
	}
	for _, opt := range opts {
		opt(e)
	}
	if book == nil {
		book = NewHighScoreBook(nil, e.logger)
	}
	e.book = book

	e.initialize(e.difficulty)
	return e
}

// Initialize starts a new session at difficulty d, cancelling anything
// pending from the previous one. It returns false for an unknown difficulty.
func (e *Engine) Initialize(d Difficulty) bool {
	if _, ok := symbolSets[d]; !ok {
		return false
	}

	e.mu.Lock()
	e.initialize(d)
	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
	return true
}

// SetDifficulty switches difficulty and reinitializes the board
func (e *Engine) SetDifficulty(d Difficulty) bool {
	return e.Initialize(d)
}

// Restart starts a new session at the current difficulty
func (e *Engine) Restart() {
	e.mu.Lock()
	e.initialize(e.difficulty)
	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
}

// Close cancels pending resolutions and ticks. A later operation may
// schedule new ones.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelPending()
	e.gen++
	e.timerRunning = false
}

// Flip turns the card at index face up. It returns false, changing nothing,
// when the index is out of range, the card is already up or matched, two
// cards are waiting for resolution, or the game is won.
func (e *Engine) Flip(index int) bool {
	e.mu.Lock()
	if index < 0 || index >= len(e.cards) || e.status != Playing || len(e.flipped) >= 2 {
		e.mu.Unlock()
		return false
	}
	card := &e.cards[index]
	if card.IsFlipped || card.IsMatched {
		e.mu.Unlock()
		return false
	}

	card.IsFlipped = true
	e.flipped = append(e.flipped, index)

	if !e.started {
		e.started = true
		e.timerRunning = true
		e.scheduleTick()
	}

	if len(e.flipped) == 2 {
		e.moves++
		gen := e.gen
		a, b := e.cards[e.flipped[0]], e.cards[e.flipped[1]]
		if a.Symbol == b.Symbol {
			e.resolve = e.sched.AfterFunc(e.matchDelay, func() { e.resolveMatch(gen) })
		} else {
			e.resolve = e.sched.AfterFunc(e.mismatchDelay, func() { e.resolveMismatch(gen) })
		}
	}

	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
	return true
}

// State returns a snapshot of the engine
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// HighScores returns the shared high score book
func (e *Engine) HighScores() *HighScoreBook {
	return e.book
}

func (e *Engine) resolveMatch(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || len(e.flipped) != 2 {
		e.mu.Unlock()
		return
	}

	symbol := e.cards[e.flipped[0]].Symbol
	for _, i := range e.flipped {
		e.cards[i].IsMatched = true
	}
	e.matched[symbol] = true
	e.flipped = e.flipped[:0]
	e.resolve = nil

	if len(e.matched) == PairCount(e.difficulty) {
		e.win()
	}

	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
}

func (e *Engine) resolveMismatch(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || len(e.flipped) != 2 {
		e.mu.Unlock()
		return
	}

	for _, i := range e.flipped {
		e.cards[i].IsFlipped = false
	}
	e.flipped = e.flipped[:0]
	e.resolve = nil

	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
}

func (e *Engine) onTick(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.status != Playing || !e.timerRunning {
		e.mu.Unlock()
		return
	}

	e.elapsed++
	e.scheduleTick()

	state := e.snapshot()
	e.mu.Unlock()

	e.notify(state)
}

func (e *Engine) scheduleTick() {
	gen := e.gen
	e.tick = e.sched.AfterFunc(tickInterval, func() { e.onTick(gen) })
}

// win must be called with the lock held
func (e *Engine) win() {
	e.status = Won
	e.timerRunning = false
	if e.tick != nil {
		e.tick.Cancel()
		e.tick = nil
	}

	e.score = Score(e.difficulty, e.moves)
	rec := HighScore{Score: e.score, Moves: e.moves, TimeSeconds: e.elapsed}
	e.newHighScore = e.book.Submit(e.difficulty, rec)

	e.logger.Debug("memory game won",
		zap.String("difficulty", string(e.difficulty)),
		zap.Int("moves", e.moves),
		zap.Int("seconds", e.elapsed),
		zap.Int("score", e.score),
		zap.Bool("new_high_score", e.newHighScore),
	)
}

func (e *Engine) initialize(d Difficulty) {
	e.cancelPending()
	e.gen++

	e.difficulty = d
	e.cards = e.deal(d)
	e.flipped = make([]int, 0, 2)
	e.matched = make(map[string]bool, PairCount(d))
	e.moves = 0
	e.elapsed = 0
	e.started = false
	e.timerRunning = false
	e.status = Playing
	e.score = 0
	e.newHighScore = false
}

// deal builds two cards per symbol and shuffles them with Fisher-Yates
func (e *Engine) deal(d Difficulty) []Card {
	symbols := symbolSets[d]
	cards := make([]Card, 0, 2*len(symbols))
	for _, s := range symbols {
		cards = append(cards,
			Card{ID: len(cards), Symbol: s},
			Card{ID: len(cards) + 1, Symbol: s},
		)
	}

	for i := len(cards) - 1; i > 0; i-- {
		j := e.intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}

func (e *Engine) cancelPending() {
	if e.resolve != nil {
		e.resolve.Cancel()
		e.resolve = nil
	}
	if e.tick != nil {
		e.tick.Cancel()
		e.tick = nil
	}
}

func (e *Engine) snapshot() State {
	matched := make([]string, 0, len(e.matched))
	for s := range e.matched {
		matched = append(matched, s)
	}
	sort.Strings(matched)

	s := State{
		Difficulty:     e.difficulty,
		Columns:        Columns(e.difficulty),
		Cards:          append([]Card(nil), e.cards...),
		FlippedIndexes: append([]int{}, e.flipped...),
		MatchedSymbols: matched,
		PairCount:      PairCount(e.difficulty),
		Moves:          e.moves,
		ElapsedSeconds: e.elapsed,
		TimerRunning:   e.timerRunning,
		Status:         e.status,
		NewHighScore:   e.newHighScore,
		HighScore:      e.book.Get(e.difficulty),
	}
	if e.status == Won {
		s.Score = e.score
	}
	return s
}

func (e *Engine) notify(state State) {
	if e.onChange != nil {
		e.onChange(state)
	}
}
