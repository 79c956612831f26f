package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/quiz"
	"github.com/wricardo/quickplay/game/registry"
	"github.com/wricardo/quickplay/game/schedule"
	"github.com/wricardo/quickplay/game/tictactoe"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	banks    BankLoader
	games    *registry.Registry
	scores   *memory.HighScoreBook

	notifier      Notifier
	logger        *zap.Logger
	scheduler     schedule.Scheduler
	matchDelay    time.Duration
	mismatchDelay time.Duration
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithNotifier publishes every engine change to n
func WithNotifier(n Notifier) Option {
	return func(s *gameServiceImpl) {
		s.notifier = n
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *gameServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScheduler sets the scheduler handed to memory engines
func WithScheduler(sched schedule.Scheduler) Option {
	return func(s *gameServiceImpl) {
		s.scheduler = sched
	}
}

// WithMemoryDelays sets the memory match and mismatch resolution delays
func WithMemoryDelays(match, mismatch time.Duration) Option {
	return func(s *gameServiceImpl) {
		s.matchDelay = match
		s.mismatchDelay = mismatch
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, banks BankLoader, games *registry.Registry, scores *memory.HighScoreBook, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:      sessions,
		banks:         banks,
		games:         games,
		scores:        scores,
		logger:        zap.NewNop(),
		matchDelay:    memory.DefaultMatchDelay,
		mismatchDelay: memory.DefaultMismatchDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scores == nil {
		s.scores = memory.NewHighScoreBook(nil, s.logger)
	}
	if s.games == nil {
		s.games = registry.New(nil, s.logger)
	}
	return s
}

// ListGames returns the ranked game list
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]registry.Descriptor, error) {
	return s.games.Games(), nil
}

// VoteGame adds a vote and returns the re-ranked list
func (s *gameServiceImpl) VoteGame(ctx context.Context, gameID string) ([]registry.Descriptor, error) {
	if !s.games.Vote(gameID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	return s.games.Games(), nil
}

// HighScores returns the memory records per difficulty
func (s *gameServiceImpl) HighScores(ctx context.Context) (map[memory.Difficulty]memory.HighScore, error) {
	return s.scores.All(), nil
}

// ListQuizzes returns the available quiz banks
func (s *gameServiceImpl) ListQuizzes(ctx context.Context) ([]config.BankInfo, error) {
	return s.banks.ListBanks()
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	kind, ok := ParseKind(req.Game)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, req.Game)
	}

	var init func(*Session) error
	switch kind {
	case KindMemory:
		difficulty := memory.Easy
		if req.Difficulty != "" {
			d, ok := memory.ParseDifficulty(req.Difficulty)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidDifficulty, req.Difficulty)
			}
			difficulty = d
		}
		init = func(sess *Session) error {
			sess.Memory = memory.New(s.scores,
				memory.WithDifficulty(difficulty),
				memory.WithScheduler(s.scheduler),
				memory.WithDelays(s.matchDelay, s.mismatchDelay),
				memory.WithLogger(s.logger.With(zap.String("session", sess.ID))),
				memory.WithOnChange(func(st memory.State) {
					s.publish(sess, func(info *SessionInfo) { info.Memory = &st })
				}),
			)
			return nil
		}

	case KindTicTacToe:
		init = func(sess *Session) error {
			sess.TicTacToe = tictactoe.New(
				tictactoe.WithLogger(s.logger.With(zap.String("session", sess.ID))),
				tictactoe.WithOnChange(func(st tictactoe.State) {
					s.publish(sess, func(info *SessionInfo) { info.TicTacToe = &st })
				}),
			)
			return nil
		}

	case KindQuiz:
		bankID := req.Quiz
		if bankID == "" {
			bankID = config.DefaultBankName
		}
		bank, err := s.banks.LoadBank(bankID)
		if err != nil {
			return nil, fmt.Errorf("failed to load quiz %s: %w", bankID, err)
		}
		init = func(sess *Session) error {
			engine, err := quiz.New(bank.Questions,
				quiz.WithBankName(bankID),
				quiz.WithLogger(s.logger.With(zap.String("session", sess.ID))),
				quiz.WithOnChange(func(st quiz.State) {
					s.publish(sess, func(info *SessionInfo) { info.Quiz = &st })
				}),
			)
			if err != nil {
				return err
			}
			sess.QuizBank = bankID
			sess.Quiz = engine
			return nil
		}
	}

	sess, err := s.sessions.Create("", func(sess *Session) error {
		sess.Game = kind
		return init(sess)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created", zap.String("session", sess.ID), zap.String("game", string(kind)))
	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.info(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

// DeleteSession removes a session and disconnects its listeners
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.CloseSession(sessionID)
	}
	return nil
}

// RestartSession starts a new round of the session's game
func (s *gameServiceImpl) RestartSession(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "", func(sess *Session) bool {
		switch sess.Game {
		case KindMemory:
			sess.Memory.Restart()
		case KindTicTacToe:
			sess.TicTacToe.Restart()
		case KindQuiz:
			sess.Quiz.Restart()
		}
		return true
	})
}

// MemoryFlip flips the card at index
func (s *gameServiceImpl) MemoryFlip(ctx context.Context, sessionID string, index int) (*ActionResult, error) {
	return s.act(ctx, sessionID, KindMemory, func(sess *Session) bool {
		return sess.Memory.Flip(index)
	})
}

// MemorySetDifficulty switches difficulty and deals a new board
func (s *gameServiceImpl) MemorySetDifficulty(ctx context.Context, sessionID, difficulty string) (*ActionResult, error) {
	return s.act(ctx, sessionID, KindMemory, func(sess *Session) bool {
		return sess.Memory.SetDifficulty(memory.Difficulty(difficulty))
	})
}

// TicTacToeMove places the next mark at index
func (s *gameServiceImpl) TicTacToeMove(ctx context.Context, sessionID string, index int) (*ActionResult, error) {
	return s.act(ctx, sessionID, KindTicTacToe, func(sess *Session) bool {
		return sess.TicTacToe.Move(index)
	})
}

// TicTacToeResetScores zeroes the scoreboard and clears the board
func (s *gameServiceImpl) TicTacToeResetScores(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, KindTicTacToe, func(sess *Session) bool {
		sess.TicTacToe.ResetScores()
		return true
	})
}

// QuizSelect records the pending answer
func (s *gameServiceImpl) QuizSelect(ctx context.Context, sessionID, option string) (*ActionResult, error) {
	return s.act(ctx, sessionID, KindQuiz, func(sess *Session) bool {
		return sess.Quiz.SelectOption(option)
	})
}

// QuizSubmit scores the pending answer
func (s *gameServiceImpl) QuizSubmit(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, KindQuiz, func(sess *Session) bool {
		return sess.Quiz.SubmitAnswer()
	})
}

// QuizNext advances to the next question or finishes the quiz
func (s *gameServiceImpl) QuizNext(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, KindQuiz, func(sess *Session) bool {
		return sess.Quiz.NextQuestion()
	})
}

// act runs op against a session of the given kind. An empty kind accepts
// any session.
func (s *gameServiceImpl) act(ctx context.Context, sessionID string, kind Kind, op func(*Session) bool) (*ActionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if kind != "" && sess.Game != kind {
		return nil, fmt.Errorf("%w: session %s plays %s", ErrWrongGame, sess.ID, sess.Game)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	accepted := op(sess)

	return &ActionResult{
		Accepted: accepted,
		Session:  s.info(sess),
	}, nil
}

// baseInfo fills the session metadata without any game state
func (s *gameServiceImpl) baseInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		Game:           sess.Game,
		QuizBank:       sess.QuizBank,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
	}
}

func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	info := s.baseInfo(sess)
	switch sess.Game {
	case KindMemory:
		st := sess.Memory.State()
		info.Memory = &st
	case KindTicTacToe:
		st := sess.TicTacToe.State()
		info.TicTacToe = &st
	case KindQuiz:
		st := sess.Quiz.State()
		info.Quiz = &st
	}
	return info
}

// publish sends a state change to the notifier. It runs on the goroutine
// that changed the engine, including timer goroutines.
func (s *gameServiceImpl) publish(sess *Session, fill func(*SessionInfo)) {
	if s.notifier == nil {
		return
	}
	info := s.baseInfo(sess)
	fill(info)
	s.notifier.BroadcastToSession(sess.ID, info)
}
