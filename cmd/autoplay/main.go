// Command autoplay plays QuickPlay sessions through the REST API. Memory is
// played with perfect recall, tic-tac-toe with minimax for both marks, and
// quizzes by learning the answers revealed on each attempt.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/service"
	"github.com/wricardo/quickplay/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Play QuickPlay games against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "game", Value: string(service.KindMemory), Usage: "memory, tictactoe or quiz"},
			&cli.StringFlag{Name: "difficulty", Usage: "memory difficulty"},
			&cli.StringFlag{Name: "quiz", Usage: "quiz bank id"},
			&cli.StringFlag{Name: "continue", Usage: "resume playing an existing session by ID"},
			&cli.IntFlag{Name: "attempts", Value: 3, Usage: "attempts (memory, quiz) or rounds (tictactoe)"},
			&cli.IntFlag{Name: "max-moves", Value: 500, Usage: "maximum memory moves per attempt"},
			&cli.DurationFlag{Name: "poll", Value: 100 * time.Millisecond, Usage: "wait between polls while a memory pair resolves"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: runAutoplay,
	}
}

func runAutoplay(ctx context.Context, cmd *cli.Command) error {
	logger, err := logging.New("info", cmd.Bool("v"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := NewClient(cmd.String("url"))
	logger.Info("connecting to game server", zap.String("url", cmd.String("url")))

	var session *service.SessionInfo
	if id := cmd.String("continue"); id != "" {
		session, err = client.Resume(ctx, id)
		if err != nil {
			return fmt.Errorf("resume session %s: %w", id, err)
		}
		logger.Info("session resumed", zap.String("session_id", session.ID), zap.String("game", string(session.Game)))
	} else {
		session, err = client.CreateSession(ctx, service.CreateSessionRequest{
			Game:       cmd.String("game"),
			Difficulty: cmd.String("difficulty"),
			Quiz:       cmd.String("quiz"),
		})
		if err != nil {
			return err
		}
		logger.Info("session created", zap.String("session_id", session.ID), zap.String("game", string(session.Game)))
	}

	player := &Player{
		client:   client,
		logger:   logger,
		poll:     cmd.Duration("poll"),
		maxMoves: int(cmd.Int("max-moves")),
	}
	attempts := int(cmd.Int("attempts"))

	switch session.Game {
	case service.KindMemory:
		return playMemory(ctx, player, attempts)
	case service.KindTicTacToe:
		return playTicTacToe(ctx, player, attempts)
	case service.KindQuiz:
		return playQuiz(ctx, player, attempts)
	default:
		return fmt.Errorf("unsupported game %q", session.Game)
	}
}

// restartAfterFirst resets the session before every attempt but the first
func restartAfterFirst(ctx context.Context, p *Player, attempt int) error {
	if attempt == 1 {
		return nil
	}
	if _, err := p.client.Restart(ctx); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return nil
}

func playMemory(ctx context.Context, p *Player, attempts int) error {
	strategy := NewMemoryStrategy()
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := restartAfterFirst(ctx, p, attempt); err != nil {
			return err
		}
		strategy.Reset()

		state, err := p.PlayMemory(ctx, strategy)
		if err != nil && !errors.Is(err, errStuck) {
			return err
		}
		p.logger.Info("memory attempt finished",
			zap.Int("attempt", attempt),
			zap.String("status", string(state.Status)),
			zap.Int("moves", state.Moves),
			zap.Int("elapsed_seconds", state.ElapsedSeconds),
			zap.Int("score", state.Score))

		if state.Status == memory.Won {
			p.logger.Info("victory",
				zap.String("session_id", p.client.SessionID()),
				zap.Bool("new_high_score", state.NewHighScore))
			return nil
		}
	}
	return fmt.Errorf("failed to clear the board after %d attempts (session %s)", attempts, p.client.SessionID())
}

func playTicTacToe(ctx context.Context, p *Player, rounds int) error {
	for round := 1; round <= rounds; round++ {
		if err := restartAfterFirst(ctx, p, round); err != nil {
			return err
		}

		state, err := p.PlayTicTacToe(ctx)
		if err != nil {
			return err
		}
		p.logger.Info("round finished",
			zap.Int("round", round),
			zap.String("status", string(state.Status)),
			zap.String("winner", string(state.Winner)),
			zap.Int("x_wins", state.Scoreboard.XWins),
			zap.Int("o_wins", state.Scoreboard.OWins),
			zap.Int("draws", state.Scoreboard.Draws))
	}
	return nil
}

func playQuiz(ctx context.Context, p *Player, attempts int) error {
	strategy := NewQuizStrategy()
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := restartAfterFirst(ctx, p, attempt); err != nil {
			return err
		}

		state, err := p.PlayQuiz(ctx, strategy)
		if err != nil {
			return err
		}
		if state.Result == nil {
			return fmt.Errorf("quiz finished without a result")
		}
		p.logger.Info("quiz attempt finished",
			zap.Int("attempt", attempt),
			zap.Int("score", state.Result.Score),
			zap.Int("total", state.Result.Total),
			zap.Int("percentage", state.Result.Percentage),
			zap.String("tier", string(state.Result.Tier)),
			zap.Int("answers_known", strategy.Known()))

		if state.Result.Score == state.Result.Total {
			p.logger.Info("perfect score", zap.String("session_id", p.client.SessionID()))
			return nil
		}
	}
	return fmt.Errorf("no perfect score after %d attempts (session %s)", attempts, p.client.SessionID())
}
