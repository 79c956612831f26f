package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/quiz"
	"github.com/wricardo/quickplay/game/tictactoe"
)

// maxRejections is how many refused actions in a row end an attempt
const maxRejections = 10

var errStuck = errors.New("no playable move")

// Player plays attempts against the session bound to its client
type Player struct {
	client   *Client
	logger   *zap.Logger
	poll     time.Duration
	maxMoves int
}

// PlayMemory flips cards until the board is cleared
func (p *Player) PlayMemory(ctx context.Context, strategy *MemoryStrategy) (memory.State, error) {
	session, err := p.client.GetState(ctx)
	if err != nil {
		return memory.State{}, err
	}
	if session.Memory == nil {
		return memory.State{}, fmt.Errorf("session %s is a %s game", session.ID, session.Game)
	}
	state := *session.Memory

	rejected := 0
	for state.Status != memory.Won && state.Moves < p.maxMoves {
		if len(state.FlippedIndexes) >= 2 {
			strategy.Observe(state)
			if err := p.wait(ctx); err != nil {
				return state, err
			}
			if session, err = p.client.GetState(ctx); err != nil {
				return state, err
			}
			state = *session.Memory
			continue
		}

		index := strategy.NextFlip(state)
		if index < 0 {
			return state, errStuck
		}

		result, err := p.client.Flip(ctx, index)
		if err != nil {
			return state, err
		}
		state = *result.Session.Memory
		if !result.Accepted {
			rejected++
			p.logger.Debug("flip rejected", zap.Int("index", index))
			if rejected >= maxRejections {
				return state, errStuck
			}
			continue
		}
		rejected = 0
		p.logger.Debug("flipped",
			zap.Int("index", index),
			zap.String("symbol", state.Cards[index].Symbol),
			zap.Int("moves", state.Moves))
	}
	return state, nil
}

// PlayTicTacToe plays both marks with minimax until the round ends
func (p *Player) PlayTicTacToe(ctx context.Context) (tictactoe.State, error) {
	session, err := p.client.GetState(ctx)
	if err != nil {
		return tictactoe.State{}, err
	}
	if session.TicTacToe == nil {
		return tictactoe.State{}, fmt.Errorf("session %s is a %s game", session.ID, session.Game)
	}
	state := *session.TicTacToe

	for state.Status == tictactoe.Playing {
		index := BestMove(state.Board, state.NextMark)
		if index < 0 {
			return state, errStuck
		}
		result, err := p.client.Move(ctx, index)
		if err != nil {
			return state, err
		}
		if !result.Accepted {
			return *result.Session.TicTacToe, fmt.Errorf("move %d rejected", index)
		}
		p.logger.Debug("moved", zap.String("mark", string(state.NextMark)), zap.Int("index", index))
		state = *result.Session.TicTacToe
	}
	return state, nil
}

// PlayQuiz answers every question of the bank once
func (p *Player) PlayQuiz(ctx context.Context, strategy *QuizStrategy) (quiz.State, error) {
	session, err := p.client.GetState(ctx)
	if err != nil {
		return quiz.State{}, err
	}
	if session.Quiz == nil {
		return quiz.State{}, fmt.Errorf("session %s is a %s game", session.ID, session.Game)
	}
	state := *session.Quiz

	for !state.Finished {
		if !state.Answered {
			option := strategy.Choose(state.Question)
			if _, err := p.client.Select(ctx, option); err != nil {
				return state, err
			}
			result, err := p.client.Submit(ctx)
			if err != nil {
				return state, err
			}
			state = *result.Session.Quiz
			if !result.Accepted {
				return state, fmt.Errorf("answer %q rejected", option)
			}
			strategy.Learn(state)
			p.logger.Debug("answered",
				zap.Int("question", state.QuestionIndex+1),
				zap.String("option", option),
				zap.Bool("correct", option == state.CorrectAnswer))
		}

		result, err := p.client.Next(ctx)
		if err != nil {
			return state, err
		}
		state = *result.Session.Quiz
		if !result.Accepted {
			return state, errStuck
		}
	}
	return state, nil
}

func (p *Player) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.poll):
		return nil
	}
}
