// Package service provides the business logic layer for QuickPlay.
//
// The service package implements:
//   - Game sessions for the memory, tic-tac-toe and quiz engines
//   - The voted game list and memory high scores
//   - Quiz bank listing and loading
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// SessionManager stores running sessions. BankLoader supplies quiz banks.
// Notifier receives a SessionInfo snapshot whenever an engine changes,
// including the deferred memory resolutions and timer ticks that happen
// outside any request.
//
// Usage:
//
//	sessions := session.NewManager(logger)
//	banks, _ := config.NewBankManager("configs/quizzes")
//	gameService := service.NewGameService(sessions, banks,
//		registry.New(store, logger),
//		memory.NewHighScoreBook(store, logger),
//		service.WithNotifier(hub),
//	)
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionRequest{Game: "tictactoe"})
//	result, err := gameService.TicTacToeMove(ctx, info.ID, 4)
//
// Rejected operations:
//
// An operation the engine refuses (a taken cell, a third flipped card, a
// second submit) returns an ActionResult with Accepted false and no error.
// Errors are reserved for unknown sessions, unknown games and operations
// sent to a session of another game.
package service
