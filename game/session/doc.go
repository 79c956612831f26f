// Package session keeps the running game sessions of a QuickPlay server.
//
// Each session owns exactly one engine (memory, tic-tac-toe or quiz) and is
// addressed by a short ID. The manager is an in-memory registry; the games'
// durable state (votes and high scores) lives in game/storage instead.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Lookups are
// case-insensitive.
//
// Concurrency:
//
// The manager is safe for concurrent use. It only guards the registry;
// engines carry their own locks.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	sess, err := manager.Create("", func(s *service.Session) error {
//		s.Game = service.KindTicTacToe
//		s.TicTacToe = tictactoe.New()
//		return nil
//	})
//
//	sess, err = manager.Get(sess.ID)
//	sessions := manager.List()
//
// Cleanup:
//
// Deleting or expiring a session closes it, which cancels any memory
// resolution or timer tick still pending for its board.
package session
