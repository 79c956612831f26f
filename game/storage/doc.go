// Package storage provides the key/value persistence port used by the
// QuickPlay game engines.
//
// The storage package implements:
//   - The Store contract (string keys, JSON string values)
//   - In-memory, file, SQLite and Postgres backends
//   - JSON helpers that engines use to read and write their documents
//
// Keys:
//
// Two well-known keys are in use:
//   - quickPlayGames: the game registry (array of descriptors)
//   - memoryGameHighScores: memory game high scores keyed by difficulty
//
// Usage:
//
//	store, err := storage.Open(ctx, storage.Options{Driver: "sqlite", Path: "data/quickplay.db"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	ok, err := storage.LoadJSON(store, storage.KeyGames, &games)
//
// Engines treat the store as best-effort. A failed read falls back to the
// engine's defaults and a failed write is logged, never returned to players.
package storage
