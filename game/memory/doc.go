// Package memory implements the card-matching game.
//
// A board holds two cards per symbol of the active difficulty. Flipping a
// second card counts a move and schedules a resolution: matching cards are
// marked matched after MatchDelay, others turn back face down after
// MismatchDelay. While a resolution is pending no card can be flipped.
//
// The elapsed-time counter starts on the first flip and ticks once a second
// until the board is cleared. Restarting or changing difficulty cancels any
// pending resolution and tick, so work scheduled for an old board never
// touches a new one.
//
// High scores are kept per difficulty in a HighScoreBook, persisted under
// storage.KeyMemoryHighScore.
package memory
