// Package api provides HTTP REST API handlers for the QuickPlay games.
//
// Endpoints:
//
// Registry:
//   - GET /api/health - Liveness check
//   - GET /api/games - Games ranked by votes
//   - POST /api/games/{id}/vote - Add a vote and return the new ranking
//   - GET /api/highscores - Memory game records by difficulty
//   - GET /api/quizzes - Available quiz banks
//
// Session Management:
//   - POST /api/sessions - Create a session: {"game": "memory|tictactoe|quiz", "difficulty": "...", "quiz": "..."}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N&game=...)
//   - GET /api/sessions/{id} - Get a session with its game state
//   - DELETE /api/sessions/{id} - Delete a session
//   - POST /api/sessions/{id}/restart - Start a new round
//
// Game Operations:
//   - POST /api/sessions/{id}/memory/flip - {"index": 3}
//   - POST /api/sessions/{id}/memory/difficulty - {"difficulty": "hard"}
//   - POST /api/sessions/{id}/tictactoe/move - {"index": 4}
//   - POST /api/sessions/{id}/tictactoe/reset-scores
//   - POST /api/sessions/{id}/quiz/select - {"option": "Paris"}
//   - POST /api/sessions/{id}/quiz/submit
//   - POST /api/sessions/{id}/quiz/next
//
// WebSocket:
//   - GET /ws?session={id} - State updates for one session
//
// Game operations answer with {"accepted": bool, "session": {...}}. An
// operation the game does not allow right now is answered with 200 and
// accepted=false.
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "session not found: 1a2b"}
//
// with 400 for malformed bodies, 404 for unknown sessions, games or quiz
// banks, and 409 when the operation belongs to another game.
package api
