// Package mcp exposes the QuickPlay games to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a REST request against
// a running API server, and the JSON answer is rendered as text an agent can
// read.
//
// MCP Tools:
//   - list_games, vote_game: the ranked game list
//   - high_scores: memory records per difficulty
//   - list_quizzes: available quiz banks
//   - create_session, get_session, list_sessions, restart_session
//   - memory_flip, memory_set_difficulty
//   - tictactoe_move, tictactoe_reset_scores
//   - quiz_select, quiz_submit, quiz_next
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp handled with GetMCPServer().HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
