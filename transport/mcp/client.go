package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/quiz"
	"github.com/wricardo/quickplay/game/registry"
	"github.com/wricardo/quickplay/game/service"
	"github.com/wricardo/quickplay/game/tictactoe"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"QuickPlay Mini Games",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`QuickPlay Mini Games - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAMES:
- memory: flip two cards per move and find every pair. Fewer moves score higher.
- tictactoe: two players alternate X and O on a 3x3 board. X always starts.
- quiz: select one of four options, submit it, then go to the next question.

FLOW:
1. create_session with game "memory", "tictactoe" or "quiz"
2. play with the tools for that game, passing the session_id
3. get_session at any time to see the full state

Memory pairs resolve after a short delay. Call get_session to see cards turn
back over or become matched. Actions that the game does not allow right now
are reported as "rejected" and change nothing.

AVAILABLE TOOLS:
- list_games, vote_game, high_scores, list_quizzes
- create_session, get_session, list_sessions, restart_session
- memory_flip, memory_set_difficulty
- tictactoe_move, tictactoe_reset_scores
- quiz_select, quiz_submit, quiz_next`),
	)

	c.registerTools()
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Registry
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List the available games ranked by votes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "vote_game",
		Description: "Vote for a game and get the new ranking",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game to vote for",
					"enum":        []string{"memory", "quiz", "tictactoe"},
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleVoteGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "high_scores",
		Description: "Show the memory game high score for each difficulty",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleHighScores)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_quizzes",
		Description: "List the quiz question banks",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListQuizzes)

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game": map[string]interface{}{
					"type":        "string",
					"description": "Game to play",
					"enum":        []string{"memory", "quiz", "tictactoe"},
				},
				"difficulty": map[string]interface{}{
					"type":        "string",
					"description": "Memory difficulty (optional, default easy)",
					"enum":        []string{"easy", "medium", "hard"},
				},
				"quiz": map[string]interface{}{
					"type":        "string",
					"description": "Quiz bank id (optional, default general)",
				},
			},
			Required: []string{"game"},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game": map[string]interface{}{
					"type":        "string",
					"description": "Only list sessions of this game (optional)",
				},
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get a session and the state of its game",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_session",
		Description: "Start a new round of the session's game",
		InputSchema: sessionSchema(nil),
	}, c.handleRestart)

	// Memory
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "memory_flip",
		Description: "Flip a memory card face up. The second flip of a move resolves after a short delay.",
		InputSchema: sessionSchema(map[string]interface{}{
			"index": map[string]interface{}{
				"type":        "integer",
				"description": "Card index, row-major from 0",
			},
		}, "index"),
	}, c.handleMemoryFlip)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "memory_set_difficulty",
		Description: "Change the memory difficulty and deal a new board",
		InputSchema: sessionSchema(map[string]interface{}{
			"difficulty": map[string]interface{}{
				"type": "string",
				"enum": []string{"easy", "medium", "hard"},
			},
		}, "difficulty"),
	}, c.handleMemoryDifficulty)

	// Tic-tac-toe
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tictactoe_move",
		Description: "Place the next mark on the board",
		InputSchema: sessionSchema(map[string]interface{}{
			"index": map[string]interface{}{
				"type":        "integer",
				"description": "Cell index 0-8, row-major",
			},
		}, "index"),
	}, c.handleTicTacToeMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tictactoe_reset_scores",
		Description: "Zero the scoreboard and clear the board",
		InputSchema: sessionSchema(nil),
	}, c.handleTicTacToeResetScores)

	// Quiz
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "quiz_select",
		Description: "Select an answer for the current question",
		InputSchema: sessionSchema(map[string]interface{}{
			"option": map[string]interface{}{
				"type":        "string",
				"description": "One of the current question's options, verbatim",
			},
		}, "option"),
	}, c.handleQuizSelect)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "quiz_submit",
		Description: "Submit the selected answer",
		InputSchema: sessionSchema(nil),
	}, c.handleQuizSubmit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "quiz_next",
		Description: "Go to the next question, or finish after the last one",
		InputSchema: sessionSchema(nil),
	}, c.handleQuizNext)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a whole number. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func sessionPath(sessionID string, parts ...string) string {
	return "/api/sessions/" + strings.Join(append([]string{sessionID}, parts...), "/")
}

// Tool handlers

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Games []registry.Descriptor `json:"games"`
	}
	if err := c.apiCall(ctx, "GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGames(response.Games)), nil
}

func (c *Client) handleVoteGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, _ := arguments(request)["game_id"].(string)
	if gameID == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}

	var response struct {
		Games []registry.Descriptor `json:"games"`
	}
	if err := c.apiCall(ctx, "POST", "/api/games/"+gameID+"/vote", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Vote recorded.\n\n" + formatGames(response.Games)), nil
}

func (c *Client) handleHighScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scores map[memory.Difficulty]memory.HighScore
	if err := c.apiCall(ctx, "GET", "/api/highscores", nil, &scores); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Memory High Scores:\n")
	for _, d := range memory.Difficulties {
		b.WriteString(fmt.Sprintf("- %s: %s\n", d, formatHighScore(scores[d])))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListQuizzes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Quizzes []config.BankInfo `json:"quizzes"`
	}
	if err := c.apiCall(ctx, "GET", "/api/quizzes", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Quiz Banks (%d):\n", len(response.Quizzes))
	for _, q := range response.Quizzes {
		result += fmt.Sprintf("- %s: %s (%d questions)", q.ID, q.Name, q.QuestionCount)
		if q.Description != "" {
			result += " - " + q.Description
		}
		result += "\n"
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	var req service.CreateSessionRequest
	req.Game, _ = args["game"].(string)
	req.Difficulty, _ = args["difficulty"].(string)
	req.Quiz, _ = args["quiz"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", req, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created session: " + session.ID + "\n\n" + formatSession(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/sessions"
	if game, _ := arguments(request)["game"].(string); game != "" {
		path += "?game=" + game
	}

	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Game: %s, Created: %s)\n",
			s.ID, s.Game, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSession(&session)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, request, "restart", nil)
}

func (c *Client) handleMemoryFlip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, ok := intArg(arguments(request), "index")
	if !ok {
		return mcp.NewToolResultError("index must be an integer"), nil
	}
	return c.action(ctx, request, "memory/flip", map[string]int{"index": index})
}

func (c *Client) handleMemoryDifficulty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	difficulty, _ := arguments(request)["difficulty"].(string)
	if difficulty == "" {
		return mcp.NewToolResultError("difficulty is required"), nil
	}
	return c.action(ctx, request, "memory/difficulty", map[string]string{"difficulty": difficulty})
}

func (c *Client) handleTicTacToeMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, ok := intArg(arguments(request), "index")
	if !ok {
		return mcp.NewToolResultError("index must be an integer"), nil
	}
	return c.action(ctx, request, "tictactoe/move", map[string]int{"index": index})
}

func (c *Client) handleTicTacToeResetScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, request, "tictactoe/reset-scores", nil)
}

func (c *Client) handleQuizSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	option, _ := arguments(request)["option"].(string)
	if option == "" {
		return mcp.NewToolResultError("option is required"), nil
	}
	return c.action(ctx, request, "quiz/select", map[string]string{"option": option})
}

func (c *Client) handleQuizSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, request, "quiz/submit", nil)
}

func (c *Client) handleQuizNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, request, "quiz/next", nil)
}

// action posts a game operation for the session named in the request
func (c *Client) action(ctx context.Context, request mcp.CallToolRequest, op string, body interface{}) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	if body == nil {
		body = map[string]interface{}{}
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, op), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatAction(&result)), nil
}

// Formatting

func formatGames(games []registry.Descriptor) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Games (%d):\n", len(games)))
	for i, g := range games {
		b.WriteString(fmt.Sprintf("%d. %s %s [%s] - %d votes", i+1, g.Icon, g.Name, g.ID, g.Votes))
		if g.Description != "" {
			b.WriteString(" - " + g.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatHighScore(hs memory.HighScore) string {
	if hs == (memory.HighScore{}) {
		return "no record yet"
	}
	return fmt.Sprintf("%d points (%d moves, %ds)", hs.Score, hs.Moves, hs.TimeSeconds)
}

func formatAction(result *service.ActionResult) string {
	header := "Accepted."
	if !result.Accepted {
		header = "Rejected: the game does not allow that right now. Nothing changed."
	}
	if result.Session == nil {
		return header
	}
	return header + "\n\n" + formatSession(result.Session)
}

func formatSession(s *service.SessionInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session: %s\nGame: %s\n", s.ID, s.Game))
	if s.QuizBank != "" {
		b.WriteString(fmt.Sprintf("Quiz: %s\n", s.QuizBank))
	}

	switch {
	case s.Memory != nil:
		b.WriteString(formatMemoryState(s.Memory))
	case s.TicTacToe != nil:
		b.WriteString(formatTicTacToeState(s.TicTacToe))
	case s.Quiz != nil:
		b.WriteString(formatQuizState(s.Quiz))
	}
	return b.String()
}

func formatMemoryState(st *memory.State) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Difficulty: %s | Moves: %d | Time: %ds | Pairs: %d/%d\n",
		st.Difficulty, st.Moves, st.ElapsedSeconds, len(st.MatchedSymbols), st.PairCount))

	cols := st.Columns
	if cols <= 0 {
		cols = 4
	}
	b.WriteString("\nBoard (index:card, ?? is face down):\n")
	for i, card := range st.Cards {
		face := "??"
		if card.IsFlipped || card.IsMatched {
			face = card.Symbol
		}
		b.WriteString(fmt.Sprintf("%2d:%s ", i, face))
		if (i+1)%cols == 0 {
			b.WriteString("\n")
		}
	}
	if len(st.Cards)%cols != 0 {
		b.WriteString("\n")
	}

	if len(st.FlippedIndexes) == 2 {
		b.WriteString("\nTwo cards are up and resolve shortly. Call get_session to see the result.\n")
	}
	if st.Status == memory.Won {
		b.WriteString(fmt.Sprintf("\nWON! Score: %d\n", st.Score))
		if st.NewHighScore {
			b.WriteString("New high score!\n")
		}
	}
	b.WriteString(fmt.Sprintf("High score (%s): %s\n", st.Difficulty, formatHighScore(st.HighScore)))
	return b.String()
}

func formatTicTacToeState(st *tictactoe.State) string {
	var b strings.Builder
	b.WriteString("\n")
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			cells[col] = string(st.Board[i])
			if cells[col] == "" {
				cells[col] = fmt.Sprintf("%d", i)
			}
		}
		b.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < 2 {
			b.WriteString("---+---+---\n")
		}
	}
	b.WriteString("\n")

	switch st.Status {
	case tictactoe.Won:
		b.WriteString(fmt.Sprintf("Winner: %s (line %v)\n", st.Winner, st.WinningLine))
	case tictactoe.Draw:
		b.WriteString("Draw!\n")
	default:
		b.WriteString(fmt.Sprintf("Next: %s\n", st.NextMark))
	}
	b.WriteString(fmt.Sprintf("Scoreboard: X %d | O %d | Draws %d\n",
		st.Scoreboard.XWins, st.Scoreboard.OWins, st.Scoreboard.Draws))
	return b.String()
}

func formatQuizState(st *quiz.State) string {
	var b strings.Builder
	if st.Finished && st.Result != nil {
		b.WriteString(fmt.Sprintf("Finished! Score: %d/%d (%d%%, %s)\n",
			st.Result.Score, st.Result.Total, st.Result.Percentage, st.Result.Tier))
		for i, a := range st.AnswerLog {
			mark := "wrong"
			if a.IsCorrect {
				mark = "correct"
			}
			b.WriteString(fmt.Sprintf("%d. %s -> %s (%s, answer: %s)\n", i+1, a.Question, a.SelectedOption, mark, a.CorrectAnswer))
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Question %d/%d | Score: %d\n", st.QuestionIndex+1, st.QuestionCount, st.Score))
	b.WriteString(st.Question.Text + "\n")
	for _, opt := range st.Question.Options {
		marker := "  "
		if st.SelectedOption != nil && *st.SelectedOption == opt {
			marker = "> "
		}
		b.WriteString(marker + opt + "\n")
	}
	if st.Answered {
		if st.SelectedOption != nil && *st.SelectedOption == st.CorrectAnswer {
			b.WriteString("Correct!\n")
		} else {
			b.WriteString(fmt.Sprintf("Wrong. The answer is %s\n", st.CorrectAnswer))
		}
	}
	return b.String()
}
