package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/registry"
	"github.com/wricardo/quickplay/game/schedule"
	"github.com/wricardo/quickplay/game/service"
	"github.com/wricardo/quickplay/game/session"
	"github.com/wricardo/quickplay/game/storage"
	"github.com/wricardo/quickplay/game/tictactoe"
	"github.com/wricardo/quickplay/transport/websocket"
)

type testServer struct {
	*Server
	clock *schedule.Manual
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := storage.NewMemoryStore()
	banks, err := config.NewBankManager("")
	require.NoError(t, err)

	clock := schedule.NewManual()
	svc := service.NewGameService(
		session.NewManager(nil),
		banks,
		registry.New(store, nil),
		memory.NewHighScoreBook(store, nil),
		service.WithScheduler(clock),
	)
	return &testServer{Server: NewServer(svc, websocket.NewHub(nil)), clock: clock}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) create(t *testing.T, body string) service.SessionInfo {
	t.Helper()

	rr := s.do(t, "POST", "/api/sessions", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var info service.SessionInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	return info
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rr)["error"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/api/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "healthy", decode[map[string]string](t, rr)["status"])
}

func TestListGamesAndVote(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/api/games", "")
	require.Equal(t, http.StatusOK, rr.Code)
	games := decode[map[string][]registry.Descriptor](t, rr)["games"]
	require.Len(t, games, 3)
	assert.Equal(t, "memory", games[0].ID)

	rr = s.do(t, "POST", "/api/games/tictactoe/vote", "")
	require.Equal(t, http.StatusOK, rr.Code)
	games = decode[map[string][]registry.Descriptor](t, rr)["games"]
	assert.Equal(t, "tictactoe", games[0].ID)
	assert.Equal(t, 1, games[0].Votes)

	rr = s.do(t, "GET", "/api/games", "")
	games = decode[map[string][]registry.Descriptor](t, rr)["games"]
	assert.Equal(t, "tictactoe", games[0].ID, "ranking survives between requests")
}

func TestVoteUnknownGame(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "POST", "/api/games/chess/vote", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, errorMessage(t, rr), "chess")
}

func TestHighScores(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/api/highscores", "")
	require.Equal(t, http.StatusOK, rr.Code)
	scores := decode[map[string]memory.HighScore](t, rr)
	assert.Len(t, scores, 3)
	assert.Equal(t, memory.HighScore{}, scores["hard"])
}

func TestListQuizzes(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/api/quizzes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	quizzes := decode[map[string][]config.BankInfo](t, rr)["quizzes"]
	require.NotEmpty(t, quizzes)
	assert.Equal(t, config.DefaultBankName, quizzes[0].ID)
}

func TestCreateSessionValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{"game":`, http.StatusBadRequest},
		{"missing game", `{}`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"unknown game", `{"game":"chess"}`, http.StatusBadRequest},
		{"bad difficulty", `{"game":"memory","difficulty":"extreme"}`, http.StatusBadRequest},
		{"unknown quiz", `{"game":"quiz","quiz":"history"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, "POST", "/api/sessions", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.NotEmpty(t, errorMessage(t, rr))
		})
	}
}

func TestCreateSessionPerGame(t *testing.T) {
	s := newTestServer(t)

	mem := s.create(t, `{"game":"memory","difficulty":"medium"}`)
	assert.Equal(t, service.KindMemory, mem.Game)
	require.NotNil(t, mem.Memory)
	assert.Equal(t, memory.Medium, mem.Memory.Difficulty)
	assert.Len(t, mem.Memory.Cards, 16)
	assert.Nil(t, mem.TicTacToe)
	assert.Nil(t, mem.Quiz)

	ttt := s.create(t, `{"game":"tictactoe"}`)
	require.NotNil(t, ttt.TicTacToe)
	assert.Equal(t, tictactoe.X, ttt.TicTacToe.NextMark)

	q := s.create(t, `{"game":"quiz"}`)
	require.NotNil(t, q.Quiz)
	assert.Equal(t, config.DefaultBankName, q.QuizBank)
	assert.Equal(t, 5, q.Quiz.QuestionCount)
	assert.Empty(t, q.Quiz.CorrectAnswer, "answer hidden until submitted")
}

func TestGetAndDeleteSession(t *testing.T) {
	s := newTestServer(t)
	info := s.create(t, `{"game":"tictactoe"}`)

	rr := s.do(t, "GET", "/api/sessions/"+info.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, info.ID, decode[service.SessionInfo](t, rr).ID)

	rr = s.do(t, "GET", "/api/sessions/"+strings.ToUpper(info.ID), "")
	assert.Equal(t, http.StatusOK, rr.Code, "ids are case-insensitive")

	rr = s.do(t, "DELETE", "/api/sessions/"+info.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, "GET", "/api/sessions/"+info.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, "DELETE", "/api/sessions/"+info.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListSessions(t *testing.T) {
	s := newTestServer(t)
	first := s.create(t, `{"game":"tictactoe"}`)
	time.Sleep(2 * time.Millisecond)
	s.create(t, `{"game":"memory"}`)
	time.Sleep(2 * time.Millisecond)
	last := s.create(t, `{"game":"tictactoe"}`)

	type listResponse struct {
		Count    int                   `json:"count"`
		Total    int                   `json:"total"`
		Sessions []service.SessionInfo `json:"sessions"`
		Sort     string                `json:"sort"`
		Order    string                `json:"order"`
	}

	rr := s.do(t, "GET", "/api/sessions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[listResponse](t, rr)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "accessed", resp.Sort)
	assert.Equal(t, "desc", resp.Order)
	assert.Equal(t, last.ID, resp.Sessions[0].ID)

	rr = s.do(t, "GET", "/api/sessions?sort=created&order=asc&limit=1", "")
	resp = decode[listResponse](t, rr)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, first.ID, resp.Sessions[0].ID)

	rr = s.do(t, "GET", "/api/sessions?game=tictactoe", "")
	resp = decode[listResponse](t, rr)
	assert.Equal(t, 2, resp.Total)
	for _, sess := range resp.Sessions {
		assert.Equal(t, service.KindTicTacToe, sess.Game)
	}
}

func TestTicTacToeFlow(t *testing.T) {
	s := newTestServer(t)
	info := s.create(t, `{"game":"tictactoe"}`)
	base := "/api/sessions/" + info.ID + "/tictactoe"

	for _, i := range []string{"0", "3", "1", "4", "2"} {
		rr := s.do(t, "POST", base+"/move", `{"index":`+i+`}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decode[service.ActionResult](t, rr).Accepted)
	}

	rr := s.do(t, "POST", base+"/move", `{"index":8}`)
	require.Equal(t, http.StatusOK, rr.Code, "rejected moves are not errors")
	result := decode[service.ActionResult](t, rr)
	assert.False(t, result.Accepted)
	assert.Equal(t, tictactoe.Won, result.Session.TicTacToe.Status)
	assert.Equal(t, tictactoe.X, result.Session.TicTacToe.Winner)
	assert.Equal(t, []int{0, 1, 2}, result.Session.TicTacToe.WinningLine)
	assert.Equal(t, 1, result.Session.TicTacToe.Scoreboard.XWins)

	rr = s.do(t, "POST", "/api/sessions/"+info.ID+"/restart", "")
	result = decode[service.ActionResult](t, rr)
	assert.True(t, result.Accepted)
	assert.Equal(t, tictactoe.Playing, result.Session.TicTacToe.Status)
	assert.Equal(t, 1, result.Session.TicTacToe.Scoreboard.XWins, "restart keeps the scoreboard")

	rr = s.do(t, "POST", base+"/reset-scores", "")
	result = decode[service.ActionResult](t, rr)
	assert.Equal(t, tictactoe.Scoreboard{}, result.Session.TicTacToe.Scoreboard)
}

func TestMoveRequiresIndex(t *testing.T) {
	s := newTestServer(t)
	ttt := s.create(t, `{"game":"tictactoe"}`)
	mem := s.create(t, `{"game":"memory"}`)

	for _, path := range []string{
		"/api/sessions/" + ttt.ID + "/tictactoe/move",
		"/api/sessions/" + mem.ID + "/memory/flip",
	} {
		rr := s.do(t, "POST", path, `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)

		rr = s.do(t, "POST", path, `{"index":"two"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

func TestWrongGameIsConflict(t *testing.T) {
	s := newTestServer(t)
	info := s.create(t, `{"game":"tictactoe"}`)

	rr := s.do(t, "POST", "/api/sessions/"+info.ID+"/memory/flip", `{"index":0}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, "POST", "/api/sessions/"+info.ID+"/quiz/submit", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "POST", "/api/sessions/ffff/tictactoe/move", `{"index":0}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, "POST", "/api/sessions/ffff/restart", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMemoryFlipResolvesLater(t *testing.T) {
	s := newTestServer(t)
	info := s.create(t, `{"game":"memory"}`)
	base := "/api/sessions/" + info.ID + "/memory"

	// pick two cards with different symbols
	cards := info.Memory.Cards
	second := 1
	for cards[second].Symbol == cards[0].Symbol {
		second++
	}

	rr := s.do(t, "POST", base+"/flip", `{"index":0}`)
	assert.True(t, decode[service.ActionResult](t, rr).Accepted)

	body, _ := json.Marshal(map[string]int{"index": second})
	rr = s.do(t, "POST", base+"/flip", string(body))
	result := decode[service.ActionResult](t, rr)
	assert.True(t, result.Accepted)
	assert.Equal(t, 1, result.Session.Memory.Moves)
	assert.Len(t, result.Session.Memory.FlippedIndexes, 2)

	rr = s.do(t, "POST", base+"/flip", `{"index":99}`)
	assert.False(t, decode[service.ActionResult](t, rr).Accepted)

	s.clock.Advance(memory.DefaultMismatchDelay)

	rr = s.do(t, "GET", "/api/sessions/"+info.ID, "")
	state := decode[service.SessionInfo](t, rr).Memory
	assert.Empty(t, state.FlippedIndexes)
	assert.False(t, state.Cards[0].IsFlipped)
	assert.Equal(t, 1, state.ElapsedSeconds)
}

func TestMemoryDifficulty(t *testing.T) {
	s := newTestServer(t)
	info := s.create(t, `{"game":"memory"}`)
	path := "/api/sessions/" + info.ID + "/memory/difficulty"

	rr := s.do(t, "POST", path, `{"difficulty":"hard"}`)
	result := decode[service.ActionResult](t, rr)
	assert.True(t, result.Accepted)
	assert.Equal(t, memory.Hard, result.Session.Memory.Difficulty)
	assert.Equal(t, 5, result.Session.Memory.Columns)

	rr = s.do(t, "POST", path, `{"difficulty":"extreme"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[service.ActionResult](t, rr).Accepted)

	rr = s.do(t, "POST", path, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQuizFlow(t *testing.T) {
	s := newTestServer(t)
	info := s.create(t, `{"game":"quiz"}`)
	base := "/api/sessions/" + info.ID + "/quiz"

	rr := s.do(t, "POST", base+"/submit", "")
	assert.False(t, decode[service.ActionResult](t, rr).Accepted, "nothing selected yet")

	rr = s.do(t, "POST", base+"/select", `{"option":"Paris"}`)
	assert.True(t, decode[service.ActionResult](t, rr).Accepted)

	rr = s.do(t, "POST", base+"/select", `{"option":"Atlantis"}`)
	assert.False(t, decode[service.ActionResult](t, rr).Accepted)

	rr = s.do(t, "POST", base+"/submit", "")
	result := decode[service.ActionResult](t, rr)
	assert.True(t, result.Accepted)
	assert.Equal(t, 1, result.Session.Quiz.Score)
	assert.Equal(t, "Paris", result.Session.Quiz.CorrectAnswer)

	rr = s.do(t, "POST", base+"/next", "")
	result = decode[service.ActionResult](t, rr)
	assert.True(t, result.Accepted)
	assert.Equal(t, 1, result.Session.Quiz.QuestionIndex)

	rr = s.do(t, "POST", base+"/select", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebSocketRequiresSession(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/ws", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, "GET", "/ws?session=ffff", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// failingService fails every registry call
type failingService struct {
	service.GameService
}

func (failingService) ListGames(ctx context.Context) ([]registry.Descriptor, error) {
	return nil, errors.New("store offline")
}

func TestInternalErrors(t *testing.T) {
	srv := NewServer(failingService{}, websocket.NewHub(nil))

	req := httptest.NewRequest("GET", "/api/games", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "store offline", errorMessage(t, rr))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrSessionNotFound, http.StatusNotFound},
		{config.ErrBankNotFound, http.StatusNotFound},
		{service.ErrUnknownGame, http.StatusNotFound},
		{service.ErrWrongGame, http.StatusConflict},
		{service.ErrInvalidDifficulty, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}
