package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/service"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "QuickPlay Mini Games Server", AppName)
}

func TestCommands(t *testing.T) {
	cmd := newCommand()

	var names []string
	for _, c := range cmd.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"serve", "mcp", "version"}, names)
	assert.NotNil(t, cmd.Action, "serve runs without a subcommand")
}

func TestVersionCommand(t *testing.T) {
	cmd := newCommand()
	var out bytes.Buffer
	cmd.Writer = &out

	require.NoError(t, cmd.Run(context.Background(), []string{"quickplay", "version"}))
	assert.Equal(t, "QuickPlay Mini Games Server v1.0.0\n", out.String())
}

// settingsFor runs the CLI with args and returns the settings it resolves
func settingsFor(t *testing.T, args ...string) (config.Settings, error) {
	t.Helper()

	cmd := newCommand()
	var got config.Settings
	var loadErr error
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		got, loadErr = loadSettings(c)
		return nil
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"quickplay"}, args...)))
	return got, loadErr
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := settingsFor(t)
	require.NoError(t, err)

	assert.Equal(t, "localhost", settings.Host)
	assert.Equal(t, 8080, settings.Port)
	assert.Equal(t, "file", settings.Store)
	assert.Equal(t, 500*time.Millisecond, settings.MatchDelay)
	assert.Equal(t, time.Second, settings.MismatchDelay)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("QUICKPLAY_HOST", "0.0.0.0")
	t.Setenv("QUICKPLAY_PORT", "7000")
	t.Setenv("QUICKPLAY_STORE", "sqlite")

	settings, err := settingsFor(t, "--port", "9090", "--store", "memory", "--debug")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", settings.Host, "env applies when no flag is given")
	assert.Equal(t, 9090, settings.Port)
	assert.Equal(t, "memory", settings.Store)
	assert.True(t, settings.Debug)
}

func TestInvalidPortFlag(t *testing.T) {
	_, err := settingsFor(t, "--port", "70000")
	assert.ErrorIs(t, err, config.ErrInvalidSettings)
}

func testSettings(t *testing.T) config.Settings {
	t.Helper()

	settings, err := config.LoadSettings()
	require.NoError(t, err)
	settings.Store = "memory"
	return settings
}

func TestNewApplication(t *testing.T) {
	settings := testSettings(t)

	app, err := newApplication(context.Background(), settings, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	quizzes, err := app.service.ListQuizzes(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}
	assert.Contains(t, ids, "science", "shipped quiz banks are loaded")
}

func TestNewApplicationWithoutQuizDir(t *testing.T) {
	settings := testSettings(t)
	settings.QuizDir = "/non/existent/path"

	app, err := newApplication(context.Background(), settings, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	quizzes, err := app.service.ListQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, config.DefaultBankName, quizzes[0].ID)
}

func TestNewApplicationUnknownStore(t *testing.T) {
	settings := testSettings(t)
	settings.Store = "redis"

	_, err := newApplication(context.Background(), settings, zap.NewNop())
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	app, err := newApplication(context.Background(), testSettings(t), zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	srv := httptest.NewUnstartedServer(nil)
	srv.Config.Handler = app.handler("http://" + srv.Listener.Addr().String())
	srv.Start()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/mcp")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/mcp", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"create_session","arguments":{"game":"tictactoe"}}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rpc struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpc))
	require.NotEmpty(t, rpc.Result.Content)
	assert.Contains(t, rpc.Result.Content[0].Text, "Created session:")

	sessions, err := app.service.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, service.KindTicTacToe, sessions[0].Game)
}

func TestCleanupSessionsStopsOnCancel(t *testing.T) {
	settings := testSettings(t)
	settings.CleanupInterval = time.Millisecond
	settings.SessionTTL = time.Hour

	app, err := newApplication(context.Background(), settings, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	_, err = app.service.CreateSession(context.Background(), service.CreateSessionRequest{Game: "quiz"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.cleanupSessions(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, app.sessions.Count(), "fresh sessions survive cleanup")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestAPIAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, apiAvailable(context.Background(), srv.URL))
	assert.False(t, apiAvailable(context.Background(), "http://127.0.0.1:1"))
}
