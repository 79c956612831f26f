// Command quickplay starts the QuickPlay mini games server.
//
// It supports two modes:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from the environment (QUICKPLAY_*, see game/config) and an
// optional .env file. Flags override them for a single run.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/quickplay/api"
	"github.com/wricardo/quickplay/game/config"
	"github.com/wricardo/quickplay/game/memory"
	"github.com/wricardo/quickplay/game/registry"
	"github.com/wricardo/quickplay/game/service"
	"github.com/wricardo/quickplay/game/session"
	"github.com/wricardo/quickplay/game/storage"
	"github.com/wricardo/quickplay/logging"
	"github.com/wricardo/quickplay/transport/mcp"
	"github.com/wricardo/quickplay/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "QuickPlay Mini Games Server"
)

// staticDir holds the browser client, served when present
const staticDir = "./static/"

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCommand builds the CLI. Running it without a subcommand serves HTTP.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "quickplay",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "HTTP server host (QUICKPLAY_HOST)"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port (QUICKPLAY_PORT)"},
			&cli.StringFlag{Name: "store", Usage: "persistence backend: memory, file, sqlite, postgres (QUICKPLAY_STORE)"},
			&cli.StringFlag{Name: "store-path", Usage: "directory or database file for the store (QUICKPLAY_STORE_PATH)"},
			&cli.StringFlag{Name: "quiz-dir", Usage: "directory of quiz banks (QUICKPLAY_QUIZ_DIR)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (QUICKPLAY_LOG_LEVEL)"},
			&cli.BoolFlag{Name: "debug", Usage: "enable development logging (QUICKPLAY_DEBUG)"},
			&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel (needs NGROK_AUTHTOKEN)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (NGROK_DOMAIN)"},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Run MCP stdio server with internal HTTP server",
				Action: runStdioMCP,
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

// loadSettings reads the environment and applies flag overrides from the
// root command
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	root := cmd.Root()

	settings, err := config.LoadSettings()
	if err != nil {
		return config.Settings{}, err
	}

	if root.IsSet("host") {
		settings.Host = root.String("host")
	}
	if root.IsSet("port") {
		settings.Port = int(root.Int("port"))
		if settings.Port <= 0 || settings.Port > 65535 {
			return config.Settings{}, fmt.Errorf("%w: port %d out of range", config.ErrInvalidSettings, settings.Port)
		}
	}
	if root.IsSet("store") {
		settings.Store = root.String("store")
	}
	if root.IsSet("store-path") {
		settings.StorePath = root.String("store-path")
	}
	if root.IsSet("quiz-dir") {
		settings.QuizDir = root.String("quiz-dir")
	}
	if root.IsSet("log-level") {
		settings.LogLevel = root.String("log-level")
	}
	if root.IsSet("debug") {
		settings.Debug = root.Bool("debug")
	}
	if root.IsSet("ngrok-domain") {
		settings.NgrokDomain = root.String("ngrok-domain")
	}
	return settings, nil
}

// application holds the services shared by the serve and mcp modes
type application struct {
	settings config.Settings
	logger   *zap.Logger
	store    storage.Store
	sessions *session.Manager
	hub      *websocket.Hub
	service  service.GameService
}

// newApplication opens the store and wires the registry, high scores, quiz
// banks, sessions, WebSocket hub and game service.
func newApplication(ctx context.Context, settings config.Settings, logger *zap.Logger) (*application, error) {
	store, err := storage.Open(ctx, storage.Options{
		Driver: settings.Store,
		Path:   settings.StorePath,
		DSN:    settings.PostgresURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", settings.Store, err)
	}

	banks, err := config.NewBankManager(settings.QuizDir)
	if err != nil {
		logger.Warn("quiz directory unavailable, serving built-in questions only",
			zap.String("dir", settings.QuizDir), zap.Error(err))
		banks, _ = config.NewBankManager("")
	}

	sessions := session.NewManager(logger.Named("session"))
	hub := websocket.NewHub(logger.Named("websocket"))

	gameService := service.NewGameService(
		sessions,
		banks,
		registry.New(store, logger.Named("registry")),
		memory.NewHighScoreBook(store, logger.Named("memory")),
		service.WithNotifier(hub),
		service.WithLogger(logger.Named("service")),
		service.WithMemoryDelays(settings.MatchDelay, settings.MismatchDelay),
	)

	return &application{
		settings: settings,
		logger:   logger,
		store:    store,
		sessions: sessions,
		hub:      hub,
		service:  gameService,
	}, nil
}

// Close releases the store
func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
}

// handler combines the REST API with the /mcp endpoint. The MCP client
// proxies to baseURL.
func (a *application) handler(baseURL string) http.Handler {
	opts := []api.Option{api.WithLogger(a.logger.Named("api"))}
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		opts = append(opts, api.WithStaticDir(staticDir))
	}
	apiServer := api.NewServer(a.service, a.hub, opts...)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// cleanupSessions periodically removes sessions that have not been accessed
// within the configured TTL
func (a *application) cleanupSessions(ctx context.Context) {
	interval := a.settings.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := a.sessions.CleanupExpiredSessions(a.settings.SessionTTL); removed > 0 {
				a.logger.Info("cleaned up expired sessions", zap.Int("count", removed))
			}
		}
	}
}

func setup(ctx context.Context, cmd *cli.Command) (*application, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(settings.LogLevel, settings.Debug)
	if err != nil {
		return nil, err
	}

	app, err := newApplication(ctx, settings, logger)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return app, nil
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint. With --ngrok it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	app, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.logger.Sync()
	defer app.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go app.hub.Run(ctx)
	go app.cleanupSessions(ctx)

	addr := fmt.Sprintf("%s:%d", app.settings.Host, app.settings.Port)
	handler := app.handler(fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	app.logger.Info("starting server",
		zap.String("app", AppName),
		zap.String("version", Version),
		zap.String("addr", addr),
		zap.String("store", app.settings.Store),
	)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		app.logger.Info("HTTP server listening",
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Root().Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.runNgrok(ctx, handler)
		}()
	}

	select {
	case <-ctx.Done():
		app.logger.Info("shutting down")
	case err = <-serveErr:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		app.logger.Warn("HTTP server shutdown error", zap.Error(shutdownErr))
	}

	wg.Wait()
	app.logger.Info("server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func (a *application) runNgrok(ctx context.Context, handler http.Handler) {
	authToken := a.settings.NgrokAuthToken
	if authToken == "" {
		a.logger.Warn("ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if a.settings.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(a.settings.NgrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		a.logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	// http.Serve returns once the tunnel is closed
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			a.logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	a.logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("mcp", ngrokURL+"/mcp"),
	)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		a.logger.Warn("ngrok server error", zap.Error(err))
	}
	a.logger.Info("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an API server already
// listening on the configured address, or starts an internal one bound to a
// random loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	app, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.logger.Sync()
	defer app.Close()

	externalURL := fmt.Sprintf("http://%s:%d", app.settings.Host, app.settings.Port)
	baseURL := externalURL

	if !apiAvailable(ctx, externalURL) {
		app.logger.Info("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go app.hub.Run(ctx)
		go app.cleanupSessions(ctx)

		httpServer := &http.Server{Handler: app.handler(baseURL)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				app.logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()
	}

	app.logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable reports whether a QuickPlay API answers at baseURL
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
