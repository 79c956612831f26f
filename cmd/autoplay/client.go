package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/quickplay/game/service"
)

// Client drives one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client is bound to
func (c *Client) SessionID() string {
	return c.sessionID
}

// CreateSession starts a new session and binds the client to it
func (c *Client) CreateSession(ctx context.Context, req service.CreateSessionRequest) (*service.SessionInfo, error) {
	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = session.ID
	return &session, nil
}

// Resume binds the client to an existing session
func (c *Client) Resume(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	c.sessionID = sessionID
	session, err := c.GetState(ctx)
	if err != nil {
		c.sessionID = ""
		return nil, err
	}
	c.sessionID = session.ID
	return session, nil
}

func (c *Client) GetState(ctx context.Context) (*service.SessionInfo, error) {
	var session service.SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+c.sessionID, nil, &session); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &session, nil
}

func (c *Client) Restart(ctx context.Context) (*service.ActionResult, error) {
	return c.action(ctx, "restart", nil)
}

func (c *Client) Flip(ctx context.Context, index int) (*service.ActionResult, error) {
	return c.action(ctx, "memory/flip", map[string]int{"index": index})
}

func (c *Client) Move(ctx context.Context, index int) (*service.ActionResult, error) {
	return c.action(ctx, "tictactoe/move", map[string]int{"index": index})
}

func (c *Client) Select(ctx context.Context, option string) (*service.ActionResult, error) {
	return c.action(ctx, "quiz/select", map[string]string{"option": option})
}

func (c *Client) Submit(ctx context.Context) (*service.ActionResult, error) {
	return c.action(ctx, "quiz/submit", nil)
}

func (c *Client) Next(ctx context.Context) (*service.ActionResult, error) {
	return c.action(ctx, "quiz/next", nil)
}

func (c *Client) action(ctx context.Context, op string, body interface{}) (*service.ActionResult, error) {
	var result service.ActionResult
	path := fmt.Sprintf("/api/sessions/%s/%s", c.sessionID, op)
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if result.Session == nil {
		return nil, fmt.Errorf("%s: response has no session", op)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
