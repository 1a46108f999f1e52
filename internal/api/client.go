// Package api is the HTTP client for the game backend. Every authenticated
// request carries the bearer token persisted in the credential store, and any
// 401 response clears those credentials through a registered hook, no matter
// which endpoint triggered it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guessquest/client-go/internal/apperr"
	"github.com/guessquest/client-go/internal/credstore"
)

const maxResponseBytes = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      credstore.Store

	mu             sync.RWMutex
	onUnauthorized func(context.Context)
}

func New(baseURL string, timeout time.Duration, creds credstore.Store) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
	}
}

// OnUnauthorized registers the hook run whenever the backend answers 401.
// The auth gate wires its credential-clearing here.
func (c *Client) OnUnauthorized(fn func(context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) get(ctx context.Context, path string, out any, unwrap bool) error {
	return c.do(ctx, http.MethodGet, path, nil, out, unwrap)
}

func (c *Client) post(ctx context.Context, path string, body, out any, unwrap bool) error {
	return c.do(ctx, http.MethodPost, path, body, out, unwrap)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, unwrap bool) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperr.Internal("encode request body").WithCause(err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return apperr.Internal("build request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	token, err := c.creds.Get(ctx, credstore.KeyAuthToken)
	if err != nil && !errors.Is(err, credstore.ErrNotFound) {
		return apperr.Storage(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Unreachable(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperr.Unreachable(op, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn().Str("op", op).Msg("backend rejected token, clearing local credentials")
		c.mu.RLock()
		hook := c.onUnauthorized
		c.mu.RUnlock()
		if hook != nil {
			hook(ctx)
		}
		return apperr.Unauthorized(backendMessage(raw, "Authorization denied"))
	}

	if resp.StatusCode >= 400 {
		msg := backendMessage(raw, resp.Status)
		return apperr.Backend(op, fmt.Errorf("status %d: %s", resp.StatusCode, msg)).
			WithDetails(map[string]any{"status": resp.StatusCode, "message": msg})
	}

	if out == nil {
		return nil
	}

	payload := raw
	if unwrap {
		payload = unwrapData(raw)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperr.Backend(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// unwrapData peels the {"data": ...} envelope some backend responses use.
// Responses without the envelope pass through untouched.
func unwrapData(raw []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return raw
}

func backendMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fallback
}

// flexBool accepts true/false, "true"/"false", and "yes"/"no".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "true", "1":
			*b = true
		default:
			*b = false
		}
		return nil
	}

	if string(data) == "null" {
		*b = false
		return nil
	}
	return fmt.Errorf("cannot parse %s as yes/no", data)
}
