// Package api holds the typed wrappers for the wardrobe backend's two
// resource families: account/profile operations and clothing/wardrobe
// operations. Every wrapper sends through the gateway, maps success
// payloads to typed results, and normalizes failures to apperr errors
// carrying a human-readable message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/gateway"
)

const maxErrorBody = 64 << 10

type caller struct {
	gw    *gateway.Client
	store credstore.Store
	log   *slog.Logger
}

func newCaller(gw *gateway.Client, store credstore.Store, log *slog.Logger) caller {
	if log == nil {
		log = slog.Default()
	}
	return caller{gw: gw, store: store, log: log}
}

// getJSON issues a GET and returns the raw success body.
func (c caller) get(ctx context.Context, path, fallback string) ([]byte, error) {
	req, err := c.gw.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, transportError(fallback, err)
	}
	return c.send(req, fallback)
}

// postJSON issues a POST with a JSON payload and returns the raw success
// body.
func (c caller) postJSON(ctx context.Context, path string, payload any, fallback string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, transportError(fallback, err)
	}
	req, err := c.gw.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return nil, transportError(fallback, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, fallback)
}

// send executes the request and normalizes the outcome. The gateway's 401
// interceptor has already fired by the time the response surfaces here, so
// mapping the status to an error never defeats the redirect.
func (c caller) send(req *http.Request, fallback string) ([]byte, error) {
	resp, err := c.gw.Do(req)
	if err != nil {
		return nil, transportError(fallback, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, transportError(fallback, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, responseError(resp.StatusCode, body, fallback)
	}
	return body, nil
}

// transportError wraps a failure where no usable response arrived.
func transportError(fallback string, cause error) error {
	return apperr.New(apperr.CodeUnavailable, 0, fallback, cause)
}

// responseError extracts the most specific message available: a
// structured message field first, then the raw body, then the
// operation-specific fallback.
func responseError(status int, body []byte, fallback string) error {
	message := serverMessage(body)
	if message == "" {
		message = fallback
	}
	return apperr.New(codeForStatus(status), status, message, nil)
}

func serverMessage(body []byte) string {
	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}

	var quoted string
	if err := json.Unmarshal(body, &quoted); err == nil {
		return strings.TrimSpace(quoted)
	}
	return strings.TrimSpace(string(body))
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return apperr.CodeUnauthorized
	case http.StatusForbidden:
		return apperr.CodeForbidden
	case http.StatusNotFound:
		return apperr.CodeNotFound
	default:
		if status < http.StatusInternalServerError {
			return apperr.CodeBadRequest
		}
		return apperr.CodeInternal
	}
}

// stringBody decodes a plain-text or JSON-quoted string response.
func stringBody(body []byte) string {
	var quoted string
	if err := json.Unmarshal(body, &quoted); err == nil {
		return strings.TrimSpace(quoted)
	}
	return strings.TrimSpace(string(body))
}

// requireToken loads the stored token for operations that attach the
// bearer credential themselves on top of the gateway's injection.
func (c caller) requireToken(ctx context.Context) (string, error) {
	if c.store == nil {
		return "", apperr.New(apperr.CodeUnauthorized, 0, "no authentication token found", nil)
	}
	creds, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, credstore.ErrNoCredentials) {
			return "", apperr.New(apperr.CodeUnauthorized, 0, "no authentication token found", nil)
		}
		return "", err
	}
	return creds.Token, nil
}
