// Package testutil provides a scripted fake of the wardrobe backend for
// package tests, plus small JSON assertion helpers.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest captures what a handler received, for assertions on
// headers and bodies after the fact.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	Body          []byte
}

// Backend is a fake wardrobe API server. Routes are registered per
// method+path; unregistered routes answer 404.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewBackend starts a fake backend and closes it with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	backend := &Backend{handlers: map[string]http.HandlerFunc{}}
	backend.Server = httptest.NewServer(http.HandlerFunc(backend.dispatch))
	t.Cleanup(backend.Server.Close)
	return backend
}

// URL returns the backend origin.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Handle registers a handler for method and path (path without query).
func (b *Backend) Handle(method, path string, handler http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method+" "+path] = handler
}

// HandleJSON registers a handler answering a fixed JSON payload.
func (b *Backend) HandleJSON(method, path string, status int, payload any) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	})
}

// HandleText registers a handler answering a fixed plain-text body, the
// shape the backend uses for status-string responses.
func (b *Backend) HandleText(method, path string, status int, body string) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Requests returns everything received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent request, failing when none arrived.
func (b *Backend) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		t.Fatalf("no requests recorded")
	}
	return b.requests[len(b.requests)-1]
}

func (b *Backend) dispatch(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	handler, ok := b.handlers[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	handler(w, r)
}

// DecodeJSON decodes raw JSON into dst.
func DecodeJSON(t *testing.T, raw []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(raw, &dst); err != nil {
		t.Fatalf("decode json: %v", err)
	}
}
