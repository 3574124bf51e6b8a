// Package nav models the application's navigation surface: the single
// "current location" that pages read and the gateway's unauthorized
// handler rewrites. Views subscribe to location changes instead of
// polling a global.
package nav

import "sync"

// Well-known routes.
const (
	RouteHome            = "/"
	RouteLogin           = "/login"
	RouteWardrobe        = "/wardrobe"
	RouteProfile         = "/profile"
	RouteCompleteProfile = "/complete-profile"
	RouteForgotPassword  = "/forgot-password"
)

// Navigator exposes the current location and a way to move it.
type Navigator interface {
	Location() string
	Redirect(path string)
}

// Router is a concurrency-safe Navigator with change subscriptions.
type Router struct {
	mu       sync.RWMutex
	location string
	subs     []func(path string)
}

// NewRouter creates a Router at the given starting location.
func NewRouter(start string) *Router {
	if start == "" {
		start = RouteHome
	}
	return &Router{location: start}
}

// Location returns the current path, without query parameters.
func (r *Router) Location() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return stripQuery(r.location)
}

// FullLocation returns the current path including query parameters.
func (r *Router) FullLocation() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.location
}

// Redirect moves to path and notifies subscribers. Redirecting to the
// current location is a no-op so a 401 on the login page cannot loop.
func (r *Router) Redirect(path string) {
	r.mu.Lock()
	if stripQuery(r.location) == stripQuery(path) {
		r.mu.Unlock()
		return
	}
	r.location = path
	subs := make([]func(string), len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, sub := range subs {
		sub(path)
	}
}

// Subscribe registers a callback invoked after every location change.
func (r *Router) Subscribe(fn func(path string)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

func stripQuery(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '?' {
			return path[:i]
		}
	}
	return path
}
