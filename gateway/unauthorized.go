package gateway

import (
	"log/slog"
	"net/http"

	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/nav"
)

// UnauthorizedRoundTripper watches every response for 401 Unauthorized.
// Any expired or invalid token anywhere in the app then self-heals: the
// credential store is cleared and navigation moves to the login screen.
// When the navigator is already at the login screen nothing happens, so a
// rejected login attempt cannot trigger a redirect loop.
//
// The response still flows back to the caller unmodified; wrappers map it
// to their own errors after this interceptor has fired.
type UnauthorizedRoundTripper struct {
	Base      http.RoundTripper
	Store     credstore.Store
	Nav       nav.Navigator
	LoginPath string
	Logger    *slog.Logger
}

// RoundTrip executes the request and reacts to a 401 response.
func (u *UnauthorizedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := u.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	loginPath := u.LoginPath
	if loginPath == "" {
		loginPath = nav.RouteLogin
	}
	if u.Nav == nil || u.Nav.Location() == loginPath {
		return resp, nil
	}

	if u.Store != nil {
		if clearErr := u.Store.Clear(req.Context()); clearErr != nil && u.Logger != nil {
			u.Logger.Warn("clearing credentials after 401 failed",
				slog.String("path", req.URL.Path),
				slog.String("error", clearErr.Error()))
		}
	}
	if u.Logger != nil {
		u.Logger.Info("session expired, redirecting to login",
			slog.String("path", req.URL.Path))
	}
	u.Nav.Redirect(loginPath)

	return resp, nil
}
