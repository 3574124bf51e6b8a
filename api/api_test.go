package api_test

import (
	"context"
	"testing"

	"github.com/fitroom/fitroom/api"
	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/gateway"
	"github.com/fitroom/fitroom/nav"
	"github.com/fitroom/fitroom/testutil"
)

type fixture struct {
	backend *testutil.Backend
	store   *credstore.MemoryStore
	router  *nav.Router
	auth    *api.AuthAPI
	cloth   *api.ClothAPI
}

func newFixture(t *testing.T, start string) *fixture {
	t.Helper()

	backend := testutil.NewBackend(t)
	store := credstore.NewMemoryStore()
	router := nav.NewRouter(start)

	gw, err := gateway.NewClient(gateway.Options{
		BaseURL: backend.URL(),
		Store:   store,
		Nav:     router,
	})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	return &fixture{
		backend: backend,
		store:   store,
		router:  router,
		auth:    api.NewAuthAPI(gw, store, nil),
		cloth:   api.NewClothAPI(gw, store, nil),
	}
}

func (f *fixture) login(t *testing.T, token, username string) {
	t.Helper()
	err := f.store.Save(context.Background(), credstore.Credentials{Token: token, Username: username})
	if err != nil {
		t.Fatalf("seed credentials: %v", err)
	}
}

func assertMessage(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("got nil error, want message %q", want)
	}
	if got := apperr.Message(err, ""); got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "structured message field", body: `{"message":"Email already in use"}`, want: "Email already in use"},
		{name: "json quoted string", body: `"Username taken"`, want: "Username taken"},
		{name: "raw text body", body: "backend exploded", want: "backend exploded"},
		{name: "empty body falls back", body: "", want: "failed to fetch profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nav.RouteProfile)
			f.login(t, "tok-1", "ada")
			f.backend.HandleText("GET", "/profile", 400, tt.body)

			_, err := f.auth.GetProfile(context.Background())
			assertMessage(t, err, tt.want)
		})
	}
}

func TestTransportErrorsReportUnavailable(t *testing.T) {
	f := newFixture(t, nav.RouteProfile)
	f.backend.Server.Close()

	_, err := f.auth.GetProfile(context.Background())
	if err == nil {
		t.Fatalf("got nil error")
	}
	appErr := apperr.As(err)
	if appErr == nil {
		t.Fatalf("not an apperr: %v", err)
	}
	if appErr.Code != apperr.CodeUnavailable {
		t.Fatalf("code = %q, want %q", appErr.Code, apperr.CodeUnavailable)
	}
	if appErr.Message != "failed to fetch profile" {
		t.Fatalf("message = %q", appErr.Message)
	}
}
