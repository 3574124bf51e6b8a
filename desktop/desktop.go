// Package desktop is the Fyne shell around the session manager and API
// wrappers. It renders whichever view the router points at; all state
// transitions happen in the session layer, never in widgets.
package desktop

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/fitroom/fitroom/api"
	"github.com/fitroom/fitroom/nav"
	"github.com/fitroom/fitroom/session"
)

// Shell wires the window to the router and session manager.
type Shell struct {
	Session *session.Manager
	Auth    *api.AuthAPI
	Cloth   *api.ClothAPI
	Router  *nav.Router
	Logger  *slog.Logger

	window fyne.Window
}

// Run opens the main window, resolves the startup session state, and
// blocks until the window closes.
func (s *Shell) Run() {
	a := app.New()
	s.window = a.NewWindow("fitroom")
	s.window.Resize(fyne.NewSize(720, 520))

	s.Router.Subscribe(func(path string) {
		s.render()
	})

	s.window.SetContent(container.NewCenter(widget.NewLabel("Checking session…")))

	go func() {
		snapshot := s.Session.Start(context.Background())
		if snapshot.Authenticated() {
			s.Router.Redirect(nav.RouteWardrobe)
		} else {
			s.Router.Redirect(nav.RouteLogin)
		}
	}()

	s.window.ShowAndRun()
}

func (s *Shell) render() {
	switch s.Router.Location() {
	case nav.RouteLogin:
		s.window.SetContent(s.loginView())
	case nav.RouteHome, nav.RouteWardrobe:
		s.window.SetContent(s.wardrobeView())
	default:
		s.window.SetContent(s.loginView())
	}
}
