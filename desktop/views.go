package desktop

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/fitroom/fitroom/api"
	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/nav"
)

func (s *Shell) loginView() fyne.CanvasObject {
	username := widget.NewEntry()
	username.SetPlaceHolder("Username")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	submit := widget.NewButton("Sign in", func() {
		status.SetText("")
		go func() {
			ctx := context.Background()
			token, err := s.Auth.Login(ctx, username.Text, password.Text)
			if err != nil {
				status.SetText(apperr.Message(err, "invalid username or password"))
				return
			}
			if err := s.Session.Login(ctx, token, username.Text); err != nil {
				status.SetText(apperr.Message(err, "login failed"))
				return
			}
			s.Router.Redirect(nav.RouteWardrobe)
		}()
	})

	google := widget.NewButton("Sign in with Google", func() {
		go func() {
			authURL, err := s.Session.BeginOAuth2(context.Background())
			if err != nil {
				status.SetText(apperr.Message(err, "sign-in is not available"))
				return
			}
			status.SetText("Open in your browser: " + authURL)
		}()
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("fitroom", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		username,
		password,
		submit,
		google,
		status,
	)
	return container.NewCenter(form)
}

func (s *Shell) wardrobeView() fyne.CanvasObject {
	snapshot := s.Session.Snapshot()

	heading := widget.NewLabelWithStyle(
		fmt.Sprintf("%s's wardrobe", snapshot.Username),
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	items := container.NewVBox()

	refresh := func() {
		go func() {
			overview, err := s.Cloth.Overview(context.Background())
			if err != nil && !apperr.IsUnauthorized(err) {
				status.SetText(apperr.Message(err, "failed to load wardrobe"))
			}
			items.Objects = nil
			appendCategory(items, "T-shirts", overview.Outfits.Tshirts)
			appendCategory(items, "Jeans", overview.Outfits.Jeans)
			appendCategory(items, "Skirts", overview.Outfits.Skirts)
			for _, share := range overview.SharedWithMe {
				if share.IsActive {
					items.Add(widget.NewLabel("Shared with you: " + share.OwnerUsername))
				}
			}
			items.Refresh()
		}()
	}

	logout := widget.NewButton("Log out", func() {
		go func() {
			if err := s.Session.Logout(context.Background()); err != nil {
				s.Logger.Warn("logout failed", slog.String("error", err.Error()))
			}
			s.Router.Redirect(nav.RouteLogin)
		}()
	})
	reload := widget.NewButton("Refresh", refresh)

	refresh()

	toolbar := container.NewHBox(reload, logout)
	return container.NewBorder(
		container.NewVBox(heading, toolbar, status), nil, nil, nil,
		container.NewVScroll(items),
	)
}

func appendCategory(box *fyne.Container, title string, clothes []api.Cloth) {
	if len(clothes) == 0 {
		return
	}
	box.Add(widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, cloth := range clothes {
		label := cloth.Brand
		if label == "" {
			label = "Unknown brand"
		}
		box.Add(widget.NewLabel(fmt.Sprintf("  %s, size %s", label, cloth.Size)))
	}
}
