package main

import (
	"github.com/spf13/cobra"

	"github.com/fitroom/fitroom/desktop"
)

func uiCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			shell := &desktop.Shell{
				Session: app.session,
				Auth:    app.auth,
				Cloth:   app.cloth,
				Router:  app.router,
				Logger:  app.log,
			}
			shell.Run()
			return nil
		},
	}
}
