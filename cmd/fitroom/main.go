package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fitroom/fitroom/api"
	"github.com/fitroom/fitroom/config"
	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/gateway"
	"github.com/fitroom/fitroom/logging"
	"github.com/fitroom/fitroom/nav"
	"github.com/fitroom/fitroom/session"
)

const envPrefix = "FITROOM_"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "fitroom",
		Short: "Client for the fitroom virtual wardrobe service",
		Long: `fitroom talks to a virtual wardrobe backend: sign in, upload
clothing photos, browse your wardrobe, and share it with other users.

Credentials are stored encrypted on disk (or in Postgres for shared
installs) and attached to every request automatically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (JSON)")

	rootCmd.AddCommand(
		loginCmd(&configPath),
		logoutCmd(&configPath),
		registerCmd(&configPath),
		forgotPasswordCmd(&configPath),
		profileCmd(&configPath),
		passwdCmd(&configPath),
		wardrobeCmd(&configPath),
		uploadCmd(&configPath),
		shareCmd(&configPath),
		likeCmd(&configPath),
		oauth2Cmd(&configPath),
		uiCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// appContext holds everything a command needs, wired once per invocation.
type appContext struct {
	cfg     config.Config
	log     *slog.Logger
	store   credstore.Store
	router  *nav.Router
	auth    *api.AuthAPI
	cloth   *api.ClothAPI
	session *session.Manager

	db *sql.DB
}

func newApp(configPath string) (*appContext, error) {
	cfg, err := config.LoadProfile(config.Profile{
		ConfigPath:   configPath,
		EnvPrefix:    envPrefix,
		AllowMissing: configPath == "",
	})
	if err != nil {
		return nil, err
	}

	log := logging.NewLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	app := &appContext{cfg: cfg, log: log}
	if err := app.openStore(); err != nil {
		return nil, err
	}

	app.router = nav.NewRouter(nav.RouteLogin)

	gw, err := gateway.NewClient(gateway.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.HTTPTimeout,
		Store:   app.store,
		Nav:     app.router,
		Retry:   gateway.RetryOptions{MaxRetries: cfg.MaxRetries},
		Tracing: true,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	app.auth = api.NewAuthAPI(gw, app.store, log)
	app.cloth = api.NewClothAPI(gw, app.store, log)

	app.session, err = session.NewManager(session.Options{
		Store:         app.store,
		Auth:          app.auth,
		Nav:           app.router,
		Logger:        log,
		OAuth2AuthURL: cfg.OAuth2AuthURL,
		RedirectURI:   cfg.OAuth2RedirectURI,
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// openStore picks the credential backend: Postgres when a DSN is
// configured, the encrypted file otherwise.
func (a *appContext) openStore() error {
	if a.cfg.PostgresDSN != "" {
		db, err := sql.Open("pgx", a.cfg.PostgresDSN)
		if err != nil {
			return err
		}
		store, err := credstore.NewPostgresStore(credstore.PostgresOptions{
			DB:      db,
			Profile: a.cfg.Profile,
			Timeout: a.cfg.HTTPTimeout,
		})
		if err != nil {
			db.Close()
			return err
		}
		if err := store.EnsureTable(context.Background()); err != nil {
			db.Close()
			return err
		}
		a.db = db
		a.store = store
		return nil
	}

	path := a.cfg.CredentialsFile
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "fitroom", "credentials")
	}
	key := a.cfg.CredentialsKey
	if key == "" {
		a.log.Warn("no credentials key configured, using in-memory store; " +
			"the session will not survive this command")
		a.store = credstore.NewMemoryStore()
		return nil
	}

	store, err := credstore.NewFileStore(path, key)
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

func (a *appContext) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// sessionExpired reports whether the gateway bounced the command's
// request back to the login view mid-flight.
func (a *appContext) sessionExpired() bool {
	return a.router.Location() == nav.RouteLogin
}
