package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const DefaultPostgresTable = "fitroom_credentials"

// PostgresOptions configures a Postgres store.
type PostgresOptions struct {
	DB      *sql.DB
	Profile string
	Table   string
	Timeout time.Duration
}

// PostgresStore keeps the credential record in PostgreSQL, one row per
// named profile. Meant for shared-machine installs where several fitroom
// profiles live behind one database rather than scattered dotfiles.
type PostgresStore struct {
	DB      *sql.DB
	Profile string
	Table   string
	Timeout time.Duration
}

// NewPostgresStore builds a Postgres-backed store.
func NewPostgresStore(options PostgresOptions) (*PostgresStore, error) {
	if options.DB == nil {
		return nil, errors.New("postgres db is required")
	}
	profile := strings.TrimSpace(options.Profile)
	if profile == "" {
		profile = "default"
	}
	table := strings.TrimSpace(options.Table)
	if table == "" {
		table = DefaultPostgresTable
	}
	if !validPostgresTable(table) {
		return nil, fmt.Errorf("invalid postgres table name: %s", table)
	}

	return &PostgresStore{
		DB:      options.DB,
		Profile: profile,
		Table:   table,
		Timeout: options.Timeout,
	}, nil
}

// EnsureTable creates the credentials table if it does not exist.
func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	createTable := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		profile TEXT PRIMARY KEY,
		token TEXT NOT NULL DEFAULT '',
		username TEXT NOT NULL DEFAULT '',
		redirect_uri TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, s.Table)
	_, err := s.DB.ExecContext(ctx, createTable)
	return err
}

// Load reads the credential record for the profile.
func (s *PostgresStore) Load(ctx context.Context) (Credentials, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var creds Credentials
	query := fmt.Sprintf("SELECT token, username FROM %s WHERE profile = $1", s.Table)
	err := s.DB.QueryRowContext(ctx, query, s.Profile).Scan(&creds.Token, &creds.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return Credentials{}, err
	}
	if !creds.Complete() {
		return Credentials{}, ErrNoCredentials
	}
	return creds, nil
}

// Save upserts the credential record. Token and username land in one
// statement so no reader can see one without the other.
func (s *PostgresStore) Save(ctx context.Context, creds Credentials) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	query := fmt.Sprintf(`INSERT INTO %s (profile, token, username, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile) DO UPDATE SET
			token = EXCLUDED.token,
			username = EXCLUDED.username,
			updated_at = NOW()`, s.Table)
	_, err := s.DB.ExecContext(ctx, query, s.Profile, creds.Token, creds.Username)
	return err
}

// Clear empties the credential fields. The pending redirect URI is
// independent of login state and survives a clear.
func (s *PostgresStore) Clear(ctx context.Context) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	query := fmt.Sprintf(`UPDATE %s SET token = '', username = '', updated_at = NOW()
		WHERE profile = $1`, s.Table)
	_, err := s.DB.ExecContext(ctx, query, s.Profile)
	return err
}

// StashRedirect records the pending OAuth2 return URI.
func (s *PostgresStore) StashRedirect(ctx context.Context, uri string) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	query := fmt.Sprintf(`INSERT INTO %s (profile, redirect_uri, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (profile) DO UPDATE SET
			redirect_uri = EXCLUDED.redirect_uri,
			updated_at = NOW()`, s.Table)
	_, err := s.DB.ExecContext(ctx, query, s.Profile, uri)
	return err
}

// TakeRedirect consumes the pending OAuth2 return URI.
func (s *PostgresStore) TakeRedirect(ctx context.Context) (string, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var uri string
	query := fmt.Sprintf(`UPDATE %s SET redirect_uri = '', updated_at = NOW()
		WHERE profile = $1
		RETURNING (SELECT redirect_uri FROM %s WHERE profile = $1)`, s.Table, s.Table)
	err := s.DB.QueryRowContext(ctx, query, s.Profile).Scan(&uri)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return uri, nil
}

func (s *PostgresStore) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, s.Timeout)
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)?$`)

func validPostgresTable(name string) bool {
	return tableNamePattern.MatchString(name)
}
