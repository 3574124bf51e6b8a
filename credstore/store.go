package credstore

import (
	"context"
	"errors"
)

// ErrNoCredentials indicates no complete credential record is stored.
// A record missing either field is reported the same way, so a partial
// write can never be observed as a logged-in state.
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is the persisted credential record: the bearer token and the
// username it was issued for. The two always travel together.
type Credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Complete reports whether both fields are present.
func (c Credentials) Complete() bool {
	return c.Token != "" && c.Username != ""
}

// Store persists the credential record plus the ephemeral OAuth2 return
// URI written before handing off to an external identity provider.
//
// Load returns ErrNoCredentials when nothing usable is stored. Save and
// Clear are atomic from the caller's perspective: readers see either the
// full record or nothing.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error

	StashRedirect(ctx context.Context, uri string) error
	TakeRedirect(ctx context.Context) (string, error)
}
