package credstore

import (
	"database/sql"
	"testing"
)

func TestNewPostgresStoreDefaults(t *testing.T) {
	store, err := NewPostgresStore(PostgresOptions{DB: &sql.DB{}})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if store.Profile != "default" {
		t.Fatalf("profile = %q", store.Profile)
	}
	if store.Table != DefaultPostgresTable {
		t.Fatalf("table = %q", store.Table)
	}
}

func TestNewPostgresStoreRejectsBadOptions(t *testing.T) {
	if _, err := NewPostgresStore(PostgresOptions{}); err == nil {
		t.Fatalf("missing db accepted")
	}
	if _, err := NewPostgresStore(PostgresOptions{DB: &sql.DB{}, Table: "users; DROP TABLE"}); err == nil {
		t.Fatalf("malicious table name accepted")
	}
}

func TestValidPostgresTable(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"fitroom_credentials", true},
		{"app.fitroom_credentials", true},
		{"Creds_2", true},
		{"", false},
		{"creds; --", false},
		{"a.b.c", false},
	}
	for _, tt := range tests {
		if got := validPostgresTable(tt.name); got != tt.valid {
			t.Fatalf("validPostgresTable(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}
