package credstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	fileSaltSize = 16
	fileKeySize  = chacha20poly1305.KeySize

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// FileStore persists credentials in a single encrypted file. The token is
// sealed with XChaCha20-Poly1305 under a key derived from a passphrase, so
// a synced or backed-up home directory never exposes it in the clear.
//
// Writes go through a temp file and rename, so readers observe either the
// previous record or the new one, never a torn state. The pending OAuth2
// return URI lives in a plaintext sidecar next to the credentials file; it
// carries no secret.
type FileStore struct {
	Path       string
	Passphrase string

	mu sync.Mutex
}

// NewFileStore creates a file-backed store.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credentials file path is required")
	}
	if passphrase == "" {
		return nil, errors.New("credentials passphrase is required")
	}
	return &FileStore{Path: path, Passphrase: passphrase}, nil
}

// Load reads and decrypts the stored record. A missing, corrupt, or
// undecryptable file all report ErrNoCredentials: the session layer treats
// every one of those as logged out.
func (s *FileStore) Load(ctx context.Context) (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, err
	}

	creds, err := decryptCredentials(raw, s.Passphrase)
	if err != nil {
		return Credentials{}, ErrNoCredentials
	}
	if !creds.Complete() {
		return Credentials{}, ErrNoCredentials
	}
	return creds, nil
}

// Save encrypts and writes the record atomically.
func (s *FileStore) Save(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := encryptCredentials(creds, s.Passphrase)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".credentials-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.Path)
}

// Clear removes the credentials file.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// StashRedirect records the pending OAuth2 return URI.
func (s *FileStore) StashRedirect(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.redirectPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(uri), 0o600)
}

// TakeRedirect consumes the pending OAuth2 return URI.
func (s *FileStore) TakeRedirect(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.redirectPath()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	return string(raw), nil
}

func (s *FileStore) redirectPath() string {
	return s.Path + ".redirect"
}

func encryptCredentials(creds Credentials, passphrase string) ([]byte, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, fileSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(payload)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, payload, nil), nil
}

func decryptCredentials(raw []byte, passphrase string) (Credentials, error) {
	var creds Credentials
	if len(raw) < fileSaltSize+chacha20poly1305.NonceSizeX {
		return creds, fmt.Errorf("credentials file too short")
	}

	salt := raw[:fileSaltSize]
	nonce := raw[fileSaltSize : fileSaltSize+chacha20poly1305.NonceSizeX]
	sealed := raw[fileSaltSize+chacha20poly1305.NonceSizeX:]

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return creds, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return creds, err
	}
	payload, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return creds, err
	}
	if err := json.Unmarshal(payload, &creds); err != nil {
		return creds, err
	}
	return creds, nil
}

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, fileKeySize)
}
