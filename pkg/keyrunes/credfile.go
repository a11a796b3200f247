package keyrunes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/keyrunes/keyrunes-go/pkg/cryptox"
)

// FileStore persists a remembered session credential between process runs,
// sealed with a passphrase-derived key. It exists for single-caller usage
// such as a CLI that logs in once and reuses the session later.
//
// FileStore is not part of the gate path: per-request
// credentials for concurrently handled requests are threaded explicitly and
// never persisted.
type FileStore struct {
	path       string
	passphrase []byte
}

// ErrNoSession reports that no remembered session exists at the store path.
var ErrNoSession = errors.New("keyrunes: no remembered session")

// NewFileStore creates a store writing to path. The passphrase seals the
// credential at rest.
func NewFileStore(path, passphrase string) *FileStore {
	return &FileStore{path: filepath.Clean(path), passphrase: []byte(passphrase)}
}

// Save seals and writes the credential, creating parent directories as
// needed. The file is written 0600.
func (s *FileStore) Save(cred Credential) error {
	plaintext, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encoding credential: %w", err)
	}

	sealed, err := cryptox.Seal(s.passphrase, plaintext)
	if err != nil {
		return fmt.Errorf("sealing credential: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.path, sealed, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Load reads and unseals the remembered credential. Returns ErrNoSession when
// the file does not exist.
func (s *FileStore) Load() (Credential, error) {
	sealed, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credential{}, ErrNoSession
		}
		return Credential{}, fmt.Errorf("reading session file: %w", err)
	}

	plaintext, err := cryptox.Open(s.passphrase, sealed)
	if err != nil {
		return Credential{}, fmt.Errorf("unsealing credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		return Credential{}, fmt.Errorf("decoding credential: %w", err)
	}
	return cred, nil
}

// Delete removes the remembered session. Deleting an absent session is not an
// error.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
