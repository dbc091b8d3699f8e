// Package secrets keeps the monitor's credentials encrypted at rest: the
// admin PIN gating lock/unlock actions and the Aqara client secret. The
// passphrase is generated on first use and held next to the store.
package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"boothmon/internal/fsutil"
	"boothmon/internal/logging"
)

// Well-known secret names used by the dashboard.
const (
	NameAdminPIN    = "admin_pin"
	NameAqaraSecret = "aqara_client_secret"
)

// StoreConfig holds filesystem locations for the secret store.
type StoreConfig struct {
	Dir            string
	PassphraseFile string
}

// DefaultStoreConfig returns the default store location under the state dir.
func DefaultStoreConfig() StoreConfig {
	stateDir := fsutil.GetStateDir(fsutil.DefaultStateDir)
	return StoreConfig{
		Dir:            filepath.Join(stateDir, "secrets"),
		PassphraseFile: filepath.Join(stateDir, ".passphrase"),
	}
}

// Store persists named secrets as individual encrypted files.
type Store struct {
	config StoreConfig
	key    *[KeySize]byte
	logger *logging.Logger
}

// NewStore opens (or initializes) a secret store.
func NewStore(config StoreConfig, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(config.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create secrets directory: %w", err)
	}

	passphrase, err := loadOrGeneratePassphrase(config.PassphraseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load passphrase: %w", err)
	}

	key := DeriveKey(passphrase)

	return &Store{
		config: config,
		key:    &key,
		logger: logger,
	}, nil
}

// Set stores an encrypted secret under a name.
func (s *Store) Set(name string, value []byte) error {
	encrypted, err := Encrypt(value, s.key)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	if err := os.WriteFile(s.path(name), encrypted, 0o600); err != nil {
		return fmt.Errorf("failed to write secret: %w", err)
	}

	s.logger.Info("secrets.stored", "Secret stored", map[string]interface{}{
		"name": name,
	})
	return nil
}

// Get retrieves and decrypts a secret.
func (s *Store) Get(name string) ([]byte, error) {
	encrypted, err := os.ReadFile(s.path(name)) // #nosec G304 -- path is constructed from the controlled secrets dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("secret not found: %s", name)
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	decrypted, err := Decrypt(encrypted, s.key)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return decrypted, nil
}

// Delete removes a secret.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("secret not found: %s", name)
		}
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	s.logger.Info("secrets.deleted", "Secret deleted", map[string]interface{}{
		"name": name,
	})
	return nil
}

// List returns the names of all stored secrets.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".enc") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".enc"))
	}
	return names, nil
}

// SetPIN stores the admin PIN.
func (s *Store) SetPIN(pin string) error {
	return s.Set(NameAdminPIN, []byte(pin))
}

// VerifyPIN compares a PIN attempt against the stored one in constant
// time. A store without a PIN rejects every attempt.
func (s *Store) VerifyPIN(attempt string) bool {
	stored, err := s.Get(NameAdminPIN)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(stored, []byte(attempt)) == 1
}

// HasPIN reports whether an admin PIN is configured.
func (s *Store) HasPIN() bool {
	_, err := s.Get(NameAdminPIN)
	return err == nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.config.Dir, name+".enc")
}

// loadOrGeneratePassphrase loads the passphrase file or generates one.
func loadOrGeneratePassphrase(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is from config
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read passphrase file: %w", err)
	}

	passphrase, err := generatePassphrase()
	if err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create passphrase directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(passphrase), 0o600); err != nil {
		return "", fmt.Errorf("failed to write passphrase: %w", err)
	}

	return passphrase, nil
}

func generatePassphrase() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", bytes), nil
}
