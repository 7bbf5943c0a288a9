package credentials

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/99designs/keyring"
)

// ServiceName identifies minicrm entries in the OS keyring.
const ServiceName = "minicrm"

// KeyringConfig selects the keyring backend.
type KeyringConfig struct {
	// Backend forces a backend, e.g. "file". Empty picks the platform default.
	Backend string

	// FileDir is the directory used by the file backend.
	FileDir string

	// FilePassword unlocks the file backend. Required when Backend is "file".
	FilePassword string
}

type keyringStorage struct {
	ring keyring.Keyring
}

// OpenKeyring opens the OS keyring (macOS Keychain, Secret Service, KWallet,
// Windows Credential Manager, ...) or an encrypted file store.
func OpenKeyring(cfg KeyringConfig) (Storage, error) {
	kc := keyring.Config{
		ServiceName:                    ServiceName,
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		FileDir:                        cfg.FileDir,
		FilePasswordFunc:               keyring.FixedStringPrompt(cfg.FilePassword),
	}
	if cfg.Backend != "" {
		kc.AllowedBackends = []keyring.BackendType{keyring.BackendType(cfg.Backend)}
	}

	ring, err := keyring.Open(kc)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return &keyringStorage{ring: ring}, nil
}

// NewMemory returns a Storage that keeps secrets in memory.
func NewMemory() Storage {
	return &keyringStorage{ring: keyring.NewArrayKeyring(nil)}
}

func (k *keyringStorage) Set(account, secret string) error {
	return k.ring.Set(keyring.Item{
		Key:   account,
		Data:  []byte(secret),
		Label: "minicrm - " + account,
	})
}

func (k *keyringStorage) Get(account string) (string, error) {
	item, err := k.ring.Get(account)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (k *keyringStorage) Delete(account string) error {
	err := k.ring.Remove(account)
	if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
