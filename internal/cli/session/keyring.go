package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

const keyringService = "nutribattle-cli"

// KeyringStorage keeps the session in the OS keychain/credential manager.
// All entries live in one secret so a write can never leave the token
// without its user.
type KeyringStorage struct {
	account string
	mu      sync.Mutex
}

// NewKeyringStorage returns keyring storage for the given server scope
func NewKeyringStorage(scope string) *KeyringStorage {
	return &KeyringStorage{account: fmt.Sprintf("session-%s", scope)}
}

func (k *KeyringStorage) Read(key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	entries, err := k.load()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (k *KeyringStorage) WriteAll(entries map[string]string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	current, err := k.load()
	if err != nil {
		current = map[string]string{}
	}
	for key, v := range entries {
		current[key] = v
	}
	return k.save(current)
}

func (k *KeyringStorage) DeleteAll(keys ...string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	current, err := k.load()
	if err != nil {
		current = map[string]string{}
	}
	for _, key := range keys {
		delete(current, key)
	}

	if len(current) == 0 {
		if err := keyring.Delete(keyringService, k.account); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil // Already deleted
			}
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	}
	return k.save(current)
}

func (k *KeyringStorage) load() (map[string]string, error) {
	secret, err := keyring.Get(keyringService, k.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal([]byte(secret), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return entries, nil
}

func (k *KeyringStorage) save(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := keyring.Set(keyringService, k.account, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
