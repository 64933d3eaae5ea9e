// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for martedit.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving the model API key.
//
// The package supports multiple operating systems including macOS Keychain and
// Windows Credential Manager, with thread-safe operations and proper error handling.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "martedit"

// KeyAPIKey is the keychain entry holding the model endpoint API key.
const KeyAPIKey = "model_api_key"

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return &Manager{
		ring: ring,
	}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	// If already initialized successfully, return it
	if globalManager != nil {
		return globalManager, nil
	}

	// If previous initialization failed, retry
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
// Forces use of macOS Keychain or Windows Credential Manager - no file fallback.
func openRing() (keyring.Keyring, error) {
	// Only support darwin/windows platforms
	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		return nil, errors.New("secure storage not supported on this OS (macOS/Windows only)")
	}

	// Use platform-specific native backends only
	var allowedBackends []keyring.BackendType
	if runtime.GOOS == "darwin" {
		// Try macOS Keychain first, then pass (password store) as fallback
		// Pass requires 'pass' utility installed: brew install pass
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	} else if runtime.GOOS == "windows" {
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}

	// Hint prefixes where supported to minimize namespace collisions
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}

	return ring, nil
}

// SaveAPIKey stores the model API key in the OS keychain.
// This method is thread-safe.
func (m *Manager) SaveAPIKey(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeyAPIKey, key)
	}

	return m.ring.Set(keyring.Item{Key: KeyAPIKey, Data: []byte(key)})
}

// LoadAPIKey retrieves the model API key from the keychain.
// This method is thread-safe.
func (m *Manager) LoadAPIKey() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		key, err := m.backend.Get(KeyAPIKey)
		if err != nil {
			return "", err
		}
		if key == "" {
			return "", errors.New("empty API key")
		}
		return key, nil
	}

	it, err := m.ring.Get(KeyAPIKey)
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", errors.New("empty API key")
	}
	return string(it.Data), nil
}

// ClearAPIKey removes the stored API key from the keychain.
// This method is thread-safe.
func (m *Manager) ClearAPIKey() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		_ = m.backend.Delete(KeyAPIKey)
		return nil
	}

	_ = m.ring.Remove(KeyAPIKey)
	return nil
}
