// Package credstore provides implementations of domain.CredentialStore:
// an in-memory slot, an encrypted file (the CLI's stand-in for the
// device keystore) and a Redis-backed slot.
package credstore

import (
	"context"
	"sync"

	"github.com/w3bpiyush/pustakghar/domain"
)

// Memory is an in-process single-slot store, used by tests and demos.
type Memory struct {
	mu    sync.Mutex
	token string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get implements domain.CredentialStore.
func (m *Memory) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// Set implements domain.CredentialStore.
func (m *Memory) Set(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Delete implements domain.CredentialStore.
func (m *Memory) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// Compile-time interface compliance verification
var _ domain.CredentialStore = (*Memory)(nil)
