package mocks

import (
	"context"
	"sync"

	"github.com/w3bpiyush/pustakghar/domain"
)

// MockCredentialStore implements domain.CredentialStore for testing.
// By default it behaves like an in-memory single-slot store and keeps
// an ordered journal of operations for asserting call ordering.
type MockCredentialStore struct {
	GetFunc    func(ctx context.Context) (string, error)
	SetFunc    func(ctx context.Context, token string) error
	DeleteFunc func(ctx context.Context) error

	mu      sync.Mutex
	token   string
	Journal []string
}

// NewMockCredentialStore creates a new MockCredentialStore
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{}
}

// Get implements domain.CredentialStore
func (m *MockCredentialStore) Get(ctx context.Context) (string, error) {
	m.record("get")
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// Set implements domain.CredentialStore
func (m *MockCredentialStore) Set(ctx context.Context, token string) error {
	m.record("set")
	if m.SetFunc != nil {
		return m.SetFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Delete implements domain.CredentialStore
func (m *MockCredentialStore) Delete(ctx context.Context) error {
	m.record("delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// Token returns the currently stored token
func (m *MockCredentialStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Seed stores a token directly, bypassing the journal
func (m *MockCredentialStore) Seed(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *MockCredentialStore) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Journal = append(m.Journal, op)
}

// Compile-time interface compliance verification
var _ domain.CredentialStore = (*MockCredentialStore)(nil)
