package credstore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/w3bpiyush/pustakghar/domain"
)

// File stores the token sealed with ChaCha20-Poly1305 in a 0600 file.
// The on-disk layout is nonce || ciphertext.
type File struct {
	path string
	aead cipher.AEAD
}

// NewFile creates a file store at path. The key is any non-empty
// passphrase; it is stretched to the cipher's key size.
func NewFile(path, key string) (*File, error) {
	if key == "" {
		return nil, fmt.Errorf("credential key must not be empty")
	}
	sum := sha256.Sum256([]byte(key))
	aead, err := chacha20poly1305.New(sum[:])
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	return &File{path: path, aead: aead}, nil
}

// Get implements domain.CredentialStore. A missing file means no
// stored token; a file that fails to unseal is an error.
func (f *File) Get(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read credential file: %w", err)
	}
	if len(data) < chacha20poly1305.NonceSize {
		return "", fmt.Errorf("credential file is truncated")
	}
	nonce, sealed := data[:chacha20poly1305.NonceSize], data[chacha20poly1305.NonceSize:]
	token, err := f.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to unseal credential: %w", err)
	}
	return string(token), nil
}

// Set implements domain.CredentialStore.
func (f *File) Set(ctx context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential dir: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := f.aead.Seal(nil, nonce, []byte(token), nil)
	if err := os.WriteFile(f.path, append(nonce, sealed...), 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

// Delete implements domain.CredentialStore. Deleting an absent file is
// a no-op.
func (f *File) Delete(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.CredentialStore = (*File)(nil)
