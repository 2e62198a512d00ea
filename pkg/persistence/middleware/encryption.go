package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
)

// envelopeKey marks an encrypted cache entry in the stored snapshot.
const envelopeKey = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are old keys tried when decryption with ActiveKey fails,
	// so keys can be rotated without losing stored workspaces.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.WorkspaceStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts every cached tool state
// with AES-GCM. The layout and focus stay readable so stores can still be inspected.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.WorkspaceStore) ports.WorkspaceStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, workspaceID string, snap *domain.Snapshot) error {
	sealed := snap.Clone()
	sealed.Cache = make(domain.StateCache, len(snap.Cache))
	for key, value := range snap.Cache {
		plainText, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal cache entry %q: %w", key, err)
		}
		ciphertext, err := encrypt(plainText, m.config.ActiveKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt cache entry %q: %w", key, err)
		}
		sealed.Cache[key] = map[string]any{
			envelopeKey: base64.StdEncoding.EncodeToString(ciphertext),
		}
	}
	return m.next.Save(ctx, workspaceID, sealed)
}

// Load fails on cache entries that are not encrypted.
func (m *encryptionMiddleware) Load(ctx context.Context, workspaceID string) (*domain.Snapshot, error) {
	sealed, err := m.next.Load(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	snap := sealed.Clone()
	snap.Cache = make(domain.StateCache, len(sealed.Cache))
	for key, value := range sealed.Cache {
		envelope, ok := value.(map[string]any)
		encoded, _ := envelope[envelopeKey].(string)
		if !ok || encoded == "" {
			return nil, fmt.Errorf("cache entry %q is missing its encrypted envelope", key)
		}

		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
		}
		plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt cache entry %q: %w", key, err)
		}

		var state any
		if err := json.Unmarshal(plainText, &state); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decrypted cache entry %q: %w", key, err)
		}
		snap.Cache[key] = state
	}
	return snap, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, workspaceID string) error {
	return m.next.Delete(ctx, workspaceID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
