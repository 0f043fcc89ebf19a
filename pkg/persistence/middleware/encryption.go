package middleware

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/healthcalc/calcchain/pkg/ports"
)

// envelopePrefix marks values written by the encryption middleware.
var envelopePrefix = []byte("enc:v1:")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.KeyValueStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts values using
// AES-GCM. The storage key is bound as additional data, so a ciphertext copied
// under another key fails to decrypt.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.KeyValueStore) ports.KeyValueStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Set(ctx context.Context, key string, value []byte) error {
	ciphertext, err := encrypt(value, m.config.ActiveKey, []byte(key))
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	envelope := make([]byte, 0, len(envelopePrefix)+base64.StdEncoding.EncodedLen(len(ciphertext)))
	envelope = append(envelope, envelopePrefix...)
	envelope = base64.StdEncoding.AppendEncode(envelope, ciphertext)
	return m.next.Set(ctx, key, envelope)
}

func (m *encryptionMiddleware) Get(ctx context.Context, key string) ([]byte, error) {
	envelope, err := m.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Fail secure: plaintext left over from before encryption was enabled is rejected.
	encoded, ok := bytes.CutPrefix(envelope, envelopePrefix)
	if !ok {
		return nil, errors.New("value is missing encrypted data envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plain, err := decryptWithRotation(ciphertext, []byte(key), m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt value: %w", err)
	}
	return plain, nil
}

func (m *encryptionMiddleware) Remove(ctx context.Context, key string) error {
	return m.next.Remove(ctx, key)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return list(ctx, m.next)
}

// Helpers

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plaintext, key, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, aad), nil
}

func decryptWithRotation(ciphertext, aad, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey, aad); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key, aad); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext, key, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], aad)
}
