package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hkdf"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

const sealedPrefix = "pqd1."

var (
	// ErrNotSealed - the value was not written by a SessionCipher
	ErrNotSealed = errors.New("value is not sealed")
	// ErrSealedTooShort - the value is shorter than its nonce
	ErrSealedTooShort = errors.New("sealed value too short")
)

// SessionCipher - seals stored session values with AES-256-GCM. Each value is bound to the
// name it is stored under, so a sealed value copied to another name does not open.
type SessionCipher struct {
	aead cipher.AEAD
}

// NewSessionCipher - the AES key is derived from secret with HKDF-SHA256, any secret length is accepted
func NewSessionCipher(secret []byte) (*SessionCipher, error) {
	key, err := hkdf.Key(sha256.New, secret, nil, "pqd session", 32)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &SessionCipher{aead: aead}, nil
}

// Seal - plain encrypted for name, as "pqd1." followed by the url safe base64 of nonce and cipher text
func (c *SessionCipher) Seal(name, plain string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), []byte(name))
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open - the plain value sealed for name
func (c *SessionCipher) Open(name, sealed string) (string, error) {
	encoded, ok := strings.CutPrefix(sealed, sealedPrefix)
	if !ok {
		return "", ErrNotSealed
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(data) < c.aead.NonceSize() {
		return "", ErrSealedTooShort
	}

	nonce, cipherText := data[:c.aead.NonceSize()], data[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, cipherText, []byte(name))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
