package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const keySize = 32

var (
	// ErrDecrypt marks corrupted, truncated, or foreign ciphertext. Callers
	// treat it as "no stored value", never as a fatal condition.
	ErrDecrypt = errors.New("decryption failed")
	// ErrKeySize indicates key material of the wrong length.
	ErrKeySize = errors.New("encryption key must be 32 bytes")
)

// DeriveKey stretches arbitrary key material (typically a device profile
// fingerprint) into an AES-256 key. The material is not secret in the
// device-profile case; the KDF only normalizes it, it does not add
// entropy. See the package trust model in loginguard's doc.go.
func DeriveKey(material string, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = 4096
	}
	return pbkdf2.Key([]byte(material), salt, iterations, keySize, sha256.New)
}

// Encrypt seals plaintext with AES-256-GCM under key and returns a
// base64 envelope of nonce||ciphertext.
func Encrypt(plaintext string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a base64 envelope produced by Encrypt. Any malformed
// input, wrong key, or authentication failure returns ErrDecrypt.
func Decrypt(ciphertext string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("%w: envelope too short", ErrDecrypt)
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(plain), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, ErrKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
