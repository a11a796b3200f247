package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for passphrase key derivation. These follow the
// OWASP-recommended minimums (19 MiB, 2 iterations, 1 lane).
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

// ErrCorrupt reports a sealed blob that is too short or fails authentication.
// A wrong passphrase is indistinguishable from tampering and also reports
// ErrCorrupt.
var ErrCorrupt = errors.New("cryptox: sealed data corrupt or wrong passphrase")

// Seal encrypts plaintext under a key derived from passphrase using Argon2id
// and AES-256-GCM. The output layout is [16-byte salt][12-byte nonce][ciphertext].
// A fresh random salt and nonce are generated per call.
func Seal(passphrase, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	gcm, err := aead(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	out := make([]byte, 0, saltLength+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Open decrypts data produced by Seal with the same passphrase.
func Open(passphrase, sealed []byte) ([]byte, error) {
	if len(sealed) < saltLength {
		return nil, ErrCorrupt
	}
	salt, rest := sealed[:saltLength], sealed[saltLength:]

	gcm, err := aead(passphrase, salt)
	if err != nil {
		return nil, err
	}

	if len(rest) < gcm.NonceSize() {
		return nil, ErrCorrupt
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCorrupt
	}
	return plaintext, nil
}

func aead(passphrase, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(passphrase, salt, iterations, memory, parallelism, keyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return gcm, nil
}
