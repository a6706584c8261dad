// Package secret provides an AES-GCM cipher for API-key-style secrets
// stored by the quota ledger's source records.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/docdex/docdex"
	"golang.org/x/crypto/scrypt"
)

// Key derivation parameters (interactive-strength scrypt).
const (
	saltSize = 16
	keySize  = 32
	scryptN  = 1 << 15
	scryptR  = 8
	scryptP  = 1
)

// Compile-time interface verification.
var _ docdex.Cipher = (*Cipher)(nil)

// Cipher encrypts short strings with AES-256-GCM. The key is derived
// per value from the passphrase and a random salt via scrypt; the
// output encodes salt, nonce, and ciphertext together, so values are
// self-contained and the passphrase is the only secret to manage.
type Cipher struct {
	passphrase []byte
}

// NewCipher creates a Cipher from a non-empty passphrase.
func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "cipher passphrase required")
	}
	return &Cipher{passphrase: []byte(passphrase)}, nil
}

// Encrypt encrypts plaintext and returns a base64 token.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	out := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Decrypting a token produced by Encrypt with
// the same passphrase yields the original string exactly.
func (c *Cipher) Decrypt(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", docdex.Errorf(docdex.EINVALID, "malformed secret token")
	}
	if len(raw) < saltSize {
		return "", docdex.Errorf(docdex.EINVALID, "malformed secret token")
	}

	salt, rest := raw[:saltSize], raw[saltSize:]
	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	if len(rest) < gcm.NonceSize() {
		return "", docdex.Errorf(docdex.EINVALID, "malformed secret token")
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", docdex.Errorf(docdex.EINVALID, "secret token failed authentication")
	}
	return string(plaintext), nil
}

// aead builds the AES-GCM cipher for one salt.
func (c *Cipher) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(c.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
