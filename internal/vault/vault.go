// Package vault encrypts OAuth tokens before they are persisted.
//
// Records have the form hex(nonce) ":" hex(ciphertext). New records use AES-256-GCM.
// Records with a 16 byte IV were written by the earlier AES-256-CBC scheme and are
// still readable so stored accounts keep working until their next token write.
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	keySize    = 32
	separator  = ":"
	legacyIVSz = aes.BlockSize
)

// ErrMalformedCiphertext is returned for any record that cannot be decoded or authenticated.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

type Vault struct {
	aead  cipher.AEAD
	block cipher.Block
	rand  io.Reader
}

// New derives the AES-256 key from secret, truncating or zero padding it to 32 bytes.
func New(secret string) (*Vault, error) {
	key := make([]byte, keySize)
	copy(key, secret)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Vault{aead: aead, block: block, rand: rand.Reader}, nil
}

// Encrypt seals plaintext with a fresh random nonce.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(v.rand, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := v.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + separator + hex.EncodeToString(sealed), nil
}

func (v *Vault) Decrypt(record string) (string, error) {
	parts := strings.Split(record, separator)
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: expected exactly one separator", ErrMalformedCiphertext)
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: invalid iv encoding", ErrMalformedCiphertext)
	}
	body, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: invalid body encoding", ErrMalformedCiphertext)
	}

	switch len(iv) {
	case v.aead.NonceSize():
		plain, err := v.aead.Open(nil, iv, body, nil)
		if err != nil {
			return "", fmt.Errorf("%w: authentication failed", ErrMalformedCiphertext)
		}
		return string(plain), nil
	case legacyIVSz:
		return v.decryptLegacy(iv, body)
	default:
		return "", fmt.Errorf("%w: unexpected iv length %d", ErrMalformedCiphertext, len(iv))
	}
}

// IsLegacy reports whether record was produced by the CBC scheme.
func IsLegacy(record string) bool {
	iv, _, ok := strings.Cut(record, separator)
	return ok && len(iv) == legacyIVSz*2
}

func (v *Vault) decryptLegacy(iv, body []byte) (string, error) {
	if len(body) == 0 || len(body)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrMalformedCiphertext)
	}
	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(v.block, iv).CryptBlocks(plain, body)

	pad := int(plain[len(plain)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(plain) {
		return "", fmt.Errorf("%w: invalid padding", ErrMalformedCiphertext)
	}
	if !bytes.Equal(plain[len(plain)-pad:], bytes.Repeat([]byte{byte(pad)}, pad)) {
		return "", fmt.Errorf("%w: invalid padding", ErrMalformedCiphertext)
	}
	return string(plain[:len(plain)-pad]), nil
}
