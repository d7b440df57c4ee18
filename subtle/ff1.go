// Package subtle provides the low-level format-preserving cipher used by opaqueid.
// This package wraps NIST SP 800-38G FF1 at radix 2, so that a byte string maps
// to a ciphertext byte string of exactly the same length, reversibly.
// It should not be used directly by most users; instead use the Codec type in
// the parent package.
package subtle

import (
	"fmt"

	"github.com/capitalone/fpe/ff1"
)

// KeySize is the required cipher key length in bytes (AES-256).
const KeySize = 32

// BinaryFF1 is an FF1 cipher over the binary alphabet. Byte strings are
// interpreted as binary numeral strings with the least significant bit of each
// byte first and bytes in little-endian order, which keeps the mapping stable
// across plaintext lengths.
//
// Thread safety: a BinaryFF1 holds no mutable state after construction and is
// safe for concurrent use by multiple goroutines.
type BinaryFF1 struct {
	cipher ff1.Cipher
}

// NewBinaryFF1 creates a BinaryFF1 keyed with an AES-256 key.
// The key must be exactly 32 bytes; keys are expected to come from a KDF,
// never raw user input.
func NewBinaryFF1(key []byte) (*BinaryFF1, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be exactly %d bytes, got %d", KeySize, len(key))
	}

	cipher, err := ff1.NewCipher(2, 0, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create FF1 cipher: %w", err)
	}

	return &BinaryFF1{cipher: cipher}, nil
}

// Encrypt maps plaintext to a ciphertext of the same length.
// FF1 rejects inputs below its minimum domain size; at radix 2 any input of
// one byte or more is accepted.
func (b *BinaryFF1) Encrypt(plaintext []byte) ([]byte, error) {
	numerals, err := b.cipher.Encrypt(toNumerals(plaintext))
	if err != nil {
		return nil, fmt.Errorf("ff1 encrypt: %w", err)
	}
	return fromNumerals(numerals, len(plaintext))
}

// Decrypt is the exact inverse of Encrypt.
func (b *BinaryFF1) Decrypt(ciphertext []byte) ([]byte, error) {
	numerals, err := b.cipher.Decrypt(toNumerals(ciphertext))
	if err != nil {
		return nil, fmt.Errorf("ff1 decrypt: %w", err)
	}
	return fromNumerals(numerals, len(ciphertext))
}

// toNumerals renders bytes as a binary numeral string, least significant bit
// of each byte first.
func toNumerals(data []byte) string {
	numerals := make([]byte, len(data)*8)
	for i, v := range data {
		for j := 0; j < 8; j++ {
			numerals[i*8+j] = '0' + (v>>j)&1
		}
	}
	return string(numerals)
}

// fromNumerals is the inverse of toNumerals. The numeral string must contain
// exactly length*8 binary digits.
func fromNumerals(numerals string, length int) ([]byte, error) {
	if len(numerals) != length*8 {
		return nil, fmt.Errorf("ff1 returned %d numerals, expected %d", len(numerals), length*8)
	}

	data := make([]byte, length)
	for i := 0; i < len(numerals); i++ {
		switch numerals[i] {
		case '1':
			data[i/8] |= 1 << (i % 8)
		case '0':
		default:
			return nil, fmt.Errorf("ff1 returned non-binary numeral %q", numerals[i])
		}
	}
	return data, nil
}
