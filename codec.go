package opaqueid

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/vdparikh/opaqueid/subtle"
)

const (
	// maxBuffer is the packed domain: 16 bytes, the most that can be rendered
	// as a single base62 value.
	maxBuffer = 16

	// sentinel marks the end of the payload when it does not fill the full
	// 16 bytes. Decoding requires the highest non-zero byte to equal it.
	sentinel = 1

	// uuidHMACLength and uuidZeroPadLength are the fixed lengths used by the
	// UUID form: 8 tag bytes plus 8 plaintext bytes always fill the buffer,
	// so UUID tokens never carry a sentinel.
	uuidHMACLength    = 8
	uuidZeroPadLength = 8
)

// Codec encodes and decodes 64-bit IDs for one named object type.
//
// A Codec is immutable once constructed and safe for concurrent use by any
// number of goroutines; all operations are synchronous, CPU-bound and free of
// side effects.
type Codec struct {
	cipher        *subtle.BinaryFF1
	macKey        []byte
	hmacLength    int
	zeroPadLength int
	prefix        string
}

// New creates a Codec for the given name and configuration.
//
// The name becomes the token prefix "<name>_" and is mixed into key
// derivation, so codecs with different names built from the same master key
// are cryptographically independent: compromising tokens issued under one
// name does not help forge tokens under another.
//
// The configuration is validated here; New also runs the cipher over the
// shortest and longest plaintexts this codec can produce, so that Encode has
// no error path afterwards.
func New(name string, config *Config) (*Codec, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cipherKey, err := deriveSubkey(config.Key, name+"/ff1")
	if err != nil {
		return nil, err
	}
	macKey, err := deriveSubkey(config.Key, name+"/hmac")
	if err != nil {
		return nil, err
	}

	cipher, err := subtle.NewBinaryFF1(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	codec := &Codec{
		cipher:        cipher,
		macKey:        macKey,
		hmacLength:    config.HMACLength,
		zeroPadLength: config.ZeroPadLength,
		prefix:        name + "_",
	}

	// Probe the plaintext length extremes once so primitive rejection is a
	// construction error, never a deferred one.
	for _, n := range []uint64{0, ^uint64(0)} {
		if _, err := cipher.Encrypt(numToLE(n, config.ZeroPadLength)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
		}
	}

	return codec, nil
}

// deriveSubkey expands the master key into a 32-byte subkey for the given
// label using HKDF-SHA256 with no salt. Failure here is an internal defect,
// not a caller-facing condition: 32-byte outputs are always valid.
func deriveSubkey(masterKey []byte, label string) ([]byte, error) {
	prk := hkdf.Extract(sha256.New, masterKey, nil)
	subkey := make([]byte, subtle.KeySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, []byte(label)), subkey); err != nil {
		return nil, fmt.Errorf("hkdf expand %q: %w", label, err)
	}
	return subkey, nil
}

// Encode converts n into an opaque token of the form "<name>_<base62>".
// It is a pure function of the codec and n, with no error path.
func (c *Codec) Encode(n uint64) string {
	payload := c.encryptNumber(n, c.hmacLength, c.zeroPadLength)

	var buf [maxBuffer]byte
	copy(buf[:], payload)
	if len(payload) < maxBuffer {
		buf[len(payload)] = sentinel
	}
	return c.prefix + encodeBase62(buf)
}

// EncodeUUID converts n into a UUID. The UUID form always uses an 8-byte tag
// and 8 plaintext bytes regardless of the codec configuration, filling all
// 16 bytes for a uniformly random-looking value.
func (c *Codec) EncodeUUID(n uint64) uuid.UUID {
	var u uuid.UUID
	copy(u[:], c.encryptNumber(n, uuidHMACLength, uuidZeroPadLength))
	return u
}

// Decode recovers the ID a token was encoded from. Checks run in order and
// short-circuit: prefix, base62 parse, sentinel, payload length bounds, MAC
// verification, decryption. Each failure is one terminal error from the
// package taxonomy; no stage is retried.
func (c *Codec) Decode(token string) (uint64, error) {
	received := ""
	if i := strings.LastIndexByte(token, '_'); i >= 0 {
		received = token[:i+1]
	}
	if received != c.prefix {
		return 0, &InvalidPrefixError{Received: received, Expected: c.prefix}
	}

	buf, err := decodeBase62(token[len(c.prefix):])
	if err != nil {
		return 0, err
	}

	length := maxBuffer
	if c.hmacLength+c.zeroPadLength < maxBuffer {
		length = lastNonzero(buf[:])
		if buf[length] != sentinel {
			return 0, &SentinelMismatchError{Received: buf[length], Expected: sentinel}
		}
	}

	return c.decryptNumber(buf[:length], c.hmacLength, c.zeroPadLength)
}

// DecodeUUID recovers the ID from a UUID produced by EncodeUUID, using the
// same fixed lengths and the same verify-then-decrypt pipeline.
func (c *Codec) DecodeUUID(u uuid.UUID) (uint64, error) {
	return c.decryptNumber(u[:], uuidHMACLength, uuidZeroPadLength)
}

// encryptNumber builds the packed payload: the number's little-endian bytes,
// padded to at least zeroPadLength, encrypted in place by FF1, with the
// truncated tag appended.
func (c *Codec) encryptNumber(n uint64, hmacLength, zeroPadLength int) []byte {
	ciphertext, err := c.cipher.Encrypt(numToLE(n, zeroPadLength))
	if err != nil {
		// New probed every length this codec can produce.
		panic("opaqueid: ff1 rejected plaintext: " + err.Error())
	}
	tag := c.tag(ciphertext)
	return append(ciphertext, tag[:hmacLength]...)
}

// decryptNumber verifies and decrypts a packed payload. Payload lengths are
// bounded on both sides before any cryptographic work: below
// hmacLength+zeroPadLength nothing legitimate fits, and above 8+hmacLength
// the plaintext could not have come from a 64-bit number.
func (c *Codec) decryptNumber(payload []byte, hmacLength, zeroPadLength int) (uint64, error) {
	if len(payload) < hmacLength+zeroPadLength || len(payload) > 8+hmacLength {
		return 0, ErrInvalidDataLength
	}

	split := len(payload) - hmacLength
	ciphertext, receivedTag := payload[:split], payload[split:]

	tag := c.tag(ciphertext)
	if !hmac.Equal(tag[:hmacLength], receivedTag) {
		return 0, ErrIncorrectMAC
	}

	plaintext, err := c.cipher.Decrypt(ciphertext)
	if err != nil {
		return 0, ErrDecryptionFailed
	}
	return leToNum(plaintext), nil
}

// tag computes the full HMAC-SHA256 of the ciphertext; callers truncate.
func (c *Codec) tag(ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

// lastNonzero returns the index of the highest non-zero byte, or 0 when all
// bytes are zero.
func lastNonzero(data []byte) int {
	for i := len(data) - 1; i > 0; i-- {
		if data[i] != 0 {
			return i
		}
	}
	return 0
}

// numToLE returns n in little-endian order, trimmed to its shortest
// representation but never below minLength bytes (and never below one).
func numToLE(n uint64, minLength int) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	length := len(b)
	for length > 1 && b[length-1] == 0 {
		length--
	}
	if length < minLength {
		length = minLength
	}
	return b[:length]
}

// leToNum zero-extends up to 8 little-endian bytes back into a uint64.
// decryptNumber's length bounds guarantee the slice fits.
func leToNum(data []byte) uint64 {
	var b [8]byte
	copy(b[:], data)
	return binary.LittleEndian.Uint64(b[:])
}
