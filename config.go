package opaqueid

import "sync"

// Default lengths used by NewConfig. An HMAC of 4 bytes is large enough to
// make guessing impractical while keeping tokens short; a zero pad of 4 bytes
// is large enough that most applications never see tokens grow as their IDs
// do. High security applications may want larger values.
const (
	DefaultHMACLength    = 4
	DefaultZeroPadLength = 4
)

// Config holds the master key and tuning parameters for building codecs.
//
// Security note: the key must be a secure random value with sufficient
// entropy, and must be managed appropriately by the caller. The zero value is
// not usable; start from NewConfig.
type Config struct {
	// Key is the caller-owned master secret, of arbitrary length. Per-codec
	// subkeys are derived from it with HKDF, so one master key safely serves
	// many codec names.
	Key []byte

	// HMACLength is the number of truncated MAC bytes appended to each
	// ciphertext, between 0 and 8. With 0, tokens carry no integrity
	// protection and decoding is obfuscation only.
	HMACLength int

	// ZeroPadLength is the minimum plaintext length in bytes, between 0 and 8.
	// Padding small numbers up to it trades token length for a larger cipher
	// domain.
	ZeroPadLength int
}

// NewConfig returns a Config with the given master key and default lengths.
func NewConfig(key []byte) *Config {
	return &Config{
		Key:           key,
		HMACLength:    DefaultHMACLength,
		ZeroPadLength: DefaultZeroPadLength,
	}
}

// Validate checks the length bounds and rejects any combination whose
// worst-case payload (8 ciphertext bytes for the largest representable number
// plus the tag) would not fit the 16-byte packed domain. New calls this, so
// invalid configurations fail at construction, never inside Encode or Decode.
func (c *Config) Validate() error {
	if c.HMACLength < 0 || c.HMACLength > 8 {
		return ErrInvalidMACLength
	}
	if c.ZeroPadLength < 0 || c.ZeroPadLength > 8 {
		return ErrInvalidZeroPadLength
	}
	maxPlaintext := 8
	if c.ZeroPadLength > maxPlaintext {
		maxPlaintext = c.ZeroPadLength
	}
	if maxPlaintext+c.HMACLength > maxBuffer {
		return ErrLengthOverflow
	}
	// A full 16-byte payload carries no sentinel. With HMACLength 8 and
	// ZeroPadLength under 8 only large numbers fill the buffer, and their
	// tokens could not be decoded again.
	if maxPlaintext+c.HMACLength == maxBuffer && c.HMACLength+c.ZeroPadLength < maxBuffer {
		return ErrAmbiguousLengths
	}
	return nil
}

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// SetGlobal installs the process-wide configuration consumed by Field codecs.
// It must be called once at startup, before any Field is serialized: codecs
// built from an earlier configuration stay cached under their name. The core
// Codec API never reads the global value; it always takes an explicit Config.
func SetGlobal(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	globalMu.Lock()
	globalConfig = config
	globalMu.Unlock()
	return nil
}

// Global returns the process-wide configuration, or nil if SetGlobal has not
// been called.
func Global() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}
