package opaqueid

import (
	"errors"
	"fmt"
)

// Decode failures form a closed set: every way a token can fail to decode
// maps to exactly one of these values or to one of the structured error types
// below. All of them are recoverable; Decode never panics on input, however
// adversarial.
var (
	// ErrDecodingFailed reports base62 text containing characters outside the
	// alphabet, an empty digit string, or a value beyond 128 bits.
	ErrDecodingFailed = errors.New("decoding string failed")

	// ErrDecryptionFailed reports that the FF1 primitive rejected the ciphertext.
	ErrDecryptionFailed = errors.New("ff1 decryption failed")

	// ErrEncryptionFailed reports that the FF1 primitive rejected a plaintext.
	// With a valid Config this is unreachable; it indicates an internal defect
	// and is only ever surfaced from New.
	ErrEncryptionFailed = errors.New("ff1 encryption failed")

	// ErrIncorrectMAC reports an integrity check failure: tampering or a wrong
	// key. Which byte differed is never disclosed.
	ErrIncorrectMAC = errors.New("incorrect MAC")

	// ErrInvalidDataLength reports a packed payload outside the length range
	// the codec configuration can produce.
	ErrInvalidDataLength = errors.New("invalid data length")
)

// Configuration errors, reported when a Config is validated. They are never
// deferred into Encode or Decode.
var (
	// ErrInvalidMACLength reports an HMACLength outside [0, 8].
	ErrInvalidMACLength = errors.New("hmac length must be between 0 and 8")

	// ErrInvalidZeroPadLength reports a ZeroPadLength outside [0, 8].
	ErrInvalidZeroPadLength = errors.New("zero pad length must be between 0 and 8")

	// ErrLengthOverflow reports an HMACLength/ZeroPadLength combination whose
	// worst-case payload would not fit the 16-byte packed domain.
	ErrLengthOverflow = errors.New("combined hmac and zero pad lengths overflow the 16-byte packed domain")

	// ErrAmbiguousLengths reports a combination where only some payloads fill
	// the 16-byte domain, leaving those payloads no room for the sentinel that
	// decoding would require.
	ErrAmbiguousLengths = errors.New("hmac and zero pad lengths must either fill the 16-byte packed domain together or leave room for the sentinel")

	// ErrNoGlobalConfig reports Field use before SetGlobal.
	ErrNoGlobalConfig = errors.New("global configuration is not set")
)

// InvalidPrefixError reports a token whose leading substring does not match
// the codec's expected "<name>_" prefix. Received carries the actual leading
// substring, which makes wrong-codec and truncated input easy to diagnose.
type InvalidPrefixError struct {
	Received string
	Expected string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("prefix was %q, expected %q", e.Received, e.Expected)
}

// SentinelMismatchError reports a malformed packed buffer: the highest
// non-zero byte was not the sentinel constant.
type SentinelMismatchError struct {
	Received byte
	Expected byte
}

func (e *SentinelMismatchError) Error() string {
	return fmt.Sprintf("sentinel byte was %d, expected %d", e.Received, e.Expected)
}
