package opaqueid

import (
	"encoding/binary"
	"math/bits"
)

// base62Alphabet is the canonical alphabet: digits, then uppercase, then
// lowercase. The same ordering is applied on both encode and decode.
const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// encodeBase62 renders the packed 16-byte little-endian buffer as base62 text
// with no padding, treating the buffer as a single 128-bit integer.
func encodeBase62(buf [16]byte) string {
	lo := binary.LittleEndian.Uint64(buf[:8])
	hi := binary.LittleEndian.Uint64(buf[8:])
	if hi == 0 && lo == 0 {
		return "0"
	}

	// 128 bits need at most 22 base62 digits.
	var digits [22]byte
	i := len(digits)
	for hi != 0 || lo != 0 {
		quoHi := hi / 62
		quoLo, rem := bits.Div64(hi%62, lo, 62)
		i--
		digits[i] = base62Alphabet[rem]
		hi, lo = quoHi, quoLo
	}
	return string(digits[i:])
}

// decodeBase62 parses base62 text back into the 16-byte little-endian buffer.
// It fails with ErrDecodingFailed on an empty string, a character outside the
// alphabet, or a value that does not fit in 128 bits.
func decodeBase62(s string) ([16]byte, error) {
	var buf [16]byte
	if len(s) == 0 {
		return buf, ErrDecodingFailed
	}

	var hi, lo uint64
	for i := 0; i < len(s); i++ {
		digit := base62Index(s[i])
		if digit < 0 {
			return buf, ErrDecodingFailed
		}

		mulCarry, mulLo := bits.Mul64(lo, 62)
		overflow, mulHi := bits.Mul64(hi, 62)
		if overflow != 0 {
			return buf, ErrDecodingFailed
		}
		hi = mulHi + mulCarry
		if hi < mulHi {
			return buf, ErrDecodingFailed
		}

		var carry uint64
		lo, carry = bits.Add64(mulLo, uint64(digit), 0)
		hi, carry = bits.Add64(hi, 0, carry)
		if carry != 0 {
			return buf, ErrDecodingFailed
		}
	}

	binary.LittleEndian.PutUint64(buf[:8], lo)
	binary.LittleEndian.PutUint64(buf[8:], hi)
	return buf, nil
}

// base62Index returns the value of c in the canonical alphabet, or -1 if c is
// not part of it.
func base62Index(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36
	}
	return -1
}
