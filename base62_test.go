package opaqueid

import (
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"
)

func bufferFromUint64(lo, hi uint64) [16]byte {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], lo)
	binary.LittleEndian.PutUint64(buf[8:], hi)
	return buf
}

func TestBase62KnownValues(t *testing.T) {
	testCases := []struct {
		lo, hi  uint64
		encoded string
	}{
		{0, 0, "0"},
		{1, 0, "1"},
		{9, 0, "9"},
		{10, 0, "A"},
		{35, 0, "Z"},
		{36, 0, "a"},
		{61, 0, "z"},
		{62, 0, "10"},
		{62*62 + 1, 0, "101"},
		{^uint64(0), ^uint64(0), "7n42DGM5Tflk9n8mt7Fhc7"},
	}

	for _, tc := range testCases {
		buf := bufferFromUint64(tc.lo, tc.hi)
		if got := encodeBase62(buf); got != tc.encoded {
			t.Errorf("encodeBase62(%d, %d) = %q, want %q", tc.lo, tc.hi, got, tc.encoded)
		}
		decoded, err := decodeBase62(tc.encoded)
		if err != nil {
			t.Errorf("decodeBase62(%q) failed: %v", tc.encoded, err)
			continue
		}
		if decoded != buf {
			t.Errorf("decodeBase62(%q) = %v, want %v", tc.encoded, decoded, buf)
		}
	}
}

func TestBase62RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 5000; i++ {
		buf := bufferFromUint64(rng.Uint64(), rng.Uint64())
		decoded, err := decodeBase62(encodeBase62(buf))
		if err != nil {
			t.Fatalf("round trip failed for %v: %v", buf, err)
		}
		if decoded != buf {
			t.Fatalf("round trip changed %v into %v", buf, decoded)
		}
	}
}

func TestBase62LeadingZeros(t *testing.T) {
	// Leading zero digits are redundant but valid, like "007" in decimal.
	decoded, err := decodeBase62("00z")
	if err != nil {
		t.Fatalf("decodeBase62 failed: %v", err)
	}
	if decoded != bufferFromUint64(61, 0) {
		t.Errorf("decodeBase62(\"00z\") = %v, want 61", decoded)
	}
}

func TestBase62DecodeFailures(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plus", "abc+def"},
		{"space", "abc def"},
		{"underscore", "abc_def"},
		{"unicode", "abcé"},
		{"one past max", "7n42DGM5Tflk9n8mt7Fhc8"},
		{"way past max", "zzzzzzzzzzzzzzzzzzzzzzzz"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeBase62(tc.input); !errors.Is(err, ErrDecodingFailed) {
				t.Errorf("decodeBase62(%q) error = %v, want ErrDecodingFailed", tc.input, err)
			}
		})
	}
}
