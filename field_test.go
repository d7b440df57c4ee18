package opaqueid

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

type testMarker struct{}

func (testMarker) Name() string { return "test" }

type orderMarker struct{}

func (orderMarker) Name() string { return "order" }

func setFieldConfig(t *testing.T) {
	t.Helper()
	if err := SetGlobal(NewConfig([]byte("Test key here"))); err != nil {
		t.Fatalf("SetGlobal failed: %v", err)
	}
}

func TestFieldJSON(t *testing.T) {
	setFieldConfig(t)

	type payload struct {
		ID Field[testMarker] `json:"id"`
	}

	data, err := json.Marshal(payload{ID: NewField[testMarker](123)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"id":"test_hHLBCl4rZ3u"}` {
		t.Errorf("Marshal = %s, want {\"id\":\"test_hHLBCl4rZ3u\"}", data)
	}

	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.ID.Uint64() != 123 {
		t.Errorf("Unmarshal ID = %d, want 123", decoded.ID.Uint64())
	}
}

func TestFieldJSONRejectsForeignToken(t *testing.T) {
	setFieldConfig(t)

	var field Field[orderMarker]
	err := json.Unmarshal([]byte(`"test_hHLBCl4rZ3u"`), &field)
	var prefixErr *InvalidPrefixError
	if !errors.As(err, &prefixErr) {
		t.Fatalf("Unmarshal error = %v, want InvalidPrefixError", err)
	}
	if prefixErr.Expected != "order_" {
		t.Errorf("InvalidPrefixError.Expected = %q, want \"order_\"", prefixErr.Expected)
	}
}

func TestFieldSQL(t *testing.T) {
	field := NewField[testMarker](456)

	value, err := field.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if value != driver.Value(int64(456)) {
		t.Errorf("Value = %v, want 456", value)
	}

	var scanned Field[testMarker]
	if err := scanned.Scan(int64(456)); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if scanned.Uint64() != 456 {
		t.Errorf("Scan ID = %d, want 456", scanned.Uint64())
	}

	if err := scanned.Scan("456"); err == nil {
		t.Error("Scan accepted a string, want error")
	}
}

func TestFieldUUID(t *testing.T) {
	setFieldConfig(t)

	field := NewField[testMarker](0)
	u, err := field.UUID()
	if err != nil {
		t.Fatalf("UUID failed: %v", err)
	}
	if u.String() != "59142369-adeb-8ef9-a1be-28f61c05d4d6" {
		t.Errorf("UUID = %s, want 59142369-adeb-8ef9-a1be-28f61c05d4d6", u)
	}
}

func TestFieldString(t *testing.T) {
	field := NewField[testMarker](7)
	if got := field.String(); got != "Field{id: 7, marker: test}" {
		t.Errorf("String = %q", got)
	}
}

func TestCodecForConcurrent(t *testing.T) {
	setFieldConfig(t)

	// Concurrent lookups must observe logically identical codecs; duplicate
	// construction under the race is fine, divergent results are not.
	var wg sync.WaitGroup
	codecs := make([]*Codec, 32)
	for i := range codecs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codec, err := CodecFor("concurrent")
			if err != nil {
				t.Errorf("CodecFor failed: %v", err)
				return
			}
			codecs[i] = codec
		}(i)
	}
	wg.Wait()

	token := codecs[0].Encode(99)
	for _, codec := range codecs[1:] {
		if codec.Encode(99) != token {
			t.Fatal("concurrently fetched codecs disagree")
		}
	}
}

func TestCodecForWithoutGlobalConfig(t *testing.T) {
	globalMu.Lock()
	saved := globalConfig
	globalConfig = nil
	globalMu.Unlock()
	defer func() {
		globalMu.Lock()
		globalConfig = saved
		globalMu.Unlock()
	}()

	if _, err := CodecFor("unconfigured"); !errors.Is(err, ErrNoGlobalConfig) {
		t.Errorf("CodecFor error = %v, want ErrNoGlobalConfig", err)
	}
}
