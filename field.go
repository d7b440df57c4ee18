package opaqueid

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// TypeMarker names a logical object type. Markers are small stateless types
// whose Name must work on the zero value:
//
//	type userMarker struct{}
//
//	func (userMarker) Name() string { return "user" }
//
//	type UserID = opaqueid.Field[userMarker]
type TypeMarker interface {
	Name() string
}

// Field is a type-safe object ID (a wrapped uint64).
//
// When serialized as JSON the number is encrypted and encoded into a token
// with the marker's name as prefix; deserialization decodes the token back to
// the integer. With database/sql the field reads and writes plain integers,
// so codecs never touch storage.
//
// Field codecs are built lazily from the global configuration; call SetGlobal
// before serializing any Field.
type Field[T TypeMarker] struct {
	id uint64
}

// NewField wraps an ID in a Field of the given marker type.
func NewField[T TypeMarker](id uint64) Field[T] {
	return Field[T]{id: id}
}

// Uint64 returns the raw ID.
func (f Field[T]) Uint64() uint64 {
	return f.id
}

// String returns a debugging representation. It deliberately shows the raw
// ID, not the token: use Token for the public form.
func (f Field[T]) String() string {
	var marker T
	return fmt.Sprintf("Field{id: %d, marker: %s}", f.id, marker.Name())
}

// Token encodes the ID into its public text form.
func (f Field[T]) Token() (string, error) {
	codec, err := fieldCodec[T]()
	if err != nil {
		return "", err
	}
	return codec.Encode(f.id), nil
}

// UUID encodes the ID into its UUID form.
func (f Field[T]) UUID() (uuid.UUID, error) {
	codec, err := fieldCodec[T]()
	if err != nil {
		return uuid.UUID{}, err
	}
	return codec.EncodeUUID(f.id), nil
}

// MarshalJSON implements json.Marshaler, producing the token as a JSON string.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	token, err := f.Token()
	if err != nil {
		return nil, err
	}
	return json.Marshal(token)
}

// UnmarshalJSON implements json.Unmarshaler, decoding a token produced by
// MarshalJSON.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	codec, err := fieldCodec[T]()
	if err != nil {
		return err
	}
	id, err := codec.Decode(token)
	if err != nil {
		return err
	}
	f.id = id
	return nil
}

// Value implements driver.Valuer; IDs persist as plain BIGINT values.
func (f Field[T]) Value() (driver.Value, error) {
	return int64(f.id), nil
}

// Scan implements sql.Scanner for integer columns.
func (f *Field[T]) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		f.id = uint64(v)
		return nil
	default:
		var marker T
		return fmt.Errorf("cannot scan %T into %s ID field", src, marker.Name())
	}
}

func fieldCodec[T TypeMarker]() (*Codec, error) {
	var marker T
	return CodecFor(marker.Name())
}

var (
	codecCacheMu sync.RWMutex
	codecCache   = map[string]*Codec{}
)

// CodecFor returns the shared codec for a name, building it from the global
// configuration on first use. Construction is a pure function of the name and
// configuration, so a duplicate build under a cache race is harmless; callers
// racing on the same name still observe logically identical codecs.
func CodecFor(name string) (*Codec, error) {
	codecCacheMu.RLock()
	codec, ok := codecCache[name]
	codecCacheMu.RUnlock()
	if ok {
		return codec, nil
	}

	config := Global()
	if config == nil {
		return nil, ErrNoGlobalConfig
	}
	codec, err := New(name, config)
	if err != nil {
		return nil, err
	}

	codecCacheMu.Lock()
	if cached, ok := codecCache[name]; ok {
		codec = cached
	} else {
		codecCache[name] = codec
	}
	codecCacheMu.Unlock()
	return codec, nil
}
