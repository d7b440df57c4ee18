// Package opaqueid encodes 64-bit integers (typically database primary keys)
// as opaque, reversible, integrity-protected text tokens suitable for public
// APIs. Encoding prevents identifier enumeration while letting holders of the
// secret key recover the original integer, so monotonically increasing
// database keys can stay hidden without giving up their performance benefits.
//
// Tokens carry a caller-chosen object type prefix, inspired by Stripe's API
// identifiers, which prevents accidentally or intentionally mixing IDs of
// different object types. The pipeline combines format-preserving encryption
// (FF1 with AES-256 at radix 2) with a truncated HMAC-SHA256 integrity tag,
// packed into a fixed 128-bit domain and rendered as base62 text:
//
//	codec, err := opaqueid.New("example", opaqueid.NewConfig([]byte("your-secure-key")))
//	if err != nil {
//		log.Fatal(err)
//	}
//	token := codec.Encode(12345)        // "example_..."
//	id, err := codec.Decode(token)      // 12345
//
// The Field type layers JSON and database/sql integration on top of Codec for
// declaring typed ID fields on model structs; see Field and SetGlobal.
//
// Leaking the encryption key forfeits every security benefit: anyone holding
// it can decode and forge IDs. The key also cannot be rotated without changing
// all previously issued tokens.
package opaqueid
