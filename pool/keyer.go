package pool

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
)

// Keyer derives a storage key from a pool key.
//
// Contract:
// - Determinism: structurally equal inputs must produce the same key,
//   regardless of map iteration order.
// - Injectivity: unequal inputs must not produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(v any) (string, error)
}

// KeyerFunc adapts a function to the Keyer interface.
type KeyerFunc func(v any) (string, error)

// Key implements Keyer.
func (f KeyerFunc) Key(v any) (string, error) {
	return f(v)
}

// ValueKeyer derives storage keys that follow Go's == on the key: every
// non-blank struct field counts, unexported ones included, and pointers,
// channels and interfaces compare by what == compares. It is the default.
//
// Format: <prefix><sha256 hex>
type ValueKeyer struct {
	Prefix string
}

// Key implements Keyer. Values == cannot compare, such as maps, slices and
// funcs, return ErrInvalidKey.
func (k ValueKeyer) Key(v any) (string, error) {
	encoded, err := appendValue(nil, reflect.ValueOf(v))
	if err != nil {
		return "", fmt.Errorf("%w: %T: %w", ErrInvalidKey, v, err)
	}
	sum := sha256.Sum256(encoded)
	return k.Prefix + hex.EncodeToString(sum[:]), nil
}

var (
	typeIDs    sync.Map // reflect.Type -> uint64
	nextTypeID atomic.Uint64
)

func typeID(t reflect.Type) uint64 {
	if id, ok := typeIDs.Load(t); ok {
		return id.(uint64)
	}
	id, _ := typeIDs.LoadOrStore(t, nextTypeID.Add(1))
	return id.(uint64)
}

// appendValue writes an encoding of v that is equal for two values exactly
// when they are ==. Dynamic types are part of the encoding.
func appendValue(b []byte, v reflect.Value) ([]byte, error) {
	if !v.IsValid() {
		return append(b, 0), nil
	}
	b = binary.AppendUvarint(b, typeID(v.Type()))

	var err error
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return append(b, 1), nil
		}
		return append(b, 0), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return binary.AppendVarint(b, v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return binary.AppendUvarint(b, v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return appendFloat(b, v.Float()), nil
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		return appendFloat(appendFloat(b, real(c)), imag(c)), nil
	case reflect.String:
		b = binary.AppendUvarint(b, uint64(v.Len()))
		return append(b, v.String()...), nil
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return binary.AppendUvarint(b, uint64(v.Pointer())), nil
	case reflect.Interface:
		return appendValue(b, v.Elem())
	case reflect.Array:
		for i := range v.Len() {
			if b, err = appendValue(b, v.Index(i)); err != nil {
				return nil, err
			}
		}
		return b, nil
	case reflect.Struct:
		t := v.Type()
		for i := range v.NumField() {
			if t.Field(i).Name == "_" {
				continue
			}
			if b, err = appendValue(b, v.Field(i)); err != nil {
				return nil, err
			}
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%s is not comparable", v.Type())
	}
}

func appendFloat(b []byte, f float64) []byte {
	if f == 0 {
		f = 0 // -0 == 0
	}
	return binary.BigEndian.AppendUint64(b, math.Float64bits(f))
}

// canonicalJSON sorts map keys so maps with equal contents encode identically.
// Struct fields keep declaration order, which is fixed per type.
var canonicalJSON = jsoniter.Config{
	SortMapKeys:            true,
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

// CanonicalKeyer hashes the canonical JSON encoding of the key together with
// its Go type, so equal values of different types never collide. Keys whose
// JSON form drops data, such as unexported fields, can map to one storage
// key; the pool then reports ErrKeyCollision. Prefer ValueKeyer for those.
//
// Format: <prefix><sha256 hex>
type CanonicalKeyer struct {
	Prefix string
}

// NewCanonicalKeyer creates a canonical keyer with the given prefix.
func NewCanonicalKeyer(prefix string) CanonicalKeyer {
	return CanonicalKeyer{Prefix: prefix}
}

// Key implements Keyer.
func (k CanonicalKeyer) Key(v any) (string, error) {
	encoded, err := canonicalJSON.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: canonicalize %T: %w", ErrInvalidKey, v, err)
	}

	h := sha256.New()
	fmt.Fprintf(h, "%T\x00", v)
	h.Write(encoded)
	return k.Prefix + hex.EncodeToString(h.Sum(nil)), nil
}

// StringKeyer uses fmt's %v rendering of the key, prefixed by its type.
// Suitable for keys whose %v form is already unique, such as strings or
// structs of scalar fields without separators in their values.
type StringKeyer struct{}

// Key implements Keyer.
func (StringKeyer) Key(v any) (string, error) {
	return fmt.Sprintf("%T:%v", v, v), nil
}

// ValidateKey checks that a derived key is usable as a storage key.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

var (
	_ Keyer = ValueKeyer{}
	_ Keyer = CanonicalKeyer{}
	_ Keyer = StringKeyer{}
	_ Keyer = KeyerFunc(nil)
)
