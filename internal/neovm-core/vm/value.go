package vm

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// errIntTooLarge is a sentinel wrapped into a FaultInvalidOperation by
// callers that have the current IP on hand.
var errIntTooLarge = errors.New("integer exceeds MAX_INT_SIZE")

// ValueType is the tag of a stack value's closed, nine-case sum (§3). The
// value model is a tagged representation with exhaustive case analysis, not
// open polymorphism, because canonical encoding and trace digests require
// total, enumerable variant handling (see DESIGN.md).
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBoolean
	TypeInteger
	TypeByteString
	TypeBuffer
	TypeArray
	TypeStruct
	TypeMap
	TypePointer
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeBoolean:
		return "Boolean"
	case TypeInteger:
		return "Integer"
	case TypeByteString:
		return "ByteString"
	case TypeBuffer:
		return "Buffer"
	case TypeArray:
		return "Array"
	case TypeStruct:
		return "Struct"
	case TypeMap:
		return "Map"
	case TypePointer:
		return "Pointer"
	default:
		return "Unknown"
	}
}

// IsPrimitive reports whether the type may be used as a Map key (§3).
func (t ValueType) IsPrimitive() bool {
	switch t {
	case TypeNull, TypeBoolean, TypeInteger, TypeByteString, TypeBuffer:
		return true
	default:
		return false
	}
}

// MapEntry is one insertion-ordered (key, value) pair of a Map value.
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is the tagged stack value of §3. Exactly one of the typed fields is
// meaningful, selected by Type. Compound payloads (Array/Struct children,
// Map entries) may share backing storage between Values copied by DUP,
// OVER, PICK or a slot load, but every compound mutation op writes into a
// fresh copy, so a change is never visible through another live Value and
// equality and canonical encoding never have to detect cycles at the
// representation level (see DESIGN.md, open question (b)).
type Value struct {
	Type    ValueType
	Boolean bool
	Integer *uint256.Int // magnitude; the sign is in IntNeg, see Big
	// IntNeg records the sign for Integer; uint256.Int stores only
	// magnitude, so negative integers keep their magnitude here and a sign
	// flag, with (0, false) as canonical zero.
	IntNeg  bool
	Bytes   []byte // ByteString (immutable by convention) or Buffer payload
	Items   []Value
	Entries []MapEntry
	Pointer int
}

// --- constructors ---

func Null() Value { return Value{Type: TypeNull} }

func Bool(b bool) Value { return Value{Type: TypeBoolean, Boolean: b} }

// IntFromInt64 builds an Integer value from a native int64.
func IntFromInt64(n int64) Value {
	neg := n < 0
	mag := n
	if neg {
		mag = -n
	}
	return Value{Type: TypeInteger, Integer: uint256.NewInt(uint64(mag)), IntNeg: neg && mag != 0}
}

// IntFromBig builds an Integer value from a big.Int, bounded by maxBytes.
// Returns an InvalidOperation-shaped error (as a plain error; callers wrap
// it into a Fault with the current IP) if the magnitude does not fit.
func IntFromBig(b *big.Int, maxBytes int) (Value, error) {
	neg := b.Sign() < 0
	mag := new(big.Int).Abs(b)
	if byteLen(mag) > maxBytes {
		return Value{}, errIntTooLarge
	}
	u, overflow := uint256.FromBig(mag)
	if overflow {
		return Value{}, errIntTooLarge
	}
	z := u.IsZero()
	return Value{Type: TypeInteger, Integer: u, IntNeg: neg && !z}, nil
}

func byteLen(b *big.Int) int {
	bits := b.BitLen()
	return (bits + 7) / 8
}

func ByteString(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{Type: TypeByteString, Bytes: cp}
}

func Buffer(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{Type: TypeBuffer, Bytes: cp}
}

func NewArray(items []Value) Value {
	return Value{Type: TypeArray, Items: cloneItems(items)}
}

func NewStruct(items []Value) Value {
	return Value{Type: TypeStruct, Items: cloneItems(items)}
}

func NewMap() Value {
	return Value{Type: TypeMap, Entries: nil}
}

func NewPointer(ip int) Value { return Value{Type: TypePointer, Pointer: ip} }

func cloneItems(items []Value) []Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return cp
}

// --- integer helpers ---

// Big returns the signed big.Int value of an Integer.
func (v Value) Big() *big.Int {
	if v.Integer == nil {
		return big.NewInt(0)
	}
	b := v.Integer.ToBig()
	if v.IntNeg {
		b.Neg(b)
	}
	return b
}

// IsIntZero reports whether an Integer value is exactly zero.
func (v Value) IsIntZero() bool {
	return v.Integer == nil || v.Integer.IsZero()
}

// --- boolean conversion (§4.1) ---

// AsBool applies the boolean conversion rules of §4.1.
func (v Value) AsBool() bool {
	switch v.Type {
	case TypeNull:
		return false
	case TypeBoolean:
		return v.Boolean
	case TypeInteger:
		return !v.IsIntZero()
	case TypeByteString, TypeBuffer:
		for _, b := range v.Bytes {
			if b != 0 {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// --- equality (§3 invariants) ---

// Equal implements structural, total equality. Integer/Boolean compare via
// integer coercion. Two compounds are equal only if of the same variant
// with equal ordered children: per spec.md §9 open question (a), Array and
// Struct of identical content are NOT equal to each other — variant is part
// of the equality key (see DESIGN.md).
func (v Value) Equal(o Value) bool {
	if (v.Type == TypeInteger || v.Type == TypeBoolean) && (o.Type == TypeInteger || o.Type == TypeBoolean) {
		return v.Big().Cmp(o.Big()) == 0
	}
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeNull:
		return true
	case TypeByteString, TypeBuffer:
		if len(v.Bytes) != len(o.Bytes) {
			return false
		}
		for i := range v.Bytes {
			if v.Bytes[i] != o.Bytes[i] {
				return false
			}
		}
		return true
	case TypePointer:
		return v.Pointer == o.Pointer
	case TypeArray, TypeStruct:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case TypeMap:
		if len(v.Entries) != len(o.Entries) {
			return false
		}
		for i := range v.Entries {
			if !v.Entries[i].Key.Equal(o.Entries[i].Key) || !v.Entries[i].Value.Equal(o.Entries[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ItemCount returns the element count of a compound value.
func (v Value) ItemCount() int {
	switch v.Type {
	case TypeArray, TypeStruct:
		return len(v.Items)
	case TypeMap:
		return len(v.Entries)
	default:
		return 0
	}
}

// MapGet returns the value for an exact-equality key match.
func (v Value) MapGet(key Value) (Value, bool) {
	for _, e := range v.Entries {
		if e.Key.Equal(key) {
			return e.Value, true
		}
	}
	return Value{}, false
}

// MapSet inserts or overwrites a key, preserving insertion order on
// overwrite.
func (v *Value) MapSet(key, val Value) {
	for i := range v.Entries {
		if v.Entries[i].Key.Equal(key) {
			v.Entries[i].Value = val
			return
		}
	}
	v.Entries = append(v.Entries, MapEntry{Key: key, Value: val})
}

// MapDelete removes a key if present, reporting whether it was found.
func (v *Value) MapDelete(key Value) bool {
	for i := range v.Entries {
		if v.Entries[i].Key.Equal(key) {
			v.Entries = append(v.Entries[:i], v.Entries[i+1:]...)
			return true
		}
	}
	return false
}
