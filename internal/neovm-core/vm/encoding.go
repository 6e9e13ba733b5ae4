package vm

import "encoding/binary"

// Canonical encoding tags (§6.5): one tag byte per variant.
const (
	tagNull byte = iota
	tagBoolean
	tagIntegerPos
	tagIntegerNeg
	tagByteString
	tagBuffer
	tagArray
	tagStruct
	tagMap
	tagPointer
)

// EncodeCanonical produces the total, deterministic byte layout of §6.5: one
// tag byte per variant, length-prefixed payloads for variable-size variants,
// compound variants as length-prefixed sequences of child encodings, and Map
// entries in insertion order. It is injective per variant tag (§8 property
// 4) and is the encoding used for stack_digest, input_hash, output_hash, and
// argument marshalling across the host/guest boundary.
func EncodeCanonical(v Value) []byte {
	var out []byte
	return appendCanonical(out, v)
}

func appendCanonical(out []byte, v Value) []byte {
	switch v.Type {
	case TypeNull:
		return append(out, tagNull)
	case TypeBoolean:
		if v.Boolean {
			return append(out, tagBoolean, 1)
		}
		return append(out, tagBoolean, 0)
	case TypeInteger:
		tag := tagIntegerPos
		if v.IntNeg {
			tag = tagIntegerNeg
		}
		out = append(out, tag)
		return appendLenPrefixed(out, signedToLEBytes(v.Big()))
	case TypeByteString:
		out = append(out, tagByteString)
		return appendLenPrefixed(out, v.Bytes)
	case TypeBuffer:
		out = append(out, tagBuffer)
		return appendLenPrefixed(out, v.Bytes)
	case TypeArray:
		out = append(out, tagArray)
		return appendChildren(out, v.Items)
	case TypeStruct:
		out = append(out, tagStruct)
		return appendChildren(out, v.Items)
	case TypeMap:
		out = append(out, tagMap)
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(v.Entries)))
		out = append(out, lenBuf...)
		for _, e := range v.Entries {
			out = appendCanonical(out, e.Key)
			out = appendCanonical(out, e.Value)
		}
		return out
	case TypePointer:
		out = append(out, tagPointer)
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(v.Pointer))
		return append(out, buf...)
	default:
		return append(out, tagNull)
	}
}

func appendLenPrefixed(out []byte, payload []byte) []byte {
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(payload)))
	out = append(out, lenBuf...)
	return append(out, payload...)
}

func appendChildren(out []byte, items []Value) []byte {
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(items)))
	out = append(out, lenBuf...)
	for _, it := range items {
		out = appendCanonical(out, it)
	}
	return out
}
