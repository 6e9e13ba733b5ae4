package vm

import "math/big"

// decoder provides the bounds-checked immediate reads of §4.3. Every
// immediate read in the engine routes through these primitives; none of
// them panic on truncated input, they return ok=false instead.
type decoder struct {
	program []byte
}

func (d decoder) readU8(off int) (byte, bool) {
	if off < 0 || off >= len(d.program) {
		return 0, false
	}
	return d.program[off], true
}

func (d decoder) readI8(off int) (int8, bool) {
	b, ok := d.readU8(off)
	return int8(b), ok
}

func (d decoder) readBytes(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off+n > len(d.program) {
		return nil, false
	}
	return d.program[off : off+n], true
}

func (d decoder) readU16LE(off int) (uint16, bool) {
	b, ok := d.readBytes(off, 2)
	if !ok {
		return 0, false
	}
	return uint16(b[0]) | uint16(b[1])<<8, true
}

func (d decoder) readU32LE(off int) (uint32, bool) {
	b, ok := d.readBytes(off, 4)
	if !ok {
		return 0, false
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, true
}

func (d decoder) readI32LE(off int) (int32, bool) {
	u, ok := d.readU32LE(off)
	return int32(u), ok
}

// readSignedLE reads an n-byte little-endian two's-complement integer.
func (d decoder) readSignedLE(off, n int) (*big.Int, bool) {
	b, ok := d.readBytes(off, n)
	if !ok {
		return nil, false
	}
	return leBytesToSignedBig(b), true
}

// leBytesToSignedBig interprets b as little-endian two's-complement,
// matching the Integer-conversion-of-bytes rule of §4.1.
func leBytesToSignedBig(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	n := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		n.Sub(n, mod)
	}
	return n
}

// signedToLEBytes encodes n as a minimal-length little-endian two's-
// complement byte string (used by the Integer<->ByteString conversion of
// §4.4 Type ops).
func signedToLEBytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return nil
	}
	if n.Sign() > 0 {
		be := n.Bytes()
		if len(be) > 0 && be[0]&0x80 != 0 {
			be = append([]byte{0}, be...)
		}
		return reverseBytes(be)
	}
	// Negative: two's complement of the minimal byte width that fits.
	mag := new(big.Int).Abs(n)
	nbytes := (mag.BitLen() + 8) / 8
	if nbytes == 0 {
		nbytes = 1
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nbytes*8))
	tc := new(big.Int).Add(mod, n)
	be := tc.Bytes()
	for len(be) < nbytes {
		be = append([]byte{0}, be...)
	}
	// Trim any redundant leading 0xFF bytes while the sign bit is preserved.
	for len(be) > 1 && be[0] == 0xFF && be[1]&0x80 != 0 {
		be = be[1:]
	}
	return reverseBytes(be)
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
