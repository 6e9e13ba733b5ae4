package vm

func init() {
	register(PUSHINT8, pushSigned(1))
	register(PUSHINT16, pushSigned(2))
	register(PUSHINT32, pushSigned(4))
	register(PUSHINT64, pushSigned(8))
	register(PUSHINT128, pushSigned(16))
	register(PUSHINT256, pushSigned(32))

	register(PUSHA, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		off, ok := e.dec.readI32LE(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated PUSHA offset")
		}
		target := e.ip() + int(off)
		if !e.jumpTargets.Contains(target) {
			return false, newFault(e.ip(), FaultInvalidScript, "PUSHA target %d is not an instruction boundary", target)
		}
		return false, e.Push(NewPointer(target))
	})

	register(PUSHNULL, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		return false, e.Push(Null())
	})

	register(PUSHDATA1, pushData(1))
	register(PUSHDATA2, pushData(2))
	register(PUSHDATA4, pushData(4))

	register(PUSHM1, pushConst(-1))
	for i := 0; i <= 16; i++ {
		register(OpCode(int(PUSH0)+i), pushConst(int64(i)))
	}
}

// pushSigned decodes an n-byte little-endian two's-complement Integer
// immediate and pushes it.
func pushSigned(n int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		raw, ok := e.dec.readSignedLE(immOff, n)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated integer immediate")
		}
		v, err := IntFromBig(raw, e.cfg.MaxIntSize)
		if err != nil {
			return false, newFault(e.ip(), FaultInvalidOperation, "immediate exceeds MAX_INT_SIZE")
		}
		return false, e.Push(v)
	}
}

func pushConst(n int64) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		return false, e.Push(IntFromInt64(n))
	}
}

// pushData decodes a lenBytes-byte little-endian length prefix followed by
// that many raw bytes, pushed as a ByteString.
func pushData(lenBytes int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		var n int
		switch lenBytes {
		case 1:
			b, ok := e.dec.readU8(immOff)
			if !ok {
				return false, newFault(e.ip(), FaultInvalidScript, "truncated PUSHDATA length")
			}
			n = int(b)
		case 2:
			b, ok := e.dec.readU16LE(immOff)
			if !ok {
				return false, newFault(e.ip(), FaultInvalidScript, "truncated PUSHDATA length")
			}
			n = int(b)
		case 4:
			b, ok := e.dec.readU32LE(immOff)
			if !ok {
				return false, newFault(e.ip(), FaultInvalidScript, "truncated PUSHDATA length")
			}
			n = int(b)
		}
		if n > e.cfg.MaxByteLen {
			return false, newFault(e.ip(), FaultInvalidOperation, "PUSHDATA length %d exceeds MAX_BYTE_LEN", n)
		}
		data, ok := e.dec.readBytes(immOff+lenBytes, n)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated PUSHDATA payload")
		}
		return false, e.Push(ByteString(data))
	}
}
