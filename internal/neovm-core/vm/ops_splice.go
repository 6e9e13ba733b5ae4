package vm

func init() {
	register(NEWBUFFER, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxByteLen)
		if err != nil {
			return false, err
		}
		return false, e.Push(Buffer(make([]byte, n)))
	})

	register(MEMCPY, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		count, err := e.popCount(e.cfg.MaxByteLen)
		if err != nil {
			return false, err
		}
		srcIndex, err := e.popCount(e.cfg.MaxByteLen)
		if err != nil {
			return false, err
		}
		src, err := e.popByteValue()
		if err != nil {
			return false, err
		}
		dstIndex, err := e.popCount(e.cfg.MaxByteLen)
		if err != nil {
			return false, err
		}
		dst, err := e.popByteValue()
		if err != nil {
			return false, err
		}
		if dst.Type != TypeBuffer {
			return false, newFault(e.ip(), FaultInvalidType, "MEMCPY destination must be a Buffer")
		}
		if srcIndex+count > len(src.Bytes) || dstIndex+count > len(dst.Bytes) {
			return false, newFault(e.ip(), FaultInvalidOperation, "MEMCPY range out of bounds")
		}
		copy(dst.Bytes[dstIndex:dstIndex+count], src.Bytes[srcIndex:srcIndex+count])
		e.trace.noteWrite(dst.Bytes[dstIndex : dstIndex+count])
		return false, nil
	})

	register(CAT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.popByteValue()
		if err != nil {
			return false, err
		}
		a, err := e.popByteValue()
		if err != nil {
			return false, err
		}
		if len(a.Bytes)+len(b.Bytes) > e.cfg.MaxByteLen {
			return false, newFault(e.ip(), FaultInvalidOperation, "CAT result exceeds MAX_BYTE_LEN")
		}
		out := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
		out = append(out, a.Bytes...)
		out = append(out, b.Bytes...)
		if a.Type == TypeBuffer || b.Type == TypeBuffer {
			return false, e.Push(Buffer(out))
		}
		return false, e.Push(ByteString(out))
	})

	register(SUBSTR, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		count, err := e.popCount(e.cfg.MaxByteLen)
		if err != nil {
			return false, err
		}
		index, err := e.popCount(e.cfg.MaxByteLen)
		if err != nil {
			return false, err
		}
		v, err := e.popByteValue()
		if err != nil {
			return false, err
		}
		if index+count > len(v.Bytes) {
			return false, newFault(e.ip(), FaultInvalidOperation, "SUBSTR range out of bounds")
		}
		return false, e.pushSliced(v, index, count)
	})
	register(LEFT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		count, err := e.popCount(e.cfg.MaxByteLen)
		if err != nil {
			return false, err
		}
		v, err := e.popByteValue()
		if err != nil {
			return false, err
		}
		if count > len(v.Bytes) {
			return false, newFault(e.ip(), FaultInvalidOperation, "LEFT count exceeds length")
		}
		return false, e.pushSliced(v, 0, count)
	})
	register(RIGHT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		count, err := e.popCount(e.cfg.MaxByteLen)
		if err != nil {
			return false, err
		}
		v, err := e.popByteValue()
		if err != nil {
			return false, err
		}
		if count > len(v.Bytes) {
			return false, newFault(e.ip(), FaultInvalidOperation, "RIGHT count exceeds length")
		}
		return false, e.pushSliced(v, len(v.Bytes)-count, count)
	})
}

func (e *Engine) popByteValue() (Value, error) {
	v, err := e.Pop()
	if err != nil {
		return Value{}, err
	}
	if v.Type != TypeByteString && v.Type != TypeBuffer {
		return Value{}, newFault(e.ip(), FaultInvalidType, "expected ByteString/Buffer, got %s", v.Type)
	}
	return v, nil
}

func (e *Engine) pushSliced(v Value, start, count int) error {
	out := make([]byte, count)
	copy(out, v.Bytes[start:start+count])
	if v.Type == TypeBuffer {
		return e.Push(Buffer(out))
	}
	return e.Push(ByteString(out))
}
