package vm

func init() {
	register(ISNULL, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		return false, e.Push(Bool(v.Type == TypeNull))
	})

	register(ISTYPE, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		tag, ok := e.dec.readU8(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated ISTYPE type tag")
		}
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		return false, e.Push(Bool(v.Type == ValueType(tag)))
	})

	register(CONVERT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		tag, ok := e.dec.readU8(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated CONVERT type tag")
		}
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		out, err := e.convert(v, ValueType(tag))
		if err != nil {
			return false, err
		}
		return false, e.Push(out)
	})
}

// convert implements the CONVERT table of §4.4. Buffer<->ByteString always
// copies the underlying bytes (decided open question, see DESIGN.md):
// a Buffer produced by CONVERT never aliases the source.
func (e *Engine) convert(v Value, target ValueType) (Value, error) {
	if v.Type == target {
		switch target {
		case TypeByteString:
			return ByteString(v.Bytes), nil
		case TypeBuffer:
			return Buffer(v.Bytes), nil
		default:
			return v, nil
		}
	}
	switch target {
	case TypeBoolean:
		return Bool(v.AsBool()), nil
	case TypeInteger:
		switch v.Type {
		case TypeBoolean:
			if v.Boolean {
				return IntFromInt64(1), nil
			}
			return IntFromInt64(0), nil
		case TypeByteString, TypeBuffer:
			if len(v.Bytes) > e.cfg.MaxIntSize {
				return Value{}, newFault(e.ip(), FaultInvalidOperation, "CONVERT to Integer exceeds MAX_INT_SIZE")
			}
			n := leBytesToSignedBig(v.Bytes)
			out, err := IntFromBig(n, e.cfg.MaxIntSize)
			if err != nil {
				return Value{}, newFault(e.ip(), FaultInvalidOperation, "CONVERT to Integer exceeds MAX_INT_SIZE")
			}
			return out, nil
		default:
			return Value{}, newFault(e.ip(), FaultInvalidType, "cannot CONVERT %s to Integer", v.Type)
		}
	case TypeByteString, TypeBuffer:
		var raw []byte
		switch v.Type {
		case TypeInteger:
			raw = signedToLEBytes(v.Big())
		case TypeBoolean:
			if v.Boolean {
				raw = []byte{1}
			}
		case TypeByteString, TypeBuffer:
			raw = v.Bytes
		default:
			return Value{}, newFault(e.ip(), FaultInvalidType, "cannot CONVERT %s to %s", v.Type, target)
		}
		if target == TypeBuffer {
			return Buffer(raw), nil
		}
		return ByteString(raw), nil
	case TypeArray:
		if v.Type != TypeStruct {
			return Value{}, newFault(e.ip(), FaultInvalidType, "cannot CONVERT %s to Array", v.Type)
		}
		return NewArray(v.Items), nil
	case TypeStruct:
		if v.Type != TypeArray {
			return Value{}, newFault(e.ip(), FaultInvalidType, "cannot CONVERT %s to Struct", v.Type)
		}
		return NewStruct(v.Items), nil
	default:
		return Value{}, newFault(e.ip(), FaultInvalidType, "cannot CONVERT %s to %s", v.Type, target)
	}
}
