package vm

func init() {
	register(NEWARRAY0, func(e *Engine, info OpInfo, immOff int) (bool, error) { return false, e.Push(NewArray(nil)) })
	register(NEWSTRUCT0, func(e *Engine, info OpInfo, immOff int) (bool, error) { return false, e.Push(NewStruct(nil)) })
	register(NEWMAP, func(e *Engine, info OpInfo, immOff int) (bool, error) { return false, e.Push(NewMap()) })

	register(NEWSTRUCT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxItems)
		if err != nil {
			return false, err
		}
		return false, e.Push(NewStruct(make([]Value, n)))
	})
	register(NEWARRAY, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxItems)
		if err != nil {
			return false, err
		}
		return false, e.Push(NewArray(make([]Value, n)))
	})
	register(NEWARRAY_T, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		tag, ok := e.dec.readU8(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated NEWARRAY_T type tag")
		}
		n, err := e.popCount(e.cfg.MaxItems)
		if err != nil {
			return false, err
		}
		def := defaultForTag(ValueType(tag))
		items := make([]Value, n)
		for i := range items {
			items[i] = def
		}
		return false, e.Push(NewArray(items))
	})

	register(PACK, packOp(func(items []Value) Value { return NewArray(items) }))
	register(PACKSTRUCT, packOp(func(items []Value) Value { return NewStruct(items) }))
	register(PACKMAP, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxItems)
		if err != nil {
			return false, err
		}
		m := NewMap()
		entries := make([]MapEntry, n)
		for i := n - 1; i >= 0; i-- {
			val, err := e.Pop()
			if err != nil {
				return false, err
			}
			key, err := e.Pop()
			if err != nil {
				return false, err
			}
			if !key.Type.IsPrimitive() {
				return false, newFault(e.ip(), FaultInvalidType, "PACKMAP key must be a primitive type")
			}
			entries[i] = MapEntry{Key: key, Value: val}
		}
		for _, ent := range entries {
			m.MapSet(ent.Key, ent.Value)
		}
		return false, e.Push(m)
	})
	register(UNPACK, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.popCompound()
		if err != nil {
			return false, err
		}
		for _, it := range v.Items {
			if err := e.Push(it); err != nil {
				return false, err
			}
		}
		return false, e.Push(IntFromInt64(int64(len(v.Items))))
	})

	register(SIZE, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		switch v.Type {
		case TypeByteString, TypeBuffer:
			return false, e.Push(IntFromInt64(int64(len(v.Bytes))))
		case TypeArray, TypeStruct, TypeMap:
			return false, e.Push(IntFromInt64(int64(v.ItemCount())))
		default:
			return false, newFault(e.ip(), FaultInvalidType, "SIZE not defined for %s", v.Type)
		}
	})

	register(HASKEY, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		key, err := e.Pop()
		if err != nil {
			return false, err
		}
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		switch v.Type {
		case TypeArray, TypeStruct:
			idx, err := asIndex(key)
			if err != nil {
				return false, newFault(e.ip(), FaultInvalidType, "HASKEY index must be an Integer")
			}
			return false, e.Push(Bool(idx >= 0 && idx < len(v.Items)))
		case TypeMap:
			_, ok := v.MapGet(key)
			return false, e.Push(Bool(ok))
		default:
			return false, newFault(e.ip(), FaultInvalidType, "HASKEY not defined for %s", v.Type)
		}
	})

	register(KEYS, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		if v.Type != TypeMap {
			return false, newFault(e.ip(), FaultInvalidType, "KEYS expects Map, got %s", v.Type)
		}
		keys := make([]Value, len(v.Entries))
		for i, ent := range v.Entries {
			keys[i] = ent.Key
		}
		return false, e.Push(NewArray(keys))
	})
	register(VALUES, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		switch v.Type {
		case TypeMap:
			vals := make([]Value, len(v.Entries))
			for i, ent := range v.Entries {
				vals[i] = ent.Value
			}
			return false, e.Push(NewArray(vals))
		case TypeArray, TypeStruct:
			return false, e.Push(NewArray(v.Items))
		default:
			return false, newFault(e.ip(), FaultInvalidType, "VALUES not defined for %s", v.Type)
		}
	})

	register(PICKITEM, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		key, err := e.Pop()
		if err != nil {
			return false, err
		}
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		switch v.Type {
		case TypeArray, TypeStruct:
			idx, err := asIndex(key)
			if err != nil || idx < 0 || idx >= len(v.Items) {
				return false, newFault(e.ip(), FaultInvalidOperation, "PICKITEM index out of range")
			}
			return false, e.Push(v.Items[idx])
		case TypeMap:
			val, ok := v.MapGet(key)
			if !ok {
				return false, newFault(e.ip(), FaultInvalidOperation, "PICKITEM key not found")
			}
			return false, e.Push(val)
		case TypeByteString, TypeBuffer:
			idx, err := asIndex(key)
			if err != nil || idx < 0 || idx >= len(v.Bytes) {
				return false, newFault(e.ip(), FaultInvalidOperation, "PICKITEM index out of range")
			}
			return false, e.Push(IntFromInt64(int64(v.Bytes[idx])))
		default:
			return false, newFault(e.ip(), FaultInvalidType, "PICKITEM not defined for %s", v.Type)
		}
	})

	// SETITEM/APPEND/REMOVE/CLEARITEMS/POPITEM/REVERSEITEMS all push the
	// mutated compound back onto the stack, unlike NeoVM's reference-typed
	// compounds that mutate a shared object in place. The value model here
	// (§3, see also value.go) copies a compound's backing storage before
	// writing to it, so a mutation is only observable through the Value it
	// produces; callers that need the update visible elsewhere
	// (a slot, a deeper stack slot) must re-store it themselves, typically
	// with STLOC/STSFLD or a preceding DUP.
	register(SETITEM, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		val, err := e.Pop()
		if err != nil {
			return false, err
		}
		key, err := e.Pop()
		if err != nil {
			return false, err
		}
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		switch v.Type {
		case TypeArray:
			idx, err := asIndex(key)
			if err != nil || idx < 0 || idx >= len(v.Items) {
				return false, newFault(e.ip(), FaultInvalidOperation, "SETITEM index out of range")
			}
			v.Items = append([]Value(nil), v.Items...)
			v.Items[idx] = val
			return false, e.Push(v)
		case TypeStruct:
			return false, newFault(e.ip(), FaultInvalidOperation, "SETITEM not permitted on Struct")
		case TypeMap:
			if !key.Type.IsPrimitive() {
				return false, newFault(e.ip(), FaultInvalidType, "SETITEM key must be a primitive type")
			}
			if len(v.Entries) >= e.cfg.MaxItems {
				if _, exists := v.MapGet(key); !exists {
					return false, newFault(e.ip(), FaultInvalidOperation, "Map exceeds MAX_ITEMS")
				}
			}
			v.Entries = append([]MapEntry(nil), v.Entries...)
			v.MapSet(key, val)
			return false, e.Push(v)
		default:
			return false, newFault(e.ip(), FaultInvalidType, "SETITEM not defined for %s", v.Type)
		}
	})

	register(APPEND, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		val, err := e.Pop()
		if err != nil {
			return false, err
		}
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		if v.Type != TypeArray && v.Type != TypeStruct {
			return false, newFault(e.ip(), FaultInvalidType, "APPEND expects Array/Struct, got %s", v.Type)
		}
		if len(v.Items) >= e.cfg.MaxItems {
			return false, newFault(e.ip(), FaultInvalidOperation, "compound exceeds MAX_ITEMS")
		}
		v.Items = append(v.Items[:len(v.Items):len(v.Items)], val)
		return false, e.Push(v)
	})

	register(REMOVE, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		key, err := e.Pop()
		if err != nil {
			return false, err
		}
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		switch v.Type {
		case TypeArray, TypeStruct:
			idx, err := asIndex(key)
			if err != nil || idx < 0 || idx >= len(v.Items) {
				return false, newFault(e.ip(), FaultInvalidOperation, "REMOVE index out of range")
			}
			v.Items = append(append([]Value(nil), v.Items[:idx]...), v.Items[idx+1:]...)
			return false, e.Push(v)
		case TypeMap:
			v.Entries = append([]MapEntry(nil), v.Entries...)
			v.MapDelete(key)
			return false, e.Push(v)
		default:
			return false, newFault(e.ip(), FaultInvalidType, "REMOVE not defined for %s", v.Type)
		}
	})

	register(CLEARITEMS, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		switch v.Type {
		case TypeArray, TypeStruct:
			v.Items = nil
		case TypeMap:
			v.Entries = nil
		default:
			return false, newFault(e.ip(), FaultInvalidType, "CLEARITEMS not defined for %s", v.Type)
		}
		return false, e.Push(v)
	})

	register(POPITEM, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.popCompound()
		if err != nil {
			return false, err
		}
		if len(v.Items) == 0 {
			return false, newFault(e.ip(), FaultInvalidOperation, "POPITEM on empty compound")
		}
		last := v.Items[len(v.Items)-1]
		v.Items = v.Items[:len(v.Items)-1]
		if err := e.Push(v); err != nil {
			return false, err
		}
		return false, e.Push(last)
	})

	register(REVERSEITEMS, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		if v.Type != TypeArray && v.Type != TypeStruct {
			return false, newFault(e.ip(), FaultInvalidType, "REVERSEITEMS expects Array/Struct, got %s", v.Type)
		}
		v.Items = append([]Value(nil), v.Items...)
		for i, j := 0, len(v.Items)-1; i < j; i, j = i+1, j-1 {
			v.Items[i], v.Items[j] = v.Items[j], v.Items[i]
		}
		return false, e.Push(v)
	})
}

func packOp(build func(items []Value) Value) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxItems)
		if err != nil {
			return false, err
		}
		items := make([]Value, n)
		for i := n - 1; i >= 0; i-- {
			v, err := e.Pop()
			if err != nil {
				return false, err
			}
			items[i] = v
		}
		return false, e.Push(build(items))
	}
}

func (e *Engine) popCompound() (Value, error) {
	v, err := e.Pop()
	if err != nil {
		return Value{}, err
	}
	if v.Type != TypeArray && v.Type != TypeStruct {
		return Value{}, newFault(e.ip(), FaultInvalidType, "expected Array/Struct, got %s", v.Type)
	}
	return v, nil
}

func asIndex(v Value) (int, error) {
	if v.Type != TypeInteger && v.Type != TypeBoolean {
		return 0, errIntTooLarge
	}
	b := v.Big()
	if !b.IsInt64() {
		return 0, errIntTooLarge
	}
	return int(b.Int64()), nil
}

func defaultForTag(t ValueType) Value {
	switch t {
	case TypeBoolean:
		return Bool(false)
	case TypeInteger:
		return IntFromInt64(0)
	case TypeByteString:
		return ByteString(nil)
	case TypeBuffer:
		return Buffer(nil)
	case TypeArray:
		return NewArray(nil)
	case TypeStruct:
		return NewStruct(nil)
	case TypeMap:
		return NewMap()
	default:
		return Null()
	}
}
