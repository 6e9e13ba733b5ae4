package vm

// slotKind distinguishes the three slot spaces of §3: static fields (shared
// across the whole program, initialized once by INITSSLOT), locals, and
// arguments (both per-frame, initialized once per frame by INITSLOT).
type slotKind int

const (
	slotStatic slotKind = iota
	slotLocal
	slotArgument
)

func init() {
	register(INITSSLOT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, ok := e.dec.readU8(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated INITSSLOT count")
		}
		if e.staticInit {
			return false, newFault(e.ip(), FaultInvalidOperation, "INITSSLOT already executed for this program")
		}
		slots := make([]Value, n)
		for i := range slots {
			slots[i] = Null()
		}
		e.staticSlots = slots
		e.staticInit = true
		return false, nil
	})

	register(INITSLOT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		localN, ok := e.dec.readU8(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated INITSLOT local count")
		}
		argN, ok := e.dec.readU8(immOff + 1)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated INITSLOT argument count")
		}
		f := e.frame()
		if f.lsInitialized {
			return false, newFault(e.ip(), FaultInvalidOperation, "INITSLOT already executed for this frame")
		}
		if err := e.requireDepth(int(argN)); err != nil {
			return false, err
		}
		args := make([]Value, argN)
		for i := int(argN) - 1; i >= 0; i-- {
			v, err := e.Pop()
			if err != nil {
				return false, err
			}
			args[i] = v
		}
		locals := make([]Value, localN)
		for i := range locals {
			locals[i] = Null()
		}
		f.ArgumentSlots = args
		f.LocalSlots = locals
		f.lsInitialized = true
		return false, nil
	})

	for i := 0; i < 7; i++ {
		idx := i
		register(OpCode(int(LDSFLD0)+i), ldFixed(slotStatic, idx))
		register(OpCode(int(STSFLD0)+i), stFixed(slotStatic, idx))
		register(OpCode(int(LDLOC0)+i), ldFixed(slotLocal, idx))
		register(OpCode(int(STLOC0)+i), stFixed(slotLocal, idx))
		register(OpCode(int(LDARG0)+i), ldFixed(slotArgument, idx))
		register(OpCode(int(STARG0)+i), stFixed(slotArgument, idx))
	}
	register(LDSFLD, ldIndexed(slotStatic))
	register(STSFLD, stIndexed(slotStatic))
	register(LDLOC, ldIndexed(slotLocal))
	register(STLOC, stIndexed(slotLocal))
	register(LDARG, ldIndexed(slotArgument))
	register(STARG, stIndexed(slotArgument))
}

func (e *Engine) slotSlice(kind slotKind) []Value {
	switch kind {
	case slotStatic:
		return e.staticSlots
	case slotLocal:
		return e.frame().LocalSlots
	default:
		return e.frame().ArgumentSlots
	}
}

func (e *Engine) getSlot(kind slotKind, idx int) (Value, error) {
	s := e.slotSlice(kind)
	if idx < 0 || idx >= len(s) {
		return Value{}, newFault(e.ip(), FaultInvalidOperation, "slot index %d out of range (size %d)", idx, len(s))
	}
	return s[idx], nil
}

func (e *Engine) setSlot(kind slotKind, idx int, v Value) error {
	s := e.slotSlice(kind)
	if idx < 0 || idx >= len(s) {
		return newFault(e.ip(), FaultInvalidOperation, "slot index %d out of range (size %d)", idx, len(s))
	}
	s[idx] = v
	return nil
}

func ldFixed(kind slotKind, idx int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.getSlot(kind, idx)
		if err != nil {
			return false, err
		}
		return false, e.Push(v)
	}
}

func stFixed(kind slotKind, idx int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		return false, e.setSlot(kind, idx, v)
	}
}

func ldIndexed(kind slotKind) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		idx, ok := e.dec.readU8(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated slot index")
		}
		v, err := e.getSlot(kind, int(idx))
		if err != nil {
			return false, err
		}
		return false, e.Push(v)
	}
}

func stIndexed(kind slotKind) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		idx, ok := e.dec.readU8(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated slot index")
		}
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		return false, e.setSlot(kind, int(idx), v)
	}
}
