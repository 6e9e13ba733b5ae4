package vm

func init() {
	register(NOP, func(e *Engine, info OpInfo, immOff int) (bool, error) { return false, nil })

	register(JMP, relJump(1, alwaysTrue))
	register(JMP_L, relJump(4, alwaysTrue))
	register(JMPIF, relJump(1, condPopBool(true)))
	register(JMPIF_L, relJump(4, condPopBool(true)))
	register(JMPIFNOT, relJump(1, condPopBool(false)))
	register(JMPIFNOT_L, relJump(4, condPopBool(false)))
	register(JMPEQ, relJump(1, condCompare(func(c int) bool { return c == 0 })))
	register(JMPEQ_L, relJump(4, condCompare(func(c int) bool { return c == 0 })))
	register(JMPNE, relJump(1, condCompare(func(c int) bool { return c != 0 })))
	register(JMPNE_L, relJump(4, condCompare(func(c int) bool { return c != 0 })))
	register(JMPGT, relJump(1, condCompare(func(c int) bool { return c > 0 })))
	register(JMPGT_L, relJump(4, condCompare(func(c int) bool { return c > 0 })))
	register(JMPGE, relJump(1, condCompare(func(c int) bool { return c >= 0 })))
	register(JMPGE_L, relJump(4, condCompare(func(c int) bool { return c >= 0 })))
	register(JMPLT, relJump(1, condCompare(func(c int) bool { return c < 0 })))
	register(JMPLT_L, relJump(4, condCompare(func(c int) bool { return c < 0 })))
	register(JMPLE, relJump(1, condCompare(func(c int) bool { return c <= 0 })))
	register(JMPLE_L, relJump(4, condCompare(func(c int) bool { return c <= 0 })))

	register(CALL, relCall(1))
	register(CALL_L, relCall(4))
	register(CALLA, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		if v.Type != TypePointer {
			return false, newFault(e.ip(), FaultInvalidType, "CALLA expects Pointer, got %s", v.Type)
		}
		return true, e.call(v.Pointer, e.ip()+1)
	})

	register(ABORT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		return false, newFault(e.ip(), FaultInvalidOperation, "ABORT")
	})
	register(ASSERT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		if !v.AsBool() {
			return false, newFault(e.ip(), FaultInvalidOperation, "ASSERT failed")
		}
		return false, nil
	})
	register(THROW, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		return true, e.raiseException(v)
	})

	register(TRY, tryOp(1))
	register(TRY_L, tryOp(4))

	register(ENDTRY, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		off, ok := e.dec.readI8(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated ENDTRY offset")
		}
		return e.endTry(e.ip() + int(off))
	})
	register(ENDFINALLY, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		return e.endFinally()
	})

	register(RET, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		return true, e.doReturn()
	})

	register(SYSCALL, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		id, ok := e.dec.readU32LE(immOff)
		if !ok {
			return false, newFault(e.ip(), FaultInvalidScript, "truncated SYSCALL id")
		}
		if e.syscalls == nil {
			return false, newFault(e.ip(), FaultUnknownSyscall, "syscall 0x%08X: no syscall hook installed", id)
		}
		return false, e.syscalls.Syscall(id, e)
	})
}

func alwaysTrue(e *Engine) (bool, error) { return true, nil }

func condPopBool(want bool) func(e *Engine) (bool, error) {
	return func(e *Engine) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		return v.AsBool() == want, nil
	}
}

func condCompare(ok func(cmp int) bool) func(e *Engine) (bool, error) {
	return func(e *Engine) (bool, error) {
		b, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		return ok(a.Big().Cmp(b.Big())), nil
	}
}

// relJump returns a handler for an offBytes-wide signed relative jump. The
// target is relative to the start of the jump instruction itself (§4.4).
func relJump(offBytes int, cond func(e *Engine) (bool, error)) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		opIP := e.ip()
		off, ok := readOffset(e.dec, immOff, offBytes)
		if !ok {
			return false, newFault(opIP, FaultInvalidScript, "truncated jump offset")
		}
		take, err := cond(e)
		if err != nil {
			return false, err
		}
		if !take {
			return false, nil
		}
		target := opIP + off
		if !e.jumpTargets.Contains(target) {
			return false, newFault(opIP, FaultInvalidScript, "jump target %d is not an instruction boundary", target)
		}
		e.frame().PC = target
		return true, nil
	}
}

func relCall(offBytes int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		opIP := e.ip()
		off, ok := readOffset(e.dec, immOff, offBytes)
		if !ok {
			return false, newFault(opIP, FaultInvalidScript, "truncated call offset")
		}
		target := opIP + off
		return true, e.call(target, immOff+offBytes)
	}
}

func readOffset(d decoder, off, n int) (int, bool) {
	if n == 1 {
		v, ok := d.readI8(off)
		return int(v), ok
	}
	v, ok := d.readI32LE(off)
	return int(v), ok
}

// call pushes a new invocation frame at target, returning to returnIP in the
// current frame once it RETs (§3, §4.4).
func (e *Engine) call(target, returnIP int) error {
	if !e.jumpTargets.Contains(target) {
		return newFault(e.ip(), FaultInvalidScript, "call target %d is not an instruction boundary", target)
	}
	if len(e.frames) >= e.cfg.MaxInvocationDepth {
		return newFault(e.ip(), FaultInvocationDepthExceeded, "invocation depth %d exceeds cap %d", len(e.frames), e.cfg.MaxInvocationDepth)
	}
	nf := newFrame(e.frame().Program, returnIP)
	nf.PC = target
	e.frames = append(e.frames, nf)
	return nil
}

// doReturn pops the current frame. Returning from the outermost frame halts
// the engine (§4.4).
func (e *Engine) doReturn() error {
	if len(e.frames) == 1 {
		return e.halt()
	}
	done := e.frame()
	e.frames = e.frames[:len(e.frames)-1]
	e.frame().PC = done.ReturnIP
	return nil
}

// tryOp decodes the two offBytes-wide signed catch/finally offsets of
// TRY/TRY_L and pushes a TryRecord (§4.4). A zero offset field means "no
// handler" per the usual NeoVM convention, stored as -1 internally.
func tryOp(offBytes int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		opIP := e.ip()
		catchOff, ok := readOffset(e.dec, immOff, offBytes)
		if !ok {
			return false, newFault(opIP, FaultInvalidScript, "truncated TRY catch offset")
		}
		finallyOff, ok := readOffset(e.dec, immOff+offBytes, offBytes)
		if !ok {
			return false, newFault(opIP, FaultInvalidScript, "truncated TRY finally offset")
		}
		catchIP, finallyIP := -1, -1
		if catchOff != 0 {
			catchIP = opIP + catchOff
			if !e.jumpTargets.Contains(catchIP) {
				return false, newFault(opIP, FaultInvalidScript, "TRY catch target is not an instruction boundary")
			}
		}
		if finallyOff != 0 {
			finallyIP = opIP + finallyOff
			if !e.jumpTargets.Contains(finallyIP) {
				return false, newFault(opIP, FaultInvalidScript, "TRY finally target is not an instruction boundary")
			}
		}
		e.frame().pushTry(catchIP, finallyIP)
		return false, nil
	}
}

// endTry closes the active protected region. If it owns a finally handler
// that has not yet run, control transfers there instead of to target.
func (e *Engine) endTry(target int) (bool, error) {
	f := e.frame()
	rec, ok := f.topTry()
	if !ok {
		return false, newFault(e.ip(), FaultInvalidOperation, "ENDTRY with no active try")
	}
	if rec.FinallyIP >= 0 && rec.State == TryActive {
		rec.State = TryInFinally
		f.pendingAfterFinally = target
		f.PC = rec.FinallyIP
		return true, nil
	}
	f.popTry()
	if !e.jumpTargets.Contains(target) {
		return false, newFault(e.ip(), FaultInvalidScript, "ENDTRY target is not an instruction boundary")
	}
	f.PC = target
	return true, nil
}

// endFinally resumes execution after the try/finally that just ran,
// continuing an in-flight exception unwind if one was pending.
func (e *Engine) endFinally() (bool, error) {
	f := e.frame()
	rec, ok := f.topTry()
	if !ok || rec.State != TryInFinally {
		return false, newFault(e.ip(), FaultInvalidOperation, "ENDFINALLY with no active finally")
	}
	f.popTry()
	target := f.pendingAfterFinally
	f.pendingAfterFinally = 0
	if !e.jumpTargets.Contains(target) {
		return false, newFault(e.ip(), FaultInvalidScript, "ENDFINALLY resume target is not an instruction boundary")
	}
	f.PC = target
	return true, nil
}

// raiseException implements THROW's search for an enclosing active catch
// handler, first within the current frame's try-stack and then by
// unwinding outer invocation frames (§4.4). No catch anywhere in the
// invocation stack is FaultUnhandled.
func (e *Engine) raiseException(val Value) error {
	for {
		f := e.frame()
		if rec, ok := f.topTry(); ok && rec.State == TryActive && rec.CatchIP >= 0 {
			rec.State = TryInCatch
			f.PC = rec.CatchIP
			return e.Push(val)
		}
		if len(e.frames) == 1 {
			return newFault(e.ip(), FaultUnhandled, "unhandled exception")
		}
		e.frames = e.frames[:len(e.frames)-1]
	}
}
