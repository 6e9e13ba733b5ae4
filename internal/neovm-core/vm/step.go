package vm

// opHandler executes one decoded opcode. It returns jumped=true when it has
// already repositioned the current frame's PC itself (jumps, calls, return,
// try/throw unwinding); otherwise step() advances PC past the instruction by
// its fixed+immediate width.
type opHandler func(e *Engine, info OpInfo, immOff int) (jumped bool, err error)

var dispatch = map[OpCode]opHandler{}

func register(op OpCode, h opHandler) {
	dispatch[op] = h
}

// Step executes exactly one instruction (§4.4 "step"). It is a no-op,
// returning nil, if the engine is not in the Running state.
func (e *Engine) Step() error {
	if e.state != Running {
		return nil
	}
	f := e.frame()
	ip := f.PC
	if ip >= len(f.Program) {
		// Falling off the end of a program with no explicit RET halts.
		return e.halt()
	}
	op := OpCode(f.Program[ip])
	info, ok := op.Info()
	if !ok {
		return e.fail(newFault(ip, FaultInvalidScript, "unknown opcode 0x%02X", byte(op)))
	}
	immOff := ip + 1
	size, ok := immediateSize(e.dec, immOff, info.Imm)
	if !ok {
		return e.fail(newFault(ip, FaultInvalidScript, "truncated immediate for %s", info.Name))
	}
	if !e.gas.Charge(info.Gas) {
		return e.fail(newFault(ip, FaultOutOfGas, "charging %d gas for %s exceeds limit %d", info.Gas, info.Name, e.gas.Limit))
	}
	h, ok := dispatch[op]
	if !ok {
		return e.fail(newFault(ip, FaultInvalidScript, "%s has no handler", info.Name))
	}
	jumped, err := h(e, info, immOff)
	if err != nil {
		if op == SYSCALL {
			return e.handleOpError(err)
		}
		fl, ok := err.(*Fault)
		if !ok {
			fl = newFault(e.ip(), FaultInvalidOperation, "%v", err)
		}
		return e.fail(fl)
	}
	if !jumped {
		f.PC = ip + 1 + size
	}
	e.trace.recordStep(ip, op, e.gas.Consumed, e.stack)
	if e.state == Running && len(e.frames) == 1 && e.frame().PC >= len(e.frame().Program) {
		return e.halt()
	}
	return nil
}

// handleOpError routes a SYSCALL error into an unwind against the try-stack:
// per Open Question (c), a fault raised by the syscall hook is catchable
// exactly like THROW, unlike every other fault kind (§7 "Propagation").
func (e *Engine) handleOpError(err error) error {
	f, ok := err.(*Fault)
	if !ok {
		f = newFault(e.ip(), FaultInvalidOperation, "%v", err)
	}
	return e.unwindToCatch(f)
}

// unwindToCatch searches the invocation stack for the nearest active catch
// handler and, if found, pushes the fault as the raised value and resumes
// at its catch_ip, mirroring THROW's raiseException (ops_flow.go). If no
// catch is found anywhere, the original fault terminates the engine.
func (e *Engine) unwindToCatch(fault *Fault) error {
	val := ByteString([]byte(fault.Error()))
	for {
		fr := e.frame()
		if rec, ok := fr.topTry(); ok && rec.State == TryActive && rec.CatchIP >= 0 {
			rec.State = TryInCatch
			fr.PC = rec.CatchIP
			return e.Push(val)
		}
		if len(e.frames) == 1 {
			return e.fail(fault)
		}
		e.frames = e.frames[:len(e.frames)-1]
	}
}

func (e *Engine) halt() error {
	e.state = Halt
	e.trace.recordFinal(e.stack)
	return nil
}

// RunToEnd drives Step until the engine leaves the Running state, returning
// a TerminationReport (§4.4 "run_to_end").
func (e *Engine) RunToEnd() (*TerminationReport, error) {
	for e.state == Running {
		if err := e.Step(); err != nil {
			// A *Fault is a terminal engine state, not a Go-level failure of
			// RunToEnd itself: §4.4 requires the public tuple to be emitted
			// even on fault, with success=false, so it must still produce a
			// report. Anything else indicates a bug in a handler.
			if _, ok := err.(*Fault); !ok {
				return nil, err
			}
			break
		}
	}
	rep := &TerminationReport{
		State:       e.state,
		Fault:       e.fault,
		GasConsumed: e.gas.Consumed,
		Trace:       e.trace.trace,
	}
	if len(e.stack) > 0 {
		top := e.stack[len(e.stack)-1]
		rep.Top = &top
	}
	return rep, nil
}
