package vm

import "testing"

func TestUnconditionalJump(t *testing.T) {
	// JMP +4 skips the PUSHINT8 99 and lands on PUSHINT8 42.
	program := []byte{
		byte(JMP), 4,
		byte(PUSHINT8), 99,
		byte(PUSHINT8), 42,
		byte(RET),
	}
	rep := run(t, program)
	if rep.State != Halt || rep.Top.Big().Int64() != 42 {
		t.Fatalf("result = %v, want 42", rep.Top)
	}
}

// condJumpProgram builds an if/else shaped program: JMPIF skips to the
// true-branch when cond is truthy, otherwise falls through to the
// false-branch immediately after it.
func condJumpProgram(cond OpCode) []byte {
	return []byte{
		byte(cond),
		byte(JMPIF), 5, // opIP=1, target=6 (true-branch)
		byte(PUSHINT8), 1, byte(RET), // false-branch: falls through here
		byte(PUSHINT8), 7, byte(RET), // true-branch: jumped to here
	}
}

func TestConditionalJump(t *testing.T) {
	t.Run("TakenWhenTrue", func(t *testing.T) {
		rep := run(t, condJumpProgram(PUSH1))
		if rep.State != Halt || rep.Top.Big().Int64() != 7 {
			t.Fatalf("result = %v, want 7", rep.Top)
		}
	})
	t.Run("NotTakenWhenFalse", func(t *testing.T) {
		rep := run(t, condJumpProgram(PUSH0))
		if rep.State != Halt || rep.Top.Big().Int64() != 1 {
			t.Fatalf("result = %v, want 1", rep.Top)
		}
	})
}

func TestCallAndReturn(t *testing.T) {
	// CALL +3 invokes a subroutine that pushes 5 and returns.
	program := []byte{
		byte(CALL), 3,
		byte(RET),
		byte(PUSHINT8), 5,
		byte(RET),
	}
	rep := run(t, program)
	if rep.State != Halt || rep.Top.Big().Int64() != 5 {
		t.Fatalf("result = %v, want 5", rep.Top)
	}
}

func TestTryThrowCatch(t *testing.T) {
	// TRY catch=+5 finally=none; body throws 1; the catch handler resumes
	// at ENDTRY's target with the thrown value still on the stack.
	program := []byte{
		byte(TRY), 5, 0,
		byte(PUSH1),
		byte(THROW),
		byte(ENDTRY), 2,
		byte(RET),
	}
	rep := run(t, program)
	if rep.State != Halt || rep.Top.Big().Int64() != 1 {
		t.Fatalf("result = %v, want 1 (caught value)", rep.Top)
	}
}

func TestFaultInsideTryIsNotCaughtUnlessThrown(t *testing.T) {
	// An ASSERT failure inside an active TRY region must terminate the
	// engine immediately (§7 "Propagation"), not divert into the catch
	// handler the way THROW does.
	program := []byte{
		byte(TRY), 5, 0,
		byte(PUSH0), byte(ASSERT),
		byte(ENDTRY), 2,
		byte(RET),
	}
	rep := run(t, program)
	if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
		t.Fatalf("fault = %+v, want InvalidOperation (ASSERT should not be caught by TRY)", rep.Fault)
	}
}

func TestSyscallFaultInsideTryIsCaught(t *testing.T) {
	// Per Open Question (c), a fault raised by the syscall hook is
	// catchable exactly like THROW.
	program := []byte{
		byte(TRY), 8, 0,
		byte(SYSCALL), 0x00, 0x00, 0x00, 0x00,
		byte(ENDTRY), 2,
		byte(RET),
	}
	rep := run(t, program)
	if rep.State != Halt {
		t.Fatalf("state = %v, want Halt (syscall fault should be caught), fault=%+v", rep.State, rep.Fault)
	}
	if rep.Top == nil || rep.Top.Type != TypeByteString {
		t.Fatalf("caught syscall fault should push a ByteString value, got %+v", rep.Top)
	}
}

func TestThrowUnhandledFaults(t *testing.T) {
	program := []byte{byte(PUSH1), byte(THROW)}
	rep := run(t, program)
	if rep.State != Fault || rep.Fault.Kind != FaultUnhandled {
		t.Fatalf("fault = %+v, want Unhandled", rep.Fault)
	}
}

func TestAssertAndAbort(t *testing.T) {
	t.Run("AssertFailureFaults", func(t *testing.T) {
		program := []byte{byte(PUSH0), byte(ASSERT)}
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
			t.Fatalf("fault = %+v, want InvalidOperation", rep.Fault)
		}
	})
	t.Run("AssertSuccessContinues", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(ASSERT), byte(PUSH7), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 7 {
			t.Fatalf("result = %v, want 7", rep.Top)
		}
	})
	t.Run("AbortAlwaysFaults", func(t *testing.T) {
		program := []byte{byte(ABORT)}
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
			t.Fatalf("fault = %+v, want InvalidOperation", rep.Fault)
		}
	})
}

func TestSyscallWithoutHookFaults(t *testing.T) {
	program := []byte{byte(SYSCALL), 0x00, 0x00, 0x00, 0x00}
	rep := run(t, program)
	if rep.State != Fault || rep.Fault.Kind != FaultUnknownSyscall {
		t.Fatalf("fault = %+v, want UnknownSyscall", rep.Fault)
	}
}

func TestFallingOffTheEndHalts(t *testing.T) {
	program := []byte{byte(PUSH3)}
	rep := run(t, program)
	if rep.State != Halt || rep.Top.Big().Int64() != 3 {
		t.Fatalf("falling off the end should halt with top=3, got %+v", rep)
	}
}
