package vm

import "testing"

// runEngine is like run but returns the live engine so tests can inspect the
// full evaluation stack, not just the top.
func runEngine(t *testing.T, program []byte) *Engine {
	t.Helper()
	e := NewEngine(DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
	if err := e.Load(program); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := e.RunToEnd(); err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}
	return e
}

func ints(vals ...int64) []int64 {
	out := make([]int64, len(vals))
	copy(out, vals)
	return out
}

func assertStack(t *testing.T, e *Engine, want []int64) {
	t.Helper()
	stack := e.EvaluationStack()
	if len(stack) != len(want) {
		t.Fatalf("stack depth = %d, want %d (stack=%v)", len(stack), len(want), stack)
	}
	for i, v := range stack {
		if v.Big().Int64() != want[i] {
			t.Fatalf("stack[%d] = %d, want %d", i, v.Big().Int64(), want[i])
		}
	}
}

func TestStackDepthAndDrop(t *testing.T) {
	t.Run("Depth", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH3), byte(DEPTH)}
		e := runEngine(t, program)
		assertStack(t, e, ints(1, 2, 3, 3))
	})
	t.Run("Drop", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(DROP)}
		e := runEngine(t, program)
		assertStack(t, e, ints(1))
	})
	t.Run("DropOnEmptyFaults", func(t *testing.T) {
		e := NewEngine(DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
		if err := e.Load([]byte{byte(DROP)}); err != nil {
			t.Fatalf("Load: %v", err)
		}
		rep, err := e.RunToEnd()
		if err != nil {
			t.Fatalf("RunToEnd: %v", err)
		}
		if rep.State != Fault || rep.Fault.Kind != FaultStackUnderflow {
			t.Fatalf("fault = %+v, want StackUnderflow", rep.Fault)
		}
	})
}

func TestStackReordering(t *testing.T) {
	t.Run("Nip", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(NIP)}
		e := runEngine(t, program)
		assertStack(t, e, ints(2))
	})
	t.Run("Dup", func(t *testing.T) {
		program := []byte{byte(PUSH5), byte(DUP)}
		e := runEngine(t, program)
		assertStack(t, e, ints(5, 5))
	})
	t.Run("Over", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(OVER)}
		e := runEngine(t, program)
		assertStack(t, e, ints(1, 2, 1))
	})
	t.Run("Swap", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(SWAP)}
		e := runEngine(t, program)
		assertStack(t, e, ints(2, 1))
	})
	t.Run("Tuck", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(TUCK)}
		e := runEngine(t, program)
		assertStack(t, e, ints(2, 1, 2))
	})
	t.Run("Rot", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH3), byte(ROT)}
		e := runEngine(t, program)
		assertStack(t, e, ints(2, 3, 1))
	})
	t.Run("Reverse3", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH3), byte(REVERSE3)}
		e := runEngine(t, program)
		assertStack(t, e, ints(3, 2, 1))
	})
	t.Run("Reverse4", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH3), byte(PUSH4), byte(REVERSE4)}
		e := runEngine(t, program)
		assertStack(t, e, ints(4, 3, 2, 1))
	})
	t.Run("Clear", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(CLEAR)}
		e := runEngine(t, program)
		assertStack(t, e, ints())
	})
}

func TestStackIndexedOps(t *testing.T) {
	t.Run("Pick", func(t *testing.T) {
		// stack (bottom->top): 10, 20, 30; PICK 2 fetches the bottom value (10)
		program := []byte{byte(PUSHINT8), 10, byte(PUSHINT8), 20, byte(PUSHINT8), 30, byte(PUSH2), byte(PICK)}
		e := runEngine(t, program)
		assertStack(t, e, ints(10, 20, 30, 10))
	})
	t.Run("Roll", func(t *testing.T) {
		// stack: 10, 20, 30; ROLL 2 moves the bottom value to the top
		program := []byte{byte(PUSHINT8), 10, byte(PUSHINT8), 20, byte(PUSHINT8), 30, byte(PUSH2), byte(ROLL)}
		e := runEngine(t, program)
		assertStack(t, e, ints(20, 30, 10))
	})
	t.Run("XDrop", func(t *testing.T) {
		// stack: 10, 20, 30; XDROP 1 removes the middle value (20)
		program := []byte{byte(PUSHINT8), 10, byte(PUSHINT8), 20, byte(PUSHINT8), 30, byte(PUSH1), byte(XDROP)}
		e := runEngine(t, program)
		assertStack(t, e, ints(10, 30))
	})
	t.Run("ReverseN", func(t *testing.T) {
		// stack [1,2,3,4]; REVERSEN 3 reverses only the top 3 elements.
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH3), byte(PUSH4), byte(PUSH3), byte(REVERSEN)}
		e := runEngine(t, program)
		assertStack(t, e, ints(1, 4, 3, 2))
	})
}
