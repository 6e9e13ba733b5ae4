package vm

import "testing"

func topValue(t *testing.T, e *Engine) Value {
	t.Helper()
	v, err := e.Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	return v
}

func TestCompoundPackAndUnpack(t *testing.T) {
	t.Run("Pack", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH3), byte(PUSH3), byte(PACK)}
		e := runEngine(t, program)
		v := topValue(t, e)
		if v.Type != TypeArray || len(v.Items) != 3 {
			t.Fatalf("PACK result = %+v, want a 3-item Array", v)
		}
		if v.Items[0].Big().Int64() != 1 || v.Items[2].Big().Int64() != 3 {
			t.Fatalf("PACK preserved order incorrectly: %+v", v.Items)
		}
	})
	t.Run("Unpack", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH2), byte(PACK), byte(UNPACK)}
		e := runEngine(t, program)
		// stack: item0, item1, count
		assertStack(t, e, ints(1, 2, 2))
	})
	t.Run("PackMapAndPickItem", func(t *testing.T) {
		// {1: 10} via PACKMAP, then PICKITEM(1) = 10
		program := []byte{
			byte(PUSH1), byte(PUSHINT8), 10,
			byte(PUSH1), byte(PACKMAP),
			byte(DUP), byte(PUSH1), byte(PICKITEM),
		}
		e := runEngine(t, program)
		if e.Depth() != 2 {
			t.Fatalf("depth = %d, want 2", e.Depth())
		}
		if got := topValue(t, e).Big().Int64(); got != 10 {
			t.Fatalf("PICKITEM(1) = %d, want 10", got)
		}
	})
}

func TestCompoundMutationOps(t *testing.T) {
	t.Run("AppendGrowsArrayAndPushesMutatedCopy", func(t *testing.T) {
		program := []byte{byte(NEWARRAY0), byte(PUSH5), byte(APPEND)}
		e := runEngine(t, program)
		v := topValue(t, e)
		if v.Type != TypeArray || len(v.Items) != 1 || v.Items[0].Big().Int64() != 5 {
			t.Fatalf("APPEND result = %+v, want [5]", v)
		}
	})
	t.Run("SetItemReplacesElement", func(t *testing.T) {
		program := []byte{
			byte(PUSH1), byte(PUSH2), byte(PUSH2), byte(PACK),
			byte(PUSH0), byte(PUSH9), byte(SETITEM),
		}
		e := runEngine(t, program)
		v := topValue(t, e)
		if v.Items[0].Big().Int64() != 9 || v.Items[1].Big().Int64() != 2 {
			t.Fatalf("SETITEM result = %+v, want [9, 2]", v.Items)
		}
	})
	t.Run("SetItemOnStructFaults", func(t *testing.T) {
		program := []byte{
			byte(PUSH1), byte(PUSH1), byte(PACKSTRUCT),
			byte(PUSH0), byte(PUSH9), byte(SETITEM), byte(RET),
		}
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
			t.Fatalf("fault = %+v, want InvalidOperation", rep.Fault)
		}
	})
	t.Run("RemoveByIndex", func(t *testing.T) {
		program := []byte{
			byte(PUSH1), byte(PUSH2), byte(PUSH3), byte(PUSH3), byte(PACK),
			byte(PUSH1), byte(REMOVE),
		}
		e := runEngine(t, program)
		v := topValue(t, e)
		if len(v.Items) != 2 || v.Items[0].Big().Int64() != 1 || v.Items[1].Big().Int64() != 3 {
			t.Fatalf("REMOVE(1) result = %+v, want [1, 3]", v.Items)
		}
	})
	t.Run("PopItem", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH2), byte(PACK), byte(POPITEM)}
		e := runEngine(t, program)
		if e.Depth() != 2 {
			t.Fatalf("depth = %d, want 2", e.Depth())
		}
		if got := topValue(t, e).Big().Int64(); got != 2 {
			t.Fatalf("POPITEM popped value = %d, want 2", got)
		}
		remaining, err := e.Peek(1)
		if err != nil {
			t.Fatalf("Peek: %v", err)
		}
		if len(remaining.Items) != 1 || remaining.Items[0].Big().Int64() != 1 {
			t.Fatalf("remaining array = %+v, want [1]", remaining.Items)
		}
	})
	t.Run("ReverseItems", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH3), byte(PUSH3), byte(PACK), byte(REVERSEITEMS)}
		e := runEngine(t, program)
		v := topValue(t, e)
		if v.Items[0].Big().Int64() != 3 || v.Items[2].Big().Int64() != 1 {
			t.Fatalf("REVERSEITEMS result = %+v, want [3, 2, 1]", v.Items)
		}
	})
}

func TestCompoundQueries(t *testing.T) {
	t.Run("SizeOfArray", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH2), byte(PACK), byte(SIZE), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 2 {
			t.Fatalf("SIZE = %v, want 2", rep.Top)
		}
	})
	t.Run("HasKeyInBounds", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH2), byte(PUSH2), byte(PACK), byte(PUSH1), byte(HASKEY), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("HASKEY(1) on a 2-item array should be true, got %+v", rep.Top)
		}
	})
	t.Run("PickItemOutOfRangeFaults", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH1), byte(PACK), byte(PUSH5), byte(PICKITEM), byte(RET)}
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
			t.Fatalf("fault = %+v, want InvalidOperation", rep.Fault)
		}
	})
}
