package vm

import "testing"

func TestTypeOps(t *testing.T) {
	t.Run("IsNullTrue", func(t *testing.T) {
		program := []byte{byte(PUSHNULL), byte(ISNULL), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("ISNULL(null) should be true, got %+v", rep.Top)
		}
	})
	t.Run("IsNullFalse", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(ISNULL), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.AsBool() {
			t.Fatalf("ISNULL(1) should be false, got %+v", rep.Top)
		}
	})
	t.Run("IsTypeInteger", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(ISTYPE), byte(TypeInteger), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("ISTYPE(1, Integer) should be true, got %+v", rep.Top)
		}
	})
	t.Run("ConvertIntegerToBoolean", func(t *testing.T) {
		program := []byte{byte(PUSH0), byte(CONVERT), byte(TypeBoolean), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.AsBool() {
			t.Fatalf("CONVERT(0, Boolean) should be false, got %+v", rep.Top)
		}
	})
	t.Run("ConvertByteStringToInteger", func(t *testing.T) {
		program := append(data1([]byte{0x2A}), byte(CONVERT), byte(TypeInteger), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 0x2A {
			t.Fatalf("CONVERT(0x2A, Integer) = %v, want 42", rep.Top)
		}
	})
	t.Run("ConvertStructToArray", func(t *testing.T) {
		e := NewEngine(DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
		if err := e.Load([]byte{byte(RET)}); err != nil {
			t.Fatalf("Load: %v", err)
		}
		st := NewStruct([]Value{IntFromInt64(1), IntFromInt64(2)})
		out, err := e.convert(st, TypeArray)
		if err != nil {
			t.Fatalf("convert: %v", err)
		}
		if out.Type != TypeArray || len(out.Items) != 2 {
			t.Fatalf("converted value = %+v, want a 2-item Array", out)
		}
	})
	t.Run("ConvertArrayToIntegerFaults", func(t *testing.T) {
		e := NewEngine(DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
		if err := e.Load([]byte{byte(RET)}); err != nil {
			t.Fatalf("Load: %v", err)
		}
		arr := NewArray([]Value{IntFromInt64(1)})
		if _, err := e.convert(arr, TypeInteger); err == nil {
			t.Fatalf("expected CONVERT Array->Integer to fault")
		}
	})
}
