package vm

import "testing"

func TestBitwiseOps(t *testing.T) {
	t.Run("And", func(t *testing.T) {
		program := []byte{byte(PUSHINT8), 0x0F, byte(PUSHINT8), 0x03, byte(AND), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 0x03 {
			t.Fatalf("result = %v, want 3", rep.Top)
		}
	})
	t.Run("Or", func(t *testing.T) {
		program := []byte{byte(PUSHINT8), 0x0C, byte(PUSHINT8), 0x03, byte(OR), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 0x0F {
			t.Fatalf("result = %v, want 15", rep.Top)
		}
	})
	t.Run("Xor", func(t *testing.T) {
		program := []byte{byte(PUSHINT8), 0x0F, byte(PUSHINT8), 0x03, byte(XOR), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 0x0C {
			t.Fatalf("result = %v, want 12", rep.Top)
		}
	})
	t.Run("Invert", func(t *testing.T) {
		program := []byte{byte(PUSH0), byte(INVERT), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != -1 {
			t.Fatalf("INVERT(0) = %v, want -1", rep.Top)
		}
	})
}

func TestEqualityOps(t *testing.T) {
	t.Run("EqualIntegers", func(t *testing.T) {
		program := []byte{byte(PUSH5), byte(PUSH5), byte(EQUAL), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("5 == 5 should be true, got %+v", rep.Top)
		}
	})
	t.Run("NotEqualIntegers", func(t *testing.T) {
		program := []byte{byte(PUSH5), byte(PUSH3), byte(NOTEQUAL), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("5 != 3 should be true, got %+v", rep.Top)
		}
	})
	t.Run("EqualByteStrings", func(t *testing.T) {
		program := append(data1([]byte("abc")), data1([]byte("abc"))...)
		program = append(program, byte(EQUAL), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("identical byte strings should be equal, got %+v", rep.Top)
		}
	})
	t.Run("ArrayNotEqualToStructOfSameContents", func(t *testing.T) {
		// §9 open question (a): Array and Struct of identical content are
		// NOT equal — variant participates in the equality key.
		arr := NewArray([]Value{IntFromInt64(1)})
		st := NewStruct([]Value{IntFromInt64(1)})
		if arr.Equal(st) {
			t.Fatalf("Array and Struct with identical contents compared equal")
		}
	})
}
