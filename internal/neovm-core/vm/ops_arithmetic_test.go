package vm

import "testing"

// run assembles a tiny engine, loads program, and runs it to completion.
func run(t *testing.T, program []byte) *TerminationReport {
	t.Helper()
	e := NewEngine(DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
	if err := e.Load(program); err != nil {
		t.Fatalf("Load: %v", err)
	}
	rep, err := e.RunToEnd()
	if err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}
	return rep
}

func push8(n byte) []byte { return []byte{byte(PUSHINT8), n} }

func TestArithmeticBinaryOps(t *testing.T) {
	cases := []struct {
		name string
		op   OpCode
		a, b int64
		want int64
	}{
		{"Add", ADD, 3, 4, 7},
		{"Sub", SUB, 10, 3, 7},
		{"Mul", MUL, 6, 7, 42},
		{"Div", DIV, 20, 4, 5},
		{"DivTruncatesTowardZero", DIV, 7, 2, 3},
		{"Mod", MOD, 7, 3, 1},
		{"Pow", POW, 2, 10, 1024},
		{"Min", MIN, 5, 9, 5},
		{"Max", MAX, 5, 9, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			program := append(push8(byte(tc.a)), push8(byte(tc.b))...)
			program = append(program, byte(tc.op), byte(RET))
			rep := run(t, program)
			if rep.State != Halt {
				t.Fatalf("state = %v, want Halt (fault %+v)", rep.State, rep.Fault)
			}
			if rep.Top == nil || rep.Top.Big().Int64() != tc.want {
				t.Fatalf("result = %v, want %d", rep.Top, tc.want)
			}
		})
	}
}

func TestArithmeticUnaryOps(t *testing.T) {
	t.Run("Abs", func(t *testing.T) {
		program := append(push8(10), byte(NEGATE), byte(ABS), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 10 {
			t.Fatalf("ABS(-10) = %v, want 10", rep.Top)
		}
	})
	t.Run("Negate", func(t *testing.T) {
		program := append(push8(9), byte(NEGATE), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != -9 {
			t.Fatalf("result = %v, want -9", rep.Top)
		}
	})
	t.Run("Inc", func(t *testing.T) {
		program := append(push8(9), byte(INC), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 10 {
			t.Fatalf("result = %v, want 10", rep.Top)
		}
	})
	t.Run("Dec", func(t *testing.T) {
		program := append(push8(9), byte(DEC), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 8 {
			t.Fatalf("result = %v, want 8", rep.Top)
		}
	})
	t.Run("Sign", func(t *testing.T) {
		program := append(push8(9), byte(NEGATE), byte(SIGN), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != -1 {
			t.Fatalf("result = %v, want -1", rep.Top)
		}
	})
	t.Run("Sqrt", func(t *testing.T) {
		program := append(push8(81), byte(SQRT), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 9 {
			t.Fatalf("result = %v, want 9", rep.Top)
		}
	})
	t.Run("SqrtOfNegativeFaults", func(t *testing.T) {
		program := append(push8(9), byte(NEGATE), byte(SQRT), byte(RET))
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
			t.Fatalf("fault = %+v, want InvalidOperation", rep.Fault)
		}
	})
}

func TestArithmeticDivisionByZero(t *testing.T) {
	for _, op := range []OpCode{DIV, MOD} {
		program := append(push8(1), push8(0)...)
		program = append(program, byte(op), byte(RET))
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultDivisionByZero {
			t.Fatalf("%s: fault = %+v, want DivisionByZero", opName(op), rep.Fault)
		}
	}
}

func opName(op OpCode) string {
	info, _ := op.Info()
	return info.Name
}

func TestModMulAndModPow(t *testing.T) {
	t.Run("ModMul", func(t *testing.T) {
		// (7 * 8) mod 10 = 6
		program := []byte{byte(PUSHINT8), 7, byte(PUSHINT8), 8, byte(PUSHINT8), 10, byte(MODMUL), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 6 {
			t.Fatalf("result = %v, want 6", rep.Top)
		}
	})
	t.Run("ModPowModZeroFaults", func(t *testing.T) {
		program := []byte{byte(PUSHINT8), 2, byte(PUSHINT8), 3, byte(PUSHINT8), 0, byte(MODPOW), byte(RET)}
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultDivisionByZero {
			t.Fatalf("fault = %+v, want DivisionByZero", rep.Fault)
		}
	})
}

func TestShiftOps(t *testing.T) {
	t.Run("Shl", func(t *testing.T) {
		program := []byte{byte(PUSHINT8), 1, byte(PUSHINT8), 4, byte(SHL), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 16 {
			t.Fatalf("result = %v, want 16", rep.Top)
		}
	})
	t.Run("Shr", func(t *testing.T) {
		program := []byte{byte(PUSHINT8), 16, byte(PUSHINT8), 4, byte(SHR), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Big().Int64() != 1 {
			t.Fatalf("result = %v, want 1", rep.Top)
		}
	})
	t.Run("ShiftBeyondMaxShiftFaults", func(t *testing.T) {
		program := []byte{byte(PUSHINT8), 1, byte(PUSHINT16), 0x01, 0x01 /* 257 little-endian */, byte(SHL), byte(RET)}
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
			t.Fatalf("fault = %+v, want InvalidOperation", rep.Fault)
		}
	})
}

func TestBooleanAndComparisonOps(t *testing.T) {
	t.Run("Not", func(t *testing.T) {
		program := []byte{byte(PUSH0), byte(NOT), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("NOT of 0 should be true, got %+v", rep.Top)
		}
	})
	t.Run("BoolAnd", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH0), byte(BOOLAND), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.AsBool() {
			t.Fatalf("1 && 0 should be false, got %+v", rep.Top)
		}
	})
	t.Run("BoolOr", func(t *testing.T) {
		program := []byte{byte(PUSH1), byte(PUSH0), byte(BOOLOR), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("1 || 0 should be true, got %+v", rep.Top)
		}
	})
	t.Run("Nz", func(t *testing.T) {
		program := []byte{byte(PUSH0), byte(NZ), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.AsBool() {
			t.Fatalf("NZ of 0 should be false, got %+v", rep.Top)
		}
	})
	t.Run("NumEqual", func(t *testing.T) {
		program := []byte{byte(PUSH3), byte(PUSH3), byte(NUMEQUAL), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("3 == 3 should be true, got %+v", rep.Top)
		}
	})
	t.Run("LtGtLeGe", func(t *testing.T) {
		program := []byte{byte(PUSH3), byte(PUSH5), byte(LT), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("3 < 5 should be true, got %+v", rep.Top)
		}
	})
	t.Run("Within", func(t *testing.T) {
		// x=5, lo=0, hi=10 => within [0, 10)
		program := []byte{byte(PUSH5), byte(PUSH0), byte(PUSHINT8), 10, byte(WITHIN), byte(RET)}
		rep := run(t, program)
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("5 within [0,10) should be true, got %+v", rep.Top)
		}
	})
}
