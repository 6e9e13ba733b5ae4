package vm

import "testing"

// data1 assembles a PUSHDATA1 instruction pushing payload as a ByteString.
func data1(payload []byte) []byte {
	return append([]byte{byte(PUSHDATA1), byte(len(payload))}, payload...)
}

func topBytes(t *testing.T, e *Engine) []byte {
	t.Helper()
	v, err := e.Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	return v.Bytes
}

func TestSpliceCatAndSubstr(t *testing.T) {
	t.Run("Cat", func(t *testing.T) {
		program := append(data1([]byte("foo")), data1([]byte("bar"))...)
		program = append(program, byte(CAT))
		e := runEngine(t, program)
		if got := string(topBytes(t, e)); got != "foobar" {
			t.Fatalf("CAT result = %q, want %q", got, "foobar")
		}
	})
	t.Run("Substr", func(t *testing.T) {
		program := append(data1([]byte("hello world")), byte(PUSH6), byte(PUSH5), byte(SUBSTR))
		e := runEngine(t, program)
		if got := string(topBytes(t, e)); got != "world" {
			t.Fatalf("SUBSTR result = %q, want %q", got, "world")
		}
	})
	t.Run("Left", func(t *testing.T) {
		program := append(data1([]byte("hello")), byte(PUSH3), byte(LEFT))
		e := runEngine(t, program)
		if got := string(topBytes(t, e)); got != "hel" {
			t.Fatalf("LEFT result = %q, want %q", got, "hel")
		}
	})
	t.Run("Right", func(t *testing.T) {
		program := append(data1([]byte("hello")), byte(PUSH3), byte(RIGHT))
		e := runEngine(t, program)
		if got := string(topBytes(t, e)); got != "llo" {
			t.Fatalf("RIGHT result = %q, want %q", got, "llo")
		}
	})
	t.Run("SubstrOutOfBoundsFaults", func(t *testing.T) {
		program := append(data1([]byte("hi")), byte(PUSH0), byte(PUSH16), byte(SUBSTR), byte(RET))
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
			t.Fatalf("fault = %+v, want InvalidOperation", rep.Fault)
		}
	})
}

func TestSpliceBufferOps(t *testing.T) {
	t.Run("NewBufferIsZeroed", func(t *testing.T) {
		program := []byte{byte(PUSH4), byte(NEWBUFFER)}
		e := runEngine(t, program)
		buf := topBytes(t, e)
		if len(buf) != 4 {
			t.Fatalf("NEWBUFFER length = %d, want 4", len(buf))
		}
		for i, b := range buf {
			if b != 0 {
				t.Fatalf("NEWBUFFER byte %d = %d, want 0", i, b)
			}
		}
	})
	t.Run("Memcpy", func(t *testing.T) {
		// keep a DUPed reference to the buffer, since MEMCPY consumes its
		// own dst operand without pushing it back (mutation is observed
		// only through an alias kept on the stack beforehand).
		program := []byte{byte(PUSH4), byte(NEWBUFFER), byte(DUP)}
		program = append(program, byte(PUSH1) /* dstIndex */)
		program = append(program, data1([]byte("ab"))...)
		program = append(program, byte(PUSH0) /* srcIndex */, byte(PUSH2) /* count */, byte(MEMCPY))
		e := runEngine(t, program)
		buf := topBytes(t, e)
		want := []byte{0, 'a', 'b', 0}
		if len(buf) != len(want) {
			t.Fatalf("buffer = %v, want %v", buf, want)
		}
		for i := range want {
			if buf[i] != want[i] {
				t.Fatalf("buffer = %v, want %v", buf, want)
			}
		}
	})
}
