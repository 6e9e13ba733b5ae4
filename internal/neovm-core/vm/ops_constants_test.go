package vm

import "testing"

func TestPushIntImmediates(t *testing.T) {
	t.Run("PushInt8", func(t *testing.T) {
		rep := run(t, []byte{byte(PUSHINT8), 0x7F, byte(RET)})
		if rep.State != Halt || rep.Top.Big().Int64() != 127 {
			t.Fatalf("result = %v, want 127", rep.Top)
		}
	})
	t.Run("PushInt8Negative", func(t *testing.T) {
		rep := run(t, []byte{byte(PUSHINT8), 0xFF, byte(RET)}) // -1 in two's complement
		if rep.State != Halt || rep.Top.Big().Int64() != -1 {
			t.Fatalf("result = %v, want -1", rep.Top)
		}
	})
	t.Run("PushInt16", func(t *testing.T) {
		rep := run(t, []byte{byte(PUSHINT16), 0x39, 0x30, byte(RET)}) // 0x3039 = 12345
		if rep.State != Halt || rep.Top.Big().Int64() != 12345 {
			t.Fatalf("result = %v, want 12345", rep.Top)
		}
	})
	t.Run("PushInt32", func(t *testing.T) {
		rep := run(t, []byte{byte(PUSHINT32), 0x01, 0x00, 0x00, 0x00, byte(RET)})
		if rep.State != Halt || rep.Top.Big().Int64() != 1 {
			t.Fatalf("result = %v, want 1", rep.Top)
		}
	})
	t.Run("TruncatedImmediateFaults", func(t *testing.T) {
		rep := run(t, []byte{byte(PUSHINT32), 0x01, 0x00})
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidScript {
			t.Fatalf("fault = %+v, want InvalidScript", rep.Fault)
		}
	})
}

func TestPushFixedConstants(t *testing.T) {
	t.Run("PushM1", func(t *testing.T) {
		rep := run(t, []byte{byte(PUSHM1), byte(RET)})
		if rep.State != Halt || rep.Top.Big().Int64() != -1 {
			t.Fatalf("result = %v, want -1", rep.Top)
		}
	})
	t.Run("Push16", func(t *testing.T) {
		rep := run(t, []byte{byte(PUSH16), byte(RET)})
		if rep.State != Halt || rep.Top.Big().Int64() != 16 {
			t.Fatalf("result = %v, want 16", rep.Top)
		}
	})
	t.Run("PushNull", func(t *testing.T) {
		rep := run(t, []byte{byte(PUSHNULL), byte(RET)})
		if rep.State != Halt || rep.Top.Type != TypeNull {
			t.Fatalf("result type = %v, want Null", rep.Top)
		}
	})
}

func TestPushData(t *testing.T) {
	t.Run("PushData1", func(t *testing.T) {
		payload := []byte("hi")
		program := append([]byte{byte(PUSHDATA1), byte(len(payload))}, payload...)
		program = append(program, byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Type != TypeByteString {
			t.Fatalf("result = %+v, want ByteString", rep.Top)
		}
		if string(rep.Top.Bytes) != "hi" {
			t.Fatalf("payload = %q, want %q", rep.Top.Bytes, "hi")
		}
	})
	t.Run("PushData1LengthExceedsMaxByteLenFaults", func(t *testing.T) {
		cfg := DefaultEngineConfig().WithGasLimit(1_000_000)
		cfg.MaxByteLen = 1
		e := NewEngine(cfg, nil, nil, nil)
		program := []byte{byte(PUSHDATA1), 2, 0x01, 0x02, byte(RET)}
		if err := e.Load(program); err != nil {
			t.Fatalf("Load: %v", err)
		}
		rep, err := e.RunToEnd()
		if err != nil {
			t.Fatalf("RunToEnd: %v", err)
		}
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidOperation {
			t.Fatalf("fault = %+v, want InvalidOperation", rep.Fault)
		}
	})
}

func TestPushA(t *testing.T) {
	t.Run("ValidTarget", func(t *testing.T) {
		// PUSHA +5 (targets the NOP at offset 5), then RET at offset 6.
		program := []byte{
			byte(PUSHA), 0x05, 0x00, 0x00, 0x00, // ip=0, 5 bytes: 0..4
			byte(NOP), // offset 5
			byte(RET), // offset 6
		}
		rep := run(t, program)
		if rep.State != Halt || rep.Top.Type != TypePointer || rep.Top.Pointer != 5 {
			t.Fatalf("result = %+v, want Pointer(5)", rep.Top)
		}
	})
	t.Run("MisalignedTargetFaults", func(t *testing.T) {
		program := []byte{
			byte(PUSHA), 0x02, 0x00, 0x00, 0x00, // targets offset 2, which is mid-immediate
			byte(NOP),
			byte(RET),
		}
		rep := run(t, program)
		if rep.State != Fault || rep.Fault.Kind != FaultInvalidScript {
			t.Fatalf("fault = %+v, want InvalidScript", rep.Fault)
		}
	})
}
