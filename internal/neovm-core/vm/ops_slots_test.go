package vm

import "testing"

func TestStaticSlots(t *testing.T) {
	t.Run("InitAndRoundtrip", func(t *testing.T) {
		program := []byte{
			byte(INITSSLOT), 2,
			byte(PUSH5), byte(STSFLD0),
			byte(LDSFLD0),
		}
		e := runEngine(t, program)
		assertStack(t, e, ints(5))
	})
	t.Run("IndexedForm", func(t *testing.T) {
		program := []byte{
			byte(INITSSLOT), 3,
			byte(PUSH7), byte(STSFLD), 2,
			byte(LDSFLD), 2,
		}
		e := runEngine(t, program)
		assertStack(t, e, ints(7))
	})
	t.Run("DoubleInitFaults", func(t *testing.T) {
		program := []byte{byte(INITSSLOT), 1, byte(INITSSLOT), 1}
		e := NewEngine(DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
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
	t.Run("OutOfRangeIndexFaults", func(t *testing.T) {
		program := []byte{byte(INITSSLOT), 1, byte(LDSFLD), 5}
		e := NewEngine(DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
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

func TestLocalAndArgumentSlots(t *testing.T) {
	t.Run("InitSlotConsumesArgumentsOffStack", func(t *testing.T) {
		// push two arguments, then INITSLOT 1 local, 2 args
		program := []byte{
			byte(PUSHINT8), 11,
			byte(PUSHINT8), 22,
			byte(INITSLOT), 1, 2,
			byte(LDARG0), byte(LDARG1), byte(LDLOC0),
		}
		e := runEngine(t, program)
		assertStack(t, e, ints(11, 22, 0))
	})
	t.Run("StoreAndLoadLocal", func(t *testing.T) {
		program := []byte{
			byte(INITSLOT), 1, 0,
			byte(PUSH9), byte(STLOC0),
			byte(LDLOC0),
		}
		e := runEngine(t, program)
		assertStack(t, e, ints(9))
	})
}
