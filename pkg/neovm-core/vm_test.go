package neovmcore

import "testing"

// PUSH2 PUSH3 ADD RET
var addTwoAndThree = []byte{0x12, 0x13, 0x9E, 0x40}

func TestEngineRunToEnd(t *testing.T) {
	cfg := DefaultEngineConfig().WithGasLimit(1000)
	eng := NewEngine(cfg, nil, nil, nil)
	eng.EnableTracing()

	if err := eng.Load(addTwoAndThree); err != nil {
		t.Fatalf("Load: %v", err)
	}

	report, err := eng.RunToEnd()
	if err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}
	if eng.State() != report.State {
		t.Fatalf("engine state %v does not match report state %v", eng.State(), report.State)
	}
	if report.Top == nil {
		t.Fatalf("expected a top-of-stack result")
	}
	if got := report.Top.Big().Int64(); got != 5 {
		t.Fatalf("ADD result = %d, want 5", got)
	}
}

func TestEnginePublicTuple(t *testing.T) {
	cfg := DefaultEngineConfig().WithGasLimit(1000)
	eng := NewEngine(cfg, nil, nil, nil)
	eng.EnableTracing()

	if err := eng.Load(addTwoAndThree); err != nil {
		t.Fatalf("Load: %v", err)
	}
	report, err := eng.RunToEnd()
	if err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}

	tuple := ComputePublicTuple(addTwoAndThree, nil, cfg.GasLimit, report)
	if !tuple.Success {
		t.Fatalf("expected success=true for a halted run")
	}
	if tuple.ProgramHash != ProgramHashOf(addTwoAndThree) {
		t.Fatalf("program_hash mismatch")
	}
}

func TestEngineOutOfGasFaults(t *testing.T) {
	cfg := DefaultEngineConfig().WithGasLimit(1) // covers PUSH2 only; PUSH3 exceeds the budget
	eng := NewEngine(cfg, nil, nil, nil)

	if err := eng.Load(addTwoAndThree); err != nil {
		t.Fatalf("Load: %v", err)
	}
	report, err := eng.RunToEnd()
	if err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}
	if report.Fault == nil {
		t.Fatalf("expected a fault on insufficient gas")
	}
}
