package integration_test

import (
	"testing"

	"github.com/zkneo/neovm-core/internal/neovm-core/bind"
	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

// These mirror the seed scenarios: concrete end-to-end executions any
// conforming engine must reproduce bit-for-bit.

func runToEnd(t *testing.T, cfg vm.EngineConfig, program []byte) *vm.TerminationReport {
	t.Helper()
	eng := vm.NewEngine(cfg, nil, nil, nil)
	eng.EnableTracing()
	if err := eng.Load(program); err != nil {
		t.Fatalf("Load: %v", err)
	}
	report, err := eng.RunToEnd()
	if err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}
	return report
}

// S1 — Addition.
func TestSeedAddition(t *testing.T) {
	program := []byte{0x12, 0x13, 0x9E, 0x40} // PUSH2 PUSH3 ADD RET
	cfg := vm.DefaultEngineConfig().WithGasLimit(1_000_000)

	report := runToEnd(t, cfg, program)
	if report.State != vm.Halt {
		t.Fatalf("state = %v, want Halt", report.State)
	}
	if report.GasConsumed != 11 {
		t.Fatalf("gas_consumed = %d, want 11", report.GasConsumed)
	}
	if report.Top == nil {
		t.Fatalf("expected a top-of-stack value")
	}
	if got := report.Top.Big().Int64(); got != 5 {
		t.Fatalf("top-of-stack = %d, want 5", got)
	}
}

// S2 — Division by zero.
func TestSeedDivisionByZero(t *testing.T) {
	program := []byte{0x11, 0x10, 0xA1, 0x40} // PUSH1 PUSH0 DIV RET
	cfg := vm.DefaultEngineConfig().WithGasLimit(1_000_000)

	report := runToEnd(t, cfg, program)
	if report.State != vm.Fault {
		t.Fatalf("state = %v, want Fault", report.State)
	}
	if report.Fault == nil || report.Fault.Kind != vm.FaultDivisionByZero {
		t.Fatalf("fault = %+v, want kind DivisionByZero", report.Fault)
	}
}

// S3 — Jump truncation.
func TestSeedJumpTruncation(t *testing.T) {
	program := []byte{0x22} // JMP with missing offset
	cfg := vm.DefaultEngineConfig().WithGasLimit(1_000_000)

	report := runToEnd(t, cfg, program)
	if report.State != vm.Fault {
		t.Fatalf("state = %v, want Fault", report.State)
	}
	if report.Fault == nil || report.Fault.Kind != vm.FaultInvalidScript {
		t.Fatalf("fault = %+v, want kind InvalidScript", report.Fault)
	}
}

// S4 — Invocation-depth exhaustion: a CALL targeting its own address
// recurses until the invocation-depth cap faults the run.
func TestSeedInvocationDepthExhaustion(t *testing.T) {
	program := []byte{0x34, 0x00} // CALL +0 (calls itself)
	cfg := vm.DefaultEngineConfig().WithGasLimit(1_000_000)
	cfg.MaxInvocationDepth = 4

	report := runToEnd(t, cfg, program)
	if report.State != vm.Fault {
		t.Fatalf("state = %v, want Fault", report.State)
	}
	if report.Fault == nil || report.Fault.Kind != vm.FaultInvocationDepthExceeded {
		t.Fatalf("fault = %+v, want kind InvocationDepthExceeded", report.Fault)
	}
}

// S5 — Negative allocation.
func TestSeedNegativeAllocation(t *testing.T) {
	program := []byte{0x0F, 0xC3} // PUSHM1 NEWARRAY
	cfg := vm.DefaultEngineConfig().WithGasLimit(1_000_000)

	report := runToEnd(t, cfg, program)
	if report.State != vm.Fault {
		t.Fatalf("state = %v, want Fault", report.State)
	}
	if report.Fault == nil || report.Fault.Kind != vm.FaultInvalidOperation {
		t.Fatalf("fault = %+v, want kind InvalidOperation", report.Fault)
	}
}

// S6 — Trace reproducibility: two fresh engines running the same program
// produce byte-identical trace step sequences and stack digests.
func TestSeedTraceReproducibility(t *testing.T) {
	program := []byte{0x12, 0x13, 0x9E, 0x40} // PUSH2 PUSH3 ADD RET
	cfg := vm.DefaultEngineConfig().WithGasLimit(1_000_000)

	r1 := runToEnd(t, cfg, program)
	r2 := runToEnd(t, cfg, program)

	if len(r1.Trace.Steps) != len(r2.Trace.Steps) {
		t.Fatalf("trace lengths differ: %d vs %d", len(r1.Trace.Steps), len(r2.Trace.Steps))
	}
	for i := range r1.Trace.Steps {
		a, b := r1.Trace.Steps[i], r2.Trace.Steps[i]
		if a.IP != b.IP || a.Opcode != b.Opcode || a.GasAfter != b.GasAfter {
			t.Fatalf("step %d diverges: %+v vs %+v", i, a, b)
		}
		if a.StackDigest != b.StackDigest {
			t.Fatalf("step %d stack_digest diverges", i)
		}
	}
	if r1.Trace.FinalStackDigest != r2.Trace.FinalStackDigest {
		t.Fatalf("final stack digests diverge")
	}
}

// S7 — Public-tuple rejection: Verify must reject a tuple that differs
// from the one committed in publicBytes, in gas_consumed, before ever
// consulting the cryptographic proof.
func TestSeedPublicTupleRejection(t *testing.T) {
	program := []byte{0x12, 0x13, 0x9E, 0x40}
	cfg := vm.DefaultEngineConfig().WithGasLimit(1_000_000)

	report := runToEnd(t, cfg, program)
	tuple := bind.ComputeTuple(program, nil, cfg.GasLimit, report.Top, report.GasConsumed, report.State == vm.Halt)
	publicBytes := bind.EncodeTuple(tuple)

	tampered := tuple
	tampered.GasConsumed++

	if tuple.Equal(tampered) {
		t.Fatalf("tampered tuple compared equal to the committed one")
	}

	// decodeTuple(publicBytes).Equal(expected) is the first check Verify
	// performs; a mismatch here must reject regardless of proof validity.
	decoded, err := bind.DecodeTuple(publicBytes)
	if err != nil {
		t.Fatalf("DecodeTuple: %v", err)
	}
	if decoded.Equal(tampered) {
		t.Fatalf("decoded tuple unexpectedly matched the tampered expectation")
	}
}
