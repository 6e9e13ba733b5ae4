package integration_test

import (
	"testing"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
	neovmcore "github.com/zkneo/neovm-core/pkg/neovm-core"
)

// Test03_FactorialProof tests proving a multi-step computation:
// compute 5! = 120 (unrolled, no jumps) and prove correctness.
func Test03_FactorialProof(t *testing.T) {
	t.Log("=== Test 03: Factorial computation proof ===")

	t.Log("Step 1: Assembling factorial(5) program (unrolled)...")
	program := []byte{
		byte(vm.PUSHINT8), 1,
		byte(vm.PUSHINT8), 2,
		byte(vm.MUL),
		byte(vm.PUSHINT8), 3,
		byte(vm.MUL),
		byte(vm.PUSHINT8), 4,
		byte(vm.MUL),
		byte(vm.PUSHINT8), 5,
		byte(vm.MUL),
		byte(vm.RET),
	}

	t.Log("Step 2: Executing...")
	cfg := neovmcore.DefaultEngineConfig().WithGasLimit(1_000_000)
	eng := neovmcore.NewEngine(cfg, nil, nil, nil)
	eng.EnableTracing()
	if err := eng.Load(program); err != nil {
		t.Fatalf("Load: %v", err)
	}
	report, err := eng.RunToEnd()
	if err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}
	if report.State != vm.Halt {
		t.Fatalf("state = %v, want Halt", report.State)
	}
	if report.Top == nil || report.Top.Big().Int64() != 120 {
		t.Fatalf("result = %v, want 120", report.Top)
	}
	t.Logf("  5! = %d, trace steps: %d", report.Top.Big().Int64(), len(report.Trace.Steps))

	t.Log("Step 3: Generating STARK proof of the computation...")
	params := neovmcore.DefaultSTARKParameters()
	proofResult, tuple, err := neovmcore.Prove(params, cfg, nil, nil, nil, program, nil, cfg.GasLimit)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	t.Logf("  proof size: %d bytes", len(proofResult.ProofBytes))

	t.Log("Step 4: Verifying proof...")
	if !neovmcore.Verify(params, proofResult.ProofBytes, proofResult.PublicBytes, tuple) {
		t.Fatalf("Verify returned false for a freshly-generated proof")
	}

	t.Log("SUCCESS: proved correct execution of factorial(5) = 120")
}
