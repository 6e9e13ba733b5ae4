package integration_test

import (
	"math/big"
	"testing"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
	neovmcore "github.com/zkneo/neovm-core/pkg/neovm-core"
)

// Test02_WitnessPredicateProof tests proving a predicate over a pushed
// witness:
// 1. Program computes x^2 + 1 from a pushed argument x
// 2. Execution halts with the public result on the stack
// 3. A STARK proof of the run is generated
// 4. The proof verifies against the committed public tuple
func Test02_WitnessPredicateProof(t *testing.T) {
	t.Log("=== Test 02: Witness predicate proof (x^2 + 1) ===")

	t.Log("Step 1: Assembling program: DUP, MUL, PUSHINT8 1, ADD, RET")
	program := []byte{
		byte(vm.DUP),
		byte(vm.MUL),
		byte(vm.PUSHINT8), 1,
		byte(vm.ADD),
		byte(vm.RET),
	}

	x := big.NewInt(7)
	xVal, err := neovmcore.IntValue(x)
	if err != nil {
		t.Fatalf("IntValue: %v", err)
	}
	arguments := []neovmcore.Value{xVal}

	t.Log("Step 2: Executing with witness x = 7, expecting 7^2 + 1 = 50...")
	cfg := neovmcore.DefaultEngineConfig().WithGasLimit(1_000_000)
	eng := neovmcore.NewEngine(cfg, nil, nil, nil)
	eng.EnableTracing()
	if err := eng.Load(program); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := eng.Push(xVal); err != nil {
		t.Fatalf("Push: %v", err)
	}
	report, err := eng.RunToEnd()
	if err != nil {
		t.Fatalf("RunToEnd: %v", err)
	}
	if report.State != vm.Halt {
		t.Fatalf("state = %v, want Halt", report.State)
	}
	if report.Top == nil || report.Top.Big().Int64() != 50 {
		t.Fatalf("result = %v, want 50", report.Top)
	}
	t.Logf("  result: %d", report.Top.Big().Int64())

	t.Log("Step 3: Generating STARK proof...")
	params := neovmcore.DefaultSTARKParameters()
	proofResult, tuple, err := neovmcore.Prove(params, cfg, nil, nil, nil, program, arguments, cfg.GasLimit)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	t.Logf("  proof size: %d bytes", len(proofResult.ProofBytes))

	t.Log("Step 4: Verifying proof against the committed tuple...")
	if !neovmcore.Verify(params, proofResult.ProofBytes, proofResult.PublicBytes, tuple) {
		t.Fatalf("Verify returned false for a freshly-generated proof")
	}

	t.Log("SUCCESS: a verifier can confirm x^2 + 1 = 50 held during this run")
	t.Log("by checking the proof against the public tuple, without re-executing.")
}
