// Package prove is the opaque prove/verify adapter of §6.4. It shapes one
// engine run's trace into the columnar form the STARK substrate expects and
// shapes that substrate's Claim/Proof back into the public tuple contract;
// it does not reimplement or re-derive any constraint logic of its own —
// that machinery is treated as an external, opaque collaborator (the same
// way the original VM treated field/merkle/polynomial primitives as an
// imported library, not something this package re-derives).
package prove

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/zkneo/neovm-core/internal/neovm-core/bind"
	"github.com/zkneo/neovm-core/internal/neovm-core/core"
	"github.com/zkneo/neovm-core/internal/neovm-core/protocols"
	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

// goldilocksField is the field the kept STARK substrate proves over
// (matching Prover.runFRI's own hardcoded choice); the verifier needs the
// same field to reconstruct Fiat-Shamir state.
func goldilocksField() (*core.Field, error) {
	p := new(big.Int)
	p.SetString("18446744069414584321", 10) // 2^64 - 2^32 + 1
	return core.NewField(p)
}

// Result is the prove(...) → proof_bytes + public_bytes pair of §6.4.
type Result struct {
	ProofBytes  []byte
	PublicBytes []byte
}

// traceColumns adapts a vm.Trace into protocols.ExecutionTrace: one row per
// recorded step, column-major, padded to the next power of two as the STARK
// substrate requires.
type traceColumns struct {
	rows    int
	padded  int
	columns [][]field.Element
}

const traceColumnCount = 11 // ip, opcode, gas_after, 4 stack-digest limbs, 4 memory-digest limbs

func newTraceColumns(t vm.Trace) *traceColumns {
	rows := len(t.Steps)
	padded := nextPow2(rows)
	if padded == 0 {
		padded = 1
	}
	cols := make([][]field.Element, traceColumnCount)
	for c := range cols {
		cols[c] = make([]field.Element, padded)
	}
	for i, step := range t.Steps {
		cols[0][i] = field.New(uint64(step.IP))
		cols[1][i] = field.New(uint64(step.Opcode))
		cols[2][i] = field.New(step.GasAfter)
		limbs := digestLimbs(step.StackDigest)
		for j, l := range limbs {
			cols[3+j][i] = field.New(l)
		}
		limbs = digestLimbs(step.MemoryDigest)
		for j, l := range limbs {
			cols[7+j][i] = field.New(l)
		}
	}
	// Pad rows [rows:padded) by repeating the last real row (or zero if the
	// program emitted no steps), so the transition relation sees a
	// well-formed, if idle, continuation instead of default zero rows that
	// would look like a spurious IP-0 loop.
	if rows > 0 {
		for i := rows; i < padded; i++ {
			for c := range cols {
				cols[c][i] = cols[c][rows-1]
			}
		}
	}
	return &traceColumns{rows: rows, padded: padded, columns: cols}
}

func (tc *traceColumns) GetPaddedHeight() int { return tc.padded }

func (tc *traceColumns) GetTableData() interface{} { return tc }

func (tc *traceColumns) GetTraceColumns() ([][]field.Element, error) {
	return tc.columns, nil
}

func digestLimbs(d [32]byte) [4]uint64 {
	var out [4]uint64
	for i := 0; i < 4; i++ {
		var v uint64
		for j := 0; j < 8; j++ {
			v |= uint64(d[i*8+j]) << (8 * j)
		}
		out[i] = v
	}
	return out
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// programDigest packs a 32-byte program hash into the 5 field elements
// Claim.ProgramDigest requires.
func programDigest(programHash [32]byte) []field.Element {
	out := make([]field.Element, 5)
	for i := 0; i < 4; i++ {
		var v uint64
		for j := 0; j < 8; j++ {
			v |= uint64(programHash[i*8+j]) << (8 * j)
		}
		out[i] = field.New(v)
	}
	out[4] = field.New(0)
	return out
}

// Prove runs program to termination under storage/registry/syscalls and
// gasLimit, then produces a STARK proof over its trace plus the public
// tuple bytes the verifier must reproduce.
func Prove(params protocols.STARKParameters, cfg vm.EngineConfig, storage vm.StorageBackend, registry vm.NativeRegistry, syscalls vm.SyscallHook, program []byte, arguments []vm.Value, gasLimit uint64) (Result, bind.PublicTuple, error) {
	cfg = cfg.WithGasLimit(gasLimit)
	eng := vm.NewEngine(cfg, storage, registry, syscalls)
	eng.EnableTracing()

	if err := eng.Load(program); err != nil {
		return Result{}, bind.PublicTuple{}, fmt.Errorf("prove: load: %w", err)
	}
	for _, arg := range arguments {
		if err := eng.Push(arg); err != nil {
			return Result{}, bind.PublicTuple{}, fmt.Errorf("prove: pushing argument: %w", err)
		}
	}

	report, err := eng.RunToEnd()
	if err != nil {
		return Result{}, bind.PublicTuple{}, fmt.Errorf("prove: run: %w", err)
	}

	success := report.State == vm.Halt
	tuple := bind.ComputeTuple(program, arguments, gasLimit, report.Top, report.GasConsumed, success)

	claim := protocols.NewClaim(programDigest(tuple.ProgramHash))

	prover, err := protocols.NewProver(params)
	if err != nil {
		return Result{}, bind.PublicTuple{}, fmt.Errorf("prove: new prover: %w", err)
	}
	cols := newTraceColumns(report.Trace)
	proof, err := prover.Prove(claim, cols)
	if err != nil {
		return Result{}, bind.PublicTuple{}, fmt.Errorf("prove: %w", err)
	}

	proofBytes, err := json.Marshal(proof)
	if err != nil {
		return Result{}, bind.PublicTuple{}, fmt.Errorf("prove: marshal proof: %w", err)
	}
	publicBytes := bind.EncodeTuple(tuple)

	return Result{ProofBytes: proofBytes, PublicBytes: publicBytes}, tuple, nil
}

// Verify decodes proofBytes/publicBytes and checks the proof against
// expected field-for-field (§6.4), returning false on any mismatch or
// structural failure rather than an error: an invalid proof is an ordinary
// negative result, not an exceptional one.
func Verify(params protocols.STARKParameters, proofBytes, publicBytes []byte, expected bind.PublicTuple) bool {
	var proof protocols.Proof
	if err := json.Unmarshal(proofBytes, &proof); err != nil {
		return false
	}
	got, err := bind.DecodeTuple(publicBytes)
	if err != nil {
		return false
	}
	if !got.Equal(expected) {
		return false
	}

	claim := protocols.NewClaim(programDigest(got.ProgramHash))
	claim.Version = protocols.CurrentVersion

	fld, err := goldilocksField()
	if err != nil {
		return false
	}
	verifier, err := protocols.NewVerifier(fld, params)
	if err != nil {
		return false
	}
	return verifier.Verify(claim, &proof) == nil
}
