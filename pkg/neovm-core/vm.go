// Package neovmcore is the public facade over the deterministic stack-based
// execution core: load a program, step it (or run it to termination) under
// the capability traits of §6.3, and optionally prove/verify the run
// against the opaque STARK backend of §6.4.
package neovmcore

import (
	"github.com/zkneo/neovm-core/internal/neovm-core/bind"
	"github.com/zkneo/neovm-core/internal/neovm-core/prove"
	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

// Engine is the deterministic stack-based execution core of §3/§4.
type Engine struct {
	inner *vm.Engine
}

// NewEngine constructs an engine with the given resource caps and
// capability traits. storage, registry, and syscalls may each be nil; an
// engine that never touches storage, natives, or syscalls needs none of
// them.
func NewEngine(cfg EngineConfig, storage StorageBackend, registry NativeRegistry, syscalls SyscallHook) *Engine {
	return &Engine{inner: vm.NewEngine(cfg, storage, registry, syscalls)}
}

// EnableTracing turns on the step recorder of §4.5. The guest re-executor
// always does this; interactive callers may skip it to save the recording
// cost.
func (e *Engine) EnableTracing() { e.inner.EnableTracing() }

// Load validates and installs a program, resetting all engine state and
// transitioning to Running (§4.4 "load").
func (e *Engine) Load(program []byte) error { return e.inner.Load(program) }

// Push places arguments onto the evaluation stack; callers push a
// program's arguments (deepest first) before the first Step/RunToEnd call.
func (e *Engine) Push(v Value) error { return e.inner.Push(v) }

// Step executes exactly one instruction.
func (e *Engine) Step() error { return e.inner.Step() }

// RunToEnd drives Step until the engine leaves the Running state.
func (e *Engine) RunToEnd() (*TerminationReport, error) { return e.inner.RunToEnd() }

// State, GasConsumed, Trace, EvaluationStack, Fault, and ProgramHash expose
// read-only engine state between or after Step calls.
func (e *Engine) State() ExecutionState      { return e.inner.State() }
func (e *Engine) GasConsumed() uint64        { return e.inner.GasConsumed() }
func (e *Engine) Trace() Trace               { return e.inner.Trace() }
func (e *Engine) EvaluationStack() []Value   { return e.inner.EvaluationStack() }
func (e *Engine) Fault() *Fault              { return e.inner.Fault() }
func (e *Engine) ProgramHash() [32]byte      { return e.inner.ProgramHash() }
func (e *Engine) SetScriptHash(hash []byte)  { e.inner.SetScriptHash(hash) }
func (e *Engine) ScriptHash() []byte         { return e.inner.ScriptHash() }

// ProgramHashOf computes program_hash = H(program_bytes) (§4.6) without
// requiring a loaded engine.
func ProgramHashOf(program []byte) [32]byte { return bind.ProgramHash(program) }

// ComputePublicTuple derives the §4.6 public tuple from a terminated run.
// program/arguments/gasLimit are the inputs the engine was invoked with.
func ComputePublicTuple(program []byte, arguments []Value, gasLimit uint64, report *TerminationReport) PublicTuple {
	success := report.State == vm.Halt
	return bind.ComputeTuple(program, arguments, gasLimit, report.Top, report.GasConsumed, success)
}

// Prove runs program to termination under the given caps/capabilities and
// gasLimit, then produces a STARK proof of the run plus its public tuple
// bytes (§6.4). This wraps the opaque internal/neovm-core/prove adapter;
// neither this package nor that one needs to re-derive the underlying
// field/FRI/Merkle machinery, only shape data across the boundary.
func Prove(params STARKParameters, cfg EngineConfig, storage StorageBackend, registry NativeRegistry, syscalls SyscallHook, program []byte, arguments []Value, gasLimit uint64) (ProofResult, PublicTuple, error) {
	return prove.Prove(params, cfg, storage, registry, syscalls, program, arguments, gasLimit)
}

// Verify decodes proofBytes/publicBytes and checks them against expected
// field-for-field (§6.4).
func Verify(params STARKParameters, proofBytes, publicBytes []byte, expected PublicTuple) bool {
	return prove.Verify(params, proofBytes, publicBytes, expected)
}
