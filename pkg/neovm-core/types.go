package neovmcore

import (
	"math/big"

	"github.com/zkneo/neovm-core/internal/neovm-core/bind"
	"github.com/zkneo/neovm-core/internal/neovm-core/protocols"
	"github.com/zkneo/neovm-core/internal/neovm-core/prove"
	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

// Value is a tagged stack value (§3).
type Value = vm.Value

// NullValue, BoolValue, ByteStringValue, and IntValue construct the
// primitive Value variants. IntValue bounds-checks against MAX_INT_SIZE
// (§4.1) using the default engine config's cap.
func NullValue() Value                  { return vm.Null() }
func BoolValue(b bool) Value            { return vm.Bool(b) }
func ByteStringValue(b []byte) Value    { return vm.ByteString(b) }
func IntValue(n *big.Int) (Value, error) {
	return vm.IntFromBig(n, vm.DefaultEngineConfig().MaxIntSize)
}

// EngineConfig holds the engine's construction-time resource caps (§5).
type EngineConfig = vm.EngineConfig

// DefaultEngineConfig returns the spec's default caps with GasLimit 0, a
// budget under which no opcode can be charged; set one with WithGasLimit.
func DefaultEngineConfig() EngineConfig { return vm.DefaultEngineConfig() }

// Fault is the engine's terminal error/state value (§7).
type Fault = vm.Fault

// FaultKind enumerates every failure the engine may produce.
type FaultKind = vm.FaultKind

// ExecutionState is one of §3's four engine states.
type ExecutionState = vm.ExecutionState

// TerminationReport is what RunToEnd returns: final state, fault (if any),
// gas consumed, the top-of-stack value (if any), and the full trace.
type TerminationReport = vm.TerminationReport

// Trace is the full deterministic execution trace of §4.5.
type Trace = vm.Trace

// PublicTuple is the single public commitment of an execution (§4.6).
type PublicTuple = bind.PublicTuple

// StorageBackend, NativeRegistry, and SyscallHook are the three capability
// traits of §6.3. Reference implementations live in internal/neovm-core/iface.
type StorageBackend = vm.StorageBackend
type NativeRegistry = vm.NativeRegistry
type SyscallHook = vm.SyscallHook

// STARKParameters configures the opaque proving backend (§6.4).
type STARKParameters = protocols.STARKParameters

// DefaultSTARKParameters returns parameters giving ~160-bit conjectured
// security.
func DefaultSTARKParameters() STARKParameters { return protocols.DefaultSTARKParameters() }

// ProofResult is prove(...)'s output: opaque proof bytes plus the
// canonically-encoded public tuple (§6.4).
type ProofResult = prove.Result
