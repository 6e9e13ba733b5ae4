package vm

import (
	"crypto/sha256"

	mapset "github.com/deckarep/golang-set/v2"
)

// ExecutionState is one of §3's four states.
type ExecutionState int

const (
	Running ExecutionState = iota
	Halt
	Fault
	Break // reserved for debuggers; never produced by the core
)

func (s ExecutionState) String() string {
	switch s {
	case Running:
		return "Running"
	case Halt:
		return "Halt"
	case Fault:
		return "Fault"
	case Break:
		return "Break"
	default:
		return "Unknown"
	}
}

// TerminationReport is the result of running an engine to completion.
type TerminationReport struct {
	State       ExecutionState
	Fault       *Fault
	GasConsumed uint64
	Top         *Value // nil if the stack was empty on termination
	Trace       Trace
}

// Engine is the fetch/decode/charge/execute loop of §4.4 (C5). It owns all
// mutable state for one execution; construction takes the resource caps and
// capability traits and yields a fresh interpreter (§9 "no global mutable
// state").
type Engine struct {
	cfg     EngineConfig
	program []byte
	dec     decoder

	// jumpTargets is the set of byte offsets that begin a decoded
	// instruction, precomputed once during load(). A relative jump is
	// validated not just against [0, program_len) (§4.3) but against this
	// set, so a target can never land mid-immediate and be decoded as
	// garbage — a go-ethereum-style JUMPDEST precomputation adapted to an
	// ISA with no explicit jump-destination marker opcode.
	jumpTargets mapset.Set[int]

	frames []*Frame
	stack  []Value

	staticSlots []Value
	staticInit  bool

	gas   GasMeter
	state ExecutionState
	fault *Fault

	trace *traceRecorder

	storage  StorageBackend
	registry NativeRegistry
	syscalls SyscallHook

	scriptHash  []byte
	programHash [32]byte
}

// NewEngine constructs a fresh interpreter. cfg.GasLimit must already be set
// (DefaultEngineConfig().WithGasLimit(...)).
func NewEngine(cfg EngineConfig, storage StorageBackend, registry NativeRegistry, syscalls SyscallHook) *Engine {
	return &Engine{
		cfg:      cfg,
		state:    Halt, // no program loaded yet; Step is a no-op
		trace:    newTraceRecorder(cfg.TraceDigestWidth),
		storage:  storage,
		registry: registry,
		syscalls: syscalls,
	}
}

// EnableTracing turns on the C6 trace recorder. Safe to call before or
// after Load.
func (e *Engine) EnableTracing() { e.trace.enable() }

// Load validates program.len() <= MaxProgramLen, creates the initial
// invocation frame with pc=0, and sets state to Running (§4.4).
func (e *Engine) Load(program []byte) error {
	if len(program) > e.cfg.MaxProgramLen {
		return &Fault{Kind: FaultInvalidScript, IP: 0, Message: "program exceeds MAX_PROGRAM_LEN"}
	}
	targets, err := precomputeInstructionBoundaries(program)
	if err != nil {
		return err
	}
	e.program = program
	e.programHash = sha256.Sum256(program)
	e.dec = decoder{program: program}
	e.jumpTargets = targets
	e.frames = []*Frame{newFrame(program, 0)}
	e.stack = nil
	e.staticSlots = nil
	e.staticInit = false
	e.gas = GasMeter{Limit: e.cfg.GasLimit}
	e.state = Running
	e.fault = nil
	e.trace.recordInitial(e.stack)
	return nil
}

// precomputeInstructionBoundaries does one linear decode pass over the
// program, recording every offset that begins an instruction. It never
// faults on a malformed tail opcode here — that is a Step()-time fault per
// §6.1 ("local properties" are validated during step) — except when an
// immediate claims to extend past the program, which is a global length
// problem caught once at load time.
func precomputeInstructionBoundaries(program []byte) (mapset.Set[int], error) {
	set := mapset.NewThreadUnsafeSet[int]()
	dec := decoder{program: program}
	ip := 0
	for ip < len(program) {
		set.Add(ip)
		op := OpCode(program[ip])
		info, ok := op.Info()
		if !ok {
			// Unknown opcodes still occupy one byte for boundary purposes;
			// the fault itself is raised lazily when step() reaches it.
			ip++
			continue
		}
		size, ok := immediateSize(dec, ip+1, info.Imm)
		if !ok {
			// Truncated immediate: stop precomputing past this point, the
			// decode itself will fault here during step().
			break
		}
		ip += 1 + size
	}
	return set, nil
}

// immediateSize returns the number of immediate bytes following the opcode
// byte at off, reading length prefixes where necessary.
func immediateSize(dec decoder, off int, kind ImmediateKind) (int, bool) {
	switch kind {
	case ImmNone:
		return 0, true
	case ImmInt8, ImmU8, ImmTypeTag, ImmOffI8:
		return 1, true
	case ImmInt16, ImmU8x2, ImmOffI8x2:
		return 2, true
	case ImmInt32, ImmOffI32, ImmU32:
		return 4, true
	case ImmInt64:
		return 8, true
	case ImmInt128:
		return 16, true
	case ImmInt256:
		return 32, true
	case ImmOffI32x2:
		return 8, true
	case ImmData1:
		n, ok := dec.readU8(off)
		if !ok {
			return 0, false
		}
		return 1 + int(n), true
	case ImmData2:
		n, ok := dec.readU16LE(off)
		if !ok {
			return 0, false
		}
		return 2 + int(n), true
	case ImmData4:
		n, ok := dec.readU32LE(off)
		if !ok {
			return 0, false
		}
		return 4 + int(n), true
	default:
		return 0, false
	}
}

// --- stack helpers ---

func (e *Engine) frame() *Frame { return e.frames[len(e.frames)-1] }

func (e *Engine) ip() int { return e.frame().PC }

// Push pushes v onto the evaluation stack. Pushing when depth equals the
// cap is a fault, never an allocation (§3 invariant).
func (e *Engine) Push(v Value) error {
	if len(e.stack) >= e.cfg.MaxStackDepth {
		return newFault(e.ip(), FaultStackOverflow, "stack depth %d exceeds cap %d", len(e.stack), e.cfg.MaxStackDepth)
	}
	e.stack = append(e.stack, v)
	return nil
}

// Pop pops the top value.
func (e *Engine) Pop() (Value, error) {
	if len(e.stack) == 0 {
		return Value{}, newFault(e.ip(), FaultStackUnderflow, "pop on empty stack")
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

// Peek returns the value at depth (0 = top) without popping.
func (e *Engine) Peek(depth int) (Value, error) {
	if depth < 0 || depth >= len(e.stack) {
		return Value{}, newFault(e.ip(), FaultStackUnderflow, "peek depth %d out of bounds (size %d)", depth, len(e.stack))
	}
	return e.stack[len(e.stack)-1-depth], nil
}

// Depth returns the current evaluation stack size.
func (e *Engine) Depth() int { return len(e.stack) }

// requireDepth is a convenience precondition check used by every opcode
// handler that consumes a fixed operand count.
func (e *Engine) requireDepth(n int) error {
	if len(e.stack) < n {
		return newFault(e.ip(), FaultStackUnderflow, "need %d operands, have %d", n, len(e.stack))
	}
	return nil
}

// --- engine-level helpers used by opcode handlers ---

func (e *Engine) popInt() (Value, error) {
	v, err := e.Pop()
	if err != nil {
		return Value{}, err
	}
	if v.Type != TypeInteger && v.Type != TypeBoolean {
		return Value{}, newFault(e.ip(), FaultInvalidType, "expected Integer, got %s", v.Type)
	}
	return v, nil
}

func (e *Engine) popBytesLike() ([]byte, error) {
	v, err := e.Pop()
	if err != nil {
		return nil, err
	}
	if v.Type != TypeByteString && v.Type != TypeBuffer {
		return nil, newFault(e.ip(), FaultInvalidType, "expected ByteString/Buffer, got %s", v.Type)
	}
	return v.Bytes, nil
}

func (e *Engine) popCount(max int) (int, error) {
	v, err := e.popInt()
	if err != nil {
		return 0, err
	}
	b := v.Big()
	if b.Sign() < 0 {
		return 0, newFault(e.ip(), FaultInvalidOperation, "negative count")
	}
	if !b.IsInt64() || b.Int64() > int64(max) {
		return 0, newFault(e.ip(), FaultInvalidOperation, "count exceeds cap %d", max)
	}
	return int(b.Int64()), nil
}

// fail freezes the engine into Fault state with the given cause.
func (e *Engine) fail(f *Fault) error {
	e.state = Fault
	e.fault = f
	return f
}

func (e *Engine) faultf(kind FaultKind, format string, args ...interface{}) error {
	return e.fail(newFault(e.ip(), kind, format, args...))
}

// --- accessors for callers outside the package (bind, guest, cmd) ---

func (e *Engine) ProgramHash() [32]byte    { return e.programHash }
func (e *Engine) State() ExecutionState    { return e.state }
func (e *Engine) GasConsumed() uint64      { return e.gas.Consumed }
func (e *Engine) Trace() Trace             { return e.trace.trace }
func (e *Engine) EvaluationStack() []Value { return e.stack }
func (e *Engine) Fault() *Fault            { return e.fault }

// SetScriptHash sets the namespace tag passed to the storage capability
// trait; callers set it once after Load, before the program performs any
// storage access.
func (e *Engine) SetScriptHash(h []byte) { e.scriptHash = h }

func (e *Engine) ScriptHash() []byte { return e.scriptHash }
