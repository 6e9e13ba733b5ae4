package vm

import "crypto/sha256"

// TraceStep is one deterministic record of §4.5, appended on every
// successful dispatch.
type TraceStep struct {
	IP          int
	Opcode      OpCode
	GasAfter    uint64
	StackDigest [32]byte
	MemoryDigest [32]byte
}

// Trace is the full ordered sequence of steps plus the initial and final
// state digests (§3 "Trace step").
type Trace struct {
	Steps               []TraceStep
	InitialStackDigest  [32]byte
	FinalStackDigest    [32]byte
}

// traceRecorder implements C6: a rolling-hash stack digest over the top k
// values (default 8, or the whole stack if shorter) and a rolling hash over
// the write set since the previous step (§4.5).
type traceRecorder struct {
	enabled     bool
	k           int
	prevStack   [32]byte
	writeSetLog [][]byte
	trace       Trace
	started     bool
}

func newTraceRecorder(k int) *traceRecorder {
	return &traceRecorder{k: k}
}

func (t *traceRecorder) enable() { t.enabled = true }

// noteWrite records a byte-level mutation observed since the last step, fed
// into the next memory_digest.
func (t *traceRecorder) noteWrite(b []byte) {
	if !t.enabled {
		return
	}
	t.writeSetLog = append(t.writeSetLog, append([]byte(nil), b...))
}

func (t *traceRecorder) stackDigestOf(stack []Value) [32]byte {
	k := t.k
	start := 0
	if len(stack) > k {
		start = len(stack) - k
	}
	top := stack[start:]
	var buf []byte
	buf = append(buf, t.prevStack[:]...)
	for _, v := range top {
		buf = append(buf, EncodeCanonical(v)...)
	}
	return sha256.Sum256(buf)
}

func (t *traceRecorder) memoryDigest() [32]byte {
	var buf []byte
	for _, w := range t.writeSetLog {
		buf = append(buf, w...)
	}
	return sha256.Sum256(buf)
}

func (t *traceRecorder) recordInitial(stack []Value) {
	if !t.enabled {
		return
	}
	t.prevStack = t.stackDigestOf(stack)
	t.trace.InitialStackDigest = t.prevStack
}

// recordStep appends a step after a successful dispatch and resets the
// write-set log for the next step.
func (t *traceRecorder) recordStep(ip int, op OpCode, gasAfter uint64, stack []Value) {
	if !t.enabled {
		return
	}
	sd := t.stackDigestOf(stack)
	md := t.memoryDigest()
	t.trace.Steps = append(t.trace.Steps, TraceStep{
		IP:           ip,
		Opcode:       op,
		GasAfter:     gasAfter,
		StackDigest:  sd,
		MemoryDigest: md,
	})
	t.prevStack = sd
	t.writeSetLog = nil
}

func (t *traceRecorder) recordFinal(stack []Value) {
	if !t.enabled {
		return
	}
	t.trace.FinalStackDigest = t.stackDigestOf(stack)
}
