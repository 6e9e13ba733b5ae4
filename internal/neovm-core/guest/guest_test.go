package guest

import (
	"testing"

	"github.com/zkneo/neovm-core/internal/neovm-core/bind"
	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

func cfg() vm.EngineConfig {
	return vm.DefaultEngineConfig().WithGasLimit(1_000_000)
}

func TestChannelSendRecvFIFO(t *testing.T) {
	ch := NewChannel[int](2)
	if err := ch.Send(1); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := ch.Send(2); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := ch.Send(3); err == nil {
		t.Fatalf("expected Send to fail once the channel is at capacity")
	}
	v, err := ch.Recv()
	if err != nil || v != 1 {
		t.Fatalf("Recv = %d, %v, want 1, nil", v, err)
	}
	v, err = ch.Recv()
	if err != nil || v != 2 {
		t.Fatalf("Recv = %d, %v, want 2, nil", v, err)
	}
	if _, err := ch.Recv(); err == nil {
		t.Fatalf("expected Recv to fail on an empty channel")
	}
}

func TestRunReadsOneRequestAndWritesOneTuple(t *testing.T) {
	// PUSH2 PUSH3 ADD RET
	program := []byte{byte(vm.PUSH2), byte(vm.PUSH3), byte(vm.ADD), byte(vm.RET)}

	in := NewChannel[Request](1)
	out := NewChannel[bind.PublicTuple](1)
	if err := in.Send(Request{Program: program, GasLimit: 1000}); err != nil {
		t.Fatalf("Send request: %v", err)
	}

	if err := Run(cfg(), nil, nil, nil, in, out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	tup, err := out.Recv()
	if err != nil {
		t.Fatalf("Recv tuple: %v", err)
	}
	if !tup.Success {
		t.Fatalf("expected a successful execution, got %+v", tup)
	}
	if tup.GasConsumed == 0 {
		t.Fatalf("expected nonzero gas consumption")
	}
	if tup.ProgramHash != bind.ProgramHash(program) {
		t.Fatalf("tuple's program hash does not match bind.ProgramHash(program)")
	}
}

func TestRunOnEmptyInputChannelFails(t *testing.T) {
	in := NewChannel[Request](1)
	out := NewChannel[bind.PublicTuple](1)
	if err := Run(cfg(), nil, nil, nil, in, out); err == nil {
		t.Fatalf("expected Run to fail reading from an empty input channel")
	}
}

func TestRunOnLoadFailureStillEmitsAFailureTuple(t *testing.T) {
	in := NewChannel[Request](1)
	out := NewChannel[bind.PublicTuple](1)
	// An oversized program exceeds MaxProgramLen and fails to Load.
	huge := make([]byte, (1<<20)+1)
	if err := in.Send(Request{Program: huge, GasLimit: 1000}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := Run(cfg(), nil, nil, nil, in, out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	tup, err := out.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if tup.Success {
		t.Fatalf("expected a failure tuple for an oversized program, got %+v", tup)
	}
}

func TestRunOnFaultingProgramStillHaltsWithFailureTuple(t *testing.T) {
	in := NewChannel[Request](1)
	out := NewChannel[bind.PublicTuple](1)
	// DIV by zero faults the engine; Run should still report success=false
	// rather than propagating an error.
	program := []byte{byte(vm.PUSH1), byte(vm.PUSH0), byte(vm.DIV), byte(vm.RET)}
	if err := in.Send(Request{Program: program, GasLimit: 1000}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := Run(cfg(), nil, nil, nil, in, out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	tup, err := out.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if tup.Success {
		t.Fatalf("expected a failure tuple for a faulting program, got %+v", tup)
	}
}

func TestRunOnArgumentPushFailureEmitsFailureTuple(t *testing.T) {
	in := NewChannel[Request](1)
	out := NewChannel[bind.PublicTuple](1)
	program := []byte{byte(vm.RET)}
	// MaxStackDepth is tiny, so pushing two arguments overflows the stack.
	tight := cfg()
	tight.MaxStackDepth = 1
	args := []vm.Value{vm.IntFromInt64(1), vm.IntFromInt64(2)}
	if err := in.Send(Request{Program: program, Arguments: args, GasLimit: 1000}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := Run(tight, nil, nil, nil, in, out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	tup, err := out.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if tup.Success {
		t.Fatalf("expected a failure tuple when pushing arguments overflows the stack, got %+v", tup)
	}
}
