// Package guest is the re-executor of §4.8: it runs the same engine the
// host uses, under host-supplied resource limits, reading a request from a
// fixed-capacity input channel and writing the public tuple verbatim to a
// fixed-capacity output channel. It contains no source of non-determinism —
// no wall-clock time, no goroutines, no allocator reliance beyond the
// engine's own compile-time caps.
package guest

import (
	"errors"

	"github.com/zkneo/neovm-core/internal/neovm-core/bind"
	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

var (
	errChannelFull  = errors.New("guest: channel at capacity")
	errChannelEmpty = errors.New("guest: channel empty")
)

// Request is what the host hands the guest: a program, its arguments
// (pushed onto the evaluation stack before execution, first element deepest,
// matching the invocation convention of §3), and a gas ceiling.
type Request struct {
	Program   []byte
	Arguments []vm.Value
	GasLimit  uint64
}

// Channel is a fixed-capacity, single-producer/single-consumer typed
// channel. It exists so the guest's I/O surface is exactly the
// request/commitment pair of §4.8 and nothing else — no ambient file or
// network access.
type Channel[T any] struct {
	buf      []T
	capacity int
}

// NewChannel returns an empty channel with the given fixed capacity.
func NewChannel[T any](capacity int) *Channel[T] {
	return &Channel[T]{capacity: capacity}
}

// Send appends a value, failing if the channel is already at capacity.
func (c *Channel[T]) Send(v T) error {
	if len(c.buf) >= c.capacity {
		return errChannelFull
	}
	c.buf = append(c.buf, v)
	return nil
}

// Recv pops the oldest value, failing if the channel is empty.
func (c *Channel[T]) Recv() (T, error) {
	var zero T
	if len(c.buf) == 0 {
		return zero, errChannelEmpty
	}
	v := c.buf[0]
	c.buf = c.buf[1:]
	return v, nil
}

// Run reads exactly one Request from in, executes it to termination under
// cfg's caps (cfg.GasLimit is overridden by the request's GasLimit), and
// writes the resulting public tuple to out. It implements the "reads
// {program, arguments, gas_limit} ... writes the public tuple verbatim"
// contract of §4.8.
func Run(cfg vm.EngineConfig, storage vm.StorageBackend, registry vm.NativeRegistry, syscalls vm.SyscallHook, in *Channel[Request], out *Channel[bind.PublicTuple]) error {
	req, err := in.Recv()
	if err != nil {
		return err
	}

	cfg = cfg.WithGasLimit(req.GasLimit)
	eng := vm.NewEngine(cfg, storage, registry, syscalls)
	eng.EnableTracing()

	if err := eng.Load(req.Program); err != nil {
		tuple := bind.ComputeTuple(req.Program, req.Arguments, req.GasLimit, nil, 0, false)
		return out.Send(tuple)
	}
	for _, arg := range req.Arguments {
		if err := eng.Push(arg); err != nil {
			tuple := bind.ComputeTuple(req.Program, req.Arguments, req.GasLimit, nil, eng.GasConsumed(), false)
			return out.Send(tuple)
		}
	}

	report, err := eng.RunToEnd()
	if err != nil {
		return err
	}

	success := report.State == vm.Halt
	tuple := bind.ComputeTuple(req.Program, req.Arguments, req.GasLimit, report.Top, report.GasConsumed, success)
	return out.Send(tuple)
}
