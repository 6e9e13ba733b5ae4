package iface

import (
	"context"
	"testing"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

func newTestEngine(t *testing.T) *vm.Engine {
	t.Helper()
	e := vm.NewEngine(vm.DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
	if err := e.Load([]byte{byte(vm.RET)}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.SetScriptHash([]byte("script-x"))
	return e
}

func TestStorageGetMissingKeyPushesNull(t *testing.T) {
	storage := NewMemoryStorage()
	h := NewHooks(storage, nil)
	e := newTestEngine(t)
	if err := e.Push(vm.ByteString([]byte("missing-key"))); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := h.Syscall(SyscallStorageGet, e); err != nil {
		t.Fatalf("Syscall: %v", err)
	}
	top, err := e.Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if top.Type != vm.TypeNull {
		t.Fatalf("expected Null for a missing key, got %+v", top)
	}
}

func TestStoragePutThenGetRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	h := NewHooks(storage, nil)
	e := newTestEngine(t)

	// Put(key, value): key pushed first, then value (Put pops value then key).
	if err := e.Push(vm.ByteString([]byte("k"))); err != nil {
		t.Fatalf("Push key: %v", err)
	}
	if err := e.Push(vm.ByteString([]byte("v"))); err != nil {
		t.Fatalf("Push value: %v", err)
	}
	if err := h.Syscall(SyscallStoragePut, e); err != nil {
		t.Fatalf("Syscall Put: %v", err)
	}

	if err := e.Push(vm.ByteString([]byte("k"))); err != nil {
		t.Fatalf("Push key: %v", err)
	}
	if err := h.Syscall(SyscallStorageGet, e); err != nil {
		t.Fatalf("Syscall Get: %v", err)
	}
	top, err := e.Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if string(top.Bytes) != "v" {
		t.Fatalf("Get after Put = %q, want v", top.Bytes)
	}
}

func TestStorageContainsAfterDelete(t *testing.T) {
	storage := NewMemoryStorage()
	h := NewHooks(storage, nil)
	e := newTestEngine(t)

	if err := e.Push(vm.ByteString([]byte("k"))); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := e.Push(vm.ByteString([]byte("v"))); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := h.Syscall(SyscallStoragePut, e); err != nil {
		t.Fatalf("Syscall Put: %v", err)
	}

	if err := e.Push(vm.ByteString([]byte("k"))); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := h.Syscall(SyscallStorageDelete, e); err != nil {
		t.Fatalf("Syscall Delete: %v", err)
	}

	if err := e.Push(vm.ByteString([]byte("k"))); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := h.Syscall(SyscallStorageContains, e); err != nil {
		t.Fatalf("Syscall Contains: %v", err)
	}
	top, err := e.Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if top.AsBool() {
		t.Fatalf("Contains should be false after Delete, got %+v", top)
	}
}

func TestNativeInvokeDispatchesThroughRegistry(t *testing.T) {
	storage := NewMemoryStorage()
	reg := NewRegistry(storage)
	hash20 := []byte("0123456789012345678")
	reg.Register(hash20, "greet", func(ctx context.Context, s vm.StorageBackend, h []byte, args []vm.Value) (vm.Value, error) {
		return vm.IntFromInt64(args[0].Big().Int64() + 1), nil
	})
	h := NewHooks(storage, reg)
	e := newTestEngine(t)

	// Stack layout expected by SyscallNativeInvoke: hash20, method, args..., argc.
	if err := e.Push(vm.ByteString(hash20)); err != nil {
		t.Fatalf("Push hash: %v", err)
	}
	if err := e.Push(vm.ByteString([]byte("greet"))); err != nil {
		t.Fatalf("Push method: %v", err)
	}
	if err := e.Push(vm.IntFromInt64(41)); err != nil {
		t.Fatalf("Push arg: %v", err)
	}
	if err := e.Push(vm.IntFromInt64(1)); err != nil {
		t.Fatalf("Push argc: %v", err)
	}
	if err := h.Syscall(SyscallNativeInvoke, e); err != nil {
		t.Fatalf("Syscall: %v", err)
	}
	top, err := e.Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if top.Big().Int64() != 42 {
		t.Fatalf("native invoke result = %v, want 42", top)
	}
}

func TestNativeInvokeWithoutRegistryFaults(t *testing.T) {
	h := NewHooks(NewMemoryStorage(), nil)
	e := newTestEngine(t)
	if err := e.Push(vm.ByteString([]byte("h"))); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := e.Push(vm.ByteString([]byte("m"))); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := e.Push(vm.IntFromInt64(0)); err != nil {
		t.Fatalf("Push argc: %v", err)
	}
	if err := h.Syscall(SyscallNativeInvoke, e); err == nil {
		t.Fatalf("expected an error invoking a native method with no registry installed")
	}
}

func TestUnregisteredSyscallIDFaults(t *testing.T) {
	h := NewHooks(NewMemoryStorage(), nil)
	e := newTestEngine(t)
	if err := h.Syscall(999, e); err == nil {
		t.Fatalf("expected an error for an unregistered syscall id")
	}
}
