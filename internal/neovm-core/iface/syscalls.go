package iface

import (
	"context"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

// Syscall identifiers for the reference SyscallHook. These are a host
// convention, not part of the canonical opcode table: a different host may
// assign different numbers as long as it documents them to its guests.
const (
	SyscallStorageGet uint32 = iota + 1
	SyscallStoragePut
	SyscallStorageDelete
	SyscallStorageContains
	SyscallNativeInvoke
)

// Hooks is the reference SyscallHook implementation, dispatching to a
// StorageBackend and NativeRegistry under the calling engine's script hash.
type Hooks struct {
	Storage  vm.StorageBackend
	Registry vm.NativeRegistry
}

func NewHooks(storage vm.StorageBackend, registry vm.NativeRegistry) *Hooks {
	return &Hooks{Storage: storage, Registry: registry}
}

func (h *Hooks) Syscall(id uint32, eng *vm.Engine) error {
	ctx := context.Background()
	switch id {
	case SyscallStorageGet:
		key, err := popBytes(eng)
		if err != nil {
			return err
		}
		val, found, err := h.Storage.Get(ctx, eng.ScriptHash(), key)
		if err != nil {
			return err
		}
		if !found {
			return eng.Push(vm.Null())
		}
		return eng.Push(vm.ByteString(val))

	case SyscallStoragePut:
		val, err := popBytes(eng)
		if err != nil {
			return err
		}
		key, err := popBytes(eng)
		if err != nil {
			return err
		}
		return h.Storage.Put(ctx, eng.ScriptHash(), key, val)

	case SyscallStorageDelete:
		key, err := popBytes(eng)
		if err != nil {
			return err
		}
		return h.Storage.Delete(ctx, eng.ScriptHash(), key)

	case SyscallStorageContains:
		key, err := popBytes(eng)
		if err != nil {
			return err
		}
		ok, err := h.Storage.Contains(ctx, eng.ScriptHash(), key)
		if err != nil {
			return err
		}
		return eng.Push(vm.Bool(ok))

	case SyscallNativeInvoke:
		argc, err := popUintCount(eng)
		if err != nil {
			return err
		}
		args := make([]vm.Value, argc)
		for i := argc - 1; i >= 0; i-- {
			v, err := eng.Pop()
			if err != nil {
				return err
			}
			args[i] = v
		}
		method, err := popBytes(eng)
		if err != nil {
			return err
		}
		hash20, err := popBytes(eng)
		if err != nil {
			return err
		}
		if h.Registry == nil {
			return &vm.Fault{Kind: vm.FaultUnknownSyscall, Message: "no native registry installed"}
		}
		result, err := h.Registry.Invoke(ctx, hash20, string(method), args)
		if err != nil {
			return err
		}
		return eng.Push(result)

	default:
		return &vm.Fault{Kind: vm.FaultUnknownSyscall, Message: "unregistered syscall id"}
	}
}

func popBytes(eng *vm.Engine) ([]byte, error) {
	v, err := eng.Pop()
	if err != nil {
		return nil, err
	}
	if v.Type != vm.TypeByteString && v.Type != vm.TypeBuffer {
		return nil, &vm.Fault{Kind: vm.FaultInvalidType, Message: "syscall expects a ByteString/Buffer argument"}
	}
	return v.Bytes, nil
}

func popUintCount(eng *vm.Engine) (int, error) {
	v, err := eng.Pop()
	if err != nil {
		return 0, err
	}
	if v.Type != vm.TypeInteger {
		return 0, &vm.Fault{Kind: vm.FaultInvalidType, Message: "syscall expects an Integer argument count"}
	}
	b := v.Big()
	if b.Sign() < 0 || !b.IsInt64() {
		return 0, &vm.Fault{Kind: vm.FaultInvalidOperation, Message: "syscall argument count out of range"}
	}
	return int(b.Int64()), nil
}
