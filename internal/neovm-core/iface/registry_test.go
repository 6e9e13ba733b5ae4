package iface

import (
	"context"
	"testing"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

func TestRegistryInvokeDispatchesToRegisteredMethod(t *testing.T) {
	storage := NewMemoryStorage()
	reg := NewRegistry(storage)
	hash := []byte{1, 2, 3}

	reg.Register(hash, "double", func(ctx context.Context, s vm.StorageBackend, h []byte, args []vm.Value) (vm.Value, error) {
		n := args[0].Big().Int64()
		return vm.IntFromInt64(n * 2), nil
	})

	out, err := reg.Invoke(context.Background(), hash, "double", []vm.Value{vm.IntFromInt64(21)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Big().Int64() != 42 {
		t.Fatalf("Invoke result = %v, want 42", out)
	}
}

func TestRegistryInvokeUnknownMethodErrors(t *testing.T) {
	reg := NewRegistry(NewMemoryStorage())
	if _, err := reg.Invoke(context.Background(), []byte{1}, "missing", nil); err == nil {
		t.Fatalf("expected an error invoking an unregistered method")
	}
}

func TestRegistryKeysAreHashAndNameScoped(t *testing.T) {
	storage := NewMemoryStorage()
	reg := NewRegistry(storage)
	hashA := []byte{0xAA}
	hashB := []byte{0xBB}
	reg.Register(hashA, "m", func(ctx context.Context, s vm.StorageBackend, h []byte, args []vm.Value) (vm.Value, error) {
		return vm.IntFromInt64(1), nil
	})
	reg.Register(hashB, "m", func(ctx context.Context, s vm.StorageBackend, h []byte, args []vm.Value) (vm.Value, error) {
		return vm.IntFromInt64(2), nil
	})
	outA, err := reg.Invoke(context.Background(), hashA, "m", nil)
	if err != nil {
		t.Fatalf("Invoke A: %v", err)
	}
	outB, err := reg.Invoke(context.Background(), hashB, "m", nil)
	if err != nil {
		t.Fatalf("Invoke B: %v", err)
	}
	if outA.Big().Int64() != 1 || outB.Big().Int64() != 2 {
		t.Fatalf("same method name under different hashes collided: a=%v b=%v", outA, outB)
	}
}

func TestRegistryNativeMethodCanWriteToBackingStorage(t *testing.T) {
	storage := NewMemoryStorage()
	reg := NewRegistry(storage)
	hash := []byte{0x01}
	reg.Register(hash, "store", func(ctx context.Context, s vm.StorageBackend, h []byte, args []vm.Value) (vm.Value, error) {
		if err := s.Put(ctx, h, []byte("k"), args[0].Bytes); err != nil {
			return vm.Value{}, err
		}
		return vm.Null(), nil
	})
	if _, err := reg.Invoke(context.Background(), hash, "store", []vm.Value{vm.ByteString([]byte("payload"))}); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	got, found, err := storage.Get(context.Background(), hash, []byte("k"))
	if err != nil || !found || string(got) != "payload" {
		t.Fatalf("storage.Get after native write = %q, %v, %v, want payload, true, nil", got, found, err)
	}
}
