package iface

import (
	"context"
	"fmt"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

// NativeMethod is one deterministic, storage-only-side-effecting entry of a
// native contract (§6.3).
type NativeMethod func(ctx context.Context, storage vm.StorageBackend, hash20 []byte, args []vm.Value) (vm.Value, error)

// Registry is a reference NativeRegistry keyed by (20-byte hash, method
// name). It delegates storage access to the backend supplied at
// construction so native methods observe the same namespace isolation as
// ordinary syscalls.
type Registry struct {
	storage vm.StorageBackend
	methods map[string]NativeMethod
}

func NewRegistry(storage vm.StorageBackend) *Registry {
	return &Registry{storage: storage, methods: make(map[string]NativeMethod)}
}

// Register adds a method under hash20 (hex-encoded key internally) + name.
func (r *Registry) Register(hash20 []byte, name string, m NativeMethod) {
	r.methods[nativeKey(hash20, name)] = m
}

func (r *Registry) Invoke(ctx context.Context, hash20 []byte, method string, args []vm.Value) (vm.Value, error) {
	m, ok := r.methods[nativeKey(hash20, method)]
	if !ok {
		return vm.Value{}, fmt.Errorf("native contract %x has no method %q", hash20, method)
	}
	return m(ctx, r.storage, hash20, args)
}

func nativeKey(hash20 []byte, method string) string {
	return fmt.Sprintf("%x:%s", hash20, method)
}
