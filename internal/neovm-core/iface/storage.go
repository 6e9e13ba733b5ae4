// Package iface collects reference implementations of the vm package's
// capability traits (StorageBackend, NativeRegistry, SyscallHook). None of
// these are wired into consensus; they exist so the engine can be exercised
// standalone and by tests.
package iface

import (
	"context"
	"sync"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

// MemoryStorage is an in-process StorageBackend keyed by (scriptHash, key).
// It is safe for concurrent use.
type MemoryStorage struct {
	mu       sync.RWMutex
	spaces   map[string]map[string][]byte
	readOnly map[string]bool
}

// NewMemoryStorage returns an empty storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		spaces:   make(map[string]map[string][]byte),
		readOnly: make(map[string]bool),
	}
}

// SetReadOnly marks a namespace read-only; Put/Delete against it then fault.
func (s *MemoryStorage) SetReadOnly(scriptHash []byte, ro bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly[string(scriptHash)] = ro
}

func (s *MemoryStorage) ReadOnly(scriptHash []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readOnly[string(scriptHash)]
}

func (s *MemoryStorage) Get(_ context.Context, scriptHash, key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	space, ok := s.spaces[string(scriptHash)]
	if !ok {
		return nil, false, nil
	}
	v, ok := space[string(key)]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStorage) Put(_ context.Context, scriptHash, key, value []byte) error {
	if s.ReadOnly(scriptHash) {
		return &vm.Fault{Kind: vm.FaultInvalidOperation, Message: "storage write in a read-only context"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	space, ok := s.spaces[string(scriptHash)]
	if !ok {
		space = make(map[string][]byte)
		s.spaces[string(scriptHash)] = space
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	space[string(key)] = cp
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, scriptHash, key []byte) error {
	if s.ReadOnly(scriptHash) {
		return &vm.Fault{Kind: vm.FaultInvalidOperation, Message: "storage write in a read-only context"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if space, ok := s.spaces[string(scriptHash)]; ok {
		delete(space, string(key))
	}
	return nil
}

func (s *MemoryStorage) Contains(_ context.Context, scriptHash, key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	space, ok := s.spaces[string(scriptHash)]
	if !ok {
		return false, nil
	}
	_, ok = space[string(key)]
	return ok, nil
}
