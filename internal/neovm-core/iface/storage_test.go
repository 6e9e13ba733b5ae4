package iface

import (
	"context"
	"testing"
)

func TestMemoryStoragePutGetRoundTrip(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	hash := []byte("script-a")

	if _, found, err := s.Get(ctx, hash, []byte("k")); err != nil || found {
		t.Fatalf("Get on empty storage = found=%v, err=%v, want false, nil", found, err)
	}

	if err := s.Put(ctx, hash, []byte("k"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, found, err := s.Get(ctx, hash, []byte("k"))
	if err != nil || !found || string(v) != "v1" {
		t.Fatalf("Get = %q, %v, %v, want v1, true, nil", v, found, err)
	}
}

func TestMemoryStorageGetReturnsACopyNotAnAlias(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	hash := []byte("script-a")
	if err := s.Put(ctx, hash, []byte("k"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, _, err := s.Get(ctx, hash, []byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	v[0] = 'X'
	v2, _, err := s.Get(ctx, hash, []byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v2) != "v1" {
		t.Fatalf("mutating a returned value leaked into storage: %q", v2)
	}
}

func TestMemoryStorageNamespaceIsolation(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	if err := s.Put(ctx, []byte("script-a"), []byte("k"), []byte("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, []byte("script-b"), []byte("k"), []byte("b")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	va, _, _ := s.Get(ctx, []byte("script-a"), []byte("k"))
	vb, _, _ := s.Get(ctx, []byte("script-b"), []byte("k"))
	if string(va) != "a" || string(vb) != "b" {
		t.Fatalf("namespaces leaked into each other: a=%q b=%q", va, vb)
	}
}

func TestMemoryStorageDeleteAndContains(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	hash := []byte("script-a")
	if err := s.Put(ctx, hash, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ok, err := s.Contains(ctx, hash, []byte("k")); err != nil || !ok {
		t.Fatalf("Contains = %v, %v, want true, nil", ok, err)
	}
	if err := s.Delete(ctx, hash, []byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, err := s.Contains(ctx, hash, []byte("k")); err != nil || ok {
		t.Fatalf("Contains after Delete = %v, %v, want false, nil", ok, err)
	}
}

func TestMemoryStorageReadOnlyRejectsWrites(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	hash := []byte("script-a")
	s.SetReadOnly(hash, true)
	if !s.ReadOnly(hash) {
		t.Fatalf("ReadOnly should report true after SetReadOnly(true)")
	}
	if err := s.Put(ctx, hash, []byte("k"), []byte("v")); err == nil {
		t.Fatalf("expected Put to fail against a read-only namespace")
	}
	if err := s.Delete(ctx, hash, []byte("k")); err == nil {
		t.Fatalf("expected Delete to fail against a read-only namespace")
	}
}

func TestMemoryStorageConcurrentAccessIsSafe(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	hash := []byte("script-a")
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			key := []byte{byte(i)}
			_ = s.Put(ctx, hash, key, []byte{byte(i)})
			_, _, _ = s.Get(ctx, hash, key)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
