package rdx

import (
	"context"
	"os"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, addr)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	key := "test-" + t.Name()
	defer s.Delete(ctx, key)

	if _, ok, err := s.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, key, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, err := s.Get(ctx, key); err != nil || !ok || v != "abc" {
		t.Fatalf("expected abc, got %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, key); ok {
		t.Fatal("key still present after delete")
	}
}
