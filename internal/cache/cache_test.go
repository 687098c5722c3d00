package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
)

func TestKeyStable(t *testing.T) {
	type req struct {
		Power    float64 `json:"power"`
		Diameter float64 `json:"diameter"`
	}
	a, err := Key("xml", req{180, 6})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Key("xml", req{180, 6})
	c, _ := Key("xml", req{180, 7})
	d, _ := Key("pdf", req{180, 6})

	if a != b {
		t.Errorf("same input gave %q and %q", a, b)
	}
	if a == c {
		t.Error("different inputs share a key")
	}
	if a == d {
		t.Error("different kinds share a key")
	}
	if a[:4] != "xml:" {
		t.Errorf("key %q missing kind prefix", a)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("empty cache reported a hit")
	}
	if err := m.Set(ctx, "k", []byte("doc")); err != nil {
		t.Fatal(err)
	}
	got, ok := m.Get(ctx, "k")
	if !ok || string(got) != "doc" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("expired entry reported a hit")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d after expiry, want 0", m.Len())
	}
}

func TestMemorySweepsExpiredOnSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemorySize(time.Minute, 100000)
	m.now = func() time.Time { return now }

	for i := 0; i < 10000; i++ {
		m.Set(ctx, fmt.Sprintf("xml:%d", i), []byte("doc"))
	}
	if m.Len() != 10000 {
		t.Fatalf("Len = %d, want 10000", m.Len())
	}

	now = now.Add(time.Hour)
	m.Set(ctx, "xml:new", []byte("doc"))
	if m.Len() != 1 {
		t.Errorf("Len = %d after every other entry expired, want 1", m.Len())
	}
}

func TestMemoryEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemorySize(0, 3)
	m.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		m.Set(ctx, k, []byte(k))
		now = now.Add(time.Second)
	}
	m.Set(ctx, "b", []byte("b2"))
	m.Set(ctx, "d", []byte("d"))

	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
	if _, ok := m.Get(ctx, "a"); ok {
		t.Error("oldest entry survived eviction")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := m.Get(ctx, k); !ok {
			t.Errorf("entry %q evicted", k)
		}
	}
}

func TestMemoryCopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	buf := []byte("abc")
	m.Set(ctx, "k", buf)
	buf[0] = 'x'

	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed to %q", got)
	}
}

func TestRedisUnreachableIsMiss(t *testing.T) {
	r := NewRedis("127.0.0.1:1", time.Minute, hclog.NewNullLogger())
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Ping(ctx); err == nil {
		t.Fatal("ping to closed port succeeded")
	}
	if _, ok := r.Get(ctx, "xml:abc"); ok {
		t.Error("Get on unreachable redis reported a hit")
	}
}
