package codegen

import "testing"

func TestRegisterAllocatorBalance(t *testing.T) {
	r := NewRegisterAllocator()

	var held []string
	for i := 0; i < temporaryCount; i++ {
		reg, err := r.RequestFree()
		if err != nil {
			t.Fatalf("RequestFree() #%d: %v", i, err)
		}
		held = append(held, reg)
	}

	if _, err := r.RequestFree(); err == nil {
		t.Fatalf("expected error requesting a 9th temporary")
	}

	for _, reg := range held {
		if err := r.Release(reg); err != nil {
			t.Fatalf("Release(%s): %v", reg, err)
		}
	}

	if live := r.LiveSet(); len(live) != 0 {
		t.Fatalf("expected empty live set after balanced release, got %v", live)
	}
}

func TestRegisterAllocatorLowestIndexFirst(t *testing.T) {
	r := NewRegisterAllocator()

	a, _ := r.RequestFree()
	if a != "$t0" {
		t.Fatalf("expected $t0 first, got %s", a)
	}
	b, _ := r.RequestFree()
	if b != "$t1" {
		t.Fatalf("expected $t1 second, got %s", b)
	}
	if err := r.Release(a); err != nil {
		t.Fatalf("Release: %v", err)
	}
	c, _ := r.RequestFree()
	if c != "$t0" {
		t.Fatalf("expected released $t0 to be reused, got %s", c)
	}
}

func TestRegisterAllocatorDoubleReleaseFails(t *testing.T) {
	r := NewRegisterAllocator()
	reg, _ := r.RequestFree()
	if err := r.Release(reg); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := r.Release(reg); err == nil {
		t.Fatalf("expected error on double release of %s", reg)
	}
}

func TestRegisterAllocatorReleaseNonTemporaryFails(t *testing.T) {
	r := NewRegisterAllocator()
	if err := r.Release("$v0"); err == nil {
		t.Fatalf("expected error releasing a non-temporary register")
	}
}

func TestRegisterAllocatorLiveSetSnapshot(t *testing.T) {
	r := NewRegisterAllocator()
	t1, _ := r.RequestFree()
	t2, _ := r.RequestFree()

	live := r.LiveSet()
	if len(live) != 2 || live[0] != t1 || live[1] != t2 {
		t.Fatalf("expected live set [%s %s], got %v", t1, t2, live)
	}
}
