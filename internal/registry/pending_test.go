package registry

import (
	"context"
	"errors"
	"testing"
)

func staticCount(n int) PendingActionFunc {
	return func(context.Context, Principal) (int, error) { return n, nil }
}

func TestPendingActionCounts(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "chat", Active: true})
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})

	if err := r.RegisterPendingActionProvider("chat", staticCount(5)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterPendingActionProvider("mail", staticCount(2)); err != nil {
		t.Fatal(err)
	}

	counts := r.PendingActionCounts(context.Background(), User("u1"))
	if len(counts) != 2 || counts["chat"] != 5 || counts["mail"] != 2 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestPendingActionCountsFailureYieldsZero(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "chat", Active: true})
	mustRegister(t, r, ModuleDescriptor{Slug: "calendar", Active: true})

	failing := PendingActionFunc(func(context.Context, Principal) (int, error) {
		return 0, errors.New("runtime error")
	})
	if err := r.RegisterPendingActionProvider("chat", failing); err != nil {
		t.Fatal(err)
	}

	counts := r.PendingActionCounts(context.Background(), User("u1"))

	// The failing module is present with an explicit zero; calendar has no
	// binding and must be absent entirely.
	n, ok := counts["chat"]
	if !ok || n != 0 {
		t.Fatalf("expected chat: 0, got %v (present=%v)", n, ok)
	}
	if _, ok := counts["calendar"]; ok {
		t.Fatal("expected calendar to be absent from the result")
	}
	if len(counts) != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestPendingActionCountsFailureDoesNotAffectOthers(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "chat", Active: true})
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})

	panicking := PendingActionFunc(func(context.Context, Principal) (int, error) {
		panic("index out of range")
	})
	if err := r.RegisterPendingActionProvider("chat", panicking); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterPendingActionProvider("mail", staticCount(7)); err != nil {
		t.Fatal(err)
	}

	counts := r.PendingActionCounts(context.Background(), User("u1"))
	if counts["chat"] != 0 || counts["mail"] != 7 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestPendingActionCountsSkipsInactiveModule(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "notes", Active: false})
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})

	if err := r.RegisterPendingActionProvider("notes", staticCount(9)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterPendingActionProvider("mail", staticCount(1)); err != nil {
		t.Fatal(err)
	}

	counts := r.PendingActionCounts(context.Background(), User("u1"))
	if _, ok := counts["notes"]; ok {
		t.Fatal("inactive module must not appear in counts")
	}
	if counts["mail"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestPendingActionCountsClampsNegative(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})

	if err := r.RegisterPendingActionProvider("mail", staticCount(-3)); err != nil {
		t.Fatal(err)
	}

	counts := r.PendingActionCounts(context.Background(), User("u1"))
	if counts["mail"] != 0 {
		t.Fatalf("expected negative count clamped to 0, got %d", counts["mail"])
	}
}

func TestRegisterPendingActionProviderErrors(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})

	if err := r.RegisterPendingActionProvider("files", staticCount(1)); !IsUnknownModule(err) {
		t.Fatalf("expected unknown-module error, got %v", err)
	}
	if err := r.RegisterPendingActionProvider("mail", staticCount(1)); err != nil {
		t.Fatalf("first binding: %v", err)
	}
	if err := r.RegisterPendingActionProvider("mail", staticCount(2)); !IsDuplicateSlug(err) {
		t.Fatalf("expected duplicate-slug error, got %v", err)
	}
}
