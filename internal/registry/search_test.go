package registry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func staticSearch(results ...SearchResult) SearchFunc {
	return func(context.Context, string, Principal, int) ([]SearchResult, error) {
		return results, nil
	}
}

func failingSearch(err error) SearchFunc {
	return func(context.Context, string, Principal, int) ([]SearchResult, error) {
		return nil, err
	}
}

func TestRegisterSearchProviderUnknownModule(t *testing.T) {
	r := newTestRegistry()

	err := r.RegisterSearchProvider("mail-search", "mail", staticSearch())
	if err == nil {
		t.Fatal("expected registration against unknown module to fail")
	}
	if !IsUnknownModule(err) {
		t.Fatalf("expected unknown-module error, got %v", err)
	}

	var unknown *UnknownModuleError
	if !errors.As(err, &unknown) {
		t.Fatal("expected errors.As to succeed")
	}
	if unknown.Slug != "mail" {
		t.Fatalf("expected slug mail, got %q", unknown.Slug)
	}
}

func TestRegisterSearchProviderDuplicate(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})

	if err := r.RegisterSearchProvider("mail-search", "mail", staticSearch()); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	err := r.RegisterSearchProvider("mail-search", "mail", staticSearch())
	if !IsDuplicateSlug(err) {
		t.Fatalf("expected duplicate-slug error, got %v", err)
	}
}

func TestSearchConcatenatesInRegistrationOrder(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})
	mustRegister(t, r, ModuleDescriptor{Slug: "files", Active: true})

	if err := r.RegisterSearchProvider("mail-search", "mail", staticSearch(
		SearchResult{ID: "m1", ModuleSlug: "mail"},
		SearchResult{ID: "m2", ModuleSlug: "mail"},
	)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterSearchProvider("files-search", "files", staticSearch(
		SearchResult{ID: "f1", ModuleSlug: "files"},
	)); err != nil {
		t.Fatal(err)
	}

	got := r.Search(context.Background(), "report", User("u1"), 10)
	want := []string{"m1", "m2", "f1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestSearchIsolatesFailingProvider(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})
	mustRegister(t, r, ModuleDescriptor{Slug: "files", Active: true})

	if err := r.RegisterSearchProvider("mail-search", "mail", failingSearch(errors.New("connection refused"))); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterSearchProvider("files-search", "files", staticSearch(SearchResult{ID: "f1"})); err != nil {
		t.Fatal(err)
	}

	got := r.Search(context.Background(), "q", User("u1"), 10)
	if len(got) != 1 || got[0].ID != "f1" {
		t.Fatalf("expected only the healthy provider's result, got %+v", got)
	}
}

func TestSearchIsolatesPanickingProvider(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})
	mustRegister(t, r, ModuleDescriptor{Slug: "files", Active: true})

	panicking := SearchFunc(func(context.Context, string, Principal, int) ([]SearchResult, error) {
		panic("nil dereference in provider")
	})
	if err := r.RegisterSearchProvider("mail-search", "mail", panicking); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterSearchProvider("files-search", "files", staticSearch(SearchResult{ID: "f1"})); err != nil {
		t.Fatal(err)
	}

	got := r.Search(context.Background(), "q", User("u1"), 10)
	if len(got) != 1 || got[0].ID != "f1" {
		t.Fatalf("expected panic to be contained, got %+v", got)
	}
}

func TestSearchSkipsInactiveModule(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "notes", Active: false})
	mustRegister(t, r, ModuleDescriptor{Slug: "files", Active: true})

	if err := r.RegisterSearchProvider("notes-search", "notes", staticSearch(SearchResult{ID: "n1"})); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterSearchProvider("files-search", "files", staticSearch(SearchResult{ID: "f1"})); err != nil {
		t.Fatal(err)
	}

	got := r.Search(context.Background(), "x", User("u1"), 10)
	if len(got) != 1 || got[0].ID != "f1" {
		t.Fatalf("expected inactive module to be excluded, got %+v", got)
	}
}

func TestSearchPassesQueryPrincipalAndLimit(t *testing.T) {
	r := newTestRegistry()
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})

	var gotQuery, gotUser string
	var gotLimit int
	probe := SearchFunc(func(_ context.Context, query string, principal Principal, limit int) ([]SearchResult, error) {
		gotQuery, gotUser, gotLimit = query, principal.UserID(), limit
		return nil, nil
	})
	if err := r.RegisterSearchProvider("mail-search", "mail", probe); err != nil {
		t.Fatal(err)
	}

	r.Search(context.Background(), "quarterly report", User("alice"), 25)
	if gotQuery != "quarterly report" || gotUser != "alice" || gotLimit != 25 {
		t.Fatalf("provider saw (%q, %q, %d)", gotQuery, gotUser, gotLimit)
	}
}

func TestSearchProviderTimeout(t *testing.T) {
	r := newTestRegistry(WithProviderTimeout(20 * time.Millisecond))
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})
	mustRegister(t, r, ModuleDescriptor{Slug: "files", Active: true})

	slow := SearchFunc(func(ctx context.Context, _ string, _ Principal, _ int) ([]SearchResult, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return []SearchResult{{ID: "late"}}, nil
		}
	})
	if err := r.RegisterSearchProvider("mail-search", "mail", slow); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterSearchProvider("files-search", "files", staticSearch(SearchResult{ID: "f1"})); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	got := r.Search(context.Background(), "q", User("u1"), 10)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("slow provider stalled the fan-out for %v", elapsed)
	}
	if len(got) != 1 || got[0].ID != "f1" {
		t.Fatalf("expected timed-out provider to contribute nothing, got %+v", got)
	}
}

type recordingHooks struct {
	calls []string
	errs  int
}

func (h *recordingHooks) ProviderCall(kind, slug string, _ time.Duration, err error) {
	h.calls = append(h.calls, kind+"/"+slug)
	if err != nil {
		h.errs++
	}
}

func TestSearchReportsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	r := newTestRegistry(WithHooks(hooks))
	mustRegister(t, r, ModuleDescriptor{Slug: "mail", Active: true})

	if err := r.RegisterSearchProvider("mail-search", "mail", failingSearch(errors.New("boom"))); err != nil {
		t.Fatal(err)
	}
	r.Search(context.Background(), "q", User("u1"), 10)

	if len(hooks.calls) != 1 || hooks.calls[0] != "search/mail-search" {
		t.Fatalf("unexpected hook calls: %v", hooks.calls)
	}
	if hooks.errs != 1 {
		t.Fatalf("expected 1 error observation, got %d", hooks.errs)
	}
}
