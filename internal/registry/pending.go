package registry

import (
	"context"
	"fmt"
	"time"
)

// PendingActionProvider is implemented by modules that expose a badge
// count (unread mail, open invitations, ...). The count must be
// non-negative.
type PendingActionProvider interface {
	PendingActionCount(ctx context.Context, principal Principal) (int, error)
}

// PendingActionFunc adapts a function to a PendingActionProvider.
type PendingActionFunc func(ctx context.Context, principal Principal) (int, error)

// PendingActionCount calls f.
func (f PendingActionFunc) PendingActionCount(ctx context.Context, principal Principal) (int, error) {
	return f(ctx, principal)
}

// RegisterPendingActionProvider binds a badge-count provider to the
// module identified by moduleSlug. The module must already be
// registered; at most one binding per module.
func (r *Registry) RegisterPendingActionProvider(moduleSlug string, p PendingActionProvider) error {
	if p == nil {
		return fmt.Errorf("pending-action provider for %q: nil provider", moduleSlug)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modules[moduleSlug]; !ok {
		return &UnknownModuleError{Kind: "pending-action provider", Slug: moduleSlug}
	}
	if _, exists := r.pending[moduleSlug]; exists {
		return &DuplicateSlugError{Kind: "pending-action provider", Slug: moduleSlug}
	}

	r.pending[moduleSlug] = p
	r.pendingOrder = append(r.pendingOrder, moduleSlug)

	r.log.Debug("pending-action provider registered", "module", moduleSlug)
	return nil
}

// PendingActionCounts returns the badge count of every active module
// with a bound provider, keyed by module slug. A provider that fails is
// logged and reported as 0; its slug is always present in the result.
// Modules without a binding are absent entirely, so callers can tell
// "no count available" from an explicit zero.
func (r *Registry) PendingActionCounts(ctx context.Context, principal Principal) map[string]int {
	r.mu.RLock()
	type binding struct {
		slug     string
		provider PendingActionProvider
	}
	bindings := make([]binding, 0, len(r.pendingOrder))
	for _, slug := range r.pendingOrder {
		if r.moduleActive(slug) {
			bindings = append(bindings, binding{slug: slug, provider: r.pending[slug]})
		}
	}
	r.mu.RUnlock()

	counts := make(map[string]int, len(bindings))
	for _, b := range bindings {
		start := time.Now()
		n, err := r.callPending(ctx, b.provider, principal)
		r.observe("pending_action", b.slug, start, err)
		if err != nil {
			r.log.Error("pending-action provider failed", "module", b.slug, "error", err)
			counts[b.slug] = 0
			continue
		}
		if n < 0 {
			r.log.Warn("pending-action provider returned negative count", "module", b.slug, "count", n)
			n = 0
		}
		counts[b.slug] = n
	}
	return counts
}

func (r *Registry) callPending(ctx context.Context, p PendingActionProvider, principal Principal) (n int, err error) {
	if r.providerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.providerTimeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			n = 0
			err = fmt.Errorf("provider panic: %v", rec)
		}
	}()

	return p.PendingActionCount(ctx, principal)
}
