package registry

import (
	"context"
	"fmt"
	"time"
)

// Tag is a small colored label attached to a search result.
type Tag struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// SearchResult is one hit returned by a module's search provider.
// Results are built fresh per query and discarded after serialization.
type SearchResult struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	TargetURL    string `json:"target_url"`
	MatchedValue string `json:"matched_value"`
	MatchType    string `json:"match_type"`
	TypeIcon     string `json:"type_icon"`
	ModuleSlug   string `json:"module_slug"`
	ModuleColor  string `json:"module_color"`
	DateLabel    string `json:"date_label,omitempty"`
	Tags         []Tag  `json:"tags,omitempty"`
}

// SearchProvider is implemented by modules that contribute to unified
// search. Providers may block on I/O and may fail; the registry isolates
// both.
type SearchProvider interface {
	Search(ctx context.Context, query string, principal Principal, limit int) ([]SearchResult, error)
}

// SearchFunc adapts a function to a SearchProvider.
type SearchFunc func(ctx context.Context, query string, principal Principal, limit int) ([]SearchResult, error)

// Search calls f.
func (f SearchFunc) Search(ctx context.Context, query string, principal Principal, limit int) ([]SearchResult, error) {
	return f(ctx, query, principal, limit)
}

type searchBinding struct {
	providerSlug string
	moduleSlug   string
	provider     SearchProvider
}

// RegisterSearchProvider binds a search provider under providerSlug for
// the module identified by moduleSlug. The module must already be
// registered; at most one binding per providerSlug.
func (r *Registry) RegisterSearchProvider(providerSlug, moduleSlug string, p SearchProvider) error {
	if p == nil {
		return fmt.Errorf("search provider %q: nil provider", providerSlug)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modules[moduleSlug]; !ok {
		return &UnknownModuleError{Kind: "search provider " + providerSlug, Slug: moduleSlug}
	}
	if _, exists := r.search[providerSlug]; exists {
		return &DuplicateSlugError{Kind: "search provider", Slug: providerSlug}
	}

	r.search[providerSlug] = searchBinding{
		providerSlug: providerSlug,
		moduleSlug:   moduleSlug,
		provider:     p,
	}
	r.searchOrder = append(r.searchOrder, providerSlug)

	r.log.Debug("search provider registered", "provider", providerSlug, "module", moduleSlug)
	return nil
}

// Search fans the query out to every provider whose module is registered
// and active, in registration order, and concatenates the results. A
// provider that returns an error or panics is logged and contributes
// nothing; it never aborts the overall call. Limit is passed through to
// each provider; callers truncate the combined sequence themselves.
func (r *Registry) Search(ctx context.Context, query string, principal Principal, limit int) []SearchResult {
	r.mu.RLock()
	bindings := make([]searchBinding, 0, len(r.searchOrder))
	for _, slug := range r.searchOrder {
		b := r.search[slug]
		if r.moduleActive(b.moduleSlug) {
			bindings = append(bindings, b)
		}
	}
	r.mu.RUnlock()

	var results []SearchResult
	for _, b := range bindings {
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		hits, err := r.callSearch(ctx, b, query, principal, limit)
		r.observe("search", b.providerSlug, start, err)
		if err != nil {
			r.log.Error("search provider failed", "provider", b.providerSlug, "module", b.moduleSlug, "error", err)
			continue
		}
		results = append(results, hits...)
	}
	return results
}

// callSearch runs one provider with the configured timeout and converts
// panics into errors so a broken provider cannot take down the shell.
func (r *Registry) callSearch(ctx context.Context, b searchBinding, query string, principal Principal, limit int) (hits []SearchResult, err error) {
	if r.providerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.providerTimeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			hits = nil
			err = fmt.Errorf("provider panic: %v", rec)
		}
	}()

	return b.provider.Search(ctx, query, principal, limit)
}
