package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/atriumhq/atrium/pkg/logger"
)

// Hooks receives observability callbacks from the fan-out paths. Kind is
// "search" or "pending_action"; err is nil on success.
type Hooks interface {
	ProviderCall(kind, slug string, elapsed time.Duration, err error)
}

// Registry holds module descriptors, provider bindings and palette
// commands for one application instance. A single mutex guards mutation;
// all read paths copy under RLock so callers never observe a partial
// insert.
type Registry struct {
	mu  sync.RWMutex
	log *logger.Logger

	// providerTimeout bounds each provider call when non-zero.
	providerTimeout time.Duration
	hooks           Hooks

	modules     map[string]ModuleDescriptor
	moduleOrder []string // slugs in registration order, tie-break for ListAll

	search      map[string]searchBinding // keyed by provider slug
	searchOrder []string

	pending      map[string]PendingActionProvider // keyed by module slug
	pendingOrder []string

	commands []CommandEntry
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger overrides the default logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithProviderTimeout bounds each provider call with a per-call context
// deadline. Zero disables the bound.
func WithProviderTimeout(d time.Duration) Option {
	return func(r *Registry) { r.providerTimeout = d }
}

// WithHooks attaches observability hooks to the fan-out paths.
func WithHooks(h Hooks) Option {
	return func(r *Registry) { r.hooks = h }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:     logger.NewDefault("registry"),
		modules: make(map[string]ModuleDescriptor),
		search:  make(map[string]searchBinding),
		pending: make(map[string]PendingActionProvider),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a module descriptor. It fails with a DuplicateSlugError
// if the slug is already taken; the store is left unchanged on failure.
func (r *Registry) Register(d ModuleDescriptor) error {
	if d.Slug == "" {
		return &UnknownModuleError{Kind: "module descriptor", Slug: ""}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[d.Slug]; exists {
		return &DuplicateSlugError{Kind: "module", Slug: d.Slug}
	}
	r.modules[d.Slug] = d
	r.moduleOrder = append(r.moduleOrder, d.Slug)

	r.log.Debug("module registered", "slug", d.Slug, "active", d.Active, "order", d.Order)
	return nil
}

// Get returns the descriptor for slug. The second return is false when no
// module with that slug is registered.
func (r *Registry) Get(slug string) (ModuleDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.modules[slug]
	return d, ok
}

// ListAll returns every descriptor sorted ascending by Order. Equal
// orders keep registration order, so output is deterministic.
func (r *Registry) ListAll() []ModuleDescriptor {
	r.mu.RLock()
	out := make([]ModuleDescriptor, 0, len(r.moduleOrder))
	for _, slug := range r.moduleOrder {
		out = append(out, r.modules[slug])
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// ListActive returns ListAll filtered to active modules.
func (r *Registry) ListActive() []ModuleDescriptor {
	all := r.ListAll()
	out := all[:0]
	for _, d := range all {
		if d.Active {
			out = append(out, d)
		}
	}
	return out
}

// ExportForPresentation returns the full module list as serialization-
// ready views, in ListAll order.
func (r *Registry) ExportForPresentation() []ModuleView {
	all := r.ListAll()
	out := make([]ModuleView, 0, len(all))
	for _, d := range all {
		out = append(out, d.view())
	}
	return out
}

// moduleActive reports whether slug names a registered, active module.
// Caller must hold at least the read lock.
func (r *Registry) moduleActive(slug string) bool {
	d, ok := r.modules[slug]
	return ok && d.Active
}

func (r *Registry) observe(kind, slug string, start time.Time, err error) {
	if r.hooks != nil {
		r.hooks.ProviderCall(kind, slug, time.Since(start), err)
	}
}
