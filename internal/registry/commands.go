package registry

import (
	"sort"
	"strings"
)

// CommandKind distinguishes palette entries that navigate somewhere from
// entries that trigger an action.
type CommandKind string

const (
	CommandNavigate CommandKind = "navigate"
	CommandAction   CommandKind = "action"
)

// CommandEntry is one command-palette action. Entries accumulate
// append-only across the process lifetime; names need not be unique.
type CommandEntry struct {
	Name       string      `json:"name"`
	Keywords   []string    `json:"keywords,omitempty"`
	Icon       string      `json:"icon"`
	Color      string      `json:"color"`
	TargetURL  string      `json:"target_url"`
	Kind       CommandKind `json:"kind"`
	ModuleSlug string      `json:"module_slug"`
	Order      int         `json:"order"`
}

// RegisterCommands appends a batch of palette entries. The batch is
// atomic: every entry's module slug is validated before any entry is
// appended, and an UnknownModuleError leaves the command list untouched.
func (r *Registry) RegisterCommands(entries []CommandEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if _, ok := r.modules[e.ModuleSlug]; !ok {
			return &UnknownModuleError{Kind: "command " + e.Name, Slug: e.ModuleSlug}
		}
	}

	r.commands = append(r.commands, entries...)
	r.log.Debug("commands registered", "count", len(entries))
	return nil
}

// Commands returns a copy of the full command list in registration order.
func (r *Registry) Commands() []CommandEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CommandEntry, len(r.commands))
	copy(out, r.commands)
	return out
}

// SearchCommands matches query case-insensitively against command names
// and keywords. All name matches precede all keyword-only matches
// regardless of Order; within each tier entries sort ascending by Order
// with registration order as tie-break. Commands of inactive or
// unregistered modules are excluded.
func (r *Registry) SearchCommands(query string) []CommandEntry {
	q := strings.ToLower(query)

	r.mu.RLock()
	var nameMatches, keywordMatches []CommandEntry
	for _, c := range r.commands {
		if !r.moduleActive(c.ModuleSlug) {
			continue
		}
		switch {
		case strings.Contains(strings.ToLower(c.Name), q):
			nameMatches = append(nameMatches, c)
		case anyKeywordContains(c.Keywords, q):
			keywordMatches = append(keywordMatches, c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(nameMatches, func(i, j int) bool { return nameMatches[i].Order < nameMatches[j].Order })
	sort.SliceStable(keywordMatches, func(i, j int) bool { return keywordMatches[i].Order < keywordMatches[j].Order })

	return append(nameMatches, keywordMatches...)
}

func anyKeywordContains(keywords []string, q string) bool {
	for _, k := range keywords {
		if strings.Contains(strings.ToLower(k), q) {
			return true
		}
	}
	return false
}
