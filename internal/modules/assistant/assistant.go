// Package assistant contributes AI-backed semantic search to the
// workspace shell. Search is delegated to the AI gateway; without a
// configured gateway the module registers as planned and inactive.
package assistant

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/atriumhq/atrium/internal/config"
	"github.com/atriumhq/atrium/internal/httputil"
	"github.com/atriumhq/atrium/internal/modules"
	"github.com/atriumhq/atrium/internal/registry"
)

var (
	_ modules.Module          = (*Module)(nil)
	_ registry.SearchProvider = (*Module)(nil)
)

// Module is the assistant feature module.
type Module struct {
	client *httputil.Client
}

// New constructs the module. An empty gateway URL leaves the module
// without a client; it then registers inactive.
func New(gatewayURL string) *Module {
	m := &Module{}
	if gatewayURL != "" {
		m.client = httputil.NewClient(httputil.ClientConfig{BaseURL: gatewayURL})
	}
	return m
}

// NewWithClient constructs the module around an existing client.
func NewWithClient(client *httputil.Client) *Module {
	return &Module{client: client}
}

// Slug returns the stable module identifier.
func (m *Module) Slug() string { return "assistant" }

// Register adds the descriptor, the search provider and the assistant
// command. The descriptor stays inactive until a gateway is configured,
// which keeps the provider out of every fan-out.
func (m *Module) Register(reg *registry.Registry, settings config.ModuleSettings) error {
	url := ""
	if m.client != nil {
		url = "/assistant/"
	}

	err := reg.Register(registry.ModuleDescriptor{
		Slug:        m.Slug(),
		Name:        "Assistant",
		Description: "Ask questions across your workspace",
		Icon:        "sparkles",
		Color:       "violet",
		URL:         url,
		Active:      settings.Enabled && m.client != nil,
		Order:       settings.Order,
	})
	if err != nil {
		return err
	}

	if err := reg.RegisterSearchProvider("assistant", m.Slug(), m); err != nil {
		return err
	}

	return reg.RegisterCommands([]registry.CommandEntry{
		{
			Name:       "Ask the assistant",
			Keywords:   []string{"ai", "question", "help"},
			Icon:       "sparkles",
			Color:      "violet",
			TargetURL:  "/assistant/",
			Kind:       registry.CommandNavigate,
			ModuleSlug: m.Slug(),
			Order:      50,
		},
	})
}

// Search implements registry.SearchProvider by asking the AI gateway for
// semantically related workspace items.
func (m *Module) Search(ctx context.Context, query string, principal registry.Principal, limit int) ([]registry.SearchResult, error) {
	if m.client == nil {
		return nil, fmt.Errorf("assistant gateway not configured")
	}

	ctx = httputil.WithUserID(ctx, principal.UserID())
	resp, err := m.client.Post(ctx, "/v1/search", map[string]any{
		"query": query,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	hits := gjson.GetBytes(body, "results")
	if !hits.Exists() {
		return nil, fmt.Errorf("gateway response missing results field")
	}

	var results []registry.SearchResult
	hits.ForEach(func(_, hit gjson.Result) bool {
		results = append(results, registry.SearchResult{
			ID:           hit.Get("id").String(),
			DisplayName:  hit.Get("title").String(),
			TargetURL:    hit.Get("url").String(),
			MatchedValue: hit.Get("snippet").String(),
			MatchType:    "semantic",
			TypeIcon:     "sparkles",
			ModuleSlug:   m.Slug(),
			ModuleColor:  "violet",
		})
		return true
	})
	return results, nil
}
