// Package files contributes document search and file commands to the
// workspace shell.
package files

import (
	"context"
	"fmt"

	"github.com/atriumhq/atrium/internal/config"
	"github.com/atriumhq/atrium/internal/modules"
	"github.com/atriumhq/atrium/internal/registry"
)

var (
	_ modules.Module          = (*Module)(nil)
	_ registry.SearchProvider = (*Module)(nil)
)

// Module is the files feature module.
type Module struct {
	store *Store
}

// New constructs the module around a document store.
func New(store *Store) *Module {
	return &Module{store: store}
}

// Slug returns the stable module identifier.
func (m *Module) Slug() string { return "files" }

// Register adds the descriptor, the search provider and file commands.
func (m *Module) Register(reg *registry.Registry, settings config.ModuleSettings) error {
	err := reg.Register(registry.ModuleDescriptor{
		Slug:        m.Slug(),
		Name:        "Files",
		Description: "Documents, uploads and shared folders",
		Icon:        "folder",
		Color:       "blue",
		URL:         "/files/",
		Active:      settings.Enabled,
		Order:       settings.Order,
	})
	if err != nil {
		return err
	}

	if err := reg.RegisterSearchProvider("files", m.Slug(), m); err != nil {
		return err
	}

	return reg.RegisterCommands([]registry.CommandEntry{
		{
			Name:       "Open files",
			Keywords:   []string{"documents", "folders", "uploads"},
			Icon:       "folder",
			Color:      "blue",
			TargetURL:  "/files/",
			Kind:       registry.CommandNavigate,
			ModuleSlug: m.Slug(),
			Order:      10,
		},
		{
			Name:       "Upload file",
			Keywords:   []string{"attach", "import"},
			Icon:       "upload",
			Color:      "blue",
			TargetURL:  "/files/upload/",
			Kind:       registry.CommandAction,
			ModuleSlug: m.Slug(),
			Order:      11,
		},
	})
}

// Search implements registry.SearchProvider by matching document names.
func (m *Module) Search(ctx context.Context, query string, principal registry.Principal, limit int) ([]registry.SearchResult, error) {
	docs, err := m.store.SearchDocuments(ctx, principal.UserID(), query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]registry.SearchResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, registry.SearchResult{
			ID:           d.ID,
			DisplayName:  d.Name,
			TargetURL:    fmt.Sprintf("/files/%s/", d.ID),
			MatchedValue: d.Name,
			MatchType:    "name",
			TypeIcon:     "file",
			ModuleSlug:   m.Slug(),
			ModuleColor:  "blue",
			DateLabel:    d.UpdatedAt.Format("Jan 2, 2006"),
			Tags:         []registry.Tag{{Label: d.Folder, Color: "blue"}},
		})
	}
	return results, nil
}
