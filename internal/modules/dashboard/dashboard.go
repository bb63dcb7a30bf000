// Package dashboard registers the workspace landing page. It contributes
// navigation commands only, with no search or pending-action providers.
package dashboard

import (
	"github.com/atriumhq/atrium/internal/config"
	"github.com/atriumhq/atrium/internal/modules"
	"github.com/atriumhq/atrium/internal/registry"
)

var _ modules.Module = (*Module)(nil)

// Module is the dashboard feature module.
type Module struct{}

// New constructs the module.
func New() *Module { return &Module{} }

// Slug returns the stable module identifier.
func (m *Module) Slug() string { return "dashboard" }

// Register adds the descriptor and navigation commands.
func (m *Module) Register(reg *registry.Registry, settings config.ModuleSettings) error {
	err := reg.Register(registry.ModuleDescriptor{
		Slug:        m.Slug(),
		Name:        "Dashboard",
		Description: "Your workspace at a glance",
		Icon:        "layout-grid",
		Color:       "slate",
		URL:         "/",
		Active:      settings.Enabled,
		Order:       settings.Order,
	})
	if err != nil {
		return err
	}

	return reg.RegisterCommands([]registry.CommandEntry{
		{
			Name:       "Go to dashboard",
			Keywords:   []string{"home", "overview", "start"},
			Icon:       "layout-grid",
			Color:      "slate",
			TargetURL:  "/",
			Kind:       registry.CommandNavigate,
			ModuleSlug: m.Slug(),
			Order:      1,
		},
	})
}
