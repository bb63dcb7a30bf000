// Package modules defines the contract feature modules implement to hook
// into the workspace shell.
package modules

import (
	"fmt"

	"github.com/atriumhq/atrium/internal/config"
	"github.com/atriumhq/atrium/internal/registry"
)

// Module is implemented by every feature package. Register must add the
// module's descriptor first, then any provider bindings and commands;
// the registry rejects bindings whose descriptor is missing.
type Module interface {
	Slug() string
	Register(reg *registry.Registry, settings config.ModuleSettings) error
}

// RegisterAll registers modules in order with their configured settings,
// stopping at the first failure. Registration errors are structural
// (duplicate slug, missing module) and abort startup.
func RegisterAll(reg *registry.Registry, cfg *config.Config, mods ...Module) error {
	for _, m := range mods {
		if err := m.Register(reg, cfg.Module(m.Slug())); err != nil {
			return fmt.Errorf("register module %s: %w", m.Slug(), err)
		}
	}
	return nil
}
