// Package calendar contributes event search, the open-invitation badge
// and event commands to the workspace shell.
package calendar

import (
	"context"
	"fmt"

	"github.com/atriumhq/atrium/internal/config"
	"github.com/atriumhq/atrium/internal/modules"
	"github.com/atriumhq/atrium/internal/registry"
)

var (
	_ modules.Module                 = (*Module)(nil)
	_ registry.SearchProvider        = (*Module)(nil)
	_ registry.PendingActionProvider = (*Module)(nil)
)

// Module is the calendar feature module.
type Module struct {
	store *Store
}

// New constructs the module around a calendar store.
func New(store *Store) *Module {
	return &Module{store: store}
}

// Slug returns the stable module identifier.
func (m *Module) Slug() string { return "calendar" }

// Register adds the descriptor, both providers and the event commands.
func (m *Module) Register(reg *registry.Registry, settings config.ModuleSettings) error {
	err := reg.Register(registry.ModuleDescriptor{
		Slug:        m.Slug(),
		Name:        "Calendar",
		Description: "Events, meetings and invitations",
		Icon:        "calendar",
		Color:       "amber",
		URL:         "/calendar/",
		Active:      settings.Enabled,
		Order:       settings.Order,
	})
	if err != nil {
		return err
	}

	if err := reg.RegisterSearchProvider("calendar", m.Slug(), m); err != nil {
		return err
	}
	if err := reg.RegisterPendingActionProvider(m.Slug(), m); err != nil {
		return err
	}

	return reg.RegisterCommands([]registry.CommandEntry{
		{
			Name:       "Open calendar",
			Keywords:   []string{"agenda", "schedule", "events"},
			Icon:       "calendar",
			Color:      "amber",
			TargetURL:  "/calendar/",
			Kind:       registry.CommandNavigate,
			ModuleSlug: m.Slug(),
			Order:      40,
		},
		{
			Name:       "New event",
			Keywords:   []string{"meeting", "appointment", "invite"},
			Icon:       "calendar-plus",
			Color:      "amber",
			TargetURL:  "/calendar/new/",
			Kind:       registry.CommandAction,
			ModuleSlug: m.Slug(),
			Order:      41,
		},
	})
}

// Search implements registry.SearchProvider by matching upcoming event
// titles.
func (m *Module) Search(ctx context.Context, query string, principal registry.Principal, limit int) ([]registry.SearchResult, error) {
	events, err := m.store.SearchEvents(ctx, principal.UserID(), query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]registry.SearchResult, 0, len(events))
	for _, ev := range events {
		r := registry.SearchResult{
			ID:           ev.ID,
			DisplayName:  ev.Title,
			TargetURL:    fmt.Sprintf("/calendar/event/%s/", ev.ID),
			MatchedValue: ev.Title,
			MatchType:    "title",
			TypeIcon:     "calendar",
			ModuleSlug:   m.Slug(),
			ModuleColor:  "amber",
			DateLabel:    ev.StartsAt.Format("Jan 2, 15:04"),
		}
		if ev.Location != "" {
			r.Tags = []registry.Tag{{Label: ev.Location, Color: "amber"}}
		}
		results = append(results, r)
	}
	return results, nil
}

// PendingActionCount implements registry.PendingActionProvider with the
// number of invitations awaiting a response.
func (m *Module) PendingActionCount(ctx context.Context, principal registry.Principal) (int, error) {
	return m.store.OpenInvitationCount(ctx, principal.UserID())
}
