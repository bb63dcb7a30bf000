// Package chat contributes room search and the unread mention badge to
// the workspace shell.
package chat

import (
	"context"
	"sort"
	"strings"

	"github.com/atriumhq/atrium/internal/config"
	"github.com/atriumhq/atrium/internal/modules"
	"github.com/atriumhq/atrium/internal/registry"
)

var (
	_ modules.Module                 = (*Module)(nil)
	_ registry.SearchProvider        = (*Module)(nil)
	_ registry.PendingActionProvider = (*Module)(nil)
)

// Module is the chat feature module.
type Module struct {
	store RoomStore
}

// New constructs the module around a room store.
func New(store RoomStore) *Module {
	return &Module{store: store}
}

// Slug returns the stable module identifier.
func (m *Module) Slug() string { return "chat" }

// Register adds the descriptor, both providers and the chat commands.
func (m *Module) Register(reg *registry.Registry, settings config.ModuleSettings) error {
	err := reg.Register(registry.ModuleDescriptor{
		Slug:        m.Slug(),
		Name:        "Chat",
		Description: "Rooms and direct messages",
		Icon:        "message-circle",
		Color:       "green",
		URL:         "/chat/",
		Active:      settings.Enabled,
		Order:       settings.Order,
	})
	if err != nil {
		return err
	}

	if err := reg.RegisterSearchProvider("chat", m.Slug(), m); err != nil {
		return err
	}
	if err := reg.RegisterPendingActionProvider(m.Slug(), m); err != nil {
		return err
	}

	return reg.RegisterCommands([]registry.CommandEntry{
		{
			Name:       "Open chat",
			Keywords:   []string{"rooms", "messages", "dm"},
			Icon:       "message-circle",
			Color:      "green",
			TargetURL:  "/chat/",
			Kind:       registry.CommandNavigate,
			ModuleSlug: m.Slug(),
			Order:      30,
		},
		{
			Name:       "New chat room",
			Keywords:   []string{"create room", "channel"},
			Icon:       "plus",
			Color:      "green",
			TargetURL:  "/chat/new/",
			Kind:       registry.CommandAction,
			ModuleSlug: m.Slug(),
			Order:      31,
		},
	})
}

// Search implements registry.SearchProvider. Rooms match by title first;
// rooms whose title does not match are searched by member name.
func (m *Module) Search(ctx context.Context, query string, principal registry.Principal, limit int) ([]registry.SearchResult, error) {
	rooms, err := m.store.Rooms(ctx)
	if err != nil {
		return nil, err
	}

	// Map iteration order is random; sort ids for deterministic output.
	ids := make([]string, 0, len(rooms))
	for id := range rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	q := strings.ToLower(query)
	var results []registry.SearchResult
	for _, id := range ids {
		if len(results) >= limit {
			break
		}
		title := rooms[id]

		if strings.Contains(strings.ToLower(title), q) {
			results = append(results, m.result(id, title, title, "title"))
			continue
		}

		member, err := m.matchingMember(ctx, id, q)
		if err != nil {
			return nil, err
		}
		if member != "" {
			results = append(results, m.result(id, title, member, "member"))
		}
	}
	return results, nil
}

func (m *Module) matchingMember(ctx context.Context, roomID, q string) (string, error) {
	members, err := m.store.RoomMembers(ctx, roomID)
	if err != nil {
		return "", err
	}
	for _, member := range members {
		if strings.Contains(strings.ToLower(member), q) {
			return member, nil
		}
	}
	return "", nil
}

func (m *Module) result(id, title, matched, matchType string) registry.SearchResult {
	return registry.SearchResult{
		ID:           id,
		DisplayName:  title,
		TargetURL:    "/chat/room/" + id + "/",
		MatchedValue: matched,
		MatchType:    matchType,
		TypeIcon:     "message-circle",
		ModuleSlug:   m.Slug(),
		ModuleColor:  "green",
	}
}

// PendingActionCount implements registry.PendingActionProvider with the
// unread mention count.
func (m *Module) PendingActionCount(ctx context.Context, principal registry.Principal) (int, error) {
	return m.store.UnreadCount(ctx, principal.UserID())
}
