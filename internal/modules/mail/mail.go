// Package mail contributes message search, the unread badge count and
// compose commands to the workspace shell.
package mail

import (
	"context"
	"fmt"
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

// Module is the mail feature module.
type Module struct {
	store *Store
}

// New constructs the module around a mail store.
func New(store *Store) *Module {
	return &Module{store: store}
}

// Slug returns the stable module identifier.
func (m *Module) Slug() string { return "mail" }

// Register adds the descriptor, both providers and the mail commands.
func (m *Module) Register(reg *registry.Registry, settings config.ModuleSettings) error {
	err := reg.Register(registry.ModuleDescriptor{
		Slug:        m.Slug(),
		Name:        "Mail",
		Description: "Email for your workspace address",
		Icon:        "mail",
		Color:       "red",
		URL:         "/mail/",
		Active:      settings.Enabled,
		Order:       settings.Order,
	})
	if err != nil {
		return err
	}

	if err := reg.RegisterSearchProvider("mail", m.Slug(), m); err != nil {
		return err
	}
	if err := reg.RegisterPendingActionProvider(m.Slug(), m); err != nil {
		return err
	}

	return reg.RegisterCommands([]registry.CommandEntry{
		{
			Name:       "Open mail",
			Keywords:   []string{"inbox", "email"},
			Icon:       "mail",
			Color:      "red",
			TargetURL:  "/mail/",
			Kind:       registry.CommandNavigate,
			ModuleSlug: m.Slug(),
			Order:      20,
		},
		{
			Name:       "Compose mail",
			Keywords:   []string{"write", "new email", "send"},
			Icon:       "pencil",
			Color:      "red",
			TargetURL:  "/mail/compose/",
			Kind:       registry.CommandAction,
			ModuleSlug: m.Slug(),
			Order:      21,
		},
	})
}

// Search implements registry.SearchProvider by matching subjects and
// senders.
func (m *Module) Search(ctx context.Context, query string, principal registry.Principal, limit int) ([]registry.SearchResult, error) {
	msgs, err := m.store.SearchMessages(ctx, principal.UserID(), query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]registry.SearchResult, 0, len(msgs))
	for _, msg := range msgs {
		matched, matchType := msg.Subject, "subject"
		if !strings.Contains(strings.ToLower(msg.Subject), strings.ToLower(query)) {
			matched, matchType = msg.Sender, "sender"
		}

		r := registry.SearchResult{
			ID:           msg.ID,
			DisplayName:  msg.Subject,
			TargetURL:    fmt.Sprintf("/mail/message/%s/", msg.ID),
			MatchedValue: matched,
			MatchType:    matchType,
			TypeIcon:     "mail",
			ModuleSlug:   m.Slug(),
			ModuleColor:  "red",
			DateLabel:    msg.ReceivedAt.Format("Jan 2, 2006"),
		}
		if msg.Unread {
			r.Tags = []registry.Tag{{Label: "unread", Color: "red"}}
		}
		results = append(results, r)
	}
	return results, nil
}

// PendingActionCount implements registry.PendingActionProvider with the
// unread message count.
func (m *Module) PendingActionCount(ctx context.Context, principal registry.Principal) (int, error) {
	return m.store.UnreadCount(ctx, principal.UserID())
}
