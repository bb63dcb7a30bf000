package registry

// ModuleDescriptor describes one installable feature area. Descriptors are
// write-once: registered during startup, immutable for the process
// lifetime, never deregistered.
type ModuleDescriptor struct {
	// Slug is the stable, URL-safe, unique identifier of the module.
	Slug string

	// Name is the human-readable display name.
	Name string

	// Description is a short blurb for launcher and settings screens.
	Description string

	// Icon is the icon token the shell renders for the module.
	Icon string

	// Color is the UI theming token for the module.
	Color string

	// URL is the module's entry point. Empty means the module is planned
	// but not yet navigable.
	URL string

	// Active controls whether the module participates in search,
	// pending-action and command fan-outs. Inactive modules stay listed
	// but contribute nothing.
	Active bool

	// Order is the sort key for module listings. Ties keep registration
	// order.
	Order int
}

// ModuleView is the serialization-ready projection of a descriptor,
// consumed by REST endpoints and page-context builders.
type ModuleView struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	URL         string `json:"url,omitempty"`
	Active      bool   `json:"active"`
	Order       int    `json:"order"`
}

func (d ModuleDescriptor) view() ModuleView {
	return ModuleView{
		Slug:        d.Slug,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		URL:         d.URL,
		Active:      d.Active,
		Order:       d.Order,
	}
}

// Principal is the authenticated identity a query runs on behalf of. The
// registry passes it through to providers unexamined.
type Principal interface {
	UserID() string
}

// User is the minimal Principal used by the HTTP shell and tests.
type User string

// UserID returns the user identifier.
func (u User) UserID() string { return string(u) }
