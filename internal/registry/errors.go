package registry

import (
	"errors"
	"fmt"
)

// Standard registry errors. Typed errors below wrap these so callers can
// match with errors.Is without depending on concrete types.
var (
	// ErrDuplicateSlug signals a registration whose key already exists.
	ErrDuplicateSlug = errors.New("slug already registered")

	// ErrUnknownModule signals a binding that references a module slug
	// that has not been registered yet.
	ErrUnknownModule = errors.New("module not registered")
)

// DuplicateSlugError reports a conflicting registration. Kind names what
// was being registered ("module", "search provider", ...).
type DuplicateSlugError struct {
	Kind string
	Slug string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("%s %q already registered", e.Kind, e.Slug)
}

func (e *DuplicateSlugError) Unwrap() error { return ErrDuplicateSlug }

// UnknownModuleError reports a binding against an unregistered module,
// i.e. a registration-ordering bug in the composition root.
type UnknownModuleError struct {
	Kind string
	Slug string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("%s references unregistered module %q", e.Kind, e.Slug)
}

func (e *UnknownModuleError) Unwrap() error { return ErrUnknownModule }

// IsDuplicateSlug reports whether err is a duplicate-registration error.
func IsDuplicateSlug(err error) bool { return errors.Is(err, ErrDuplicateSlug) }

// IsUnknownModule reports whether err is an unknown-module error.
func IsUnknownModule(err error) bool { return errors.Is(err, ErrUnknownModule) }
