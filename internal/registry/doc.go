// Package registry is the central directory for workspace modules.
//
// Each feature module (files, mail, chat, calendar, ...) registers a
// descriptor at startup and may then attach cross-cutting capabilities:
// a search provider for unified search, a pending-action provider for
// badge counts, and a batch of command-palette entries. The shell queries
// the registry per request; provider failures are contained at the
// fan-out boundary so one misbehaving module never breaks the shared
// shell.
//
// A Registry is constructed explicitly by the composition root and handed
// to modules; there is no package-level singleton, so tests build
// isolated instances.
package registry
