// Package slug normalizes CI metadata (repository names, refs, commit
// SHAs) into identifier-safe strings.
//
// Every function in this package is pure: no I/O, no shared state, and no
// error return. An empty input is treated as "absent" and always yields an
// empty result, so callers can chain helpers without nil checks:
//
//	slug.Slugify(slug.RefName("refs/heads/feature/login")) // "feature-login"
//
// Two slug flavours exist. Slugify produces hyphen-separated slugs suitable
// for DNS labels, container names and file names. SlugifyUnderscore keeps
// every input position and replaces each disallowed character with an
// underscore, which suits identifiers that must not contain hyphens
// (database names, Terraform workspaces, environment variable suffixes).
package slug
