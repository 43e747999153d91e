// Package era owns the data-taking period tags shared by every layer of the
// reconstruction data model.
//
// Responsibilities: enumerating the supported eras, deriving the per-year
// and per-sub-period flags, and parsing era names from configuration.
//
// Dependency rule: era has no dependencies inside internal/reco.
package era
