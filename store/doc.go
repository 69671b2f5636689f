// Package store implements phase.Cache as a filesystem directory: each
// cache key maps to one file under the results directory, read and
// written whole, matching spec.md §6's
// "<results_dir>/<phase_name>||<sorted_deps_joined_by_"_">.(extension)"
// persisted-artifact convention.
package store
