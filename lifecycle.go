package ambit

// Initialize is the library's process-wide entry point (spec.md §6,
// "Library lifecycle"), given a chance to stand up cluster or
// distributed backend state from the process's argument vector. This
// build registers only the in-core backend, which needs no process-wide
// setup, so Initialize is a no-op that always reports success.
func Initialize(args []string) int {
	return 0
}

// Finalize releases any backend state Initialize acquired (spec.md §6).
// The in-core backend owns no process-wide resources, so Finalize is a
// no-op that always reports success.
func Finalize() int {
	return 0
}
