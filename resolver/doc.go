// Package resolver follows PDF indirect references ("5 0 R") to the objects
// they name.
//
// Resolve chases a single reference; ResolveDeep expands every reference
// nested in an array or dictionary. A reference that closes a cycle, or one
// that points at a missing object, resolves to null so the surrounding
// structure stays usable. Recursion depth is bounded and configurable via
// WithMaxDepth.
package resolver
