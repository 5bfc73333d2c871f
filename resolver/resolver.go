package resolver

import (
	"fmt"

	"github.com/scribadev/scriba/core"
)

// ObjectResolver resolves indirect references in PDF objects.
// It can recursively resolve references in dictionaries and arrays.
//
// Reference cycles and unresolvable references degrade to the null object
// rather than failing the resolution: a document whose metadata dictionary
// points at itself is damaged, but everything reachable around the cycle is
// still extractable.
type ObjectResolver struct {
	reader       ObjectReader
	inProgress   map[int]bool // references being resolved in the current tree
	maxDepth     int          // Maximum recursion depth
	currentDepth int          // Current recursion depth
}

// ObjectReader interface allows the resolver to work with any reader
type ObjectReader interface {
	GetObject(objNum int) (core.Object, error)
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		r.maxDepth = depth
	}
}

// NewResolver creates a new object resolver
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:     reader,
		inProgress: make(map[int]bool),
		maxDepth:   100,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve resolves an object, following a top-level indirect reference.
// Nested references inside dictionaries and arrays are left in place.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	return r.resolve(obj, false)
}

// ResolveDeep recursively resolves all indirect references in dictionaries
// and arrays, fully expanding the object tree.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolve(obj, true)
}

// resolve is the internal resolution method
func (r *ObjectResolver) resolve(obj core.Object, deep bool) (core.Object, error) {
	// Reset cycle tracking at top level so independent resolutions don't
	// see each other's state, while cycles within a single tree are caught.
	if r.currentDepth == 0 {
		r.inProgress = make(map[int]bool)
	}

	// Deeply nested structures act like cycles: stop expanding, keep going.
	if r.currentDepth >= r.maxDepth {
		return core.Null{}, nil
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		// A reference already being resolved higher up this tree is a
		// cycle; it resolves to null so the surrounding structure survives.
		if r.inProgress[v.Number] {
			return core.Null{}, nil
		}

		r.inProgress[v.Number] = true
		defer delete(r.inProgress, v.Number)

		resolved, err := r.reader.ResolveReference(v)
		if err != nil {
			// Dangling references act as null per the PDF object model.
			return core.Null{}, nil
		}

		if deep {
			r.currentDepth++
			resolved, err = r.resolve(resolved, deep)
			r.currentDepth--
			if err != nil {
				return nil, err
			}
		}

		return resolved, nil

	case core.Dict:
		if !deep {
			return v, nil
		}

		resolved := make(core.Dict)
		for key, value := range v {
			r.currentDepth++
			resolvedValue, err := r.resolve(value, deep)
			r.currentDepth--
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
			}
			resolved[key] = resolvedValue
		}
		return resolved, nil

	case core.Array:
		if !deep {
			return v, nil
		}

		resolved := make(core.Array, len(v))
		for i, elem := range v {
			r.currentDepth++
			resolvedElem, err := r.resolve(elem, deep)
			r.currentDepth--
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			resolved[i] = resolvedElem
		}
		return resolved, nil

	case *core.Stream:
		if !deep {
			return v, nil
		}

		r.currentDepth++
		resolvedDict, err := r.resolve(v.Dict, deep)
		r.currentDepth--
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}

		return &core.Stream{
			Dict: resolvedDict.(core.Dict),
			Data: v.Data,
		}, nil

	default:
		// Primitive types don't need resolution
		return obj, nil
	}
}

// Reset clears the cycle-tracking state and depth counter.
// Call this between independent resolution operations.
func (r *ObjectResolver) Reset() {
	r.inProgress = make(map[int]bool)
	r.currentDepth = 0
}

// ResolveDict is a convenience method for resolving dictionaries.
// It resolves the dictionary and all its values (deep resolution).
func (r *ObjectResolver) ResolveDict(dict core.Dict) (core.Dict, error) {
	defer r.Reset()
	resolved, err := r.ResolveDeep(dict)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Dict), nil
}

// ResolveArray is a convenience method for resolving arrays.
// It resolves all elements in the array (deep resolution).
func (r *ObjectResolver) ResolveArray(arr core.Array) (core.Array, error) {
	defer r.Reset()
	resolved, err := r.ResolveDeep(arr)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Array), nil
}

// ResolveReference resolves a single indirect reference.
// This is a shallow resolution - it returns the referenced object but doesn't recurse.
func (r *ObjectResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	defer r.Reset()
	return r.reader.ResolveReference(ref)
}

// GetObject loads an object by number (convenience method)
func (r *ObjectResolver) GetObject(objNum int) (core.Object, error) {
	return r.reader.GetObject(objNum)
}

// GetObjectResolved loads and resolves an object by number (shallow)
func (r *ObjectResolver) GetObjectResolved(objNum int) (core.Object, error) {
	obj, err := r.reader.GetObject(objNum)
	if err != nil {
		return nil, err
	}
	defer r.Reset()
	return r.Resolve(obj)
}
