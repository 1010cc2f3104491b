package payments

// Stripe represents linked sub-resources either as bare identifier
// stubs or as fully inlined objects, depending on which expansions the
// originating request asked for. resolveRef collapses that branching:
// it returns the object as-is when it came back expanded, and fetches
// it by identifier otherwise. A nil input resolves to nil.
func resolveRef[T any](obj *T, expanded func(*T) bool, id func(*T) string, fetch func(string) (*T, error)) (*T, error) {
	if obj == nil {
		return nil, nil
	}
	if expanded(obj) {
		return obj, nil
	}
	return fetch(id(obj))
}
