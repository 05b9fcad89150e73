package listing

// Options controls the ordering of a repository List call.
// An empty OrderBy leaves the order to the store (insertion order).
type Options struct {
	OrderBy    string
	Descending bool
}

// By is a shorthand for ascending order on a single field.
func By(field string) Options {
	return Options{OrderBy: field}
}

// ByDesc is a shorthand for descending order on a single field.
func ByDesc(field string) Options {
	return Options{OrderBy: field, Descending: true}
}
