package util

// Ptr returns &v. Handy for optional request fields in tests and fixtures.
func Ptr[T any](v T) *T { return &v }

// Deref reads an optional value, yielding the zero value for nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
