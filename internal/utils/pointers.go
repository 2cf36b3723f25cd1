package utils

// Ptr returns a pointer to a copy of v. Handy for optional fields in request
// bodies.
func Ptr[T any](v T) *T {
	return &v
}

// ValueOr dereferences v, or returns fallback when v is nil.
func ValueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

// Value dereferences v, or returns the zero value when v is nil.
func Value[T any](v *T) T {
	var zero T
	return ValueOr(v, zero)
}
