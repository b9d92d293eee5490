package viewer

// Handle is an optional reference to a resource created by an asynchronous
// load. The zero value is absent.
type Handle[T any] struct {
	v  T
	ok bool
}

// Set makes the handle present
func (h *Handle[T]) Set(v T) {
	h.v = v
	h.ok = true
}

// Get returns the value and whether it is present
func (h Handle[T]) Get() (T, bool) {
	return h.v, h.ok
}

func (h Handle[T]) Present() bool {
	return h.ok
}

// With calls fn only when the handle is present and reports whether it did
func (h Handle[T]) With(fn func(T)) bool {
	if !h.ok {
		return false
	}
	fn(h.v)
	return true
}
