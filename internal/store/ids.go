package store

// nextID computes the identifier for a new record: one past the highest id
// currently in the collection, or 1 when it is empty. Deleting the highest
// record makes its id available again; soft-deleted tasks keep theirs
// because the tombstone stays in the collection.
func nextID[T any](items []T, id func(T) int) int {
	max := 0
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}

// indexByID finds the position of the record with the given id, or -1.
func indexByID[T any](items []T, id func(T) int, want int) int {
	for i, item := range items {
		if id(item) == want {
			return i
		}
	}
	return -1
}

// filterCopy returns a new slice holding copies of the items keep accepts.
// Callers always receive fresh slices, never views into engine state.
func filterCopy[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
