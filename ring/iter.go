package ring

import "iter"

// Iterator walks the logical slots of a Ring. It holds a reference to the
// ring, not a copy, so it observes later mutations.
//
//	it := r.Iter(false, 0)
//	for it.Next() {
//		v, ok := it.Value()
//		...
//	}
type Iterator[T any] struct {
	r       *Ring[T]
	reverse bool
	start   int
	i       int
	value   T
	ok      bool
}

// Iter returns an iterator over r. Forward iterators start offset slots
// above the oldest value, reverse iterators offset slots below the newest.
// A negative offset counts back from the capacity.
func (r *Ring[T]) Iter(reverse bool, offset int) *Iterator[T] {
	if offset < 0 {
		offset = max(offset+r.maxSize, 0)
	}
	return &Iterator[T]{r: r, reverse: reverse, start: offset, i: offset}
}

// Next advances to the next slot and reports whether there was one.
func (it *Iterator[T]) Next() bool {
	r := it.r
	var zero T
	it.value, it.ok = zero, false

	// the capacity may have shrunk since the last step
	it.i = min(it.i, r.maxSize)
	if it.i >= r.size {
		return false
	}

	var j int
	if it.reverse {
		j = r.head - it.i
	} else {
		j = r.head + it.i - (r.size - 1)
	}
	if j < 0 {
		j += r.maxSize
	}
	s := r.slots[j]
	it.value, it.ok = s.value, s.ok
	it.i++
	return true
}

// Value returns the slot reached by the last call to Next and whether it
// holds a value.
func (it *Iterator[T]) Value() (T, bool) {
	return it.value, it.ok
}

// Reset rewinds the iterator to its starting offset.
func (it *Iterator[T]) Reset() {
	var zero T
	it.i = it.start
	it.value, it.ok = zero, false
}

// Values yields every slot from the given starting offset, together with
// whether the slot holds a value. Each range over the result starts afresh.
func (r *Ring[T]) Values(reverse bool, offset int) iter.Seq2[T, bool] {
	return func(yield func(T, bool) bool) {
		it := r.Iter(reverse, offset)
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// All yields every slot oldest first.
func (r *Ring[T]) All() iter.Seq2[T, bool] {
	return r.Values(false, 0)
}
