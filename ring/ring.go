package ring

// DefaultCapacity is the capacity of a ring built by Default.
const DefaultCapacity = 10

type slot[T any] struct {
	value T
	ok    bool
}

// Ring is a fixed-capacity circular buffer that keeps only the most
// recently pushed values. Once full, each push overwrites the oldest value.
//
// Every slot either holds a value or is absent. Readers report absence
// through the second return value.
//
// A Ring is not safe for concurrent use without external synchronization.
// The zero value is a ring of capacity 0 which ignores every push.
type Ring[T any] struct {
	slots   []slot[T]
	head    int
	size    int
	maxSize int
}

func newRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{
		slots:   make([]slot[T], capacity),
		maxSize: capacity,
	}
}

// Default returns an empty Ring with DefaultCapacity.
func Default[T any]() *Ring[T] {
	return newRing[T](DefaultCapacity)
}

// New returns an empty Ring with the given capacity.
func New[T any](capacity int) (*Ring[T], error) {
	if err := CheckSize("maxSize", capacity); err != nil {
		return nil, err
	}
	return newRing[T](capacity), nil
}

// From returns a Ring seeded with values, oldest first. The capacity
// defaults to len(values); when values is longer than the capacity only
// the trailing entries are kept. Passing more than one capacity is
// rejected.
func From[T any](values []T, capacity ...int) (*Ring[T], error) {
	size := len(values)
	switch len(capacity) {
	case 0:
	case 1:
		if err := CheckSize("maxSize", capacity[0]); err != nil {
			return nil, err
		}
		size = capacity[0]
	default:
		return nil, typeMismatch("maxSize", "expected a single capacity alongside the values")
	}

	r := newRing[T](size)
	keep := values
	if len(keep) > size {
		keep = keep[len(keep)-size:]
	}
	for i, v := range keep {
		r.slots[i] = slot[T]{value: v, ok: true}
	}
	r.size = len(keep)
	if r.size > 0 {
		r.head = r.size - 1
	}
	return r, nil
}

// Len returns the number of occupied slots.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the maximum number of values the ring retains.
func (r *Ring[T]) Cap() int { return r.maxSize }

// Head returns the physical index of the newest value.
func (r *Ring[T]) Head() int { return r.head }

// Full reports whether the next push evicts the oldest value.
func (r *Ring[T]) Full() bool { return r.size == r.maxSize }

// SetCap changes the capacity. The current values are replayed, oldest
// first, into a ring of the new capacity, so shrinking keeps the newest n.
func (r *Ring[T]) SetCap(n int) error {
	if err := CheckSize("maxSize", n); err != nil {
		return err
	}
	if n == r.maxSize {
		return nil
	}

	tmp := newRing[T](n)
	for v, ok := range r.All() {
		if ok {
			tmp.Push(v)
		} else {
			tmp.PushNone()
		}
	}

	r.slots = tmp.slots
	r.head = tmp.head
	r.size = tmp.size
	r.maxSize = tmp.maxSize
	return nil
}

// Push adds v as the newest value, overwriting the oldest when full.
func (r *Ring[T]) Push(v T) *Ring[T] {
	return r.push(slot[T]{value: v, ok: true})
}

// PushNone adds an absent slot as the newest entry.
func (r *Ring[T]) PushNone() *Ring[T] {
	return r.push(slot[T]{})
}

func (r *Ring[T]) push(s slot[T]) *Ring[T] {
	if r.maxSize == 0 {
		return r
	}
	if r.size > 0 {
		r.head++
		if r.head >= r.maxSize {
			r.head = 0
		}
	}
	r.slots[r.head] = s
	r.size = min(r.size+1, r.maxSize)
	return r
}

// Pop removes and returns the newest value.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.size == 0 || r.maxSize == 0 {
		return zero, false
	}

	s := r.slots[r.head]
	r.slots[r.head] = slot[T]{}
	r.size--
	r.head--
	if r.head < 0 {
		r.head = r.maxSize - 1
	}
	return s.value, s.ok
}

// Top returns the value offset positions below the newest one.
//
// Negative offsets are not rejected: they address the physical slots after
// the head, which only hold a value once the ring has wrapped.
func (r *Ring[T]) Top(offset int) (T, bool) {
	var zero T
	if r.size == 0 || offset >= r.size {
		return zero, false
	}
	j := r.head - offset
	if j < 0 {
		j += r.maxSize
	}
	if j >= r.maxSize {
		return zero, false
	}
	s := r.slots[j]
	return s.value, s.ok
}

// Bottom returns the value offset positions above the oldest one.
func (r *Ring[T]) Bottom(offset int) (T, bool) {
	j, ok := r.bottomIndex(offset)
	if !ok {
		var zero T
		return zero, false
	}
	s := r.slots[j]
	return s.value, s.ok
}

// Poke overwrites the slot Bottom(offset) would read. Offsets outside the
// occupied range are ignored.
func (r *Ring[T]) Poke(v T, offset int) *Ring[T] {
	if j, ok := r.bottomIndex(offset); ok {
		r.slots[j] = slot[T]{value: v, ok: true}
	}
	return r
}

// PokeNone clears the slot Bottom(offset) would read.
func (r *Ring[T]) PokeNone(offset int) *Ring[T] {
	if j, ok := r.bottomIndex(offset); ok {
		r.slots[j] = slot[T]{}
	}
	return r
}

func (r *Ring[T]) bottomIndex(offset int) (int, bool) {
	if r.size == 0 || offset < 0 || offset >= r.size {
		return 0, false
	}
	j := r.head - r.size + 1 + offset
	if j < 0 {
		j += r.maxSize
	}
	return j, true
}

// Clear empties the ring, keeping its capacity.
func (r *Ring[T]) Clear() *Ring[T] {
	r.slots = make([]slot[T], r.maxSize)
	r.head = 0
	r.size = 0
	return r
}

// Slice returns a copy of the present values, oldest first.
func (r *Ring[T]) Slice() []T {
	out := make([]T, 0, r.size)
	for v, ok := range r.All() {
		if ok {
			out = append(out, v)
		}
	}
	return out
}
