package ring

import (
	"fmt"

	. "gopkg.in/check.v1"
)

type IterTestSuite struct{}

var _ = Suite(&IterTestSuite{})

func collect(it *Iterator[string]) []string {
	out := []string{}
	for it.Next() {
		v, ok := it.Value()
		if !ok {
			v = "<none>"
		}
		out = append(out, v)
	}
	return out
}

func foos(from, to int) []string {
	out := []string{}
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("foo%d", i))
	}
	return out
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func (*IterTestSuite) TestForwardAndReverse(c *C) {
	for _, n := range []int{0, 1, 4, 10, 13, 27} {
		r := Default[string]()
		pushFoo(r, n)

		forward := collect(r.Iter(false, 0))
		reverse := collect(r.Iter(true, 0))
		c.Assert(forward, HasLen, r.Len())
		c.Assert(reverse, DeepEquals, reversed(forward), Commentf("n=%d", n))
	}
}

func (*IterTestSuite) TestForwardWrapped(c *C) {
	r := Default[string]()
	pushFoo(r, 13)
	c.Assert(collect(r.Iter(false, 0)), DeepEquals, foos(3, 12))
	c.Assert(collect(r.Iter(true, 0)), DeepEquals, reversed(foos(3, 12)))
}

func (*IterTestSuite) TestOffsets(c *C) {
	r := Default[string]()
	pushFoo(r, 13)

	c.Assert(collect(r.Iter(false, 2)), DeepEquals, foos(5, 12))
	c.Assert(collect(r.Iter(true, 2)), DeepEquals, reversed(foos(3, 10)))
	c.Assert(collect(r.Iter(false, 10)), HasLen, 0)
	c.Assert(collect(r.Iter(false, 25)), HasLen, 0)
	c.Assert(collect(r.Iter(true, 25)), HasLen, 0)
}

func (*IterTestSuite) TestNegativeOffsetCountsFromCapacity(c *C) {
	r := Default[string]()
	pushFoo(r, 13)
	c.Assert(collect(r.Iter(false, -3)), DeepEquals, foos(10, 12))

	// not full: capacity 10, size 4, start at 8
	r = Default[string]()
	pushFoo(r, 4)
	c.Assert(collect(r.Iter(false, -2)), HasLen, 0)

	c.Assert(collect(r.Iter(false, -40)), DeepEquals, foos(0, 3))
}

func (*IterTestSuite) TestExhaustedImmediately(c *C) {
	r := Default[string]()
	it := r.Iter(false, 0)
	c.Assert(it.Next(), Equals, false)
	_, ok := it.Value()
	c.Assert(ok, Equals, false)
}

func (*IterTestSuite) TestReset(c *C) {
	r, _ := New[string](3)
	pushFoo(r, 4)

	it := r.Iter(false, 1)
	c.Assert(collect(it), DeepEquals, foos(2, 3))
	c.Assert(it.Next(), Equals, false)

	it.Reset()
	c.Assert(collect(it), DeepEquals, foos(2, 3))
}

func (*IterTestSuite) TestIndependentIterators(c *C) {
	r, _ := New[string](3)
	pushFoo(r, 3)

	a := r.Iter(false, 0)
	b := r.Iter(false, 0)
	c.Assert(a.Next(), Equals, true)
	c.Assert(a.Next(), Equals, true)
	c.Assert(b.Next(), Equals, true)

	v, _ := a.Value()
	c.Assert(v, Equals, "foo1")
	v, _ = b.Value()
	c.Assert(v, Equals, "foo0")
}

func (*IterTestSuite) TestAbsentSlots(c *C) {
	r, _ := New[string](4)
	r.Push("a").PushNone().Push("c")
	c.Assert(collect(r.Iter(false, 0)), DeepEquals, []string{"a", "<none>", "c"})
}

func (*IterTestSuite) TestShrinkDuringIteration(c *C) {
	r, _ := New[string](5)
	pushFoo(r, 5)

	it := r.Iter(false, 0)
	for i := 0; i < 3; i++ {
		c.Assert(it.Next(), Equals, true)
	}
	c.Assert(r.SetCap(2), IsNil)
	c.Assert(it.Next(), Equals, false)

	c.Assert(r.SetCap(0), IsNil)
	c.Assert(collect(r.Iter(true, 0)), HasLen, 0)
}

func (*IterTestSuite) TestRangeOverAll(c *C) {
	r, _ := New[string](4)
	pushFoo(r, 6)

	got := []string{}
	for v, ok := range r.All() {
		c.Assert(ok, Equals, true)
		got = append(got, v)
	}
	c.Assert(got, DeepEquals, foos(2, 5))

	// a second range starts over
	got = got[:0]
	for v := range r.All() {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}
	c.Assert(got, DeepEquals, foos(2, 3))

	got = got[:0]
	for v := range r.Values(true, 1) {
		got = append(got, v)
	}
	c.Assert(got, DeepEquals, reversed(foos(2, 4)))
}
