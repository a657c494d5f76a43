package ring

import (
	"errors"

	. "gopkg.in/check.v1"
)

type ParseTestSuite struct{}

var _ = Suite(&ParseTestSuite{})

func (*ParseTestSuite) TestParseSize(c *C) {
	for in, want := range map[string]int{
		"0":     0,
		"3":     3,
		" 12 ":  12,
		"4.0":   4,
		"1e2":   100,
		"00010": 10,
	} {
		n, err := ParseSize("maxSize", in)
		c.Assert(err, IsNil, Commentf("input %q", in))
		c.Assert(n, Equals, want)
	}
}

func (*ParseTestSuite) TestParseSizeErrors(c *C) {
	for in, kind := range map[string]Kind{
		"":      TypeMismatch,
		"abc":   TypeMismatch,
		"3 4":   TypeMismatch,
		"NaN":   OutOfRange,
		"Inf":   OutOfRange,
		"-1":    OutOfRange,
		"-0.5":  OutOfRange,
		"2.5":   OutOfRange,
		"1e400": OutOfRange,
	} {
		_, err := ParseSize("maxSize", in)
		c.Assert(err, NotNil, Commentf("input %q", in))
		c.Assert(KindOf(err), Equals, kind, Commentf("input %q", in))
		c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
	}
}

func (*ParseTestSuite) TestParseOffset(c *C) {
	n, err := ParseOffset("offset", "-2")
	c.Assert(err, IsNil)
	c.Assert(n, Equals, -2)

	_, err = ParseOffset("offset", "top")
	c.Assert(KindOf(err), Equals, TypeMismatch)
	c.Assert(err, ErrorMatches, `invalid offset \(type mismatch\): .*"top"`)

	_, err = ParseOffset("offset", "nan")
	c.Assert(KindOf(err), Equals, OutOfRange)
}

func (*ParseTestSuite) TestKindOf(c *C) {
	c.Assert(KindOf(nil), Equals, KindUnknown)
	c.Assert(KindOf(errors.New("plain")), Equals, KindUnknown)
	c.Assert(OutOfRange.String(), Equals, "out of range")
	c.Assert(TypeMismatch.String(), Equals, "type mismatch")
}
