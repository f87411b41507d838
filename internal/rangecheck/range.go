package rangecheck

import (
	"fmt"
	"math"
)

// Domain bounds of the recognized unsigned integer type.
const (
	DomainMin uint64 = 0
	DomainMax uint64 = math.MaxUint64
)

// Range is the span of values a variable may hold. Start and End may be
// given in either order; Start == End denotes exactly one value.
type Range struct {
	Start uint64
	End   uint64
}

// Point returns the range holding exactly v.
func Point(v uint64) Range {
	return Range{Start: v, End: v}
}

// FullDomain returns the range of every value of the recognized type.
func FullDomain() Range {
	return Range{Start: DomainMin, End: DomainMax}
}

// Bounds returns the smaller and the larger end of r.
func (r Range) Bounds() (lo, hi uint64) {
	if r.Start <= r.End {
		return r.Start, r.End
	}
	return r.End, r.Start
}

// IsPoint reports whether r holds a single value.
func (r Range) IsPoint() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	if r.IsPoint() {
		return fmt.Sprintf("[%d]", r.Start)
	}
	lo, hi := r.Bounds()
	return fmt.Sprintf("[%d, %d)", lo, hi)
}

// Comparison classifies how two ranges relate.
type Comparison int

const (
	Overlapping Comparison = iota
	AlwaysLarger
	AlwaysEqual
	AlwaysSmaller
)

func (c Comparison) String() string {
	switch c {
	case AlwaysLarger:
		return "AlwaysLarger"
	case AlwaysEqual:
		return "AlwaysEqual"
	case AlwaysSmaller:
		return "AlwaysSmaller"
	case Overlapping:
		return "Overlapping"
	default:
		return "?"
	}
}

// Swap returns the classification seen from the other operand.
func (c Comparison) Swap() Comparison {
	switch c {
	case AlwaysLarger:
		return AlwaysSmaller
	case AlwaysSmaller:
		return AlwaysLarger
	default:
		return c
	}
}

// Compare classifies r against other.
//
//	Point(5).Compare(Range{0, 5})  == AlwaysLarger
//	Range{0, 5}.Compare(Point(7))  == AlwaysSmaller
//	Range{0, 8}.Compare(Range{7, 10}) == Overlapping
//
// Only two equal single values compare AlwaysEqual; identical wider ranges
// overlap.
func (r Range) Compare(other Range) Comparison {
	minA, maxA := r.Bounds()
	minB, maxB := other.Bounds()

	switch {
	case minA == maxA && minB == maxB && minA == minB:
		return AlwaysEqual
	case maxA <= minB:
		return AlwaysSmaller
	case maxB <= minA:
		return AlwaysLarger
	default:
		return Overlapping
	}
}
