package l2objects

import (
	"iter"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Collection is an ordered sequence of object handles. T is normally a
// pointer or interface type, so several collections can hold the same
// underlying object; objects are immutable, so sharing never leaks state
// between collections.
//
// Filtering preserves the relative order of survivors. Positional indices
// are only meaningful after an explicit sort.
type Collection[T any] struct {
	objects []T
}

// NewCollection returns a collection holding objects in the given order.
func NewCollection[T any](objects ...T) *Collection[T] {
	return &Collection[T]{objects: slices.Clone(objects)}
}

// Len returns the number of objects.
func (c *Collection[T]) Len() int { return len(c.objects) }

// At returns the handle at position i.
func (c *Collection[T]) At(i int) T { return c.objects[i] }

// Objects returns a copy of the handle slice.
func (c *Collection[T]) Objects() []T { return slices.Clone(c.objects) }

// All iterates over positions and handles in container order.
func (c *Collection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, o := range c.objects {
			if !yield(i, o) {
				return
			}
		}
	}
}

// Append adds handles at the end.
func (c *Collection[T]) Append(objects ...T) {
	c.objects = append(c.objects, objects...)
}

// Clone returns a new collection sharing the same handles.
func (c *Collection[T]) Clone() *Collection[T] {
	return NewCollection(c.objects...)
}

// Select removes, in place, every object for which keep is false.
func (c *Collection[T]) Select(keep func(T) bool) {
	c.objects = slices.DeleteFunc(c.objects, func(o T) bool { return !keep(o) })
}

// Selected returns a new collection with the objects for which keep is
// true, leaving c unchanged.
func (c *Collection[T]) Selected(keep func(T) bool) *Collection[T] {
	out := &Collection[T]{objects: make([]T, 0, len(c.objects))}
	for _, o := range c.objects {
		if keep(o) {
			out.objects = append(out.objects, o)
		}
	}
	return out
}

// Count returns the number of objects satisfying pred.
func (c *Collection[T]) Count(pred func(T) bool) int {
	n := 0
	for _, o := range c.objects {
		if pred(o) {
			n++
		}
	}
	return n
}

// SortBy stably sorts the collection in place using cmp.
func (c *Collection[T]) SortBy(cmp func(a, b T) int) {
	slices.SortStableFunc(c.objects, cmp)
}

// Head returns a new collection with the first n handles. n is clamped to
// the collection size.
func (c *Collection[T]) Head(n int) *Collection[T] {
	n = max(0, min(n, len(c.objects)))
	return NewCollection(c.objects[:n]...)
}

// OfType returns a new collection with the handles of c whose dynamic type
// is U, in container order. Handles are shared, not copied.
func OfType[U any, T any](c *Collection[T]) *Collection[U] {
	out := &Collection[U]{}
	for _, o := range c.objects {
		if u, ok := any(o).(U); ok {
			out.objects = append(out.objects, u)
		}
	}
	return out
}

// PtDescending orders objects by decreasing transverse momentum.
func PtDescending[T Kinematic](a, b T) int {
	switch {
	case a.Pt() > b.Pt():
		return -1
	case a.Pt() < b.Pt():
		return 1
	}
	return 0
}

// SortByPt stably sorts c by decreasing transverse momentum, so position 0
// holds the leading object.
func SortByPt[T Kinematic](c *Collection[T]) {
	c.SortBy(PtDescending[T])
}

// ScalarPtSum returns the scalar sum of transverse momenta in c.
func ScalarPtSum[T Kinematic](c *Collection[T]) float64 {
	pts := make([]float64, len(c.objects))
	for i, o := range c.objects {
		pts[i] = o.Pt()
	}
	return floats.Sum(pts)
}

// Mass returns the invariant mass of all objects in c.
func Mass[T Kinematic](c *Collection[T]) float64 {
	return InvariantMass(c.objects...)
}

// MinDeltaR returns the smallest ΔR between obj and any element of c for
// which skip is false, or +Inf when none qualifies.
func MinDeltaR[T Kinematic](obj Kinematic, c *Collection[T], skip func(T) bool) float64 {
	best := inf
	for _, o := range c.objects {
		if skip != nil && skip(o) {
			continue
		}
		if dr := DeltaR(obj, o); dr < best {
			best = dr
		}
	}
	return best
}
