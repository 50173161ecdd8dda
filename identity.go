package smalltable

import "sync/atomic"

// Reference is the stable identity of an object across its lifetime. It is
// never reused and is totally ordered by value.
type Reference uint64

// EntityId identifies one immutable snapshot of an object's contents. Like
// Reference it is never reused.
type EntityId uint64

// sequence is a lock-free monotonic counter used to allocate Reference and
// EntityId values. Every value it returns is strictly greater than every
// value previously returned, even under concurrent calls.
type sequence struct {
	n uint64
}

// next returns the next value in the sequence, starting at 1 so that the
// zero value of Reference/EntityId can be reserved as "unset".
func (s *sequence) next() uint64 {
	return atomic.AddUint64(&s.n, 1)
}

// reserve atomically advances the sequence by n and returns the first of
// the n freshly allocated values.
func (s *sequence) reserve(n uint64) uint64 {
	end := atomic.AddUint64(&s.n, n)
	return end - n + 1
}

// peek returns the current value of the sequence without advancing it.
func (s *sequence) peek() uint64 {
	return atomic.LoadUint64(&s.n)
}

// bumpTo advances the sequence so that its next value is strictly greater
// than high, if it isn't already. Used by the host layer when restoring a
// repository to make sure the sequence resumes above every identifier
// present in the persisted state.
func (s *sequence) bumpTo(high uint64) {
	for {
		cur := atomic.LoadUint64(&s.n)
		if cur >= high {
			return
		}
		if atomic.CompareAndSwapUint64(&s.n, cur, high) {
			return
		}
	}
}
