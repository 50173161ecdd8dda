package smalltable

import (
	"sync"
	"testing"

	"github.com/fortytw2/leaktest"
)

func TestSequenceMonotonic(t *testing.T) {
	defer leaktest.Check(t)()

	var s sequence
	prev := uint64(0)
	for i := 0; i < 1000; i++ {
		v := s.next()
		if v <= prev {
			t.Fatalf("sequence.next() = %d; not strictly greater than %d", v, prev)
		}
		prev = v
	}
}

func TestSequenceConcurrentMonotonic(t *testing.T) {
	defer leaktest.Check(t)()

	var s sequence
	const goroutines = 50
	const perGoroutine = 200

	seen := make(chan uint64, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				seen <- s.next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	values := make(map[uint64]bool, goroutines*perGoroutine)
	for v := range seen {
		if values[v] {
			t.Fatalf("sequence.next() returned %d twice", v)
		}
		values[v] = true
	}
	if len(values) != goroutines*perGoroutine {
		t.Fatalf("got %d unique values; expected %d", len(values), goroutines*perGoroutine)
	}
}

func TestSequenceReserve(t *testing.T) {
	defer leaktest.Check(t)()

	var s sequence
	first := s.reserve(5)
	for i := uint64(0); i < 5; i++ {
		if s.peek() < first+i {
			t.Fatalf("reserve(5) did not advance the sequence far enough")
		}
	}
	next := s.next()
	if next != first+5 {
		t.Errorf("s.next() after reserve(5) = %d; expected %d", next, first+5)
	}
}

func TestSequenceBumpTo(t *testing.T) {
	defer leaktest.Check(t)()

	var s sequence
	s.next()
	s.next()

	s.bumpTo(100)
	if v := s.next(); v != 101 {
		t.Errorf("s.next() after bumpTo(100) = %d; expected 101", v)
	}

	// bumpTo to a lower value must not move the sequence backwards.
	s.bumpTo(1)
	if v := s.next(); v != 102 {
		t.Errorf("s.next() after bumpTo(1) = %d; expected 102", v)
	}
}
