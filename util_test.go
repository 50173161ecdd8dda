package smalltable

import (
	"testing"
	"time"

	"github.com/jpillora/backoff"
)

// succeedsSoon retries f until it returns nil, failing the test if 5
// seconds elapse first. Mirrors the teacher's own test helper.
func succeedsSoon(t *testing.T, f func() error) {
	t.Helper()
	max := 5 * time.Second
	deadline := time.Now().Add(max)

	b := &backoff.Backoff{
		Min:    1 * time.Millisecond,
		Max:    50 * time.Millisecond,
		Factor: 2,
		Jitter: false,
	}
	for {
		err := f()
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("succeedsSoon timed out: %v", err)
		}
		time.Sleep(b.Duration())
	}
}

func mustEntity(t *testing.T, self Reference, props map[string]Value) Entity {
	t.Helper()
	e, err := NewEntity(self, props)
	if err != nil {
		t.Fatal(err)
	}
	return e
}
