package smalltable

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultConfig holds the engine's default tuning knobs.
var DefaultConfig = Config{
	MaxCommitRetries: 5,
	Logger:           logrus.StandardLogger(),
}

// Config holds configuration options for a Repository.
type Config struct {
	// MaxCommitRetries bounds the optimistic commit loop (spec.md §4.3's
	// MAX_RETRY). A commit that cannot install within this many attempts
	// gives up and reports ErrConflict.
	MaxCommitRetries int
	// Logger receives structured diagnostics for commit attempts,
	// conflicts, and retries. If nil, NewRepository substitutes
	// logrus.StandardLogger().
	Logger *logrus.Logger
}

// Verify returns an error if an invariant is violated.
func (c Config) Verify() error {
	if c.MaxCommitRetries <= 0 {
		return errors.New("MaxCommitRetries must be positive")
	}
	return nil
}
