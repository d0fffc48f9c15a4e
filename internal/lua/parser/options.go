package parser

import "time"

// Defaults for the parser's resource limits.
const (
	DefaultMaxSize    = 1 << 20
	DefaultTimeout    = 10 * time.Second
	DefaultMaxDepth   = 200
	defaultCheckEvery = 64
)

// Option configures a Parse call.
type Option func(*config)

type config struct {
	maxSize    int
	timeout    time.Duration
	maxDepth   int
	checkEvery int
	now        func() time.Time
}

func newConfig(opts []Option) config {
	c := config{
		maxSize:    DefaultMaxSize,
		timeout:    DefaultTimeout,
		maxDepth:   DefaultMaxDepth,
		checkEvery: defaultCheckEvery,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithMaxSize sets the largest accepted source in bytes. Non-positive
// values keep the default.
func WithMaxSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithTimeout bounds the wall-clock time spent parsing. Non-positive values
// keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxDepth bounds syntactic nesting. Non-positive values keep the
// default.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithClock replaces the clock used for the timeout check, and sets how many
// recursive descents happen between two clock reads.
func WithClock(now func() time.Time, checkEvery int) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}

		if checkEvery > 0 {
			c.checkEvery = checkEvery
		}
	}
}
