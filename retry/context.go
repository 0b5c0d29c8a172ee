package retry

import (
	"context"
)

// Context is the 'context.Context' handed to a 'RetryableFunc', decorated with the state of the retry loop executing
// it; retried functions may inspect the attempt number to vary their behavior between attempts.
type Context struct {
	context.Context

	attempt int
}

// NewContext decorates the given context ready for the first attempt.
func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, attempt: 1}
}

// Attempt returns the one-based number of the attempt currently executing.
func (c *Context) Attempt() int {
	return c.attempt
}
