package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryerDoFirstAttempt(t *testing.T) {
	retryer := NewRetryer[int](RetryerOptions[int]{MinDelay: time.Nanosecond})

	payload, err := retryer.Do(func(ctx *Context) (int, error) {
		require.Equal(t, 1, ctx.Attempt())
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, payload)
}

func TestRetryerDoEventualSuccess(t *testing.T) {
	var (
		retryer  = NewRetryer[int](RetryerOptions[int]{MinDelay: time.Nanosecond})
		attempts int
	)

	payload, err := retryer.Do(func(*Context) (int, error) {
		attempts++

		if attempts < 3 {
			return 0, assert.AnError
		}

		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, payload)
	require.Equal(t, 3, attempts)
}

func TestRetryerDoExhausted(t *testing.T) {
	var (
		retryer  = NewRetryer[int](RetryerOptions[int]{MinDelay: time.Nanosecond})
		attempts int
	)

	_, err := retryer.Do(func(*Context) (int, error) {
		attempts++
		return 0, assert.AnError
	})
	require.True(t, IsRetriesExhausted(err))
	require.ErrorIs(t, err, assert.AnError)
	require.Equal(t, 3, attempts)
}

func TestRetryerDoWithContextCancelled(t *testing.T) {
	retryer := NewRetryer[int](RetryerOptions[int]{MinDelay: time.Nanosecond})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retryer.DoWithContext(ctx, func(*Context) (int, error) { return 0, nil })
	require.True(t, IsRetriesAborted(err))
}

func TestRetryerDoAborted(t *testing.T) {
	var (
		retryer  = NewRetryer[int](RetryerOptions[int]{MinDelay: time.Nanosecond})
		attempts int
	)

	_, err := retryer.Do(func(*Context) (int, error) {
		attempts++
		return 0, NewAbortRetriesError(assert.AnError)
	})
	require.True(t, IsRetriesAborted(err))
	require.ErrorIs(t, err, assert.AnError)
	require.Equal(t, 1, attempts)
}

func TestRetryerDoShouldRetry(t *testing.T) {
	var (
		attempts int
		retryer  = NewRetryer[int](RetryerOptions[int]{
			MinDelay:    time.Nanosecond,
			ShouldRetry: func(_ *Context, _ int, _ error) bool { return false },
		})
	)

	_, err := retryer.Do(func(*Context) (int, error) {
		attempts++
		return 0, assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	require.False(t, IsRetriesExhausted(err))
	require.Equal(t, 1, attempts)
}

func TestRetryerDoCleanup(t *testing.T) {
	var (
		cleanedUp []int
		attempts  int
	)

	retryer := NewRetryer[int](RetryerOptions[int]{
		MinDelay: time.Nanosecond,
		Cleanup:  func(payload int) { cleanedUp = append(cleanedUp, payload) },
	})

	_, err := retryer.Do(func(*Context) (int, error) {
		attempts++
		return attempts, assert.AnError
	})
	require.True(t, IsRetriesExhausted(err))

	// The payload from the final attempt must not be cleaned up, the caller may still want to use it
	require.Equal(t, []int{1, 2}, cleanedUp)
}

func TestRetryerDuration(t *testing.T) {
	type test struct {
		name      string
		algorithm Algorithm
		attempt   int
		expected  time.Duration
	}

	tests := []*test{
		{name: "LinearFirst", algorithm: AlgorithmLinear, attempt: 1, expected: 50 * time.Millisecond},
		{name: "LinearThird", algorithm: AlgorithmLinear, attempt: 3, expected: 150 * time.Millisecond},
		{name: "ExponentialFirst", algorithm: AlgorithmExponential, attempt: 1, expected: 100 * time.Millisecond},
		{name: "ExponentialThird", algorithm: AlgorithmExponential, attempt: 3, expected: 400 * time.Millisecond},
		{name: "ExponentialCapped", algorithm: AlgorithmExponential, attempt: 10, expected: 2500 * time.Millisecond},
		{name: "FibonacciFirst", algorithm: AlgorithmFibonacci, attempt: 1, expected: 50 * time.Millisecond},
		{name: "FibonacciSecond", algorithm: AlgorithmFibonacci, attempt: 2, expected: 50 * time.Millisecond},
		{name: "FibonacciThird", algorithm: AlgorithmFibonacci, attempt: 3, expected: 100 * time.Millisecond},
		{name: "FibonacciFourth", algorithm: AlgorithmFibonacci, attempt: 4, expected: 150 * time.Millisecond},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			retryer := NewRetryer[any](RetryerOptions[any]{Algorithm: test.algorithm})
			require.Equal(t, test.expected, retryer.Duration(test.attempt))
		})
	}
}
