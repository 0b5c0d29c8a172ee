package objstore

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFoundError(t *testing.T) {
	require.True(t, IsNotFoundError(&NotFoundError{Type: "key", Name: "key"}))
	require.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", &NotFoundError{Type: "key", Name: "key"})))
	require.False(t, IsNotFoundError(assert.AnError))
	require.False(t, IsNotFoundError(nil))
}

func TestHandleErrorDNSNotFound(t *testing.T) {
	err := &net.DNSError{IsNotFound: true}
	require.ErrorIs(t, HandleError(fmt.Errorf("wrapped: %w", err)), ErrEndpointResolutionFailed)
}

func TestHandleErrorPassthrough(t *testing.T) {
	require.ErrorIs(t, HandleError(assert.AnError), assert.AnError)
	require.Nil(t, TryHandleError(assert.AnError))
}
