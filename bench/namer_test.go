package bench

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestObjectNamer(t *testing.T) {
	namer := NewObjectNamer("")

	key := namer.Next()
	require.NotEmpty(t, key)

	_, err := uuid.Parse(key)
	require.NoError(t, err)
}

func TestObjectNamerWithPrefix(t *testing.T) {
	namer := NewObjectNamer("prefix")

	key := namer.Next()
	require.True(t, strings.HasPrefix(key, "prefix/"))

	_, err := uuid.Parse(strings.TrimPrefix(key, "prefix/"))
	require.NoError(t, err)
}

func TestObjectNamerUnique(t *testing.T) {
	var (
		namer = NewObjectNamer("prefix")
		seen  = make(map[string]struct{})
	)

	for i := 0; i < 1024; i++ {
		seen[namer.Next()] = struct{}{}
	}

	require.Len(t, seen, 1024)
}
