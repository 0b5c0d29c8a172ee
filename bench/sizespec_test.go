package bench

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSizeSpec(t *testing.T) {
	type test struct {
		name     string
		input    string
		expected int64
	}

	tests := []*test{
		{name: "Bytes", input: "512", expected: 512},
		{name: "BytesSuffix", input: "512b", expected: 512},
		{name: "KB", input: "4KB", expected: 4 * 1024},
		{name: "KBLower", input: "4kb", expected: 4 * 1024},
		{name: "MB", input: "10MB", expected: 10 * 1024 * 1024},
		{name: "MBMixedCase", input: "10Mb", expected: 10 * 1024 * 1024},
		{name: "GB", input: "1GB", expected: 1024 * 1024 * 1024},
		{name: "WithSpace", input: "10 MB", expected: 10 * 1024 * 1024},
		{name: "SurroundingWhitespace", input: " 10MB ", expected: 10 * 1024 * 1024},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := ParseSizeSpec(test.input)
			require.NoError(t, err)
			require.Equal(t, test.expected, actual.Bytes)
		})
	}
}

func TestParseSizeSpecLabelRetained(t *testing.T) {
	actual, err := ParseSizeSpec(" 10MB ")
	require.NoError(t, err)
	require.Equal(t, "10MB", actual.Label)
}

func TestParseSizeSpecInvalid(t *testing.T) {
	type test struct {
		name  string
		input string
	}

	tests := []*test{
		{name: "Empty", input: ""},
		{name: "NonNumeric", input: "ten"},
		{name: "NonNumericMagnitude", input: "xMB"},
		{name: "UnknownSuffix", input: "10TB"},
		{name: "Negative", input: "-10MB"},
		{name: "Decimal", input: "0.5MB"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseSizeSpec(test.input)
			require.Error(t, err)
		})
	}
}
