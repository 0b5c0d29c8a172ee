package bench

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// sizePattern matches a size string e.g. '512b', '4KB' or '10 MB'; bare numbers are a count of bytes.
var sizePattern = regexp.MustCompile(`^(\d+) ?(b|kb|mb|gb)?$`)

// SizeSpec holds a parsed object size; both the human readable label the run was configured with, and the resolved
// byte count.
type SizeSpec struct {
	// Label is the size string as provided e.g. "10MB", recorded verbatim in each metrics document.
	Label string

	// Bytes is the resolved object size in bytes.
	Bytes int64
}

// ParseSizeSpec parses a human size string with case-insensitive B/KB/MB/GB suffixes (binary multiples, 1KB=1024B)
// into a byte count. An unknown suffix or a non-numeric magnitude is a configuration error, not a silent zero.
func ParseSizeSpec(s string) (SizeSpec, error) {
	trimmed := strings.TrimSpace(s)

	groups := sizePattern.FindStringSubmatch(strings.ToLower(trimmed))
	if groups == nil {
		return SizeSpec{}, fmt.Errorf("invalid object size %q, expected a number with an optional B/KB/MB/GB suffix", s)
	}

	quantity, err := strconv.ParseInt(groups[1], 10, 64)
	if err != nil {
		return SizeSpec{}, fmt.Errorf("invalid object size %q: %w", s, err)
	}

	var multiplier int64 = 1

	switch groups[2] {
	case "kb":
		multiplier = 1024
	case "mb":
		multiplier = 1024 * 1024
	case "gb":
		multiplier = 1024 * 1024 * 1024
	}

	return SizeSpec{Label: trimmed, Bytes: quantity * multiplier}, nil
}
