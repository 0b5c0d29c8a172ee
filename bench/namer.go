package bench

import (
	"github.com/google/uuid"
)

// ObjectNamer generates unique object keys for a run; 'prefix/<uuid>' when a prefix is configured, a bare '<uuid>'
// otherwise.
//
// NOTE: Names are v4 UUIDs, the collision probability is treated as negligible and not mitigated further.
type ObjectNamer struct {
	prefix string
}

// NewObjectNamer returns a namer which generates keys under the given prefix, which may be empty.
func NewObjectNamer(prefix string) ObjectNamer {
	return ObjectNamer{prefix: prefix}
}

// Next returns a new unique object key.
func (o ObjectNamer) Next() string {
	name := uuid.NewString()

	if o.prefix != "" {
		return o.prefix + "/" + name
	}

	return name
}
