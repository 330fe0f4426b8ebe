// internal/utils/idgen.go
package utils

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewID produces an opaque identifier for results and shots. It is unique
// enough to key a UI list and a persisted history entry; it is not required
// to be globally unique across processes.
//
// Primary strategy is a random UUID. If the secure random source is
// unavailable, fall back to a base-36 timestamp plus a base-36 random
// fragment. NewID never panics and never returns an empty string.
func NewID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fallbackID()
}

func fallbackID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	frag := strconv.FormatInt(rand.Int63(), 36)
	return ts + frag
}
