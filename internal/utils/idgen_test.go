// internal/utils/idgen_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDNonEmpty(t *testing.T) {
	assert.NotEmpty(t, NewID())
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate id: %s", id)
		seen[id] = true
	}
}
