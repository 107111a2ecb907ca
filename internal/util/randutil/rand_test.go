package randutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := RandKey(10)
		assert.Len(t, key, 10)
		for _, r := range key {
			assert.True(t, strings.ContainsRune(KeyAlphabet, r), "unexpected rune %q in %q", r, key)
		}
		seen[key] = true
	}
	assert.Greater(t, len(seen), 90)
	assert.Empty(t, RandKey(0))
}
