package shortid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	for _, length := range []int{1, 8, 36} {
		id, err := Generate(length)
		require.NoError(t, err)
		assert.Len(t, id, length)
		for _, ch := range id {
			assert.True(t, strings.ContainsRune(alphabet, ch), "unexpected character %q", ch)
		}
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	_, err := Generate(0)
	assert.Error(t, err)

	_, err = Generate(-3)
	assert.Error(t, err)
}

func TestGenerateIsRandom(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := Generate(8)
		require.NoError(t, err)
		seen[id] = true
	}
	// 100 draws from a 62^8 keyspace should never collide.
	assert.Len(t, seen, 100)
}
