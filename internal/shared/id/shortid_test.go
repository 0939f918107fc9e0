package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("uses requested length", func(t *testing.T) {
		s, err := Generate(24)
		require.NoError(t, err)
		assert.Len(t, s, 24)
		assert.True(t, IsBase62(s))
	})

	t.Run("falls back to default length", func(t *testing.T) {
		s, err := Generate(0)
		require.NoError(t, err)
		assert.Len(t, s, DefaultLength)
	})

	t.Run("no collisions in a sample", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for i := 0; i < 1000; i++ {
			s, err := Generate(DefaultLength)
			require.NoError(t, err)
			_, dup := seen[s]
			require.False(t, dup, "duplicate token %s", s)
			seen[s] = struct{}{}
		}
	})
}

func TestIsBase62(t *testing.T) {
	assert.True(t, IsBase62("abcXYZ019"))
	assert.False(t, IsBase62(""))
	assert.False(t, IsBase62("abc-def"))
	assert.False(t, IsBase62("abc_def"))
}

func TestUUID(t *testing.T) {
	u := NewUUID()
	assert.True(t, IsUUID(u))
	assert.False(t, IsUUID("not-a-uuid"))
}
