package random

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"regexp"
	"testing"
)

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestHexToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := HexToken()
		require.NoError(t, err)
		assert.Regexp(t, hex64, token)

		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}
