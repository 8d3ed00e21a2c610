package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	out, err := ParseStringList(`["anime","thriller"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"anime", "thriller"}, out)

	out, err = ParseStringList("anime, thriller ,  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"anime", "thriller"}, out)

	out, err = ParseStringList("")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = ParseStringList("   ")
	require.NoError(t, err)
	assert.Empty(t, out)

	// A broken JSON payload is a client error, not a CSV fallback
	_, err = ParseStringList(`["unterminated`)
	assert.Error(t, err)
}
