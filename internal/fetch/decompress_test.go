package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factordynamics/paracas/internal/perror"
)

func TestDecompress_InvalidHeaderIsCorrupt(t *testing.T) {
	_, err := Decompress([]byte("not an lzma stream"))
	require.Error(t, err)
	kind, ok := perror.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, perror.Corrupt, kind)
}

func TestDecompress_EmptyInputIsCorrupt(t *testing.T) {
	_, err := Decompress(nil)
	require.Error(t, err)
	kind, ok := perror.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, perror.Corrupt, kind)
}
