package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factordynamics/paracas/internal/domain"
)

func TestGet_IsCaseInsensitive(t *testing.T) {
	lower, ok := Get("eurusd")
	require.True(t, ok)

	upper, ok := Get(" EURUSD ")
	require.True(t, ok)

	assert.Equal(t, lower.ID, upper.ID)
	assert.Equal(t, "EURUSD", lower.PathFragment)
}

func TestGet_UnknownInstrument(t *testing.T) {
	_, ok := Get("doesnotexist")
	assert.False(t, ok)
}

func TestMustGet_WrapsGetAsError(t *testing.T) {
	_, err := MustGet("nope")
	assert.Error(t, err)

	ins, err := MustGet("eurusd")
	require.NoError(t, err)
	assert.Equal(t, "eurusd", ins.ID)
}

func TestAll_ReturnsEveryRegisteredInstrument(t *testing.T) {
	all := All()
	assert.GreaterOrEqual(t, len(all), 15)

	seen := make(map[string]bool)
	for _, ins := range all {
		seen[ins.ID] = true
	}
	assert.True(t, seen["eurusd"])
	assert.True(t, seen["btcusd"])
}

func TestByCategory_FiltersCorrectly(t *testing.T) {
	forex := ByCategory(domain.CategoryForex)
	require.NotEmpty(t, forex)
	for _, ins := range forex {
		assert.Equal(t, domain.CategoryForex, ins.Category)
	}

	etfs := ByCategory(domain.CategoryEtfs)
	require.Len(t, etfs, 1)
	assert.Equal(t, "usa30etf", etfs[0].ID)
}

func TestByCategory_UnmatchedCategoryReturnsEmpty(t *testing.T) {
	assert.Empty(t, ByCategory(domain.Category(999)))
}
