package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	t.Run("valid range truncates to midnight", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC)
		end := time.Date(2024, 1, 3, 5, 0, 0, 0, time.UTC)
		r, err := NewDateRange(start, end)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
		assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), r.End)
	})

	t.Run("end before start is an error", func(t *testing.T) {
		_, err := NewDateRange(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		require.Error(t, err)
		var derr *DateRangeError
		assert.ErrorAs(t, err, &derr)
	})
}

func TestDateRange_Hours(t *testing.T) {
	r := SingleDay(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	hours := r.Hours()

	// exactly 24*(days+1) HourSlots for a single-day range: days=0, so 24.
	require.Len(t, hours, 24)

	for i, h := range hours {
		assert.Equal(t, i, h.Time().Hour())
		if i > 0 {
			assert.True(t, hours[i-1].Before(h))
		}
	}
}

func TestDateRange_Hours_MultiDay(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	r, err := NewDateRange(start, end)
	require.NoError(t, err)

	hours := r.Hours()
	require.Len(t, hours, 24*3)

	for i := 1; i < len(hours); i++ {
		assert.True(t, hours[i-1].Before(hours[i]), "hours must be strictly ascending")
	}
	assert.Equal(t, start, hours[0].Time())
	assert.Equal(t, end.Add(23*time.Hour), hours[len(hours)-1].Time())
}

func TestTruncateToHour(t *testing.T) {
	h := TruncateToHour(time.Date(2024, 5, 6, 14, 37, 52, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 5, 6, 14, 0, 0, 0, time.UTC), h.Time())
}
