package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("millisecond epoch", func(t *testing.T) {
		got, ok := ParseDate("1735689600000")
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("RFC3339", func(t *testing.T) {
		got, ok := ParseDate("2025-06-15T10:30:00Z")
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("ISO without zone", func(t *testing.T) {
		got, ok := ParseDate("2025-06-15T10:30:00")
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("bare date", func(t *testing.T) {
		got, ok := ParseDate("2025-06-15")
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := ParseDate("")
		assert.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := ParseDate("next tuesday")
		assert.False(t, ok)
	})

	t.Run("twelve digits is not an epoch", func(t *testing.T) {
		_, ok := ParseDate("173568960000")
		assert.False(t, ok)
	})

	t.Run("malformed ISO", func(t *testing.T) {
		_, ok := ParseDate("2025-06-15Tnoon")
		assert.False(t, ok)
	})
}

func TestIsClosed(t *testing.T) {
	for _, status := range []string{"complete", "completed", "done", "Done", "COMPLETED"} {
		assert.True(t, IsClosed(status), status)
	}
	for _, status := range []string{"open", "in progress", "to do", "closed", ""} {
		assert.False(t, IsClosed(status), status)
	}
}

func TestDaysBetween(t *testing.T) {
	t.Run("calendar days ignore time of day", func(t *testing.T) {
		earlier := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
		later := time.Date(2025, 6, 12, 0, 1, 0, 0, time.UTC)
		assert.Equal(t, 2, daysBetween(earlier, later))
	})

	t.Run("same day", func(t *testing.T) {
		a := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)
		b := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, 0, daysBetween(a, b))
	})
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)
	c := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, sameDay(a, b))
	assert.False(t, sameDay(b, c))
}
