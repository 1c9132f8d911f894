package timezone_test

import (
	"testing"
	"time"

	"boatbook/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowAndLocation(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
	assert.Equal(t, timezone.GetLocation(), timezone.ToAppTime(time.Now().UTC()).Location())
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse(time.DateOnly, "2025-06-01")
	require.NoError(t, err)

	assert.Equal(t, "2025-06-01", timezone.Format(parsed, time.DateOnly))
}

func TestCombine(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "hours and minutes",
			clock: "08:30",
			want:  time.Date(2025, 6, 1, 8, 30, 0, 0, timezone.GetLocation()),
		},
		{
			name:  "with seconds",
			clock: "17:05:09",
			want:  time.Date(2025, 6, 1, 17, 5, 9, 0, timezone.GetLocation()),
		},
		{
			name:    "malformed",
			clock:   "8 o'clock",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timezone.Combine(date, tt.clock)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestClock(t *testing.T) {
	var clock timezone.Clock

	require.NoError(t, clock.Scan(time.Date(0, 1, 1, 8, 30, 0, 0, time.UTC)))
	assert.Equal(t, timezone.Clock("08:30:00"), clock)
	assert.Equal(t, "08:30", clock.Short())

	require.NoError(t, clock.Scan([]byte("17:05:00")))
	assert.Equal(t, "17:05:00", clock.String())

	require.NoError(t, clock.Scan(nil))
	value, err := clock.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	assert.Error(t, clock.Scan(42))
}

func TestParseClock(t *testing.T) {
	clock, err := timezone.ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, timezone.Clock("08:30:00"), clock)

	clock, err = timezone.ParseClock("17:05:30")
	require.NoError(t, err)
	assert.Equal(t, timezone.Clock("17:05:30"), clock)

	_, err = timezone.ParseClock("noon")
	assert.Error(t, err)
}
