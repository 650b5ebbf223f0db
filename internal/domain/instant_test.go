package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	utc := time.UTC
	want := func(s string) *time.Time {
		ts, err := time.Parse(time.RFC3339Nano, s)
		require.NoError(t, err)
		return &ts
	}

	tests := []struct {
		name     string
		raw      interface{}
		expected *time.Time
	}{
		{name: "nil is absent", raw: nil},
		{name: "empty string is absent", raw: ""},
		{name: "blank string is absent", raw: "   "},
		{name: "zero time is absent", raw: time.Time{}},
		{name: "nil time pointer is absent", raw: (*time.Time)(nil)},
		{name: "garbage is absent", raw: "next tuesday"},
		{name: "unsupported type is absent", raw: 1704067200},
		{
			name:     "sql datetime",
			raw:      "2024-01-01 10:30:00",
			expected: want("2024-01-01T10:30:00Z"),
		},
		{
			name:     "sql datetime with microseconds",
			raw:      "2024-01-01 10:30:00.123456",
			expected: want("2024-01-01T10:30:00.123456Z"),
		},
		{
			name:     "html datetime-local",
			raw:      "2024-01-01T10:30",
			expected: want("2024-01-01T10:30:00Z"),
		},
		{
			name:     "iso without offset",
			raw:      "2024-01-01T10:30:15",
			expected: want("2024-01-01T10:30:15Z"),
		},
		{
			name:     "rfc3339 with offset",
			raw:      "2024-01-01T10:30:00+02:00",
			expected: want("2024-01-01T08:30:00Z"),
		},
		{
			name:     "space separated with offset",
			raw:      "2024-01-01 10:30:00+00:00",
			expected: want("2024-01-01T10:30:00Z"),
		},
		{
			name:     "go time string with monotonic suffix",
			raw:      "2025-06-23 11:47:24.890799237 +0100 BST m=+0.002409088",
			expected: want("2025-06-23T10:47:24.890799237Z"),
		},
		{
			name:     "date only",
			raw:      "2024-01-01",
			expected: want("2024-01-01T00:00:00Z"),
		},
		{
			name:     "bytes",
			raw:      []byte("2024-01-01 10:30:00"),
			expected: want("2024-01-01T10:30:00Z"),
		},
		{
			name:     "surrounding whitespace",
			raw:      "  2024-01-01T10:30  ",
			expected: want("2024-01-01T10:30:00Z"),
		},
		{
			name:     "native time passes through",
			raw:      time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
			expected: want("2024-01-01T10:30:00Z"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseInstant(tt.raw, utc)
			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.True(t, tt.expected.Equal(*result), "expected %v, got %v", tt.expected, result)
		})
	}
}

func TestParseInstant_NaiveValuesUseLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)

	result := ParseInstant("2024-01-01 10:00:00", loc)
	require.NotNil(t, result)
	assert.True(t, result.Equal(time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC)))

	// An explicit offset wins over the location
	result = ParseInstant("2024-01-01T10:00:00Z", loc)
	require.NotNil(t, result)
	assert.True(t, result.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
}

func TestParseInstant_PointerIsCopied(t *testing.T) {
	original := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result := ParseInstant(&original, time.UTC)
	require.NotNil(t, result)
	assert.NotSame(t, &original, result)
	assert.True(t, original.Equal(*result))
}
