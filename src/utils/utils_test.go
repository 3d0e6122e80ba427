package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed := ParseDate("2024-03-15")
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), parsed)

	assert.True(t, ParseDate("not-a-date").IsZero())
	assert.True(t, ParseDate("").IsZero())
}

func TestPeriodString(t *testing.T) {
	assert.Equal(t, "2024-03", PeriodString(2024, 3))
	assert.Equal(t, "2024-11", PeriodString(2024, 11))
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 234.57, RoundFloat(234.567, 2))
	assert.Equal(t, 234.56, RoundFloat(234.564, 2))
	assert.Equal(t, 235.0, RoundFloat(234.6, 0))
}

func TestGenerateETagIsStable(t *testing.T) {
	payload := map[string]interface{}{"total": 1090.0, "symbol": "AAPL"}

	first, err := GenerateETag(payload)
	require.NoError(t, err)
	second, err := GenerateETag(payload)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := GenerateETag(map[string]interface{}{"total": 0.0})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
