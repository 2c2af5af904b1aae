package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp_UTCSecondPrecision(t *testing.T) {
	local := time.FixedZone("CEST", 2*60*60)
	capturedAt := time.Date(2024, 5, 3, 14, 7, 9, 987654321, local)

	assert.Equal(t, "2024-05-03 12:07:09 UTC", FormatTimestamp(capturedAt))
}

func TestParseTimestamp_RoundTrip(t *testing.T) {
	parsed, err := ParseTimestamp("2024-05-03 12:07:09 UTC")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 3, 12, 7, 9, 0, time.UTC), parsed.UTC())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("OK")
	require.NoError(t, err)
	assert.Equal(t, StatusOk, status)

	status, err = ParseStatus("not_ok")
	require.NoError(t, err)
	assert.Equal(t, StatusNotOk, status)

	_, err = ParseStatus("degraded")
	assert.Error(t, err)
}

func TestHostTarget_DisplayName(t *testing.T) {
	assert.Equal(t, "broker1", HostTarget{Host: "10.0.0.5", Port: 5672, Name: "broker1"}.DisplayName())
	assert.Equal(t, "10.0.0.5", HostTarget{Host: "10.0.0.5", Port: 5672}.DisplayName())
}
