package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScanEvent(t *testing.T) {
	payload := []byte(`{
		"eventId": "summer-fest",
		"declaredTag": "north-gate",
		"latitude": 40.7128,
		"longitude": -74.006,
		"observedAt": "2026-06-13T18:30:00Z",
		"staffId": "staff-17",
		"confirmed": true
	}`)

	ev, err := decodeScanEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "summer-fest", ev.EventID)
	assert.Equal(t, "north-gate", ev.DeclaredTag)
	assert.InDelta(t, 40.7128, ev.Latitude, 1e-9)
	assert.InDelta(t, -74.006, ev.Longitude, 1e-9)
	assert.Equal(t, time.Date(2026, 6, 13, 18, 30, 0, 0, time.UTC), ev.ObservedAt.UTC())
	assert.Equal(t, "staff-17", ev.StaffID)
	assert.True(t, ev.Confirmed)
}

func TestDecodeScanEvent_Malformed(t *testing.T) {
	_, err := decodeScanEvent([]byte(`{"eventId": `))
	require.Error(t, err)
}
