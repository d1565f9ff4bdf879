package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogRecordsNewestFirst(t *testing.T) {
	log := newActivityLog()
	log.Record("first", http.StatusOK, "")
	log.Record("second", http.StatusNotFound, "no case found")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Action)
	assert.Equal(t, "ERROR", entries[0].Status)
	assert.Equal(t, http.StatusNotFound, entries[0].HTTPStatus)
	assert.Equal(t, "no case found", entries[0].Detail)
	assert.Equal(t, "first", entries[1].Action)
	assert.Equal(t, "SUCCESS", entries[1].Status)
}

func TestActivityLogCapsAtSize(t *testing.T) {
	log := newActivityLog()
	for i := 0; i < activityLogSize+25; i++ {
		log.Record(fmt.Sprintf("action %d", i), http.StatusOK, "")
	}

	entries := log.Entries()
	require.Len(t, entries, activityLogSize)
	assert.Equal(t, fmt.Sprintf("action %d", activityLogSize+24), entries[0].Action)

	// Counters keep counting past the display cap.
	stats := log.Stats()
	assert.Equal(t, activityLogSize+25, stats.Total)
	assert.Equal(t, activityLogSize+25, stats.OK)
}

func TestActivityLogStats(t *testing.T) {
	log := newActivityLog()
	log.Record("ok", http.StatusOK, "")
	log.Record("not found", http.StatusNotFound, "")
	log.Record("unavailable", http.StatusServiceUnavailable, "")
	log.Record("no response", 0, "connection refused")

	stats := log.Stats()
	assert.Equal(t, 1, stats.OK)
	assert.Equal(t, 1, stats.ClientErrors)
	// Only actions with an upstream response count toward totals.
	assert.Equal(t, 3, stats.Total)
}

func TestActivityLogFailureWithoutStatus(t *testing.T) {
	log := newActivityLog()
	log.Record("refresh", 0, "connection refused")

	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0].Status)
	assert.Zero(t, entries[0].HTTPStatus)
}

func TestActivityLogClear(t *testing.T) {
	log := newActivityLog()
	log.Record("something", http.StatusOK, "")
	log.Clear()

	assert.Empty(t, log.Entries())
	assert.Equal(t, TrafficStats{}, log.Stats())
}
