package server

import (
	"sync"
	"time"
)

// activityLogSize caps how many recent actions the console keeps.
const activityLogSize = 100

// ActivityEntry is one recorded console action.
type ActivityEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Status     string    `json:"status"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// TrafficStats counts how the session's upstream calls went.
type TrafficStats struct {
	OK           int `json:"ok"`
	ClientErrors int `json:"client_errors"`
	Total        int `json:"total"`
}

// activityLog keeps the most recent console actions, newest first, plus
// simple traffic counters for the dashboard sidebar.
type activityLog struct {
	mu      sync.Mutex
	entries []ActivityEntry
	stats   TrafficStats
}

func newActivityLog() *activityLog {
	return &activityLog{}
}

// Record notes one action. httpStatus is the upstream status code when a
// response was received, 0 otherwise; detail carries the error text when
// the action failed.
func (l *activityLog) Record(action string, httpStatus int, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	status := "SUCCESS"
	if detail != "" || httpStatus >= 400 {
		status = "ERROR"
	}

	entry := ActivityEntry{
		Timestamp:  time.Now().UTC(),
		Action:     action,
		Status:     status,
		HTTPStatus: httpStatus,
		Detail:     detail,
	}
	l.entries = append([]ActivityEntry{entry}, l.entries...)
	if len(l.entries) > activityLogSize {
		l.entries = l.entries[:activityLogSize]
	}

	if httpStatus != 0 {
		l.stats.Total++
		switch {
		case httpStatus >= 200 && httpStatus < 300:
			l.stats.OK++
		case httpStatus >= 400 && httpStatus < 500:
			l.stats.ClientErrors++
		}
	}
}

// Entries returns a copy of the recorded actions, newest first.
func (l *activityLog) Entries() []ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ActivityEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Stats returns the session traffic counters.
func (l *activityLog) Stats() TrafficStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Clear drops all entries and resets the counters.
func (l *activityLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.stats = TrafficStats{}
}
