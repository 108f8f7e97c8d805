// Package activity keeps the in-memory log of recent API calls and tracks
// which one is currently shown.
package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/iiko-checker-tui/internal/models"
)

// Capacity is the maximum number of records kept. Inserting beyond it evicts
// the oldest record.
const Capacity = 20

// Log is a newest-first, capacity-bounded list of call records with at most
// one active record.
type Log struct {
	mu       sync.RWMutex
	records  []models.CallRecord
	activeID string
	now      func() time.Time
	newID    func() string
}

// New creates an empty log.
func New() *Log {
	return &Log{
		records: make([]models.CallRecord, 0, Capacity),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Record stores a completed call, makes it active and returns it.
func (l *Log) Record(method, url string, status int, requestBody, responseBody any, durationMs int) models.CallRecord {
	if durationMs < 0 {
		durationMs = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := models.CallRecord{
		ID:           l.newID(),
		Timestamp:    l.now(),
		Method:       method,
		URL:          url,
		Status:       status,
		RequestBody:  requestBody,
		ResponseBody: responseBody,
		DurationMs:   durationMs,
	}

	records := make([]models.CallRecord, 0, Capacity)
	records = append(records, rec)
	records = append(records, l.records...)
	if len(records) > Capacity {
		records = records[:Capacity]
	}
	l.records = records
	l.activeID = rec.ID

	return rec
}

// Clear removes every record and the active selection.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = make([]models.CallRecord, 0, Capacity)
	l.activeID = ""
}

// Select makes the record with id active. It reports false and changes
// nothing when no such record is held.
func (l *Log) Select(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexLocked(id) < 0 {
		return false
	}
	l.activeID = id
	return true
}

// Records returns a copy of the log, newest first.
func (l *Log) Records() []models.CallRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.CallRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Active returns the active record, or nil when none is selected.
func (l *Log) Active() *models.CallRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.indexLocked(l.activeID)
	if idx < 0 {
		return nil
	}
	rec := l.records[idx]
	return &rec
}

// ActiveID returns the id of the active record, or "".
func (l *Log) ActiveID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.activeID
}

// Len returns the number of records held.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Durations returns the call durations in milliseconds, oldest first.
func (l *Log) Durations() []float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]float64, len(l.records))
	for i, rec := range l.records {
		out[len(l.records)-1-i] = float64(rec.DurationMs)
	}
	return out
}

func (l *Log) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range l.records {
		if l.records[i].ID == id {
			return i
		}
	}
	return -1
}
