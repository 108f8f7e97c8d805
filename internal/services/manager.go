// Package services wires the iiko client, the activity log and the optional
// call archive together for the TUI.
package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/iiko-checker-tui/internal/config"
	"github.com/j-veylop/iiko-checker-tui/internal/db"
	"github.com/j-veylop/iiko-checker-tui/internal/iiko"
	"github.com/j-veylop/iiko-checker-tui/internal/logger"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
	"github.com/j-veylop/iiko-checker-tui/internal/services/activity"
)

// ErrArchiveDisabled is returned by archive queries when ARCHIVE_PATH is unset.
var ErrArchiveDisabled = errors.New("call archive is disabled")

type (
	// ArchivedEvent is emitted after a call has been written to the archive.
	ArchivedEvent struct {
		Record models.CallRecord
	}

	// SlowCallEvent is emitted when a call took at least the slow-call threshold.
	SlowCallEvent struct {
		Record    models.CallRecord
		Threshold time.Duration
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ArchivedEvent) isServiceEvent() {}
func (SlowCallEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()    {}

// Manager owns the services and fans journaled calls out to the archive,
// desktop notifications and subscribers.
type Manager struct {
	mu                sync.RWMutex
	client            *iiko.Client
	activity          *activity.Log
	database          *db.DB
	subscribers       []chan<- ServiceEvent
	notify            func(title, message string) error
	slowCallThreshold time.Duration
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		client:            iiko.New(cfg.BaseURL, cfg.Timeout),
		activity:          activity.New(),
		slowCallThreshold: cfg.SlowCallThreshold,
		notify:            desktopNotify,
	}

	if cfg.ArchiveEnabled() {
		database, err := db.New(cfg.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive: %w", err)
		}
		m.database = database
		logger.Info("archive opened", "path", database.Path())

		if cfg.ArchiveRetention > 0 {
			deleted, err := database.CleanupOldRecords(cfg.ArchiveRetention)
			if err != nil {
				logger.Warn("archive cleanup failed", "error", err)
			} else if deleted > 0 {
				logger.Info("archive cleanup", "deleted", deleted, "retention", cfg.ArchiveRetention)
				if err := database.Vacuum(); err != nil {
					logger.Warn("archive vacuum failed", "error", err)
				}
			}
		}
	}

	return m, nil
}

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Record journals a completed call: the activity log keeps it in memory, the
// archive (when enabled) on disk with credentials redacted. The returned
// record is the active one.
func (m *Manager) Record(method, url string, status int, requestBody, responseBody any, durationMs int) models.CallRecord {
	rec := m.activity.Record(method, url, status, requestBody, responseBody, durationMs)

	if m.database != nil {
		if err := m.database.InsertCallRecord(redactRecord(rec)); err != nil {
			logger.Error("failed to archive call", "id", rec.ID, "error", err)
			m.broadcast(ErrorEvent{Service: "archive", Error: err})
		} else {
			m.broadcast(ArchivedEvent{Record: rec})
		}
	}

	m.checkSlowCall(rec)

	return rec
}

// Select makes a logged record active.
func (m *Manager) Select(id string) bool {
	return m.activity.Select(id)
}

// Clear empties the activity log. Archived records are kept.
func (m *Manager) Clear() {
	m.activity.Clear()
}

// Active returns the active record, or nil.
func (m *Manager) Active() *models.CallRecord {
	return m.activity.Active()
}

// Records returns the logged records, newest first.
func (m *Manager) Records() []models.CallRecord {
	return m.activity.Records()
}

// Durations returns the logged call durations in milliseconds, oldest first.
func (m *Manager) Durations() []float64 {
	return m.activity.Durations()
}

func (m *Manager) checkSlowCall(rec models.CallRecord) {
	if m.slowCallThreshold <= 0 {
		return
	}
	took := time.Duration(rec.DurationMs) * time.Millisecond
	if took < m.slowCallThreshold {
		return
	}

	message := fmt.Sprintf("iiko: %s %s took %.1fs (%d)", rec.Method, rec.Path(), took.Seconds(), rec.Status)
	m.broadcast(SlowCallEvent{Record: rec, Threshold: m.slowCallThreshold})

	notify := m.notify
	go func() {
		if err := notify("Slow iiko call", message); err != nil {
			logger.Warn("desktop notification failed", "error", err)
		}
	}()
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a buffered channel receiving service events. It is
// closed by Close.
func (m *Manager) Subscribe() chan ServiceEvent {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch
}

// Client returns the iiko API client.
func (m *Manager) Client() *iiko.Client {
	return m.client
}

// ArchiveStats returns totals over the archive.
func (m *Manager) ArchiveStats() (*models.ArchiveStats, error) {
	if m.database == nil {
		return nil, ErrArchiveDisabled
	}
	return m.database.GetCallStats()
}

// RecentArchived returns up to limit archived calls, newest first.
func (m *Manager) RecentArchived(limit int) ([]models.CallRecord, error) {
	if m.database == nil {
		return nil, ErrArchiveDisabled
	}
	return m.database.GetRecentCallRecords(limit)
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			return err
		}
	}
	return nil
}
