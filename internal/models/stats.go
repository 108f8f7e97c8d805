package models

import "time"

// ArchiveStats summarizes every call stored in the on-disk archive.
type ArchiveStats struct {
	LastRecordedAt time.Time
	TotalCalls     int
	ErrorCount     int
	AvgDurationMs  float64
}

// ErrorRate returns the share of archived calls with a 4xx/5xx status, 0-100.
func (s ArchiveStats) ErrorRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(s.TotalCalls) * 100
}
