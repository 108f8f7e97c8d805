package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/j-veylop/iiko-checker-tui/internal/logger"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000"

// InsertCallRecord archives one call record. Inserting the same id twice is a no-op.
func (db *DB) InsertCallRecord(rec models.CallRecord) error {
	query := `
		INSERT OR IGNORE INTO call_records (
			id, recorded_at, method, url, status, request_body, response_body, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := rec.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	reqBody, err := encodeBody(rec.RequestBody)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	respBody, err := encodeBody(rec.ResponseBody)
	if err != nil {
		return fmt.Errorf("failed to encode response body: %w", err)
	}

	_, err = db.ExecContext(context.Background(), query,
		rec.ID,
		timestamp.UTC().Format(timeLayout),
		rec.Method,
		rec.URL,
		rec.Status,
		reqBody,
		respBody,
		rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert call record: %w", err)
	}

	return nil
}

// GetRecentCallRecords returns up to limit archived records, newest first.
func (db *DB) GetRecentCallRecords(limit int) ([]models.CallRecord, error) {
	query := `
		SELECT id, recorded_at, method, url, status, request_body, response_body, duration_ms
		FROM call_records
		ORDER BY recorded_at DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent call records: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var records []models.CallRecord
	for rows.Next() {
		var rec models.CallRecord
		var recordedAt string
		var reqBody, respBody sql.NullString

		err := rows.Scan(
			&rec.ID,
			&recordedAt,
			&rec.Method,
			&rec.URL,
			&rec.Status,
			&reqBody,
			&respBody,
			&rec.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call record: %w", err)
		}

		rec.Timestamp, _ = time.Parse(timeLayout, recordedAt)
		rec.RequestBody = decodeBody(reqBody)
		rec.ResponseBody = decodeBody(respBody)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetCallStats returns totals over the whole archive.
func (db *DB) GetCallStats() (*models.ArchiveStats, error) {
	query := `
		SELECT
			COUNT(*) as total_calls,
			COALESCE(SUM(CASE WHEN status >= 400 THEN 1 ELSE 0 END), 0) as error_count,
			COALESCE(AVG(duration_ms), 0) as avg_duration,
			MAX(recorded_at) as last_recorded
		FROM call_records
	`

	var stats models.ArchiveStats
	var last sql.NullString
	err := db.QueryRowContext(context.Background(), query).Scan(
		&stats.TotalCalls,
		&stats.ErrorCount,
		&stats.AvgDurationMs,
		&last,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query call stats: %w", err)
	}

	if last.Valid {
		stats.LastRecordedAt, _ = time.Parse(timeLayout, last.String)
	}

	return &stats, nil
}

// CleanupOldRecords deletes archived records older than olderThan.
func (db *DB) CleanupOldRecords(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC().Format(timeLayout)

	result, err := db.ExecContext(context.Background(),
		"DELETE FROM call_records WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup call records: %w", err)
	}

	return result.RowsAffected()
}

// encodeBody stores nil as SQL NULL and everything else as JSON text.
func encodeBody(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeBody(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s.String)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return s.String
	}
	return v
}
