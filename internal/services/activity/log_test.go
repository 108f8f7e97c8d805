package activity

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()

	l := New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	l.now = func() time.Time {
		return base.Add(time.Duration(n) * time.Second)
	}
	l.newID = func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
	return l
}

func TestNew(t *testing.T) {
	l := New()
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
	if l.Active() != nil {
		t.Error("Active() should be nil for an empty log")
	}
	if l.ActiveID() != "" {
		t.Errorf("ActiveID() = %q, want empty", l.ActiveID())
	}
}

func TestRecord(t *testing.T) {
	l := New()

	rec := l.Record(http.MethodPost, "https://api-ru.iiko.services/api/1/access_token",
		http.StatusOK, map[string]any{"apiLogin": "demo"}, map[string]any{"token": "abc123"}, 42)

	if rec.ID == "" {
		t.Error("record ID should be generated")
	}
	if rec.Timestamp.IsZero() {
		t.Error("record Timestamp should be set")
	}
	if rec.Status != http.StatusOK || rec.DurationMs != 42 {
		t.Errorf("record = %+v", rec)
	}
	if l.ActiveID() != rec.ID {
		t.Errorf("ActiveID() = %q, want %q", l.ActiveID(), rec.ID)
	}
	active := l.Active()
	if active == nil || active.URL != rec.URL {
		t.Errorf("Active() = %+v", active)
	}
}

func TestRecord_UniqueIDs(t *testing.T) {
	l := New()
	seen := make(map[string]bool)
	for i := 0; i < Capacity; i++ {
		rec := l.Record(http.MethodGet, "u", http.StatusOK, nil, nil, 1)
		if seen[rec.ID] {
			t.Fatalf("duplicate id %q", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestRecord_NegativeDuration(t *testing.T) {
	l := New()
	rec := l.Record(http.MethodGet, "u", http.StatusOK, nil, nil, -5)
	if rec.DurationMs != 0 {
		t.Errorf("DurationMs = %d, want 0", rec.DurationMs)
	}
}

func TestRecord_NewestFirst(t *testing.T) {
	l := newTestLog(t)

	l.Record(http.MethodPost, "a", http.StatusOK, nil, nil, 1)
	l.Record(http.MethodGet, "b", http.StatusOK, nil, nil, 2)
	l.Record(http.MethodPost, "c", http.StatusOK, nil, nil, 3)

	recs := l.Records()
	want := []string{"c", "b", "a"}
	for i, w := range want {
		if recs[i].URL != w {
			t.Errorf("Records()[%d].URL = %q, want %q", i, recs[i].URL, w)
		}
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Timestamp.After(recs[i-1].Timestamp) {
			t.Errorf("record %d is newer than record %d", i, i-1)
		}
	}
}

func TestRecord_Eviction(t *testing.T) {
	l := newTestLog(t)

	var last string
	for i := 1; i <= Capacity+1; i++ {
		last = l.Record(http.MethodGet, fmt.Sprintf("call-%d", i), http.StatusOK, nil, nil, i).ID
	}

	if l.Len() != Capacity {
		t.Fatalf("Len() = %d, want %d", l.Len(), Capacity)
	}
	recs := l.Records()
	if recs[0].URL != "call-21" {
		t.Errorf("newest = %q, want call-21", recs[0].URL)
	}
	if recs[Capacity-1].URL != "call-2" {
		t.Errorf("oldest = %q, want call-2", recs[Capacity-1].URL)
	}
	if l.ActiveID() != last {
		t.Errorf("ActiveID() = %q, want %q", l.ActiveID(), last)
	}

	// The first record was evicted and can no longer be selected.
	if l.Select("rec-1") {
		t.Error("Select() of an evicted record should return false")
	}
	if l.ActiveID() != last {
		t.Errorf("ActiveID() changed after failed Select: %q", l.ActiveID())
	}
}

func TestSelect(t *testing.T) {
	l := newTestLog(t)

	first := l.Record(http.MethodPost, "a", http.StatusOK, nil, nil, 1)
	second := l.Record(http.MethodGet, "b", http.StatusOK, nil, nil, 2)

	if l.ActiveID() != second.ID {
		t.Fatalf("ActiveID() = %q, want %q", l.ActiveID(), second.ID)
	}
	if !l.Select(first.ID) {
		t.Fatal("Select() of a held record should return true")
	}
	if l.Active().URL != "a" {
		t.Errorf("Active().URL = %q, want a", l.Active().URL)
	}

	third := l.Record(http.MethodPost, "c", http.StatusOK, nil, nil, 3)
	if l.ActiveID() != third.ID {
		t.Error("a new record should become active")
	}
}

func TestSelect_Unknown(t *testing.T) {
	l := newTestLog(t)
	rec := l.Record(http.MethodGet, "a", http.StatusOK, nil, nil, 1)

	tests := []string{"", "missing", "rec-99"}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			if l.Select(id) {
				t.Errorf("Select(%q) = true, want false", id)
			}
			if l.ActiveID() != rec.ID {
				t.Errorf("ActiveID() = %q, want %q", l.ActiveID(), rec.ID)
			}
		})
	}
}

func TestClear(t *testing.T) {
	l := newTestLog(t)
	for i := 0; i < 3; i++ {
		l.Record(http.MethodGet, "a", http.StatusOK, nil, nil, 1)
	}

	l.Clear()

	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
	if l.Active() != nil || l.ActiveID() != "" {
		t.Error("Clear() should drop the active selection")
	}
	if l.Select("rec-1") {
		t.Error("Select() after Clear() should return false")
	}
	if l.Active() != nil {
		t.Error("Active() should stay nil after a failed Select")
	}
}

func TestRecords_ReturnsCopy(t *testing.T) {
	l := newTestLog(t)
	l.Record(http.MethodGet, "a", http.StatusOK, nil, nil, 1)

	recs := l.Records()
	recs[0].URL = "mutated"

	if l.Records()[0].URL != "a" {
		t.Error("Records() should return a copy")
	}
}

func TestDurations(t *testing.T) {
	l := newTestLog(t)
	if got := l.Durations(); len(got) != 0 {
		t.Errorf("Durations() = %v, want empty", got)
	}

	for _, d := range []int{10, 20, 30} {
		l.Record(http.MethodGet, "a", http.StatusOK, nil, nil, d)
	}

	got := l.Durations()
	want := []float64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("Durations() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Durations()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	l := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec := l.Record(http.MethodGet, "a", http.StatusOK, nil, nil, 1)
			l.Select(rec.ID)
		}()
		go func() {
			defer wg.Done()
			_ = l.Records()
			_ = l.Active()
			_ = l.Durations()
		}()
	}
	wg.Wait()

	if l.Len() != Capacity {
		t.Errorf("Len() = %d, want %d", l.Len(), Capacity)
	}
}
