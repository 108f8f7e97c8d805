// Package models defines data structures and domain types.
package models

import (
	"net/url"
	"strings"
	"time"
)

// TimeFormat is the capture-time layout shown in tables and the detail header.
const TimeFormat = "15:04:05"

// CallRecord is one logged API exchange. Records are immutable once created.
type CallRecord struct {
	Timestamp    time.Time
	RequestBody  any
	ResponseBody any
	ID           string
	Method       string
	URL          string
	Status       int
	DurationMs   int
}

// IsError reports whether the recorded status is a 4xx/5xx.
func (c CallRecord) IsError() bool {
	return c.Status >= 400
}

// Time returns the human-readable capture time.
func (c CallRecord) Time() string {
	return c.Timestamp.Format(TimeFormat)
}

// Path returns the URL path relative to the API base ("/organizations").
func (c CallRecord) Path() string {
	return EndpointPath(c.URL)
}

// EndpointPath strips everything up to the API version segment of an iiko URL.
// URLs that don't contain "/api/1" fall back to their parsed path.
func EndpointPath(raw string) string {
	if _, after, ok := strings.Cut(raw, "api/1"); ok {
		return after
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	return u.Path
}
