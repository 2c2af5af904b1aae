package entity

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout renders capture times as "2006-01-02 15:04:05 UTC".
const TimestampLayout = "2006-01-02 15:04:05 MST"

// Status is the pass/fail verdict of a probed unit.
type Status string

const (
	StatusOk    Status = "ok"
	StatusNotOk Status = "not_ok"
)

// StatusOf maps a boolean verdict to a Status.
func StatusOf(ok bool) Status {
	if ok {
		return StatusOk
	}
	return StatusNotOk
}

// ParseStatus accepts the wire form of a status, case-insensitively.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(value)) {
	case StatusOk:
		return StatusOk, nil
	case StatusNotOk:
		return StatusNotOk, nil
	}
	return "", fmt.Errorf("unknown status: %s", value)
}

// ComponentStatus is one observed unit of a heartbeat: a host, a queue or a
// logical service.
type ComponentStatus struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewComponentStatus stamps a status with the given capture time.
func NewComponentStatus(name string, status Status, capturedAt time.Time) ComponentStatus {
	return ComponentStatus{
		Name:      name,
		Status:    status,
		Timestamp: FormatTimestamp(capturedAt),
	}
}

// FormatTimestamp renders t in UTC with second precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(value string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, value, time.UTC)
}
