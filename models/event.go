// File: models/event.go
package models

import "time"

// DateLayout is the storage and form format of civil dates.
const DateLayout = "2006-01-02"

// ------------------------ event model -----------------------

// Event is a dated church event advertised with a poster.
type Event struct {
	ID             int64
	Title          string
	Description    string // Markdown
	Category       string
	PosterFilename string
	StartDate      time.Time
	EndDate        time.Time
	Pending        bool
}

// CivilDate formats t as a calendar date in its own location.
func CivilDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// SplitEvents partitions events into those still running on today (end date
// on or after today) and those already over. Input order is preserved.
func SplitEvents(events []Event, today time.Time) (current, archived []Event) {
	day := CivilDate(today)
	for _, e := range events {
		if CivilDate(e.EndDate) >= day {
			current = append(current, e)
		} else {
			archived = append(archived, e)
		}
	}
	return current, archived
}
