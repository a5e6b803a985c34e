package weightlog

import "time"

// Entry is one body-weight measurement. A user has at most one entry per UTC day.
type Entry struct {
	ID     string    `json:"id"`
	UserID string    `json:"-"`
	Weight float64   `json:"weight"`
	Date   time.Time `json:"date"`
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
