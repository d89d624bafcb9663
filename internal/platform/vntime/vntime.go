// Package vntime centralizes the Vietnam timezone used for schedule resolution
package vntime

import (
	"sync"
	"time"
)

var (
	once sync.Once
	loc  *time.Location
)

// Location returns Asia/Ho_Chi_Minh, falling back to a fixed UTC+7 zone
// when the tz database is unavailable (stripped containers)
func Location() *time.Location {
	once.Do(func() {
		l, err := time.LoadLocation("Asia/Ho_Chi_Minh")
		if err != nil {
			l = time.FixedZone("ICT", 7*3600)
		}
		loc = l
	})
	return loc
}

// Now returns the current time in the Vietnam timezone
func Now() time.Time {
	return time.Now().In(Location())
}

// StartOfDay truncates t to midnight in t's own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Ptr returns a pointer to t
func Ptr(t time.Time) *time.Time { return &t }
