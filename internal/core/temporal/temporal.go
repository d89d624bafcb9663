// Package temporal turns extracted time components into a concrete start time
// relative to a reference instant. Resolution order for the date signal is
// explicit date, then weekday, then relative phrase, then today
package temporal

import (
	"time"

	"lichhen/internal/core/extract"
	"lichhen/internal/core/rules"
	"lichhen/internal/platform/vntime"
)

// Resolver resolves time components against the pack's calendar maps
type Resolver struct {
	pack *rules.Pack
}

// New constructs a Resolver over the given pack
func New(pack *rules.Pack) *Resolver { return &Resolver{pack: pack} }

// Resolve returns the concrete start time for tc relative to now.
// ok is false when the sentence carried no usable time of day, a date
// signal alone does not produce a start time
func (r *Resolver) Resolve(tc extract.TimeComponents, now time.Time) (time.Time, bool) {
	hour, minute, ok := r.clockFor(tc)
	if !ok {
		return time.Time{}, false
	}

	day := r.dayFor(tc, now)
	res := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())

	// a same-day reading that already passed means the speaker meant tomorrow,
	// unless they said today or pinned an explicit date
	if res.Before(now) && tc.Date == nil && !saysToday(tc.Relative) {
		res = res.AddDate(0, 0, 1)
	}
	return res, true
}

func saysToday(relative string) bool {
	return relative == "hôm nay" || relative == "ngày hôm nay"
}

// dayFor picks the calendar day, always at midnight in now's location
func (r *Resolver) dayFor(tc extract.TimeComponents, now time.Time) time.Time {
	today := vntime.StartOfDay(now)

	if tc.Date != nil {
		year := tc.Date.Year
		rollable := year == 0
		if rollable {
			year = now.Year()
		}
		day := time.Date(year, time.Month(tc.Date.Month), tc.Date.Day, 0, 0, 0, 0, now.Location())
		// the midnight reading is compared against now itself, so a year-less
		// date naming today still rolls a year once the day has started
		if rollable && day.Before(now) {
			day = day.AddDate(1, 0, 0)
		}
		return day
	}

	if tc.Weekday != nil {
		// Monday is 0 here, Go's Sunday-based weekday needs shifting
		nowIdx := (int(now.Weekday()) + 6) % 7
		offset := ((*tc.Weekday-nowIdx)%7 + 7) % 7
		if offset == 0 {
			// a bare weekday never means today
			offset = 7
		}
		if tc.Relative == "tuần sau" || tc.Relative == "tuần tới" {
			offset += 7
		}
		return today.AddDate(0, 0, offset)
	}

	if tc.Relative != "" {
		if days, ok := r.pack.RelativeDays[tc.Relative]; ok {
			return today.AddDate(0, 0, days)
		}
	}

	return today
}

// clockFor picks hour and minute. An explicit hour wins, corrected by the
// day-part word. Without an hour the day-part's representative hour is used
func (r *Resolver) clockFor(tc extract.TimeComponents) (int, int, bool) {
	if tc.Hour != nil {
		hour := correctHour(*tc.Hour, tc.Period)
		minute := 0
		if tc.Minute != nil {
			minute = *tc.Minute
		}
		if hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
			return hour, minute, true
		}
		// nonsense clock, fall back to the day-part if one was given
	}
	if tc.Period != "" {
		if h, ok := r.pack.PeriodHour[tc.Period]; ok {
			return h, 0, true
		}
	}
	return 0, 0, false
}

// correctHour maps a 12-hour reading onto the 24-hour clock using the
// day-part word
func correctHour(h int, period string) int {
	switch period {
	case "chiều", "tối":
		if h >= 1 && h <= 11 {
			h += 12
		}
	case "đêm", "khuya":
		if h >= 12 {
			h -= 12
		}
	case "sáng":
		if h == 12 {
			h = 0
		}
	}
	return h
}
