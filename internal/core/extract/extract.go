// Package extract pulls structured appointment fields out of a normalized
// Vietnamese sentence using the compiled rule pack. Extraction is purely
// lexical, calendar resolution lives in the temporal package
package extract

import (
	"strconv"
	"strings"

	"lichhen/internal/core/rules"
)

// DateParts is an explicit day/month date, year 0 means the year was omitted
type DateParts struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year,omitempty"`
}

// TimeComponents holds the raw temporal signals found in a sentence.
// Nil pointers mean the signal was absent
type TimeComponents struct {
	Hour   *int `json:"hour,omitempty"`
	Minute *int `json:"minute,omitempty"`
	// Period is the matched day-part word, eg "sáng" or "chiều"
	Period string `json:"period,omitempty"`
	// Weekday is 0 Monday through 6 Sunday
	Weekday *int `json:"weekday,omitempty"`
	// Relative is the matched relative phrase, eg "ngày mai" or "tuần sau"
	Relative string     `json:"relative,omitempty"`
	Date     *DateParts `json:"date,omitempty"`
}

// Empty reports whether no temporal signal at all was found
func (tc TimeComponents) Empty() bool {
	return tc.Hour == nil && tc.Minute == nil && tc.Period == "" &&
		tc.Weekday == nil && tc.Relative == "" && tc.Date == nil
}

// LocationComponents holds the location fragments found in a sentence.
// Each value keeps its keyword, eg "phòng 302"
type LocationComponents struct {
	Room     string `json:"room,omitempty"`
	Floor    string `json:"floor,omitempty"`
	Building string `json:"building,omitempty"`
	Office   string `json:"office,omitempty"`
	// Full is the comma joined non-empty fragments in room, floor,
	// building, office order
	Full string `json:"full,omitempty"`
}

// Fields is the full extraction result for one sentence
type Fields struct {
	Event    string             `json:"event,omitempty"`
	Time     TimeComponents     `json:"time"`
	Location LocationComponents `json:"location"`
	// ReminderMinutes is nil when no reminder phrase was present
	ReminderMinutes *int `json:"reminder_minutes,omitempty"`
}

// Extractor runs the pack's field rules
type Extractor struct {
	pack *rules.Pack
}

// New constructs an Extractor over the given pack
func New(pack *rules.Pack) *Extractor { return &Extractor{pack: pack} }

// Extract pulls all fields from normalized text
func (e *Extractor) Extract(text string) Fields {
	if text == "" {
		return Fields{}
	}
	return Fields{
		Event:           e.extractEvent(text),
		Time:            e.extractTime(text),
		Location:        e.extractLocation(text),
		ReminderMinutes: e.extractReminder(text),
	}
}

// extractEvent finds the event phrase. Anchored on the verb and object
// vocabulary when present, otherwise a bounded prefix of the sentence
func (e *Extractor) extractEvent(text string) string {
	verb := e.pack.EventVerbs.FindStringIndex(text)
	obj := e.pack.EventObjects.FindStringIndex(text)

	switch {
	case verb != nil && obj != nil:
		start, end := verb[0], verb[1]
		if obj[0] < start {
			start = obj[0]
		}
		if obj[1] > end {
			end = obj[1]
		}
		return strings.TrimSpace(text[start:end])
	case verb != nil:
		return e.boundedWindow(text, verb[0])
	default:
		return e.prefixEvent(text)
	}
}

// boundedWindow takes up to WindowRunes runes starting at start, cut at the
// first boundary marker after the anchor
func (e *Extractor) boundedWindow(text string, start int) string {
	rest := text[start:]
	rest = cutAtBoundary(rest, e.pack.Event.Boundaries)
	r := []rune(rest)
	if max := e.pack.Event.WindowRunes; max > 0 && len(r) > max {
		r = r[:max]
	}
	return strings.TrimSpace(string(r))
}

// prefixEvent falls back to the first few tokens of the sentence
func (e *Extractor) prefixEvent(text string) string {
	head := cutAtBoundary(text, e.pack.Event.Boundaries)
	toks := strings.Fields(head)
	if n := e.pack.Event.PrefixTokens; n > 0 && len(toks) > n {
		toks = toks[:n]
	}
	if len(toks) > 0 {
		return strings.Join(toks, " ")
	}
	// boundary sat at the very front, take a raw rune prefix instead
	r := []rune(text)
	if max := e.pack.Event.WindowRunes; max > 0 && len(r) > max {
		r = r[:max]
	}
	return strings.TrimSpace(string(r))
}

func cutAtBoundary(s string, boundaries []string) string {
	cut := len(s)
	for _, b := range boundaries {
		if i := strings.Index(s, b); i >= 0 && i < cut {
			cut = i
		}
	}
	return s[:cut]
}

// extractTime walks the ordered clock rules then the single-field searches
func (e *Extractor) extractTime(text string) TimeComponents {
	var tc TimeComponents

	for _, c := range e.pack.Clock {
		m := c.Re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch c.Kind {
		case rules.KindHM:
			tc.Hour = atoiPtr(m[1])
			tc.Minute = atoiPtr(m[2])
		case rules.KindHalf:
			tc.Hour = atoiPtr(m[1])
			tc.Minute = intPtr(30)
		case rules.KindKem:
			h, n := atoi(m[1]), atoi(m[2])
			tc.Hour = intPtr(h - 1)
			tc.Minute = intPtr(60 - n)
		case rules.KindHour:
			// minute stays nil, downstream treats a bare hour as :00 but
			// scores it lower than an explicit minute
			tc.Hour = atoiPtr(m[1])
		}
		break
	}

	// "rưỡi" anywhere pins the half hour when a bare hour matched
	if tc.Hour != nil && tc.Minute == nil && e.pack.HalfMark.MatchString(text) {
		tc.Minute = intPtr(30)
	}

	if m := e.pack.Period.FindStringSubmatch(text); m != nil {
		tc.Period = m[1]
	}
	if m := e.pack.Weekday.FindStringSubmatch(text); m != nil {
		if m[1] == "" {
			tc.Weekday = intPtr(6) // chủ nhật
		} else if idx, ok := e.pack.WeekdayIndex[m[1]]; ok {
			tc.Weekday = intPtr(idx)
		}
	}
	if m := e.pack.Relative.FindStringSubmatch(text); m != nil {
		tc.Relative = m[1]
	}
	if m := e.pack.Date.FindStringSubmatch(text); m != nil {
		dp := &DateParts{Day: atoi(m[1]), Month: atoi(m[2])}
		if m[3] != "" {
			dp.Year = atoi(m[3])
			if dp.Year < 100 {
				dp.Year += 2000
			}
		}
		tc.Date = dp
	}

	return tc
}

// extractLocation collects one fragment per kind. Room hits that sit inside
// an office phrase are dropped, "văn phòng x" must not double as "phòng x"
func (e *Extractor) extractLocation(text string) LocationComponents {
	var lc LocationComponents

	var officeSpans [][]int
	for _, lr := range e.pack.Locations {
		if lr.Kind != "office" {
			continue
		}
		officeSpans = lr.Re.FindAllStringIndex(text, -1)
	}

	for _, lr := range e.pack.Locations {
		ms := lr.Re.FindAllStringSubmatchIndex(text, -1)
		for _, m := range ms {
			if lr.Kind == "room" && within(m[0], m[1], officeSpans) {
				continue
			}
			val := lr.Label + " " + text[m[2]:m[3]]
			switch lr.Kind {
			case "room":
				if lc.Room == "" {
					lc.Room = val
				}
			case "floor":
				if lc.Floor == "" {
					lc.Floor = val
				}
			case "building":
				if lc.Building == "" {
					lc.Building = val
				}
			case "office":
				if lc.Office == "" {
					lc.Office = val
				}
			}
		}
	}

	var parts []string
	for _, p := range []string{lc.Room, lc.Floor, lc.Building, lc.Office} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	lc.Full = strings.Join(parts, ", ")
	return lc
}

func within(start, end int, spans [][]int) bool {
	for _, s := range spans {
		if start >= s[0] && end <= s[1] {
			return true
		}
	}
	return false
}

// extractReminder returns minutes of advance notice, nil when not mentioned
func (e *Extractor) extractReminder(text string) *int {
	m := e.pack.Reminder.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n := atoi(m[1])
	if m[2] == "giờ" {
		n *= 60
	}
	return intPtr(n)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func intPtr(v int) *int { return &v }
