// Package keyword tags normalized sentences with the time and location phrases
// the rule pack recognizes. Tags keep source order and are deduped, so callers
// can use them both as extraction hints and as display fallbacks
package keyword

import (
	"regexp"
	"sort"

	"lichhen/internal/core/rules"
)

// Tags holds the phrases found in one sentence
type Tags struct {
	Time     []string
	Location []string
}

// Tagger scans normalized text against the pack
type Tagger struct {
	pack *rules.Pack
}

// New constructs a Tagger over the given pack
func New(pack *rules.Pack) *Tagger { return &Tagger{pack: pack} }

type span struct {
	start, end int
	text       string
}

// Tag returns the time and location phrases found in text.
// Text is expected to be normalized already
func (t *Tagger) Tag(text string) Tags {
	if text == "" {
		return Tags{}
	}

	var times []span

	// first winning clock rule only, later rules would re-match fragments
	// of the same phrase (eg "10 giờ" inside "10 giờ 15 phút")
	for _, c := range t.pack.Clock {
		if loc := c.Re.FindStringIndex(text); loc != nil {
			times = append(times, span{start: loc[0], end: loc[1], text: text[loc[0]:loc[1]]})
			break
		}
	}
	for _, re := range []*regexp.Regexp{t.pack.Period, t.pack.Weekday, t.pack.Relative, t.pack.Date, t.pack.Reminder} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			times = append(times, span{start: loc[0], end: loc[1], text: text[loc[0]:loc[1]]})
		}
	}

	var locs []span
	for _, lr := range t.pack.Locations {
		for _, m := range lr.Re.FindAllStringSubmatchIndex(text, -1) {
			locs = append(locs, span{start: m[0], end: m[1], text: lr.Label + " " + text[m[2]:m[3]]})
		}
	}

	// vocabulary keywords widen recall past the structured rules, but a hit
	// inside text a rule already claimed is noise ("tuần" inside "tuần sau")
	times = appendKeywords(times, t.pack.TimeKeywords, text)
	locs = appendKeywords(locs, t.pack.LocationKeywords, text)

	return Tags{Time: ordered(times), Location: ordered(locs)}
}

// appendKeywords adds vocabulary matches that do not overlap any span a
// structured rule already produced
func appendKeywords(spans []span, re *regexp.Regexp, text string) []span {
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if overlaps(spans, loc[0], loc[1]) {
			continue
		}
		spans = append(spans, span{start: loc[0], end: loc[1], text: text[loc[0]:loc[1]]})
	}
	return spans
}

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// ordered sorts spans by source position and drops duplicate phrases
func ordered(spans []span) []string {
	if len(spans) == 0 {
		return nil
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	out := make([]string, 0, len(spans))
	seen := make(map[string]struct{}, len(spans))
	for _, s := range spans {
		if _, ok := seen[s.text]; ok {
			continue
		}
		seen[s.text] = struct{}{}
		out = append(out, s.text)
	}
	return out
}
