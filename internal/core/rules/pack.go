// Package rules loads and compiles the Vietnamese appointment patterns from the
// embedded rules.json. It prepares the rewrite table, ordered clock patterns,
// single-field searches, location rules, and the event vocabulary
package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed rules.json
var embedded []byte

type rawRewrite struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Replace string `json:"replace"`
}

type rawClock struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Pattern string `json:"pattern"`
}

type rawSingles struct {
	Period   string `json:"period"`
	Weekday  string `json:"weekday"`
	Relative string `json:"relative"`
	Date     string `json:"date"`
	Reminder string `json:"reminder"`
	HalfMark string `json:"half_mark"`
}

type rawLocation struct {
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Pattern string `json:"pattern"`
}

type rawVocab struct {
	EventVerbs       []string `json:"event_verbs"`
	EventObjects     []string `json:"event_objects"`
	TimeKeywords     []string `json:"time_keywords"`
	LocationKeywords []string `json:"location_keywords"`
}

type rawEvent struct {
	WindowRunes  int      `json:"window_runes"`
	PrefixTokens int      `json:"prefix_tokens"`
	Boundaries   []string `json:"boundaries"`
}

type rawMaps struct {
	WeekdayIndex map[string]int `json:"weekday_index"`
	PeriodHour   map[string]int `json:"period_hour"`
	RelativeDays map[string]int `json:"relative_days"`
}

type rawPack struct {
	Version   int            `json:"version"`
	Meta      map[string]any `json:"meta"`
	Rewrites  []rawRewrite   `json:"rewrites"`
	Clock     []rawClock     `json:"clock"`
	Singles   rawSingles     `json:"singles"`
	Locations []rawLocation  `json:"locations"`
	Vocab     rawVocab       `json:"vocab"`
	Event     rawEvent       `json:"event"`
	Maps      rawMaps        `json:"maps"`
}

// ClockKind tags how a clock pattern's capture groups map to hour and minute
type ClockKind string

// Clock pattern kinds
const (
	// KindHM captures hour in group 1 and minute in group 2
	KindHM ClockKind = "hm"
	// KindHalf captures hour in group 1, minute is fixed at 30
	KindHalf ClockKind = "half"
	// KindKem captures hour in group 1 and minutes-to in group 2 ("kém" counts down)
	KindKem ClockKind = "kem"
	// KindHour captures hour in group 1, minute defaults to 0
	KindHour ClockKind = "hour"
)

// Rewrite is one compiled normalization rewrite
type Rewrite struct {
	ID      string
	Re      *regexp.Regexp
	Replace string
}

// ClockRule is one compiled hour/minute pattern. Rules are tried in pack order
// and the first match wins
type ClockRule struct {
	ID   string
	Kind ClockKind
	Re   *regexp.Regexp
}

// LocationRule is one compiled location pattern. Value is rebuilt from Label
// plus the captured token so output spacing is stable
type LocationRule struct {
	Kind  string
	Label string
	Re    *regexp.Regexp
}

// EventSpec configures the fallback event span when vocabulary anchors are missing
type EventSpec struct {
	WindowRunes  int
	PrefixTokens int
	Boundaries   []string
}

// Pack represents the compiled rule pack
type Pack struct {
	Version int
	Meta    map[string]any

	Rewrites  []Rewrite
	Clock     []ClockRule
	Locations []LocationRule

	Period   *regexp.Regexp
	Weekday  *regexp.Regexp
	Relative *regexp.Regexp
	Date     *regexp.Regexp
	Reminder *regexp.Regexp
	HalfMark *regexp.Regexp

	EventVerbs   *regexp.Regexp
	EventObjects *regexp.Regexp
	Event        EventSpec

	// Tagger-only vocabulary. Broader than the structured rules above,
	// a hit contributes a tag but never a parsed component
	TimeKeywords     *regexp.Regexp
	LocationKeywords *regexp.Regexp

	WeekdayIndex map[string]int
	PeriodHour   map[string]int
	RelativeDays map[string]int
}

// Load returns the compiled pack from the embedded rules.json
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("rules: parse rules.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("rules: unsupported rules.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version:      rp.Version,
		Meta:         rp.Meta,
		WeekdayIndex: rp.Maps.WeekdayIndex,
		PeriodHour:   rp.Maps.PeriodHour,
		RelativeDays: rp.Maps.RelativeDays,
		Event: EventSpec{
			WindowRunes:  rp.Event.WindowRunes,
			PrefixTokens: rp.Event.PrefixTokens,
			Boundaries:   rp.Event.Boundaries,
		},
	}

	for _, rw := range rp.Rewrites {
		re, err := regexp.Compile(rw.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: compile rewrite %q: %w", rw.ID, err)
		}
		p.Rewrites = append(p.Rewrites, Rewrite{ID: rw.ID, Re: re, Replace: rw.Replace})
	}

	for _, c := range rp.Clock {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: compile clock %q: %w", c.ID, err)
		}
		switch ClockKind(c.Kind) {
		case KindHM, KindHalf, KindKem, KindHour:
		default:
			return nil, fmt.Errorf("rules: clock %q has unknown kind %q", c.ID, c.Kind)
		}
		p.Clock = append(p.Clock, ClockRule{ID: c.ID, Kind: ClockKind(c.Kind), Re: re})
	}

	for _, l := range rp.Locations {
		re, err := regexp.Compile(l.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: compile location %q: %w", l.Kind, err)
		}
		p.Locations = append(p.Locations, LocationRule{Kind: l.Kind, Label: l.Label, Re: re})
	}

	var err error
	if p.Period, err = compileSingle("period", rp.Singles.Period); err != nil {
		return nil, err
	}
	if p.Weekday, err = compileSingle("weekday", rp.Singles.Weekday); err != nil {
		return nil, err
	}
	if p.Relative, err = compileSingle("relative", rp.Singles.Relative); err != nil {
		return nil, err
	}
	if p.Date, err = compileSingle("date", rp.Singles.Date); err != nil {
		return nil, err
	}
	if p.Reminder, err = compileSingle("reminder", rp.Singles.Reminder); err != nil {
		return nil, err
	}
	if p.HalfMark, err = compileSingle("half_mark", rp.Singles.HalfMark); err != nil {
		return nil, err
	}

	if p.EventVerbs, err = compileVocab("event_verbs", rp.Vocab.EventVerbs); err != nil {
		return nil, err
	}
	if p.EventObjects, err = compileVocab("event_objects", rp.Vocab.EventObjects); err != nil {
		return nil, err
	}

	// Time units are short common words, keep them boundary-anchored so
	// "tuần" does not fire inside arbitrary text. All terms have ASCII
	// edge letters so \b is safe here
	if p.TimeKeywords, err = compileVocabWrapped("time_keywords", rp.Vocab.TimeKeywords, `\b`, `\b`); err != nil {
		return nil, err
	}
	// A location noun drags along the next word so "hội trường lớn" tags
	// as a whole phrase, not just the noun
	if p.LocationKeywords, err = compileVocabWrapped("location_keywords", rp.Vocab.LocationKeywords, "", `(?:\s+\p{L}+)?`); err != nil {
		return nil, err
	}

	return p, nil
}

var (
	once    sync.Once
	shared  *Pack
	loadErr error
)

// MustLoad returns a shared compiled pack, panicking if the embedded pack is
// malformed. The pack is immutable after load so sharing is safe
func MustLoad() *Pack {
	once.Do(func() { shared, loadErr = Load() })
	if loadErr != nil {
		panic(loadErr)
	}
	return shared
}

func compileSingle(name, pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("rules: single %q is empty", name)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("rules: compile single %q: %w", name, err)
	}
	return re, nil
}

// compileVocab joins literal terms into an alternation. Terms are quoted so
// regex metacharacters in the vocab stay literal; pack order decides which
// alternative wins when one term prefixes another (list the longer term first)
func compileVocab(name string, terms []string) (*regexp.Regexp, error) {
	return compileVocabWrapped(name, terms, "", "")
}

func compileVocabWrapped(name string, terms []string, prefix, suffix string) (*regexp.Regexp, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("rules: vocab %q is empty", name)
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(t))
	}
	re, err := regexp.Compile(prefix + "(?:" + strings.Join(parts, "|") + ")" + suffix)
	if err != nil {
		return nil, fmt.Errorf("rules: compile vocab %q: %w", name, err)
	}
	return re, nil
}
