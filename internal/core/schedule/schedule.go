// Package schedule assembles the full parse pipeline, normalize, tag, extract,
// resolve, then merge the pieces into a validated record with a confidence score
package schedule

import (
	"strings"
	"time"
	"unicode/utf8"

	"lichhen/internal/core/extract"
	"lichhen/internal/core/keyword"
	"lichhen/internal/core/normalize"
	"lichhen/internal/core/rules"
	"lichhen/internal/core/temporal"
	"lichhen/internal/platform/logger"
	"lichhen/internal/platform/vntime"
)

// Field limits and defaults
const (
	// MaxFieldLen bounds event and location text
	MaxFieldLen = 200
	// MaxReminderMinutes is one day of advance notice
	MaxReminderMinutes = 1440
	// DefaultReminderMinutes applies when no reminder phrase was found
	DefaultReminderMinutes = 15
)

// Record is one parsed appointment
type Record struct {
	Event           string     `json:"event"`
	StartTime       *time.Time `json:"start_time"`
	Location        string     `json:"location"`
	ReminderMinutes int        `json:"reminder_minutes"`
}

// Quality buckets the confidence score for display
type Quality string

// Quality tiers
const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// Diagnostics exposes intermediate pipeline output for debugging and clients
// that want to highlight the recognized phrases
type Diagnostics struct {
	Normalized   string   `json:"normalized"`
	TimeTags     []string `json:"time_tags,omitempty"`
	LocationTags []string `json:"location_tags,omitempty"`
	// Fields is the raw extractor output before merging and resolution
	Fields extract.Fields `json:"fields"`
	// ResolvedStart is the concrete instant the temporal stage produced,
	// nil when no time of day was found
	ResolvedStart *time.Time `json:"resolved_start,omitempty"`
}

// Result is the outcome of parsing one sentence
type Result struct {
	Success     bool        `json:"success"`
	Record      *Record     `json:"record,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
	Confidence  int         `json:"confidence"`
	Quality     Quality     `json:"quality"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Pipeline wires the core stages together. Safe for concurrent use
type Pipeline struct {
	norm      *normalize.Normalizer
	tagger    *keyword.Tagger
	extractor *extract.Extractor
	resolver  *temporal.Resolver
	now       func() time.Time
}

// Option mutates the pipeline during New
type Option func(*Pipeline)

// WithClock overrides the reference clock, tests pin it
func WithClock(fn func() time.Time) Option {
	return func(p *Pipeline) { p.now = fn }
}

// New constructs a Pipeline over the given pack
func New(pack *rules.Pack, opts ...Option) *Pipeline {
	p := &Pipeline{
		norm:      normalize.New(pack),
		tagger:    keyword.New(pack),
		extractor: extract.New(pack),
		resolver:  temporal.New(pack),
		now:       vntime.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process parses one sentence. It never panics, a stage blowing up on hostile
// input is reported as a failed result
func (p *Pipeline) Process(input string) (res Result) {
	defer func() {
		if v := recover(); v != nil {
			logger.Named("schedule").Error().
				Interface("panic", v).
				Str("input", input).
				Msg("parse panic recovered")
			res = Result{
				Success: false,
				Errors:  []string{"internal parse failure"},
				Quality: QualityPoor,
			}
		}
	}()

	now := p.now()
	normalized := p.norm.Normalize(input)
	tags := p.tagger.Tag(normalized)
	fields := p.extractor.Extract(normalized)

	rec := p.merge(input, tags, fields, now)
	errs := Validate(rec, now)
	conf, quality := Confidence(fields, rec)

	return Result{
		Success:    len(errs) == 0,
		Record:     &rec,
		Errors:     errs,
		Confidence: conf,
		Quality:    quality,
		Diagnostics: Diagnostics{
			Normalized:    normalized,
			TimeTags:      tags.Time,
			LocationTags:  tags.Location,
			Fields:        fields,
			ResolvedStart: rec.StartTime,
		},
	}
}

// ProcessBatch parses each input independently, one bad sentence never
// affects its neighbors
func (p *Pipeline) ProcessBatch(inputs []string) []Result {
	out := make([]Result, len(inputs))
	for i, in := range inputs {
		out[i] = p.Process(in)
	}
	return out
}

// merge folds the extracted fields into a record, filling gaps from the
// tagger output and defaults. The event gap is filled from the raw input,
// not the normalized form, so the user sees their own casing back
func (p *Pipeline) merge(input string, tags keyword.Tags, fields extract.Fields, now time.Time) Record {
	rec := Record{
		Event:           fields.Event,
		Location:        fields.Location.Full,
		ReminderMinutes: DefaultReminderMinutes,
	}
	if rec.Event == "" {
		rec.Event = strings.TrimSpace(input)
	}
	if rec.Location == "" && len(tags.Location) > 0 {
		rec.Location = strings.Join(tags.Location, ", ")
	}
	if start, ok := p.resolver.Resolve(fields.Time, now); ok {
		rec.StartTime = &start
	}
	if fields.ReminderMinutes != nil {
		rec.ReminderMinutes = *fields.ReminderMinutes
	}
	return rec
}

// Validate checks a record against the field rules. All violations are
// collected, not just the first
func Validate(rec Record, now time.Time) []string {
	var errs []string

	switch {
	case strings.TrimSpace(rec.Event) == "":
		errs = append(errs, "event is empty")
	case utf8.RuneCountInString(rec.Event) > MaxFieldLen:
		errs = append(errs, "event exceeds 200 characters")
	}

	switch {
	case rec.StartTime == nil:
		errs = append(errs, "start time could not be resolved")
	case rec.StartTime.Before(vntime.StartOfDay(now)):
		errs = append(errs, "start time is in the past")
	}

	if utf8.RuneCountInString(rec.Location) > MaxFieldLen {
		errs = append(errs, "location exceeds 200 characters")
	}

	if rec.ReminderMinutes < 0 || rec.ReminderMinutes > MaxReminderMinutes {
		errs = append(errs, "reminder minutes out of range")
	}

	return errs
}

// Confidence scores how much signal the sentence actually carried.
// Point weights, clock 30 (explicit minute) or 21 (bare hour), date signal 20,
// location 15, meaningful event 15, resolved start 10
func Confidence(fields extract.Fields, rec Record) (int, Quality) {
	score := 0

	if fields.Time.Hour != nil {
		if fields.Time.Minute != nil {
			score += 30
		} else {
			score += 21
		}
	}
	if fields.Time.Date != nil || fields.Time.Weekday != nil || fields.Time.Relative != "" {
		score += 20
	}
	if rec.Location != "" {
		score += 15
	}
	if utf8.RuneCountInString(rec.Event) > 3 {
		score += 15
	}
	if rec.StartTime != nil {
		score += 10
	}

	return score, qualityFor(score)
}

func qualityFor(score int) Quality {
	switch {
	case score >= 80:
		return QualityExcellent
	case score >= 60:
		return QualityGood
	case score >= 40:
		return QualityFair
	default:
		return QualityPoor
	}
}
