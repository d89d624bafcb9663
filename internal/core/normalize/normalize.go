// Package normalize provides a deterministic text normalizer for Vietnamese
// appointment sentences
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC normalization (diacritics are kept, they carry meaning here)
// 3 Case folding
// 4 Remove zero-width format chars
// 5 Width fold fullwidth to ASCII
// 6 Collapse whitespace to single spaces and trim
// 7 Pack rewrites eg 15h -> 15 giờ, t2 -> thứ hai, tighten 9 : 30 -> 9:30
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"lichhen/internal/core/rules"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct {
	pack *rules.Pack
}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		// NFC not NFKC and no Mn removal: stripping combining marks would
		// destroy the Vietnamese tone and vowel marks the patterns match on
		return transform.Chain(
			norm.NFC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer over the given pack
func New(pack *rules.Pack) *Normalizer { return &Normalizer{pack: pack} }

// Normalize returns the normalized form of s following the pipeline described above
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-5 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 6 collapse whitespace and trim
	ns = collapseSpaces(ns)

	// 7 pack rewrites in pack order
	for _, rw := range n.pack.Rewrites {
		ns = rw.Re.ReplaceAllString(ns, rw.Replace)
	}

	return ns
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
