// Package normalize corrects known phonetic mis-transcriptions in call
// transcripts before any downstream processing. The ASR engine reliably
// mangles a handful of brand and product terms spoken at the start of a
// call ("에스티엔" for "STN"); fixing those deterministically up front keeps
// the extraction prompt and the fallback rules working on canonical
// spellings.
//
// Normalization is a fixed, ordered list of case-insensitive literal
// replacements. It is pure and idempotent: applying it twice yields the
// same text as applying it once.
package normalize

import "regexp"

// replacement is one mis-heard form and its canonical spelling.
type replacement struct {
	pattern   *regexp.Regexp
	canonical string
}

// replacements is applied in order. Longer variants come before shorter
// ones so that a substring variant cannot pre-empt a fuller match
// ("에스티엔" before "에스엔"). The bare "SN" form is word-bounded to avoid
// rewriting it inside model numbers.
var replacements = []replacement{
	literal("에스티엔", "STN"),
	literal("에스엔", "STN"),
	literal("스티엔", "STN"),
	literal("스테인", "STN"),
	literal("스텐", "STN"),
	{regexp.MustCompile(`(?i)\bSN\b`), "STN"},
	literal("로드엠", "ROADM"),
	literal("로드엔", "ROADM"),
	literal("엠에스피피", "MSPP"),
	literal("유피에스", "UPS"),
}

func literal(misheard, canonical string) replacement {
	return replacement{
		pattern:   regexp.MustCompile("(?i)" + regexp.QuoteMeta(misheard)),
		canonical: canonical,
	}
}

// Text applies the replacement table to s and returns the corrected text.
func Text(s string) string {
	if s == "" {
		return s
	}
	for _, r := range replacements {
		s = r.pattern.ReplaceAllLiteralString(s, r.canonical)
	}
	return s
}
