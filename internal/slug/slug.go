package slug

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// invalidSlugChars matches everything Slugify does not keep.
	// Spaces and hyphens survive this step and are normalized later.
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9 -]`)

	// whitespaceRun matches one or more whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)

	// hyphenRun matches two or more consecutive hyphens.
	hyphenRun = regexp.MustCompile(`-{2,}`)
)

// Slugify converts an arbitrary string into a hyphen-separated slug.
//
// The transformation runs in this exact order:
//  1. lower-case the input
//  2. replace every character outside [a-z0-9 -] with a space
//  3. trim surrounding whitespace
//  4. replace whitespace runs with a single hyphen
//  5. collapse hyphen runs into a single hyphen
//  6. trim leading and trailing hyphens
//
// The result contains only lower-case ASCII letters, digits and single
// hyphens, never starts or ends with a hyphen, and Slugify(Slugify(s)) ==
// Slugify(s) for every s.
//
// Example:
//
//	Slugify(" /abc+bob*123/test§xyz ") // "abc-bob-123-test-xyz"
func Slugify(s string) string {
	s = lower(s)
	s = invalidSlugChars.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.TrimLeft(s, "-")
	return strings.TrimRight(s, "-")
}

// SlugifyUnderscore converts an arbitrary string into an underscore slug.
//
// Unlike Slugify, nothing is collapsed or trimmed away: every character
// outside [a-z0-9] (spaces and hyphens included) becomes one underscore,
// so the output keeps the positional shape of the input:
//
//	SlugifyUnderscore("feature/_$%feature-branch-1") // "feature____feature_branch_1"
//
// Characters outside the Basic Multilingual Plane count as two positions,
// matching the UTF-16 length downstream consumers of these values have
// always observed.
func SlugifyUnderscore(s string) string {
	s = lower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isSlugAlnum(r) {
			b.WriteRune(r)
			continue
		}
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}
		b.WriteString(strings.Repeat("_", n))
	}

	// The trims below cannot change the output of the loop above. They are
	// kept so the step order stays identical to the published behaviour.
	out := strings.TrimSpace(b.String())
	out = strings.TrimLeft(out, "-")
	return strings.TrimRight(out, "-")
}

// lower applies the full Unicode default lower-case mapping, including
// context-sensitive and multi-rune special casings (for example U+0130
// becomes "i" followed by a combining dot). strings.ToLower only performs
// the simple one-to-one mapping.
//
// A Caser is stateful, so a new one is created on every call.
func lower(s string) string {
	if s == "" {
		return s
	}
	return cases.Lower(language.Und).String(s)
}

func isSlugAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
