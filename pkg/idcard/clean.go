package idcard

import (
	"regexp"
	"strings"
)

var (
	nonNameChars = regexp.MustCompile(`[^A-Za-z .]+`)
	dotRuns      = regexp.MustCompile(`\.+`)
)

// CleanName strips layout noise out of a raw OCR name candidate: digits and
// stray punctuation, isolated single-letter tokens, watermark tokens that
// bleed through from the card background, and field-label words captured
// alongside the value. Idempotent.
func (l CardLayout) CleanName(raw string) string {
	s := nonNameChars.ReplaceAllString(raw, " ")
	s = dotRuns.ReplaceAllString(s, " ")
	var kept []string
	for _, tok := range strings.Fields(s) {
		if len(tok) < 2 {
			continue
		}
		up := strings.ToUpper(tok)
		if containsToken(l.WatermarkTokens, up) || containsToken(l.LabelTokens, up) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func containsToken(set []string, up string) bool {
	for _, t := range set {
		if t == up {
			return true
		}
	}
	return false
}

// fallbackPatterns are tried in order, each progressively looser. All are
// anchored on a "Name" label and stop at the next label keyword or line
// break.
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)name\s*[:;]\s*([A-Za-z][A-Za-z .]{2,40}?)\s*(?:\n|reg|prog|dep|degree|valid|dob|$)`),
	regexp.MustCompile(`(?i)name\s*[:;]?\s*([A-Za-z][A-Za-z .]{2,40})`),
	regexp.MustCompile(`(?i)\bnam[e3]?\b[^A-Za-z]{0,4}([A-Za-z][A-Za-z .]{2,40})`),
}

// ExtractNameFallback pulls a name straight out of the full Pass-1 text
// when the located-field path yields nothing. Returns the first cleaned
// match of length >= 3, uppercased, or "".
func (l CardLayout) ExtractNameFallback(fullText string) string {
	for _, re := range fallbackPatterns {
		for _, m := range re.FindAllStringSubmatch(fullText, -1) {
			if len(m) < 2 {
				continue
			}
			cand := l.CleanName(m[1])
			if len(cand) >= 3 {
				return strings.ToUpper(cand)
			}
		}
	}
	return ""
}

// ExtractRegNo matches the layout's registration-number shapes anywhere in
// the full text, tightest shape first. A candidate needs at least four
// digits so the loose alphanumeric shape cannot latch onto a long word.
func (l CardLayout) ExtractRegNo(fullText string) string {
	upper := strings.ToUpper(fullText)
	for _, re := range l.RegNoPatterns {
		for _, m := range re.FindAllString(upper, -1) {
			if digitCount(m) >= 4 {
				return m
			}
		}
	}
	return ""
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
