package idcard

import (
	"regexp"
	"strings"
)

var nonLetters = regexp.MustCompile(`[^a-z ]+`)

// normalizeName lowercases, strips non-letters, collapses whitespace.
func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = nonLetters.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// levenshtein is the classic two-row DP edit distance.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// levSimilarity is 1 - dist/maxLen.
func levSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	max := len([]rune(a))
	if lb := len([]rune(b)); lb > max {
		max = lb
	}
	if max == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(max)
}

// wordSimilarity rates a single word pair: edit-distance similarity, or a
// prefix score of max(0.85, shorter/longer) when one word is a prefix of
// the other. The prefix branch specifically rewards OCR truncation of long
// names.
func wordSimilarity(a, b string) float64 {
	sim := levSimilarity(a, b)
	if a != b && (strings.HasPrefix(a, b) || strings.HasPrefix(b, a)) {
		shorter, longer := len(a), len(b)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		p := float64(shorter) / float64(longer)
		if p < 0.85 {
			p = 0.85
		}
		if p > sim {
			sim = p
		}
	}
	return sim
}

// Match compares a reference name against an OCR-extracted name. Four
// signals are computed and the maximum wins: any single strong signal is
// sufficient evidence given how lossy extraction is.
func Match(referenceName, extractedName string) MatchResult {
	a := normalizeName(referenceName)
	b := normalizeName(extractedName)
	if a == "" || b == "" {
		return MatchResult{}
	}
	if a == b {
		return MatchResult{Match: true, Similarity: 1}
	}

	fullSim := levSimilarity(a, b)

	refWords := strings.Fields(a)
	extWords := strings.Fields(b)

	// Greedy word pairing: each reference word of >=2 chars may claim one
	// unused extracted word when the pair clears 0.6 or is a prefix match.
	used := make([]bool, len(extWords))
	pairs := 0
	for _, rw := range refWords {
		if len(rw) < 2 {
			continue
		}
		for j, ew := range extWords {
			if used[j] {
				continue
			}
			if wordSimilarity(rw, ew) >= 0.6 {
				used[j] = true
				pairs++
				break
			}
		}
	}
	maxWords := len(refWords)
	if len(extWords) > maxWords {
		maxWords = len(extWords)
	}
	wordSim := 0.0
	if maxWords > 0 {
		wordSim = float64(pairs) / float64(maxWords) * 0.95
	}

	// First-name agreement is the strongest single identity signal; the
	// surname is what OCR garbles most often.
	firstSim := 0.0
	for _, ew := range extWords {
		if s := wordSimilarity(refWords[0], ew); s > firstSim {
			firstSim = s
		}
	}
	firstSignal := firstSim * 0.9
	if firstSim > 0.7 && firstSignal < 0.78 {
		firstSignal = 0.78
	}

	// Substring containment of any reference word >=3 chars.
	contained := false
	for _, rw := range refWords {
		if len(rw) < 3 {
			continue
		}
		for _, ew := range extWords {
			if len(ew) >= 3 && (strings.Contains(ew, rw) || strings.Contains(rw, ew)) {
				contained = true
				break
			}
		}
		if contained {
			break
		}
	}
	containSignal := 0.0
	if contained {
		containSignal = 0.85
	}

	sim := fullSim
	for _, s := range []float64{wordSim, firstSignal, containSignal} {
		if s > sim {
			sim = s
		}
	}
	if sim > 1 {
		sim = 1
	}

	match := sim >= 0.60 ||
		(firstSim >= 0.65 && pairs >= 1) ||
		pairs >= 2 ||
		contained
	return MatchResult{Match: match, Similarity: sim}
}
