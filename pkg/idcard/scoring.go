package idcard

import "strings"

// ScoreLayout rates how strongly text resembles this layout's card: weighted
// hits for the name label, a registration-number shape, and known layout
// tokens. Only used to rank rotation candidates; higher is better.
func (l CardLayout) ScoreLayout(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	score := 0
	if l.NameLabel != nil && l.NameLabel.MatchString(text) {
		score += l.NameLabelScore
	}
	for _, re := range l.RegNoPatterns {
		if re.MatchString(text) {
			score += l.RegNoScore
			break
		}
	}
	upper := strings.ToUpper(text)
	for tok, w := range l.ScoreTokens {
		if strings.Contains(upper, tok) {
			score += w
		}
	}
	return score
}
