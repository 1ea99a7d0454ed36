package idcard

import "regexp"

// CardLayout bundles the institution-specific constants the pipeline keys
// on: label patterns, watermark tokens, registration-number shapes, score
// weights. Keeping these as data lets the same pipeline target a different
// card stock without code changes.
type CardLayout struct {
	// Institution is the label reported when the layout score clears
	// MinPlausibleScore.
	Institution string

	// NameLabel matches a "Name" field label line, tolerating common OCR
	// confusions and either : or ; as separator.
	NameLabel *regexp.Regexp

	// FieldLabel matches any field label on the card; used to decide
	// whether the line under the name line is a wrapped name or the next
	// field.
	FieldLabel *regexp.Regexp

	// RegNoPatterns are tried in order against the full Pass-1 text.
	RegNoPatterns []*regexp.Regexp

	// WatermarkTokens are institution tokens that bleed through as
	// background watermark into field values; stripped by the cleaner.
	WatermarkTokens []string

	// LabelTokens are field-label words that get captured alongside a
	// value; stripped by the cleaner.
	LabelTokens []string

	// ScoreTokens maps uppercase card-layout tokens to score weights.
	ScoreTokens map[string]int

	// NameLabelScore / RegNoScore are the weights for the two pattern
	// hits in the layout score.
	NameLabelScore int
	RegNoScore     int

	// Rotations are the Pass-1 trial angles in degrees. Card photos come
	// in upright or sideways; 180 can be enabled here if that assumption
	// changes.
	Rotations []int

	// EarlyExitScore stops further rotation trials once reached.
	EarlyExitScore int

	// MinPlausibleScore is the floor for reporting the institution label
	// at all.
	MinPlausibleScore int
}

// DefaultCardLayout targets the institute student ID card this product
// verifies against.
func DefaultCardLayout() CardLayout {
	return CardLayout{
		Institution: "SRM Institute of Science and Technology",
		// Tolerate a dropped or substituted letter inside "Name" plus
		// separator confusion (: vs ;).
		NameLabel:  regexp.MustCompile(`(?i)\b(?:name|nane|narne|mame|nam[e3]?|n[a4]me)\s*[:;]?`),
		FieldLabel: regexp.MustCompile(`(?i)\b(?:reg(?:ist(?:er|ration))?\.?\s*(?:no|number)?|programme|program|degree|department|branch|valid|d\.?o\.?b|blood|year|section)\b`),
		RegNoPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\b[A-Z]{2}[0-9]{8,}\b`),
			regexp.MustCompile(`\b[A-Z0-9]{10,16}\b`),
		},
		WatermarkTokens: []string{
			"SRM", "SRMIST", "INSTITUTE", "SCIENCE", "TECHNOLOGY",
			"KATTANKULATHUR", "UNIVERSITY",
		},
		LabelTokens: []string{
			"NAME", "REGISTER", "REGISTRATION", "REG", "NO", "NUMBER",
			"PROGRAMME", "PROGRAM", "DEGREE", "DEPARTMENT", "BRANCH",
			"VALID", "UPTO", "STUDENT", "IDENTITY", "CARD", "DOB",
		},
		ScoreTokens: map[string]int{
			"PROGRAMME":   15,
			"DEPARTMENT":  10,
			"B.TECH":      10,
			"BTECH":       10,
			"M.TECH":      10,
			"ENGINEERING": 10,
			"SRM":         15,
			"INSTITUTE":   10,
			"TECHNOLOGY":  5,
			"STUDENT":     5,
		},
		NameLabelScore:    20,
		RegNoScore:        25,
		Rotations:         []int{0, 90},
		EarlyExitScore:    60,
		MinPlausibleScore: 15,
	}
}
