package idcard

import "image"

// Box is an axis-aligned pixel rectangle in the coordinate space of the
// buffer the text was recognized from.
type Box struct {
	X0, Y0, X1, Y1 int
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b Box) Height() int { return b.Y1 - b.Y0 }

// RecognizedWord is a single word with its confidence (0-100) and box.
type RecognizedWord struct {
	Text       string
	Confidence float64
	Box        Box
}

// RecognizedLine is one text line in top-to-bottom reading order. Words are
// ordered left to right.
type RecognizedLine struct {
	Text       string
	Confidence float64
	Box        Box
	Words      []RecognizedWord
}

// Recognition is the output of one engine call.
type Recognition struct {
	Text  string
	Lines []RecognizedLine
}

// NameLocation points at the located "Name" label line. Valid only relative
// to the RecognizedLine list it was computed from.
type NameLocation struct {
	LineIndex   int
	ValueStartX int
	LineBox     Box
}

// CropRegion is a rectangle in the coordinate space of the buffer that
// produced the line list it was derived from. Rescale before applying to a
// differently sized buffer.
type CropRegion struct {
	X, Y, W, H int
}

// Rescale maps the region into the coordinate space of a buffer with the
// given dimensions, given the source buffer's dimensions.
func (r CropRegion) Rescale(srcW, srcH, dstW, dstH int) CropRegion {
	if srcW <= 0 || srcH <= 0 {
		return r
	}
	sx := float64(dstW) / float64(srcW)
	sy := float64(dstH) / float64(srcH)
	return CropRegion{
		X: int(float64(r.X) * sx),
		Y: int(float64(r.Y) * sy),
		W: int(float64(r.W) * sx),
		H: int(float64(r.H) * sy),
	}
}

// passOneResult holds the best full-card recognition across rotation trials.
type passOneResult struct {
	Text     string
	Lines    []RecognizedLine
	Score    int
	Rotation int
	Pre      image.Image // preprocessed buffer recognition ran on
	Rotated  image.Image // unpreprocessed rotated original
}

// ScanResult is the pipeline output. Immutable after construction; the
// caller owns persistence.
type ScanResult struct {
	Valid       bool    `json:"valid"`
	Name        string  `json:"name,omitempty"`
	RegNo       string  `json:"reg_no,omitempty"`
	Institution string  `json:"institution,omitempty"`
	Confidence  float64 `json:"confidence"`
	Reason      string  `json:"reason,omitempty"`
}

// MatchResult is the fuzzy name comparison output.
type MatchResult struct {
	Match      bool    `json:"match"`
	Similarity float64 `json:"similarity"`
}
