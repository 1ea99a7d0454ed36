package idcard

import "testing"

func lineWithWords(text string, box Box, words ...RecognizedWord) RecognizedLine {
	return RecognizedLine{Text: text, Confidence: 90, Box: box, Words: words}
}

func TestFindNameLineWithSeparatorWord(t *testing.T) {
	l := DefaultCardLayout()
	lines := []RecognizedLine{
		lineWithWords("SRM Institute", Box{10, 10, 600, 40}),
		lineWithWords("Name: JOHN SMITH", Box{10, 50, 600, 80},
			RecognizedWord{Text: "Name:", Confidence: 92, Box: Box{10, 50, 120, 80}},
			RecognizedWord{Text: "JOHN", Confidence: 88, Box: Box{140, 50, 260, 80}},
			RecognizedWord{Text: "SMITH", Confidence: 85, Box: Box{280, 50, 420, 80}},
		),
	}
	loc, ok := l.findNameLine(lines)
	if !ok {
		t.Fatalf("expected name line to be found")
	}
	if loc.LineIndex != 1 {
		t.Fatalf("expected line index 1 got %d", loc.LineIndex)
	}
	if loc.ValueStartX != 120 {
		t.Fatalf("expected value start at separator word edge 120 got %d", loc.ValueStartX)
	}
}

func TestFindNameLineEstimatesValueStart(t *testing.T) {
	l := DefaultCardLayout()
	// No word carries the separator glyph; the value start falls back to
	// 25% into the line box.
	lines := []RecognizedLine{
		lineWithWords("Name JOHN SMITH", Box{0, 50, 400, 80},
			RecognizedWord{Text: "Name", Confidence: 90, Box: Box{0, 50, 90, 80}},
			RecognizedWord{Text: "JOHN", Confidence: 90, Box: Box{110, 50, 200, 80}},
		),
	}
	loc, ok := l.findNameLine(lines)
	if !ok {
		t.Fatalf("expected name line to be found")
	}
	if loc.ValueStartX != 100 {
		t.Fatalf("expected 25%% estimate 100 got %d", loc.ValueStartX)
	}
}

func TestFindNameLineTolerantLabel(t *testing.T) {
	l := DefaultCardLayout()
	lines := []RecognizedLine{lineWithWords("Narne; REVANTH", Box{0, 0, 400, 30})}
	if _, ok := l.findNameLine(lines); !ok {
		t.Fatalf("expected OCR-confused label to be located")
	}
}

func TestFindNameLineMiss(t *testing.T) {
	l := DefaultCardLayout()
	lines := []RecognizedLine{lineWithWords("Programme: B.Tech", Box{0, 0, 400, 30})}
	if _, ok := l.findNameLine(lines); ok {
		t.Fatalf("expected no name line")
	}
}

func TestPlanCropPadding(t *testing.T) {
	l := DefaultCardLayout()
	lines := []RecognizedLine{
		lineWithWords("Name: REVANTH", Box{10, 100, 600, 140}),
		lineWithWords("Register No: RA2111003010001", Box{10, 150, 600, 190}),
	}
	loc := NameLocation{LineIndex: 0, ValueStartX: 120, LineBox: lines[0].Box}
	crop := l.planCrop(lines, loc, 800)
	// line height 40 -> pad 12
	if crop.Y != 88 {
		t.Fatalf("expected top pad to 88 got %d", crop.Y)
	}
	if crop.X != 120 || crop.W != 680 {
		t.Fatalf("expected horizontal extent 120..800 got x=%d w=%d", crop.X, crop.W)
	}
	// Next line is a field label, so the crop must not extend over it.
	if crop.Y+crop.H != 152 {
		t.Fatalf("expected bottom at 152 got %d", crop.Y+crop.H)
	}
}

func TestPlanCropExtendsOverWrappedName(t *testing.T) {
	l := DefaultCardLayout()
	lines := []RecognizedLine{
		lineWithWords("Name: VENKATA SUBRAHMANYAM", Box{10, 100, 600, 140}),
		lineWithWords("CHAKRAVARTHY", Box{150, 150, 500, 190}),
	}
	loc := NameLocation{LineIndex: 0, ValueStartX: 120, LineBox: lines[0].Box}
	crop := l.planCrop(lines, loc, 800)
	if crop.Y+crop.H != 202 {
		t.Fatalf("expected crop to cover wrapped line, bottom=%d want 202", crop.Y+crop.H)
	}
}

func TestPlanCropMinimumPad(t *testing.T) {
	l := DefaultCardLayout()
	lines := []RecognizedLine{lineWithWords("Name: X Y", Box{0, 20, 300, 30})}
	loc := NameLocation{LineIndex: 0, ValueStartX: 60, LineBox: lines[0].Box}
	crop := l.planCrop(lines, loc, 400)
	// line height 10 -> 0.3*10=3, floor of 8 applies
	if crop.Y != 12 {
		t.Fatalf("expected 8px floor pad, y=%d want 12", crop.Y)
	}
}

func TestCropRegionRescale(t *testing.T) {
	r := CropRegion{X: 100, Y: 50, W: 200, H: 40}
	got := r.Rescale(1000, 500, 2000, 1000)
	want := CropRegion{X: 200, Y: 100, W: 400, H: 80}
	if got != want {
		t.Fatalf("rescale got %+v want %+v", got, want)
	}
}
