package idcard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// fakeEngine replays a scripted sequence of recognitions so orchestrator
// behavior is deterministic without Tesseract.
type fakeEngine struct {
	script []*Recognition
	fail   error
	calls  int
	closed int
	ctxErr bool
}

func (f *fakeEngine) Recognize(ctx context.Context, img image.Image, opts RecognizeOptions) (*Recognition, error) {
	if f.ctxErr {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if f.fail != nil {
		return nil, f.fail
	}
	if f.calls >= len(f.script) {
		return &Recognition{}, nil
	}
	r := f.script[f.calls]
	f.calls++
	return r, nil
}

func (f *fakeEngine) Close() error {
	f.closed++
	return nil
}

func cardImageBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func fullCardRecognition() *Recognition {
	text := "SRM Institute of Science and Technology\nName: REVANTH SAI\nRegister No: RA2111003010001\nProgramme: B.Tech"
	return &Recognition{
		Text: text,
		Lines: []RecognizedLine{
			{Text: "SRM Institute of Science and Technology", Box: Box{100, 80, 1400, 150}},
			{Text: "Name: REVANTH SAI", Box: Box{100, 200, 900, 260}, Words: []RecognizedWord{
				{Text: "Name:", Confidence: 92, Box: Box{100, 200, 220, 260}},
				{Text: "REVANTH", Confidence: 80, Box: Box{250, 200, 560, 260}},
				{Text: "SAI", Confidence: 75, Box: Box{590, 200, 700, 260}},
			}},
			{Text: "Register No: RA2111003010001", Box: Box{100, 300, 1100, 360}},
		},
	}
}

func variantRecognition(text string, conf float64) *Recognition {
	return &Recognition{
		Text: text,
		Lines: []RecognizedLine{{Text: text, Box: Box{0, 0, 500, 60}, Words: []RecognizedWord{
			{Text: text, Confidence: conf, Box: Box{0, 0, 500, 60}},
		}}},
	}
}

func TestExtractLocatedFieldPath(t *testing.T) {
	fake := &fakeEngine{script: []*Recognition{
		fullCardRecognition(), // rot 0, scores past early exit
		variantRecognition("REVANTH SAI", 80),
		variantRecognition("REVANTH SA", 90),
		variantRecognition("RE", 99),
	}}
	p := New(DefaultCardLayout(), func() (Recognizer, error) { return fake, nil })

	res, err := p.Extract(context.Background(), cardImageBytes(t, 1600, 1200))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid result: %+v", res)
	}
	if res.Name != "REVANTH SAI" {
		t.Fatalf("expected longest cleaned variant to win, got %q", res.Name)
	}
	if res.RegNo != "RA2111003010001" {
		t.Fatalf("reg no not extracted from pass-1 text: %q", res.RegNo)
	}
	if res.Institution != DefaultCardLayout().Institution {
		t.Fatalf("expected institution label, got %q", res.Institution)
	}
	if res.Confidence < 0.79 || res.Confidence > 0.81 {
		t.Fatalf("expected confidence ~0.80 got %.3f", res.Confidence)
	}
	// Early exit after the first rotation: 1 pass-1 call + 3 variants.
	if fake.calls != 4 {
		t.Fatalf("expected 4 engine calls got %d", fake.calls)
	}
	if fake.closed != 1 {
		t.Fatalf("engine must be closed exactly once, got %d", fake.closed)
	}
}

func TestExtractFallbackWhenNoNameLine(t *testing.T) {
	// Text carries a garbled label but line boxes never match, so the
	// regex fallback must produce the name at fixed low confidence.
	rec := &Recognition{Text: "nam3 Divya Menon\nDegree B.Tech"}
	fake := &fakeEngine{script: []*Recognition{rec, rec}}
	p := New(DefaultCardLayout(), func() (Recognizer, error) { return fake, nil })

	res, err := p.Extract(context.Background(), cardImageBytes(t, 800, 600))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !res.Valid || res.Name != "DIVYA MENON" {
		t.Fatalf("expected fallback name, got %+v", res)
	}
	if res.Confidence != 0.3 {
		t.Fatalf("fallback confidence must be 0.3, got %.2f", res.Confidence)
	}
	// Low score: both rotations tried, no pass 2.
	if fake.calls != 2 {
		t.Fatalf("expected 2 engine calls got %d", fake.calls)
	}
	if fake.closed != 1 {
		t.Fatalf("engine must be closed exactly once, got %d", fake.closed)
	}
}

func TestExtractFallbackWhenPassTwoNearEmpty(t *testing.T) {
	fake := &fakeEngine{script: []*Recognition{
		fullCardRecognition(),
		variantRecognition("x", 50),
		variantRecognition("", 0),
		variantRecognition(".", 10),
	}}
	p := New(DefaultCardLayout(), func() (Recognizer, error) { return fake, nil })

	res, err := p.Extract(context.Background(), cardImageBytes(t, 1600, 1200))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !res.Valid || res.Name != "REVANTH SAI" {
		t.Fatalf("expected regex fallback from pass-1 text, got %+v", res)
	}
	if res.Confidence != 0.3 {
		t.Fatalf("fallback confidence must be 0.3, got %.2f", res.Confidence)
	}
}

func TestExtractTerminalFailure(t *testing.T) {
	rec := &Recognition{Text: "zz qq 11"}
	fake := &fakeEngine{script: []*Recognition{rec, rec}}
	p := New(DefaultCardLayout(), func() (Recognizer, error) { return fake, nil })

	res, err := p.Extract(context.Background(), cardImageBytes(t, 800, 600))
	if err != nil {
		t.Fatalf("terminal extraction failure must not be a hard error: %v", err)
	}
	if res.Valid {
		t.Fatalf("expected invalid result, got %+v", res)
	}
	if res.Reason == "" {
		t.Fatalf("expected human-readable reason")
	}
	if res.Institution != "unknown" {
		t.Fatalf("expected unknown institution below plausibility floor, got %q", res.Institution)
	}
	if fake.closed != 1 {
		t.Fatalf("engine must be closed on the failure path, got %d", fake.closed)
	}
}

func TestExtractDecodeFailure(t *testing.T) {
	factoryCalled := false
	p := New(DefaultCardLayout(), func() (Recognizer, error) {
		factoryCalled = true
		return &fakeEngine{}, nil
	})
	res, err := p.Extract(context.Background(), []byte("definitely not an image"))
	if !errors.Is(err, ErrBadImage) {
		t.Fatalf("expected ErrBadImage got %v", err)
	}
	if res.Valid || res.Reason == "" {
		t.Fatalf("decode failure must yield invalid result with reason: %+v", res)
	}
	if factoryCalled {
		t.Fatalf("engine must not be acquired for undecodable input")
	}
}

func TestExtractEngineFailurePropagates(t *testing.T) {
	fake := &fakeEngine{fail: fmt.Errorf("%w: tesseract exploded", ErrEngine)}
	p := New(DefaultCardLayout(), func() (Recognizer, error) { return fake, nil })
	_, err := p.Extract(context.Background(), cardImageBytes(t, 400, 300))
	if !errors.Is(err, ErrEngine) {
		t.Fatalf("expected engine error got %v", err)
	}
	if fake.closed != 1 {
		t.Fatalf("engine must be closed on the error path, got %d", fake.closed)
	}
}

func TestExtractCancellation(t *testing.T) {
	fake := &fakeEngine{script: []*Recognition{fullCardRecognition()}, ctxErr: true}
	p := New(DefaultCardLayout(), func() (Recognizer, error) { return fake, nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Extract(ctx, cardImageBytes(t, 400, 300))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled got %v", err)
	}
	if fake.closed != 1 {
		t.Fatalf("engine must be closed after cancellation, got %d", fake.closed)
	}
}
