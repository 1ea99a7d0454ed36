package idcard

import (
	"context"
	"fmt"
	"image"
	"os"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer backs the Recognizer capability with a gosseract
// client. One instance is scoped to one verification call.
type TesseractRecognizer struct {
	client *gosseract.Client
}

// NewTesseractRecognizer creates a client configured for the given language
// ("eng" when empty).
func NewTesseractRecognizer(lang string) (*TesseractRecognizer, error) {
	if lang == "" {
		lang = "eng"
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: set language: %v", ErrEngine, err)
	}
	return &TesseractRecognizer{client: client}, nil
}

// TesseractFactory returns an EngineFactory for the pipeline.
func TesseractFactory(lang string) EngineFactory {
	return func() (Recognizer, error) { return NewTesseractRecognizer(lang) }
}

// Close releases the underlying Tesseract client.
func (t *TesseractRecognizer) Close() error {
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

// Recognize runs one Tesseract pass over the buffer. The buffer goes to the
// engine through a temp PNG; gosseract reads files or raw bytes, and the
// PNG round trip keeps the handoff lossless.
func (t *TesseractRecognizer) Recognize(ctx context.Context, img image.Image, opts RecognizeOptions) (*Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp("", "idcard-*.png")
	if err != nil {
		return nil, fmt.Errorf("%w: temp file: %v", ErrEngine, err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(path)
	if err := imaging.Save(img, path); err != nil {
		return nil, fmt.Errorf("%w: save buffer: %v", ErrEngine, err)
	}

	if opts.SingleBlock {
		if err := t.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
			return nil, fmt.Errorf("%w: set psm: %v", ErrEngine, err)
		}
	} else {
		if err := t.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
			return nil, fmt.Errorf("%w: set psm: %v", ErrEngine, err)
		}
	}
	if opts.Whitelist != "" {
		if err := t.client.SetWhitelist(opts.Whitelist); err != nil {
			return nil, fmt.Errorf("%w: set whitelist: %v", ErrEngine, err)
		}
	}
	if err := t.client.SetImage(path); err != nil {
		return nil, fmt.Errorf("%w: set image: %v", ErrEngine, err)
	}

	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lineBoxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("%w: line boxes: %v", ErrEngine, err)
	}
	wordBoxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("%w: word boxes: %v", ErrEngine, err)
	}

	return &Recognition{Text: text, Lines: assembleLines(lineBoxes, wordBoxes)}, nil
}

// assembleLines turns Tesseract line and word boxes into RecognizedLines in
// top-to-bottom order, attaching each word to the line whose vertical span
// contains its center.
func assembleLines(lineBoxes, wordBoxes []gosseract.BoundingBox) []RecognizedLine {
	lines := make([]RecognizedLine, 0, len(lineBoxes))
	for _, lb := range lineBoxes {
		txt := strings.TrimSpace(strings.ReplaceAll(lb.Word, "\n", " "))
		if txt == "" {
			continue
		}
		lines = append(lines, RecognizedLine{
			Text:       txt,
			Confidence: lb.Confidence,
			Box:        Box{X0: lb.Box.Min.X, Y0: lb.Box.Min.Y, X1: lb.Box.Max.X, Y1: lb.Box.Max.Y},
		})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Box.Y0 < lines[j].Box.Y0 })

	for _, wb := range wordBoxes {
		txt := strings.TrimSpace(wb.Word)
		if txt == "" {
			continue
		}
		word := RecognizedWord{
			Text:       txt,
			Confidence: wb.Confidence,
			Box:        Box{X0: wb.Box.Min.X, Y0: wb.Box.Min.Y, X1: wb.Box.Max.X, Y1: wb.Box.Max.Y},
		}
		cy := (word.Box.Y0 + word.Box.Y1) / 2
		for i := range lines {
			if cy >= lines[i].Box.Y0 && cy <= lines[i].Box.Y1 {
				lines[i].Words = append(lines[i].Words, word)
				break
			}
		}
	}
	for i := range lines {
		sort.SliceStable(lines[i].Words, func(a, b int) bool {
			return lines[i].Words[a].Box.X0 < lines[i].Words[b].Box.X0
		})
	}
	return lines
}
