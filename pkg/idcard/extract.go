package idcard

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	passOneMinSide  = 1200 // shorter side after Pass-1 scale-up
	passOneContrast = 20
	cropUpscale     = 3 // Pass-2 upscale factor on the name region
	nameWhitelist   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz. "
)

// Pipeline runs the two-pass identity-card extraction. Each Extract call is
// independent: an engine is acquired from the factory at the start and
// closed on every exit path.
type Pipeline struct {
	layout    CardLayout
	newEngine EngineFactory
}

// New builds a pipeline for the given card layout and engine factory.
func New(layout CardLayout, factory EngineFactory) *Pipeline {
	return &Pipeline{layout: layout, newEngine: factory}
}

// NewDefault builds a pipeline for the default card layout backed by
// Tesseract.
func NewDefault(lang string) *Pipeline {
	return New(DefaultCardLayout(), TesseractFactory(lang))
}

// Extract decodes the image bytes and runs both passes, returning a
// best-effort ScanResult. Undecodable input yields an invalid ScanResult
// wrapped around ErrBadImage; engine failure and cancellation propagate as
// hard errors.
func (p *Pipeline) Extract(ctx context.Context, imageBytes []byte) (ScanResult, error) {
	src, err := imaging.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return ScanResult{Valid: false, Reason: "image could not be decoded; upload a JPG or PNG photo"},
			fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	eng, err := p.newEngine()
	if err != nil {
		return ScanResult{}, err
	}
	defer eng.Close()

	best, err := p.passOne(ctx, eng, src)
	if err != nil {
		return ScanResult{}, err
	}

	loc, found := p.layout.findNameLine(best.Lines)
	if !found {
		log.Printf("idcard: no name line located (rot=%d score=%d), using fallback", best.Rotation, best.Score)
		return p.fallbackResult(best), nil
	}

	name, conf, err := p.passTwo(ctx, eng, best, loc)
	if err != nil {
		return ScanResult{}, err
	}
	if len(name) < 2 {
		log.Printf("idcard: pass-2 yield too small (%q), using fallback", name)
		return p.fallbackResult(best), nil
	}

	res := ScanResult{
		Valid:       true,
		Name:        strings.ToUpper(name),
		RegNo:       p.layout.ExtractRegNo(best.Text),
		Institution: p.institutionLabel(best.Score),
		Confidence:  conf,
	}
	log.Printf("idcard: extracted name=%q regno=%q rot=%d score=%d conf=%.2f",
		res.Name, res.RegNo, best.Rotation, best.Score, res.Confidence)
	return res, nil
}

// passOne runs full-card recognition across the rotation candidate set and
// keeps the highest layout score, exiting early once the score clears the
// threshold. Worst case is one recognition per candidate.
func (p *Pipeline) passOne(ctx context.Context, eng Recognizer, src image.Image) (*passOneResult, error) {
	rotations := p.layout.Rotations
	if len(rotations) == 0 {
		rotations = []int{0}
	}
	var best *passOneResult
	for _, deg := range rotations {
		rotated := rotate(src, deg)
		pre := scaleUp(enhanceContrast(grayscale(rotated), passOneContrast), passOneMinSide)
		rec, err := eng.Recognize(ctx, pre, RecognizeOptions{SingleBlock: true})
		if err != nil {
			return nil, err
		}
		score := p.layout.ScoreLayout(rec.Text)
		log.Printf("idcard: pass-1 rot=%d score=%d lines=%d", deg, score, len(rec.Lines))
		if best == nil || score > best.Score {
			best = &passOneResult{
				Text:     rec.Text,
				Lines:    rec.Lines,
				Score:    score,
				Rotation: deg,
				Pre:      pre,
				Rotated:  rotated,
			}
		}
		if score >= p.layout.EarlyExitScore {
			break
		}
	}
	return best, nil
}

// passTwo crops the located name region out of the sharper unpreprocessed
// rotation, upscales it, and recognizes several denoising variants.
// Different photos respond to different strategies, so the best of several
// beats committing to one. Returns the winning cleaned name and a 0-1
// confidence.
func (p *Pipeline) passTwo(ctx context.Context, eng Recognizer, best *passOneResult, loc NameLocation) (string, float64, error) {
	preB := best.Pre.Bounds()
	origB := best.Rotated.Bounds()
	crop := p.layout.planCrop(best.Lines, loc, preB.Dx())
	// Recognition ran on the smoothed buffer but cropping wants the
	// original pixels, so map the region across.
	crop = crop.Rescale(preB.Dx(), preB.Dy(), origB.Dx(), origB.Dy())

	region := cropCanvas(best.Rotated, crop.X, crop.Y, crop.W, crop.H)
	if region.Bounds().Dx() == 0 || region.Bounds().Dy() == 0 {
		return "", 0, nil
	}
	gray := grayscale(upscale(region, cropUpscale))

	variants := []image.Image{
		adaptiveThreshold(gray, 25, 12),
		adaptiveThreshold(gray, 41, 10),
		enhanceContrast(gray, 60),
	}

	bestName := ""
	bestConf := 0.0
	for i, v := range variants {
		rec, err := eng.Recognize(ctx, v, RecognizeOptions{SingleBlock: true, Whitelist: nameWhitelist})
		if err != nil {
			return "", 0, err
		}
		cleaned := p.layout.CleanName(rec.Text)
		conf := meanWordConfidence(rec.Lines)
		log.Printf("idcard: pass-2 variant=%d cleaned=%q conf=%.1f", i, cleaned, conf)
		// Longest cleaned text wins: truncation is the dominant failure
		// mode on this field. Ties go to the higher mean confidence.
		if len(cleaned) > len(bestName) || (len(cleaned) == len(bestName) && conf > bestConf) {
			bestName = cleaned
			bestConf = conf
		}
	}
	conf := bestConf / 100
	if conf > 1 {
		conf = 1
	}
	return bestName, conf, nil
}

// fallbackResult extracts a name from the full Pass-1 text by regex when
// the located-field path failed or came back near-empty.
func (p *Pipeline) fallbackResult(best *passOneResult) ScanResult {
	regNo := p.layout.ExtractRegNo(best.Text)
	inst := p.institutionLabel(best.Score)
	name := p.layout.ExtractNameFallback(best.Text)
	if name == "" {
		return ScanResult{
			Valid:       false,
			RegNo:       regNo,
			Institution: inst,
			Reason:      ErrNoName.Error(),
		}
	}
	return ScanResult{
		Valid:       true,
		Name:        name,
		RegNo:       regNo,
		Institution: inst,
		Confidence:  0.3, // fallback path carries fixed low confidence
	}
}

func (p *Pipeline) institutionLabel(score int) string {
	if score >= p.layout.MinPlausibleScore {
		return p.layout.Institution
	}
	return "unknown"
}

func meanWordConfidence(lines []RecognizedLine) float64 {
	sum := 0.0
	n := 0
	for _, l := range lines {
		for _, w := range l.Words {
			sum += w.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
