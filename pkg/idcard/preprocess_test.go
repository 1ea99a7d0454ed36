package idcard

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestRotateCycleRestoresDimensions(t *testing.T) {
	img := imaging.New(320, 200, color.NRGBA{255, 255, 255, 255})
	r := rotate(img, 90)
	if r.Bounds().Dx() != 200 || r.Bounds().Dy() != 320 {
		t.Fatalf("rotate 90 should swap dims, got %dx%d", r.Bounds().Dx(), r.Bounds().Dy())
	}
	back := rotate(r, 270)
	if back.Bounds().Dx() != 320 || back.Bounds().Dy() != 200 {
		t.Fatalf("90+270 should restore dims, got %dx%d", back.Bounds().Dx(), back.Bounds().Dy())
	}
}

func TestRotateZeroClones(t *testing.T) {
	img := imaging.New(10, 10, color.NRGBA{0, 0, 0, 255})
	out := rotate(img, 0)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("rotate 0 changed bounds")
	}
	// Must be a new buffer, not an alias.
	out.Pix[0] = 99
	if img.Pix[0] == 99 {
		t.Fatalf("rotate 0 aliased the source buffer")
	}
}

func TestScaleUpNoOpWhenLargeEnough(t *testing.T) {
	img := imaging.New(1400, 1300, color.NRGBA{255, 255, 255, 255})
	out := scaleUp(img, 1200)
	if out.Bounds().Dx() != 1400 || out.Bounds().Dy() != 1300 {
		t.Fatalf("expected no-op, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestScaleUpReachesTargetOnShortSide(t *testing.T) {
	img := imaging.New(400, 300, color.NRGBA{255, 255, 255, 255})
	out := scaleUp(img, 600)
	if out.Bounds().Dy() != 600 {
		t.Fatalf("expected short side 600, got %d", out.Bounds().Dy())
	}
	if out.Bounds().Dx() < 400 || out.Bounds().Dy() < 300 {
		t.Fatalf("scaleUp must never shrink, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestCropCanvasClampsToBounds(t *testing.T) {
	img := imaging.New(100, 80, color.NRGBA{255, 255, 255, 255})
	out := cropCanvas(img, 60, 40, 200, 200)
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 40 {
		t.Fatalf("expected clamped 40x40 crop, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
	out2 := cropCanvas(img, -20, -20, 50, 50)
	if out2.Bounds().Dx() != 30 || out2.Bounds().Dy() != 30 {
		t.Fatalf("expected clamped 30x30 crop, got %dx%d", out2.Bounds().Dx(), out2.Bounds().Dy())
	}
}

func TestUpscaleFactor(t *testing.T) {
	img := imaging.New(50, 20, color.NRGBA{255, 255, 255, 255})
	out := upscale(img, 3)
	if out.Bounds().Dx() != 150 || out.Bounds().Dy() != 60 {
		t.Fatalf("expected 150x60 got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestAdaptiveThresholdIsBinary(t *testing.T) {
	// Gradient image: every output sample must be exactly 0 or 255.
	img := imaging.New(64, 64, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8((x * 4) % 256)
			img.Set(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	out := adaptiveThreshold(img, 15, 7)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			p := out.Pix[y*out.Stride+x*4]
			if p != 0 && p != 255 {
				t.Fatalf("non-binary sample %d at (%d,%d)", p, x, y)
			}
		}
	}
}

func TestAdaptiveThresholdSeparatesInkFromPaper(t *testing.T) {
	// Dark text stroke on bright paper with a mild gradient; the stroke
	// must come out black and the paper white.
	img := imaging.New(60, 60, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			v := uint8(200 + y/3)
			img.Set(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	for x := 10; x < 50; x++ {
		img.Set(x, 30, color.NRGBA{20, 20, 20, 255})
	}
	out := adaptiveThreshold(img, 15, 7)
	if out.Pix[30*out.Stride+20*4] != 0 {
		t.Fatalf("ink pixel should binarize to black")
	}
	if out.Pix[5*out.Stride+20*4] != 255 {
		t.Fatalf("paper pixel should binarize to white")
	}
}

func TestEnhanceContrastPure(t *testing.T) {
	img := imaging.New(8, 8, color.NRGBA{100, 100, 100, 255})
	out := enhanceContrast(img, 40)
	if &out.Pix[0] == &img.Pix[0] {
		t.Fatalf("enhanceContrast returned an aliased buffer")
	}
	if img.Pix[0] != 100 {
		t.Fatalf("enhanceContrast mutated its input")
	}
}

func TestGrayscaleLuma(t *testing.T) {
	img := imaging.New(4, 4, color.NRGBA{255, 0, 0, 255})
	out := grayscale(img)
	r := out.Pix[0]
	g := out.Pix[1]
	b := out.Pix[2]
	if r != g || g != b {
		t.Fatalf("grayscale output not gray: %d %d %d", r, g, b)
	}
	if r < 54 || r > 100 {
		t.Fatalf("red luma out of expected range: %d", r)
	}
}
