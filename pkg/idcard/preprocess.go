package idcard

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Buffer transforms. All pure: each returns a new NRGBA buffer and never
// mutates its input, so no buffer is aliased across pipeline stages.

// rotate turns the buffer by a right angle. Only 0/90/180/270 occur in the
// rotation trial set.
func rotate(img image.Image, degrees int) *image.NRGBA {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return imaging.Clone(img)
	}
}

// scaleUp enlarges the buffer so its shorter side is at least targetMin.
// No-op (clone) when the buffer is already large enough.
func scaleUp(img image.Image, targetMin int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	short := w
	if h < short {
		short = h
	}
	if short >= targetMin || short == 0 {
		return imaging.Clone(img)
	}
	if w <= h {
		return imaging.Resize(img, targetMin, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, targetMin, imaging.Lanczos)
}

// cropCanvas extracts the region, clamping it to buffer bounds first. A
// region partly outside the buffer shrinks to the valid intersection.
func cropCanvas(img image.Image, x, y, w, h int) *image.NRGBA {
	b := img.Bounds()
	r := image.Rect(x, y, x+w, y+h).Add(b.Min).Intersect(b)
	return imaging.Crop(img, r)
}

// upscale enlarges uniformly by factor; used on small cropped regions to
// give the recognizer more pixels.
func upscale(img image.Image, factor int) *image.NRGBA {
	if factor <= 1 {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, img.Bounds().Dx()*factor, 0, imaging.Lanczos)
}

// grayscale converts to luma using perceptual weights.
func grayscale(img image.Image) *image.NRGBA {
	return imaging.Grayscale(img)
}

// enhanceContrast stretches intensities around the midpoint by strength
// percent, clamped by the library.
func enhanceContrast(img image.Image, strength float64) *image.NRGBA {
	return imaging.AdjustContrast(img, strength)
}

// adaptiveThreshold binarizes each pixel against the mean of its
// blockSize² neighborhood minus bias. The neighborhood mean comes from an
// integral image, keeping the whole pass O(1) per pixel on full-resolution
// card photos; a global threshold fails on watermarks and uneven lighting.
func adaptiveThreshold(img image.Image, blockSize, bias int) *image.NRGBA {
	if blockSize < 3 {
		blockSize = 3
	}
	if blockSize%2 == 0 {
		blockSize++
	}
	src := imaging.Grayscale(img)
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	if w == 0 || h == 0 {
		return out
	}

	// Integral image over intensities. ints[y*w+x] = sum of the rectangle
	// (0,0)..(x,y) inclusive.
	ints := make([]int, w*h)
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			rowSum += int(src.Pix[y*src.Stride+x*4])
			idx := y*w + x
			if y == 0 {
				ints[idx] = rowSum
			} else {
				ints[idx] = ints[idx-w] + rowSum
			}
		}
	}

	half := blockSize / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := x-half, y-half
			x1, y1 := x+half, y+half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			if y1 >= h {
				y1 = h - 1
			}
			sum := ints[y1*w+x1]
			if x0 > 0 {
				sum -= ints[y1*w+x0-1]
			}
			if y0 > 0 {
				sum -= ints[(y0-1)*w+x1]
			}
			if x0 > 0 && y0 > 0 {
				sum += ints[(y0-1)*w+x0-1]
			}
			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			th := sum/area - bias
			if th < 0 {
				th = 0
			}
			pix := int(src.Pix[y*src.Stride+x*4])
			o := y*out.Stride + x*4
			if pix < th {
				out.Pix[o] = 0
				out.Pix[o+1] = 0
				out.Pix[o+2] = 0
			}
			out.Pix[o+3] = 255
		}
	}
	return out
}
