package idcard

import (
	"context"
	"image"
)

// RecognizeOptions configure one engine call.
type RecognizeOptions struct {
	// SingleBlock asks the engine to treat the image as one uniform block
	// of text. Both pipeline passes use it.
	SingleBlock bool
	// Whitelist restricts the recognized character set; empty means the
	// engine default.
	Whitelist string
}

// Recognizer is the injected OCR capability. Any engine exposing line/word
// boxes with per-word confidence satisfies it; tests inject a deterministic
// fake.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, opts RecognizeOptions) (*Recognition, error)
	Close() error
}

// EngineFactory builds a Recognizer scoped to one verification call. The
// pipeline acquires one per Extract and closes it on every exit path.
type EngineFactory func() (Recognizer, error)
