package idcard

import "errors"

// ErrBadImage is returned when the input bytes do not decode as an image.
var ErrBadImage = errors.New("input is not a decodable image")

// ErrNoName is carried in ScanResult.Reason when neither the located-field
// path nor the regex fallback yields a name.
var ErrNoName = errors.New("could not read the name; retake in better lighting")

// ErrEngine wraps recognition-engine failures. Not retried here; callers
// decide on retry/backoff.
var ErrEngine = errors.New("ocr engine failure")
