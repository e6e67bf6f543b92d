package visual

import (
	"errors"
	"fmt"
	"image"

	"github.com/orisano/pixelmatch"
)

// DefaultThreshold is the per pixel color distance, from 0 to 1, above
// which two pixels count as different.
const DefaultThreshold = 0.1

// ErrSizeMismatch is returned when comparing images of different sizes.
var ErrSizeMismatch = errors.New("image size mismatch")

type Options struct {
	Threshold float64
	// count anti-aliased pixels as differences
	IncludeAA bool
}

func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

// DiffResult is the outcome of comparing two images.
type DiffResult struct {
	// amount of pixels that differ, not counting anti-aliasing
	Pixels int
	// differing pixels in red, anti-aliased pixels in yellow, the rest is
	// a faded grayscale of the first image.
	Image *image.NRGBA
}

// Diff compares two images of the same size with pixelmatch.
func Diff(a, b image.Image, opts Options) (DiffResult, error) {
	if a.Bounds().Dx() != b.Bounds().Dx() || a.Bounds().Dy() != b.Bounds().Dy() {
		return DiffResult{}, fmt.Errorf(
			"%w: %dx%d vs %dx%d",
			ErrSizeMismatch,
			a.Bounds().Dx(), a.Bounds().Dy(),
			b.Bounds().Dx(), b.Bounds().Dy(),
		)
	}

	var out image.Image
	matchOpts := []pixelmatch.MatchOption{
		pixelmatch.Threshold(opts.Threshold),
		pixelmatch.WriteTo(&out),
	}
	if opts.IncludeAA {
		matchOpts = append(matchOpts, pixelmatch.IncludeAntiAlias)
	}
	pixels, err := pixelmatch.MatchPixel(toNRGBA(a), toNRGBA(b), matchOpts...)
	if err != nil {
		return DiffResult{}, fmt.Errorf("match pixels: %w", err)
	}
	// identical images may come back without a diff image
	if out == nil {
		out = a
	}
	return DiffResult{Pixels: pixels, Image: toNRGBA(out)}, nil
}

// Compare diffs two png files with the given threshold, writes the diff
// image to diffPath and returns the amount of differing pixels.
func Compare(aPath, bPath, diffPath string, threshold float64) (int, error) {
	a, err := ReadPNG(aPath)
	if err != nil {
		return 0, err
	}
	b, err := ReadPNG(bPath)
	if err != nil {
		return 0, err
	}

	opts := DefaultOptions()
	opts.Threshold = threshold
	result, err := Diff(a, b, opts)
	if err != nil {
		return 0, err
	}
	err = WritePNG(diffPath, result.Image)
	if err != nil {
		return 0, err
	}
	return result.Pixels, nil
}
