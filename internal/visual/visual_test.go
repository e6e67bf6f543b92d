package visual

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"siteqa/internal/report"
	"testing"

	"github.com/stretchr/testify/require"
)

func filled(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func TestCombineVertically(t *testing.T) {
	a := filled(100, 50, blue)
	b := filled(50, 40, red)

	combined := CombineVertically(a, b)
	require.Equal(t, 100, combined.Bounds().Dx())
	// b is scaled to 100x80
	require.Equal(t, 130, combined.Bounds().Dy())
	require.Equal(t, blue, combined.NRGBAAt(10, 10))
	require.Equal(t, blue, combined.NRGBAAt(99, 49))
	require.Equal(t, red, combined.NRGBAAt(50, 90))
	require.Equal(t, red, combined.NRGBAAt(99, 129))
}

func TestCombineVerticallyWhiteBackground(t *testing.T) {
	transparent := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	combined := CombineVertically(transparent, filled(10, 10, black))
	require.Equal(t, white, combined.NRGBAAt(5, 5))
	require.Equal(t, black, combined.NRGBAAt(5, 15))
}

func TestDiffIdentical(t *testing.T) {
	a := filled(8, 8, blue)
	result, err := Diff(a, filled(8, 8, blue), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0, result.Pixels)
	require.Equal(t, image.Rect(0, 0, 8, 8), result.Image.Bounds())
}

func TestDiffChangedPixel(t *testing.T) {
	a := filled(4, 4, white)
	b := filled(4, 4, white)
	b.Set(1, 1, red)

	result, err := Diff(a, b, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, result.Pixels)
	require.Equal(t, red, result.Image.NRGBAAt(1, 1))
}

func TestDiffBelowThreshold(t *testing.T) {
	a := filled(4, 4, white)
	b := filled(4, 4, color.NRGBA{R: 250, G: 250, B: 250, A: 255})

	result, err := Diff(a, b, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0, result.Pixels)
}

// edge returns a black and white image split by a gray anti-aliased column.
func edge(gray uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		img.Set(0, y, black)
		img.Set(1, y, black)
		img.Set(2, y, color.NRGBA{R: gray, G: gray, B: gray, A: 255})
		img.Set(3, y, white)
		img.Set(4, y, white)
	}
	return img
}

func TestDiffIgnoresAntialiasing(t *testing.T) {
	a := edge(128)
	b := edge(90)

	result, err := Diff(a, b, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0, result.Pixels)
	require.Equal(t, color.NRGBA{R: 255, G: 255, A: 255}, result.Image.NRGBAAt(2, 2))

	opts := DefaultOptions()
	opts.IncludeAA = true
	result, err = Diff(a, b, opts)
	require.NoError(t, err)
	require.Equal(t, 5, result.Pixels)
}

func TestDiffSizeMismatch(t *testing.T) {
	_, err := Diff(filled(4, 4, white), filled(4, 5, white), DefaultOptions())
	require.True(t, errors.Is(err, ErrSizeMismatch))
	require.EqualError(t, err, "image size mismatch: 4x4 vs 4x5")
}

func TestCompareScreenshots(t *testing.T) {
	dir := t.TempDir()
	c := newComparison(dir, "empty email")

	require.NoError(t, WritePNG(c.HomepagePath, filled(20, 10, white)))
	thanks := filled(20, 10, white)
	thanks.Set(3, 3, red)
	thanks.Set(4, 3, red)
	require.NoError(t, WritePNG(c.ThankYouPath, thanks))

	var attachments report.Attachments
	c, err := CompareScreenshots(&attachments, c)
	require.NoError(t, err)
	require.True(t, c.Different())
	require.NoError(t, c.Expect())
	require.Equal(t, 2, c.DiffPixels)

	combined, err := ReadPNG(filepath.Join(dir, "combined.png"))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 20, 20), combined.Bounds())
	_, err = os.Stat(filepath.Join(dir, "diff.png"))
	require.NoError(t, err)

	labels := []string{}
	for _, a := range attachments.List() {
		labels = append(labels, a.Label)
	}
	require.Equal(t, []string{
		"Homepage Screenshot - empty email",
		"Thank-you Screenshot - empty email",
		"Combined Screenshot - empty email",
		"Diff - empty email",
	}, labels)
}

func TestCompareScreenshotsSame(t *testing.T) {
	dir := t.TempDir()
	c := newComparison(dir, "same")
	require.NoError(t, WritePNG(c.HomepagePath, filled(5, 5, blue)))
	require.NoError(t, WritePNG(c.ThankYouPath, filled(5, 5, blue)))

	c, err := CompareScreenshots(&report.Attachments{}, c)
	require.NoError(t, err)
	require.EqualError(t, c.Expect(), "expected visual difference for same")
}

func TestPrepareDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "screenshots")
	require.NoError(t, os.MkdirAll(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.png"), []byte("x"), 0644))

	require.NoError(t, PrepareDir(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.png"), []byte("x"), 0644))
	require.NoError(t, PrepareDir(dir, "invalidEmail", "withoutEmail"))
	require.NoFileExists(t, filepath.Join(dir, "stale.png"))
	require.DirExists(t, filepath.Join(dir, "invalidEmail"))
	require.DirExists(t, filepath.Join(dir, "withoutEmail"))
}
